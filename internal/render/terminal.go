// Package render draws a scene tree, as braille text for the terminal or
// as an SVG document.
package render

import (
	"math"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"vaxmap/internal/scene"
)

// Background is the color shapes are blended onto by their opacity.
var Background = colorful.Color{R: 0.106, G: 0.122, B: 0.153}

// Viewport maps scene units onto a grid of braille cells, scaled evenly
// and centered.
type Viewport struct {
	Cols, Rows    int
	Width, Height float64
}

// micro pixels per scene unit and the centering offset
func (v Viewport) scale() (k, ox, oy float64) {
	if v.Width <= 0 || v.Height <= 0 || v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0, 0
	}
	mw, mh := float64(v.Cols*2), float64(v.Rows*4)
	k = math.Min(mw/v.Width, mh/v.Height)
	return k, (mw - v.Width*k) / 2, (mh - v.Height*k) / 2
}

// Micro returns the micro pixel under a scene point.
func (v Viewport) Micro(x, y float64) (int, int) {
	k, ox, oy := v.scale()
	return int(math.Floor(x*k + ox)), int(math.Floor(y*k + oy))
}

// Cell returns the cell under a scene point.
func (v Viewport) Cell(x, y float64) (col, row int) {
	mx, my := v.Micro(x, y)
	return floorDiv(mx, 2), floorDiv(my, 4)
}

// Scene returns the scene point at the middle of a cell.
func (v Viewport) Scene(col, row int) (x, y float64) {
	k, ox, oy := v.scale()
	if k == 0 {
		return 0, 0
	}
	return (float64(col*2+1) - ox) / k, (float64(row*4+2) - oy) / k
}

// Fit sizes a scene to fill cols x rows cells at a base width, keeping the
// micro pixels square.
func Fit(cols, rows int, width float64) Viewport {
	h := 0.0
	if cols > 0 {
		h = math.Round(width * float64(rows*4) / float64(cols*2))
	}
	return Viewport{Cols: cols, Rows: rows, Width: width, Height: h}
}

// Terminal renders root into cols x rows braille cells. at is the
// animation clock for pulsing circles.
func Terminal(root *scene.Root, cols, rows int, at time.Duration) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	v := Viewport{Cols: cols, Rows: rows, Width: root.Width, Height: root.Height}
	t := &terminal{vp: v, buf: newBrailleBuf(cols, rows), at: at}
	t.k, _, _ = v.scale()
	for _, c := range root.Children {
		t.draw(c, 0, 0)
	}
	return strings.Join(t.buf.toLines(), "\n")
}

type terminal struct {
	vp  Viewport
	k   float64
	buf *brailleBuf
	at  time.Duration
}

func (t *terminal) draw(n *scene.Node, dx, dy float64) {
	if n.Hidden {
		return
	}
	switch n.Kind {
	case scene.Group:
		for _, c := range n.Children {
			t.draw(c, dx+n.X, dy+n.Y)
		}
	case scene.Path:
		t.path(n, dx, dy)
	case scene.Circle:
		t.circle(n, dx, dy)
	case scene.Text:
		t.label(n, dx, dy)
	}
}

func (t *terminal) path(n *scene.Node, dx, dy float64) {
	s := n.Style
	var rings [][][2]int
	for _, l := range n.Lines {
		pts := make([][2]int, 0, len(l.Points))
		for _, p := range l.Points {
			mx, my := t.vp.Micro(p[0]+dx, p[1]+dy)
			pts = append(pts, [2]int{mx, my})
		}
		if l.Closed && len(pts) >= 3 {
			rings = append(rings, pts)
		}
	}
	if fill, ok := blend(s.Fill, s.Opacity); ok && len(rings) > 0 {
		t.buf.fillRings(rings, fill)
	}
	stroke, ok := blend(s.Stroke, s.Opacity)
	if !ok || s.StrokeWidth <= 0 {
		return
	}
	for _, l := range n.Lines {
		var prev [2]int
		for i, p := range l.Points {
			mx, my := t.vp.Micro(p[0]+dx, p[1]+dy)
			if i > 0 && !skipDash(s.Dash, i) {
				t.buf.drawLineMicro(prev[0], prev[1], mx, my, stroke)
			}
			prev = [2]int{mx, my}
		}
		if l.Closed && len(l.Points) > 2 {
			first := l.Points[0]
			mx, my := t.vp.Micro(first[0]+dx, first[1]+dy)
			t.buf.drawLineMicro(prev[0], prev[1], mx, my, stroke)
		}
	}
}

// skipDash leaves every other segment out of dashed strokes; braille
// cells are too coarse for the real pattern.
func skipDash(dash []float64, i int) bool {
	return len(dash) > 0 && i%2 == 0
}

func (t *terminal) circle(n *scene.Node, dx, dy float64) {
	s := n.Style
	r, opacity := n.R, s.Opacity
	if s.PulseDuration > 0 {
		phase := pulsePhase(t.at, s.PulseDuration, s.PulseDelay)
		if phase < 0 {
			return
		}
		r *= phase
		opacity *= 1 - phase
	}
	mx, my := t.vp.Micro(n.X+dx, n.Y+dy)
	mr := int(math.Round(r * t.k))
	if fill, ok := blend(s.Fill, opacity); ok {
		t.buf.circle(mx, my, mr, fill, true)
	}
	if stroke, ok := blend(s.Stroke, opacity); ok && s.StrokeWidth > 0 {
		t.buf.circle(mx, my, mr, stroke, false)
	}
}

// pulsePhase is how far through its cycle a pulse is at time at, in
// [0, 1), or -1 before its first start.
func pulsePhase(at, period, delay time.Duration) float64 {
	if at < delay {
		return -1
	}
	return float64((at-delay)%period) / float64(period)
}

func (t *terminal) label(n *scene.Node, dx, dy float64) {
	if n.Text == "" {
		return
	}
	c, err := colorful.Hex(n.Style.Fill)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	col, row := t.vp.Cell(n.X+dx, n.Y+dy)
	lines := strings.Split(n.Text, "\n")
	for i, line := range lines {
		w := len([]rune(line))
		start := col
		switch n.Style.Anchor {
		case "middle":
			start = col - w/2
		case "end":
			start = col - w
		}
		t.buf.putText(start, row+i, line, c)
	}
}

// blend mixes a hex color onto the background by opacity, lifted by a
// floor so faint shapes stay visible. ok is false for "none", empty or
// invisible paint.
func blend(hex string, opacity float64) (colorful.Color, bool) {
	if hex == "" || hex == "none" || !(opacity > 0) {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return Background.BlendRgb(c, math.Min(1, 0.35+opacity)).Clamped(), true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
