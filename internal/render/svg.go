package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"vaxmap/internal/scene"
)

const pulseCSS = `
@keyframes pulse {
  from { transform: scale(0); opacity: 1; }
  to { transform: scale(1); opacity: 0; }
}
.pulse {
  transform-box: fill-box;
  transform-origin: center;
  animation-name: pulse;
  animation-timing-function: ease-out;
  animation-iteration-count: infinite;
  animation-fill-mode: backwards;
}
`

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

// SVG writes root as a standalone SVG document, one group per layer.
// Pulsing circles animate with CSS.
func SVG(w io.Writer, root *scene.Root) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(root.Width, root.Height)
	canvas.Style("text/css", pulseCSS)
	canvas.Rect(0, 0, root.Width, root.Height, "fill:"+Background.Hex())
	for _, c := range root.Children {
		writeNode(canvas, c)
	}
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}

func writeNode(canvas *svg.SVG, n *scene.Node) {
	if n.Hidden {
		return
	}
	attrs := nodeAttrs(n)
	switch n.Kind {
	case scene.Group:
		if n.X != 0 || n.Y != 0 {
			attrs = append(attrs, fmt.Sprintf(`transform="translate(%s,%s)"`, num(n.X), num(n.Y)))
		}
		canvas.Group(attrs...)
		for _, c := range n.Children {
			writeNode(canvas, c)
		}
		canvas.Gend()
	case scene.Path:
		d := pathData(n)
		if d == "" {
			return
		}
		canvas.Path(d, append(attrs, styleOf(n.Style))...)
	case scene.Circle:
		canvas.Circle(n.X, n.Y, n.R, append(attrs, styleOf(n.Style))...)
	case scene.Text:
		size := n.Style.FontSize
		if size <= 0 {
			size = 12
		}
		for i, line := range strings.Split(n.Text, "\n") {
			canvas.Text(n.X, n.Y+float64(i)*size*1.2, line, append(attrs, styleOf(n.Style))...)
		}
	}
}

func nodeAttrs(n *scene.Node) []string {
	var attrs []string
	if n.Key != "" && n.Kind == scene.Group {
		attrs = append(attrs, `data-key="`+html.EscapeString(n.Key)+`"`)
	}
	if n.Class != "" {
		attrs = append(attrs, `class="`+html.EscapeString(n.Class)+`"`)
	}
	return attrs
}

func pathData(n *scene.Node) string {
	var b strings.Builder
	for _, l := range n.Lines {
		for i, p := range l.Points {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(num(p[0]))
			b.WriteByte(',')
			b.WriteString(num(p[1]))
		}
		if l.Closed && len(l.Points) > 0 {
			b.WriteByte('Z')
		}
	}
	return b.String()
}

// styleOf is the inline style of a node; svgo wraps it in style="".
func styleOf(s scene.Style) string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+":"+v) }
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	add("fill", fill)
	if s.Stroke != "" && s.StrokeWidth > 0 {
		add("stroke", s.Stroke)
		add("stroke-width", num(s.StrokeWidth))
	}
	add("opacity", num(s.Opacity))
	if len(s.Dash) > 0 {
		ds := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			ds[i] = num(d)
		}
		add("stroke-dasharray", strings.Join(ds, ","))
	}
	if s.FontSize > 0 {
		add("font-size", num(s.FontSize)+"px")
		add("font-family", "sans-serif")
	}
	if s.Anchor != "" {
		add("text-anchor", s.Anchor)
	}
	if s.PulseDuration > 0 {
		add("animation-duration", num(s.PulseDuration.Seconds())+"s")
		add("animation-delay", num(s.PulseDelay.Seconds())+"s")
	}
	return strings.Join(parts, ";")
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
