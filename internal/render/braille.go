package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// brailleBuf is a grid of braille cells, each a 2x4 block of micro pixels.
// Every cell carries the color of the last shape that inked it.
type brailleBuf struct {
	w, h  int // in cells
	m     [][]uint8
	color [][]colorful.Color
	text  [][]rune
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.color = make([][]colorful.Color, h)
	b.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.color[i] = make([]colorful.Color, w)
		b.text[i] = make([]rune, w)
	}
	return b
}

// dot bits by [column][row] inside a cell
var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel inks a micro pixel at micro coords.
func (b *brailleBuf) setPixel(mx, my int, col colorful.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.m[cy][cx] |= dots[mx%2][my%4]
	b.color[cy][cx] = col
}

// drawLineMicro draws a line on the micro grid using Bresenham.
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, col colorful.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	// far off-canvas segments come from points projected to infinity
	if dx > 8*b.w*2 || -dy > 8*b.h*4 {
		return
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillRings fills the even-odd interior of rings, so holes stay empty.
func (b *brailleBuf) fillRings(rings [][][2]int, col colorful.Color) {
	minY, maxY := math.MaxInt, math.MinInt
	for _, r := range rings {
		for _, p := range r {
			minY = min(minY, p[1])
			maxY = max(maxY, p[1])
		}
	}
	minY = max(minY, 0)
	maxY = min(maxY, b.h*4-1)
	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a, c := r[i], r[(i+1)%len(r)]
				if a[1] == c[1] {
					continue
				}
				if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
					t := float64(y-a[1]) / float64(c[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= min(xs[i+1], b.w*2-1); x++ {
				b.setPixel(x, y, col)
			}
		}
	}
}

// circle inks a disc, or only its rim when filled is false.
func (b *brailleBuf) circle(cx, cy, r int, col colorful.Color, filled bool) {
	if r <= 0 {
		b.setPixel(cx, cy, col)
		return
	}
	for y := -r; y <= r; y++ {
		span := int(math.Sqrt(float64(r*r - y*y)))
		if filled {
			for x := -span; x <= span; x++ {
				b.setPixel(cx+x, cy+y, col)
			}
			continue
		}
		b.setPixel(cx-span, cy+y, col)
		b.setPixel(cx+span, cy+y, col)
	}
	for x := -r; x <= r; x++ {
		if filled {
			break
		}
		span := int(math.Sqrt(float64(r*r - x*x)))
		b.setPixel(cx+x, cy-span, col)
		b.setPixel(cx+x, cy+span, col)
	}
}

// putText writes s into cells starting at (col, row), over any dots.
func (b *brailleBuf) putText(col, row int, s string, c colorful.Color) {
	if row < 0 || row >= b.h {
		return
	}
	for _, r := range s {
		if col >= 0 && col < b.w {
			b.text[row][col] = r
			b.color[row][col] = c
		}
		col++
	}
}

// toLines renders the grid, styling runs of equally colored cells.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	var run strings.Builder
	for y := 0; y < b.h; y++ {
		var line strings.Builder
		var runHex string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runHex)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < b.w; x++ {
			r, hex := ' ', ""
			switch {
			case b.text[y][x] != 0:
				r, hex = b.text[y][x], b.color[y][x].Hex()
			case b.m[y][x] != 0:
				r, hex = rune(0x2800+int(b.m[y][x])), b.color[y][x].Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		out[y] = line.String()
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
