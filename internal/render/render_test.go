package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"vaxmap/internal/projection"
	"vaxmap/internal/scene"
)

func squareScene() *scene.Root {
	root := scene.NewRoot(40, 40)
	g := scene.Select(&root.Node, scene.Group, "map")
	sq := scene.Select(g, scene.Path, "square")
	sq.Class = "country c-test"
	sq.Style = scene.Style{Fill: "#74c476", Stroke: "#ffffff", StrokeWidth: 1, Opacity: 0.5}
	sq.Lines = []projection.Line{{
		Points: []orb.Point{{10, 10}, {30, 10}, {30, 30}, {10, 30}},
		Closed: true,
	}}
	return root
}

func TestTerminalSize(t *testing.T) {
	out := Terminal(squareScene(), 20, 10, 0)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 20 {
			t.Fatalf("row %d is %d cells wide", i, w)
		}
	}
}

func TestTerminalFillsSquare(t *testing.T) {
	out := Terminal(squareScene(), 20, 10, 0)
	lines := strings.Split(out, "\n")
	// one micro pixel per scene unit: the square covers cells 5..15 and
	// rows 2..7
	mid := []rune(stripped(lines[5]))
	if mid[10] != '⣿' {
		t.Fatalf("expected a full cell inside the square, got %q", mid[10])
	}
	if mid[1] != ' ' {
		t.Fatalf("expected empty space outside, got %q", mid[1])
	}
	if strings.ContainsRune(stripped(lines[0]), '⣿') {
		t.Fatal("ink above the square")
	}
}

func TestTerminalText(t *testing.T) {
	root := scene.NewRoot(40, 40)
	txt := scene.Select(&root.Node, scene.Text, "tip")
	txt.Text = "Hi\nyou"
	txt.X, txt.Y = 20, 20
	txt.Style = scene.Style{Fill: "#ffffff", Anchor: "middle"}
	lines := strings.Split(Terminal(root, 20, 10, 0), "\n")
	if !strings.Contains(stripped(lines[5]), "Hi") || !strings.Contains(stripped(lines[6]), "you") {
		t.Fatalf("text not placed: %q / %q", lines[5], lines[6])
	}
}

func TestHiddenNodesSkipped(t *testing.T) {
	root := squareScene()
	root.Child(scene.Group, "map").Hidden = true
	if strings.ContainsRune(Terminal(root, 20, 10, 0), '⣿') {
		t.Fatal("hidden layer drawn")
	}
}

func TestPulsePhase(t *testing.T) {
	if p := pulsePhase(time.Second, 2*time.Second, 2*time.Second); p != -1 {
		t.Fatalf("pulse before its delay: %v", p)
	}
	if p := pulsePhase(3*time.Second, 2*time.Second, 0); p != 0.5 {
		t.Fatalf("unexpected phase %v", p)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Fit(80, 24, 960)
	if v.Height != 576 {
		t.Fatalf("unexpected fitted height %v", v.Height)
	}
	for _, cell := range [][2]int{{0, 0}, {40, 12}, {79, 23}} {
		x, y := v.Scene(cell[0], cell[1])
		col, row := v.Cell(x, y)
		if col != cell[0] || row != cell[1] {
			t.Fatalf("cell %v came back as %d,%d", cell, col, row)
		}
	}
}

func TestSVG(t *testing.T) {
	root := squareScene()
	g := scene.Select(&root.Node, scene.Group, "marker")
	g.X, g.Y = 20, 20
	c := scene.Select(g, scene.Circle, "pulse-0")
	c.Class = "pulse"
	c.R = 5
	c.Style = scene.Style{Fill: "none", Stroke: "#ffffff", StrokeWidth: 1, Opacity: 0.2,
		PulseDuration: 2 * time.Second, PulseDelay: 500 * time.Millisecond}

	var buf bytes.Buffer
	if err := SVG(&buf, root); err != nil {
		t.Fatalf("svg: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<svg`,
		`d="M10,10L30,10L30,30L10,30Z"`,
		`class="country c-test"`,
		`transform="translate(20,20)"`,
		`animation-duration:2s;animation-delay:0.5s`,
		`@keyframes pulse`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	if err := SVG(failWriter{}, squareScene()); err == nil {
		t.Fatal("expected the write error")
	}
}

// stripped drops styling so tests can index cells.
func stripped(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			in = true
		case in && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
