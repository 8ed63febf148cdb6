package chart

import (
	"vaxmap/internal/scene"
)

// Legend circle radii at the default 70px key height.
const (
	coverageMaxR = 15
	coverageMinR = 5
	paceR        = 20
	keyHeight    = 70
)

// drawLegend lays out the coverage and pace keys side by side below the
// map, centered on the target.
func (c *Chart) drawLegend(root *scene.Root, sc scales) {
	lp := c.props.Legend
	g := scene.Select(&root.Node, scene.Group, "legend")
	g.Class = "legend"
	g.Hidden = !lp.Show || lp.Width <= 0 || lp.Height <= 0
	if g.Hidden {
		return
	}
	ms := c.props.Map.Styles.Marker
	text := c.props.Text
	w, h := lp.Width, lp.Height
	k := h / keyHeight
	gap := w / 4
	top := root.Height - h
	mid := root.Width / 2

	cov := scene.Select(g, scene.Group, "coverage")
	cov.X, cov.Y = mid-w-gap, top
	keyTitle(cov, text.CoverageKey, w)
	fill := sc.color.At(1)
	for _, e := range []struct {
		key, label string
		x, r       float64
	}{
		{"more", text.More, w / 4, coverageMaxR * k},
		{"less", text.Less, w * 3 / 4, coverageMinR * k},
	} {
		dot := scene.Select(cov, scene.Circle, e.key)
		dot.X, dot.Y, dot.R = e.x, h/2, e.r
		dot.Style = scene.Style{Fill: fill, Stroke: fill, StrokeWidth: ms.Inner.StrokeWidth, Opacity: ms.Inner.Opacity}
		keyLabel(cov, e.key, e.label, e.x, h-5)
	}

	pace := scene.Select(g, scene.Group, "pace")
	pace.X, pace.Y = mid+gap, top
	keyTitle(pace, text.PaceKey, w)
	for _, e := range []struct {
		key, label string
		x, secs    float64
	}{
		{"faster", text.Faster, w / 4, ms.PulseFrequency.Max},
		{"slower", text.Slower, w * 3 / 4, ms.PulseFrequency.Min},
	} {
		pulse := scene.Select(pace, scene.Group, e.key)
		pulse.X, pulse.Y = e.x, h/2
		pulseGroup(pulse, paceR*k, seconds(e.secs), ms.Outer, scene.Style{
			Fill: fill, Stroke: fill, StrokeWidth: ms.Inner.StrokeWidth, Opacity: ms.Inner.Opacity * 0.5,
		})
		// the legend pulses show speed, not size
		pulse.Child(scene.Circle, "core").R = 2 * k
		keyLabel(pace, e.key, e.label, e.x, h-5)
	}
}

func keyTitle(g *scene.Node, title string, w float64) {
	t := scene.Select(g, scene.Text, "title")
	t.Class = "key-title"
	t.Text = title
	t.X, t.Y = w/2, -6
	t.Style = scene.Style{Fill: "#ffffff", Opacity: 0.8, FontSize: 11, Anchor: "middle"}
}

func keyLabel(g *scene.Node, key, text string, x, y float64) {
	t := scene.Select(g, scene.Text, key)
	t.Class = "key-label"
	t.Text = text
	t.X, t.Y = x, y
	t.Style = scene.Style{Fill: "#ffffff", Opacity: 0.6, FontSize: 10, Anchor: "middle"}
}
