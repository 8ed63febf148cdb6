package chart

import (
	"vaxmap/internal/scene"
)

const tooltipFontSize = 12

// drawOverlay redraws the highlight outline and the tooltip of the active
// country from the current projection. Annotations hide while a country
// is highlighted.
func (c *Chart) drawOverlay() {
	if c.target == nil || c.proj == nil {
		return
	}
	mapG := scene.Select(&c.target.Node, scene.Group, "map")
	hl := scene.Select(scene.Select(mapG, scene.Group, "highlight"), scene.Path, "highlight")
	tip := scene.Select(scene.Select(mapG, scene.Group, "tooltip"), scene.Text, "tooltip")
	hl.Class, tip.Class = "highlight", "tooltip"

	d, ok := c.drawn[c.highlight]
	if !ok || !d.hasData {
		c.highlight = ""
		hl.Hidden, tip.Hidden = true, true
		hl.Lines, hl.Data, tip.Data = nil, nil, nil
		c.showAnnotations(mapG, true)
		return
	}
	c.showAnnotations(mapG, false)

	hl.Hidden = false
	hl.Lines = c.proj.Path(d.country.Geometry)
	hl.Style = scene.Style{Fill: "none", Stroke: c.props.Map.Styles.Highlight, StrokeWidth: 2, Opacity: 1}
	hl.Data = c.highlight

	tip.Text = c.tooltipFor(c.highlight, d)
	tip.Data = c.highlight
	tip.Style = scene.Style{Fill: "#ffffff", Opacity: 1, FontSize: tooltipFontSize, Anchor: "middle"}
	tip.Hidden = true
	if d.country.HasCentroid {
		x, y, ok := c.proj.Project(d.country.Centroid.Lon(), d.country.Centroid.Lat())
		tip.X, tip.Y = x, y+c.props.Annotations.HoverGap+tooltipFontSize
		tip.Hidden = !ok
	}
}

func (c *Chart) tooltipFor(key string, d drawnCountry) string {
	return c.coverageText(key, d.country.Name(c.props.Locale), d.derived.VaccinatedPerPop)
}

// Highlight marks the country with key as active and shows its tooltip.
// An empty or unknown key clears the highlight.
func (c *Chart) Highlight(key string) {
	if key == c.highlight {
		return
	}
	c.highlight = key
	c.drawOverlay()
}

func (c *Chart) Highlighted() string { return c.highlight }

// Tooltip returns the text of the visible tooltip, or "".
func (c *Chart) Tooltip() string {
	d, ok := c.drawn[c.highlight]
	if !ok || !d.hasData {
		return ""
	}
	return c.tooltipFor(c.highlight, d)
}

func (c *Chart) showAnnotations(mapG *scene.Node, show bool) {
	if g := mapG.Child(scene.Group, "annotations"); g != nil {
		g.Hidden = !show
	}
}

// drawAnnotations pins the configured name and value labels to their
// countries' centroids.
func (c *Chart) drawAnnotations(mapG *scene.Node) {
	a := c.props.Annotations
	g := scene.Select(mapG, scene.Group, "annotations")

	type label struct {
		iso, text string
		dy        float64
	}
	var keys []string
	labels := map[string]label{}
	add := func(key string, l label) {
		if _, dup := labels[key]; !dup {
			labels[key] = l
			keys = append(keys, key)
		}
	}
	for _, iso := range a.Names {
		if d, ok := c.drawn[iso]; ok {
			add("name-"+iso, label{iso: iso, text: d.country.Name(c.props.Locale)})
		}
	}
	for _, iso := range a.Values {
		d, ok := c.drawn[iso]
		if !ok || !d.hasData {
			continue
		}
		pct, ok := percentText(c.props.Locale, d.derived.VaccinatedPerPop)
		if !ok {
			pct = "100%"
		}
		add("value-"+iso, label{iso: iso, text: pct, dy: tooltipFontSize})
	}

	for _, n := range scene.Join(g, scene.Text, keys) {
		l := labels[n.Key]
		ct := c.drawn[l.iso].country
		n.Class = "annotation"
		n.Text = l.text
		n.Style = scene.Style{Fill: "#ffffff", Opacity: 0.8, FontSize: tooltipFontSize - 2, Anchor: "middle"}
		n.Hidden = true
		if ct.HasCentroid {
			x, y, ok := c.proj.Project(ct.Centroid.Lon(), ct.Centroid.Lat())
			n.X, n.Y = x, y+a.HoverGap+l.dy
			n.Hidden = !ok
		}
	}
}
