package chart

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"

	"vaxmap/internal/config"
	"vaxmap/internal/geom"
	"vaxmap/internal/logging"
	"vaxmap/internal/metrics"
	"vaxmap/internal/projection"
	"vaxmap/internal/scale"
	"vaxmap/internal/scene"
	"vaxmap/internal/tessellation"
)

const (
	antarctica   = "antarctica"
	pulseCircles = 3
)

// scales are rebuilt on every draw from the filtered records.
type scales struct {
	size, pace metrics.Metric

	sizeMax float64
	opacity scale.Linear
	radius  scale.Area
	pulse   scale.Linear
	color   scale.ColorRamp
}

func buildScales(p config.Props, shown, paced []metrics.Derived) (scales, error) {
	size, err := metrics.ParseMetric(p.Data.Size)
	if err != nil {
		return scales{}, fmt.Errorf("size metric %q: %w", p.Data.Size, err)
	}
	pace, err := metrics.ParseMetric(p.Data.Pace)
	if err != nil {
		return scales{}, fmt.Errorf("pace metric %q: %w", p.Data.Pace, err)
	}
	ms := p.Map.Styles.Marker

	sizeMax, _ := scale.Max(size.Values(shown))
	lo, hi, _ := scale.Extent(pace.Values(paced))
	return scales{
		size:    size,
		pace:    pace,
		sizeMax: sizeMax,
		opacity: scale.Linear{D0: 0, D1: sizeMax, R0: ms.Opacity.Min, R1: ms.Opacity.Max, Clamp: true},
		radius:  scale.NewArea(sizeMax, ms.Radius.Min, ms.Radius.Max),
		pulse:   scale.Linear{D0: lo, D1: hi, R0: ms.PulseFrequency.Min, R1: ms.PulseFrequency.Max, Clamp: true},
		color:   scale.NewColorRamp(ms.Color.From, ms.Color.To),
	}, nil
}

// Draw renders the chart into the target. It does nothing until both a
// target and a geography payload are set. Data problems never fail a draw:
// countries without data get the fallback style and an unknown projection
// falls back to the default one.
func (c *Chart) Draw(ctx context.Context) error {
	if c.geo == nil || c.target == nil {
		return nil
	}
	p := c.props
	root := c.target

	derived := metrics.Derive(c.data)
	shown := metrics.Filter(derived, toThreshold(p.Filters.Country).Predicate())
	paced := metrics.Filter(shown, toThreshold(p.Filters.Pace).Predicate())
	sc, err := buildScales(p, shown, paced)
	if err != nil {
		return err
	}

	root.Mobile = root.Width < p.Map.MinWidth
	// A height the chart derived earlier follows the current width; one
	// set by the caller is left alone.
	ours := c.heightOf == root && root.Height == c.height
	if root.Height <= 0 || ours {
		ratio := p.Map.HeightRatio
		if root.Mobile {
			ratio = p.Map.MobileHeightRatio
		}
		root.Height = math.Round(root.Width * ratio)
		c.heightOf, c.height = root, root.Height
	} else {
		c.heightOf = nil
	}
	mapH := root.Height
	if p.Legend.Show && mapH > 2*p.Map.MarginBottom {
		mapH -= p.Map.MarginBottom
	}
	c.proj = c.buildProjection(ctx, root.Width, mapH)

	byISO := metrics.Index(shown)
	pacedISO := metrics.Index(paced)

	mapG := scene.Select(&root.Node, scene.Group, "map")
	c.drawSphere(mapG)
	c.drawLand(mapG)
	c.drawDisputed(mapG)
	c.drawCountries(mapG, byISO, sc)
	c.drawMarkers(mapG, shown, pacedISO, sc)
	c.drawAnnotations(mapG)
	c.drawOverlay()
	c.drawLegend(root, sc)
	c.buildTessellation()

	c.log.Debug(ctx, "chart drawn",
		logging.String("variant", c.variant.String()),
		logging.String("projection", c.proj.Name()),
		logging.Int("countries", len(c.drawn)),
		logging.Int("markers", len(c.markers)),
	)
	return nil
}

func toThreshold(t config.Threshold) metrics.Threshold {
	return metrics.Threshold{MinPopulation: t.MinPopulation, MinCoverage: t.MinCoverage}
}

func (c *Chart) buildProjection(ctx context.Context, w, h float64) *projection.Projection {
	pp := c.props.Map.Projection
	name := pp.Name
	if c.variant.Globe() {
		name = "orthographic"
	}
	proj, ok := projection.New(name)
	if !ok {
		c.log.Warn(ctx, "unknown projection, using default",
			logging.String("projection", name),
			logging.String("default", projection.Default),
		)
	}
	if len(pp.Center) >= 2 {
		proj.SetCenter(pp.Center[0], pp.Center[1])
	}
	proj.SetRotate(c.currentRotation())

	switch {
	case c.variant.Globe():
		proj.FitSphere(w, h)
	default:
		if box, ok := geom.RangeBox(pp.ClipBox); ok {
			proj.FitSize(w, h, box)
		} else {
			proj.FitSize(w, h, c.geo.Collection())
		}
	}
	if pp.Scale > 0 {
		proj.SetScale(pp.Scale)
	}

	// zoom about the middle of the map area, then pan
	if c.zoom != 1 || c.panX != 0 || c.panY != 0 {
		cx, cy := w/2, h/2
		tx, ty := proj.Translate()
		proj.SetScale(proj.Scale() * c.zoom)
		proj.SetTranslate(cx+c.zoom*(tx-cx)+c.panX, cy+c.zoom*(ty-cy)+c.panY)
	}
	return proj
}

// currentRotation is the interactive rotation once the view was turned,
// else the configured one.
func (c *Chart) currentRotation() [3]float64 {
	if c.rotated {
		return c.rotation
	}
	var r [3]float64
	copy(r[:], c.props.Map.Projection.Rotate)
	if c.variant.Globe() && len(c.props.Map.Projection.Rotate) < 2 {
		r[1] = c.props.Globe.Tilt
	}
	c.rotation = r
	return r
}

func shapeStyle(s config.ShapeStyle) scene.Style {
	return scene.Style{Fill: s.Fill, Stroke: s.Stroke, StrokeWidth: s.StrokeWidth, Opacity: s.Opacity}
}

func (c *Chart) drawSphere(mapG *scene.Node) {
	n := scene.Select(mapG, scene.Path, "sphere")
	n.Class = "sphere"
	n.Hidden = !c.variant.Globe()
	if n.Hidden {
		n.Lines = nil
		return
	}
	n.Style = shapeStyle(c.props.Map.Styles.Sphere)
	n.Lines = c.proj.Sphere()
}

func (c *Chart) drawLand(mapG *scene.Node) {
	g := scene.Select(mapG, scene.Group, "land")
	n := scene.Select(g, scene.Path, "land")
	n.Class = "land"
	n.Style = shapeStyle(c.props.Map.Styles.Land)
	n.Lines = c.proj.Path(c.geo.Land)
}

func (c *Chart) drawDisputed(mapG *scene.Node) {
	g := scene.Select(mapG, scene.Group, "disputed")
	g.Hidden = !c.props.Disputed || !c.geo.HasDisputed
	if g.Hidden {
		scene.Join(g, scene.Path, nil)
		return
	}
	n := scene.Select(g, scene.Path, "disputed")
	n.Class = "disputed"
	s := c.props.Map.Styles.Country
	n.Style = scene.Style{Fill: "none", Stroke: s.Stroke, StrokeWidth: s.StrokeWidth, Opacity: 1, Dash: []float64{5, 3}}
	n.Lines = c.proj.Path(c.geo.Disputed)
}

// countryKey is the join key of a country: its ISO code, else its id.
func countryKey(ct geom.Country) string {
	if ct.ISO2 != "" {
		return ct.ISO2
	}
	return ct.ID
}

func (c *Chart) drawCountries(mapG *scene.Node, byISO map[string]metrics.Derived, sc scales) {
	styles := c.props.Map.Styles
	var keys []string
	countries := map[string]geom.Country{}
	for _, ct := range c.geo.Countries {
		k := countryKey(ct)
		if k == "" || ct.Geometry == nil || ct.Slug == antarctica {
			continue
		}
		if _, dup := countries[k]; dup {
			continue
		}
		countries[k] = ct
		keys = append(keys, k)
	}

	c.drawn = make(map[string]drawnCountry, len(keys))
	g := scene.Select(mapG, scene.Group, "countries")
	for i, n := range scene.Join(g, scene.Path, keys) {
		ct := countries[keys[i]]
		d, ok := byISO[ct.ISO2]
		dc := drawnCountry{country: ct, derived: d, hasData: ok}
		n.Class = "country"
		if ct.Slug != "" {
			n.Class += " c-" + ct.Slug
		}
		n.Lines = c.proj.Path(ct.Geometry)
		if ok {
			dc.size = sc.size.Value(d)
			n.Style = shapeStyle(styles.Country)
			n.Style.Opacity = sc.opacity.At(dc.size)
		} else {
			n.Style = shapeStyle(styles.NoData)
		}
		n.Data = keys[i]
		c.drawn[keys[i]] = dc
	}
}

func (c *Chart) drawMarkers(mapG *scene.Node, shown []metrics.Derived, paced map[string]metrics.Derived, sc scales) {
	ms := c.props.Map.Styles.Marker
	var keys []string
	type marker struct {
		size, pace float64
		at         orb.Point
	}
	markers := map[string]marker{}
	for _, d := range shown {
		if _, ok := paced[d.CountryISO]; !ok {
			continue
		}
		dc, ok := c.drawn[d.CountryISO]
		if !ok || !dc.country.HasCentroid {
			continue
		}
		m := marker{size: sc.size.Value(d), pace: sc.pace.Value(d), at: dc.country.Centroid}
		if !(m.size > 0) || !(m.pace > 0) || math.IsInf(m.size, 0) || math.IsInf(m.pace, 0) {
			continue
		}
		if _, dup := markers[d.CountryISO]; dup {
			continue
		}
		markers[d.CountryISO] = m
		keys = append(keys, d.CountryISO)
	}
	c.markers = keys

	g := scene.Select(mapG, scene.Group, "markers")
	for i, n := range scene.Join(g, scene.Group, keys) {
		m := markers[keys[i]]
		x, y, ok := c.proj.Project(m.at.Lon(), m.at.Lat())
		n.Class = "marker"
		n.X, n.Y = x, y
		n.Hidden = !ok
		n.Data = keys[i]

		r := sc.radius.At(m.size)
		period := seconds(sc.pulse.At(m.pace))
		fill := sc.color.At(m.size / sc.sizeMax)
		pulseGroup(n, r, period, ms.Outer, scene.Style{
			Fill: fill, Stroke: fill, StrokeWidth: ms.Inner.StrokeWidth, Opacity: ms.Inner.Opacity,
		})
	}
}

// pulseGroup fills g with the staggered pulse circles and a still core.
// Each pulse starts one third of a period after the previous one.
func pulseGroup(g *scene.Node, r float64, period time.Duration, outer config.ShapeStyle, inner scene.Style) {
	keys := make([]string, 0, pulseCircles)
	for i := 0; i < pulseCircles; i++ {
		keys = append(keys, fmt.Sprintf("pulse-%d", i))
	}
	keys = append(keys, "core")
	circles := scene.Join(g, scene.Circle, keys)
	for i, n := range circles[:pulseCircles] {
		n.Class = "pulse"
		n.R = r
		n.Style = shapeStyle(outer)
		n.Style.PulseDuration = period
		n.Style.PulseDelay = period * time.Duration(i) / pulseCircles
	}
	core := circles[pulseCircles]
	core.Class = "core"
	core.R = r
	core.Style = inner
}

func seconds(s float64) time.Duration {
	if !(s > 0) || math.IsInf(s, 0) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func (c *Chart) buildTessellation() {
	sites := make([]tessellation.Site, 0, len(c.drawn)+9)
	for _, key := range c.tessellationKeys() {
		dc := c.drawn[key]
		ct := dc.country
		if !dc.hasData || !ct.HasCentroid {
			continue
		}
		sites = append(sites, tessellation.Site{Key: key, Lon: ct.Centroid.Lon(), Lat: ct.Centroid.Lat()})
	}
	if c.props.Globe.OceanReset && c.variant.Globe() {
		sites = append(sites, tessellation.OceanResets()...)
	}
	c.tess = tessellation.New(sites)
}

// tessellationKeys lists the drawn countries in atlas order, so equal
// distances resolve the same way on every draw.
func (c *Chart) tessellationKeys() []string {
	keys := make([]string, 0, len(c.drawn))
	seen := map[string]bool{}
	for _, ct := range c.geo.Countries {
		k := countryKey(ct)
		if _, ok := c.drawn[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
