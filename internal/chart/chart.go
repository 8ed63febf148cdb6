// Package chart is the vaccination map component. A Chart holds a render
// target, a dataset, props and a geography payload; Draw turns them into
// scene nodes, and the pointer and autoplay methods update the view in
// between draws.
package chart

import (
	"context"
	"math/rand/v2"
	"text/template"
	"time"

	"vaxmap/internal/autoplay"
	"vaxmap/internal/config"
	"vaxmap/internal/geom"
	"vaxmap/internal/logging"
	"vaxmap/internal/metrics"
	"vaxmap/internal/projection"
	"vaxmap/internal/scene"
	"vaxmap/internal/tessellation"
	"vaxmap/internal/versor"
)

// Chart is not safe for concurrent use; every method runs on the host's
// event loop.
type Chart struct {
	log logging.Logger
	rng *rand.Rand

	target  *scene.Root
	data    []metrics.Record
	props   config.Props
	geo     *geom.Atlas
	variant Variant

	// state rebuilt by Draw
	proj    *projection.Projection
	tess    *tessellation.Tessellation
	drawn   map[string]drawnCountry
	markers []string

	// target whose height Draw derived, and that height
	heightOf *scene.Root
	height   float64

	// view state kept across draws
	rotation  [3]float64
	rotated   bool
	zoom      float64
	panX      float64
	panY      float64
	highlight string

	gesture versor.Gesture
	pointer pointerState
	player  *autoplay.Player
	tour    *autoplay.Transition

	// parsed text templates by source
	templates map[string]*template.Template
}

type drawnCountry struct {
	country geom.Country
	derived metrics.Derived
	hasData bool
	size    float64
}

type Option func(*Chart)

// WithLogger sets the logger; the default discards.
func WithLogger(l logging.Logger) Option {
	return func(c *Chart) { c.log = logging.OrNoop(l) }
}

// WithRand seeds autoplay picks, for reproducible tours.
func WithRand(r *rand.Rand) Option {
	return func(c *Chart) {
		if r != nil {
			c.rng = r
		}
	}
}

// New returns a chart with the default props and no target, data or
// geography.
func New(opts ...Option) *Chart {
	c := &Chart{
		log:   logging.Noop(),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		props: config.DefaultProps(),
		zoom:  1,
	}
	for _, o := range opts {
		o(c)
	}
	a := c.props.Autoplay
	c.player = autoplay.NewPlayer(time.Duration(a.Interval)*time.Millisecond, a.MaxCycles)
	return c
}

func (c *Chart) Target() *scene.Root { return c.target }

// SetTarget attaches the render target. Nodes already under it are reused
// by the next draw.
func (c *Chart) SetTarget(t *scene.Root) { c.target = t }

func (c *Chart) Data() []metrics.Record { return c.data }

// SetData replaces the dataset. The slice is not modified.
func (c *Chart) SetData(records []metrics.Record) { c.data = records }

func (c *Chart) Props() config.Props { return c.props }

// SetProps replaces the props wholesale, for callers holding a full Props
// value taken from Props.
func (c *Chart) SetProps(p config.Props) error {
	v, err := ParseVariant(p.Variant)
	if err != nil {
		return err
	}
	c.apply(p, v)
	return nil
}

// MergeProps overlays a partial YAML document onto the current props.
// Earlier overlays survive unless the new one sets the same key.
func (c *Chart) MergeProps(overlay []byte) error {
	p, err := config.Merge(c.props, overlay)
	if err != nil {
		return err
	}
	return c.SetProps(p)
}

// MergePropsMap is MergeProps for an already decoded overlay.
func (c *Chart) MergePropsMap(overlay map[string]any) error {
	p, err := config.MergeMap(c.props, overlay)
	if err != nil {
		return err
	}
	return c.SetProps(p)
}

func (c *Chart) apply(p config.Props, v Variant) {
	if v != c.variant {
		// rotation and pan belong to the old view
		c.rotated = false
		c.zoom, c.panX, c.panY = 1, 0, 0
		if !v.Globe() {
			c.StopAutoplay()
		}
	}
	c.props = p
	c.variant = v
	a := p.Autoplay
	c.player.SetLimits(time.Duration(a.Interval)*time.Millisecond, a.MaxCycles)
}

func (c *Chart) Variant() Variant { return c.variant }

// SetVariant switches the variant and records it in the props.
func (c *Chart) SetVariant(v Variant) {
	p := c.props
	p.Variant = v.String()
	c.apply(p, v)
}

func (c *Chart) Geo() *geom.Atlas { return c.geo }

// SetGeo replaces the geography payload. A nil payload makes Draw a no-op.
func (c *Chart) SetGeo(a *geom.Atlas) { c.geo = a }

// Projection is the projection of the last draw, or nil.
func (c *Chart) Projection() *projection.Projection { return c.proj }

// Rotation is the globe rotation in degrees.
func (c *Chart) Rotation() [3]float64 { return c.rotation }

// Countries returns the drawn countries with data, in draw order, for
// listings.
func (c *Chart) Countries() []CountryStat {
	out := make([]CountryStat, 0, len(c.markers))
	for _, key := range c.markers {
		d, ok := c.drawn[key]
		if !ok {
			continue
		}
		out = append(out, CountryStat{
			ISO:     key,
			Name:    d.country.Name(c.props.Locale),
			Derived: d.derived,
			Size:    d.size,
		})
	}
	return out
}

// CountryStat is one row of the country listing.
type CountryStat struct {
	ISO     string
	Name    string
	Derived metrics.Derived
	Size    float64
}

func (c *Chart) redraw() {
	if err := c.Draw(context.Background()); err != nil {
		c.log.Warn(context.Background(), "redraw failed", logging.Err(err))
	}
}
