// Package projection maps longitude/latitude in degrees onto screen
// coordinates, y pointing down.
package projection

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
)

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
)

// Default is used when a projection name is unknown.
const Default = "naturalEarth1"

type kind struct {
	name  string
	raw   raw
	scale float64
	clip  bool
}

var kinds = []kind{
	{"naturalEarth1", naturalEarth1{}, 175.295, false},
	{"equirectangular", equirectangular{}, 152.63, false},
	{"mercator", mercator{}, 152.63, false},
	{"equalEarth", equalEarth{}, 177.158, false},
	{"orthographic", orthographic{}, 249.5, true},
}

// Names lists the supported projections.
func Names() []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.name
	}
	return out
}

func lookup(name string) (kind, bool) {
	n := strings.TrimPrefix(strings.TrimSpace(name), "geo")
	for _, k := range kinds {
		if strings.EqualFold(k.name, n) {
			return k, true
		}
	}
	return kinds[0], false
}

// Projection is a raw projection plus rotation, scale, translation and
// center, recomputed on every setter.
type Projection struct {
	kind kind

	k      float64
	x, y   float64
	center [2]float64 // degrees
	rotate [3]float64 // degrees

	dx, dy float64
	rot    rotation
}

// New returns the named projection. The second result is false when the
// name was not recognised and the default projection was used instead.
func New(name string) (*Projection, bool) {
	k, ok := lookup(name)
	p := &Projection{kind: k, k: k.scale, x: 480, y: 250}
	p.recenter()
	return p, ok
}

func (p *Projection) recenter() {
	cx, cy := p.kind.raw.forward(p.center[0]*radians, p.center[1]*radians)
	p.dx = p.x - p.k*cx
	p.dy = p.y + p.k*cy
	p.rot = newRotation(
		math.Mod(p.rotate[0], 360)*radians,
		math.Mod(p.rotate[1], 360)*radians,
		math.Mod(p.rotate[2], 360)*radians,
	)
}

func (p *Projection) Name() string { return p.kind.name }

// Clipped reports whether the far hemisphere is hidden.
func (p *Projection) Clipped() bool { return p.kind.clip }

func (p *Projection) Scale() float64 { return p.k }

func (p *Projection) SetScale(k float64) {
	p.k = k
	p.recenter()
}

func (p *Projection) Translate() (x, y float64) { return p.x, p.y }

func (p *Projection) SetTranslate(x, y float64) {
	p.x, p.y = x, y
	p.recenter()
}

func (p *Projection) Center() (lon, lat float64) { return p.center[0], p.center[1] }

func (p *Projection) SetCenter(lon, lat float64) {
	p.center = [2]float64{lon, lat}
	p.recenter()
}

// Rotate returns [yaw, pitch, roll] in degrees.
func (p *Projection) Rotate() [3]float64 { return p.rotate }

func (p *Projection) SetRotate(r [3]float64) {
	p.rotate = r
	p.recenter()
}

// Clone returns an independent copy.
func (p *Projection) Clone() *Projection {
	c := *p
	return &c
}

// Project maps a point. ok is false when the point lies on the hidden
// hemisphere of a clipped projection or does not project to a finite point.
func (p *Projection) Project(lon, lat float64) (x, y float64, ok bool) {
	l, f := p.rot.forward(lon*radians, lat*radians)
	if p.kind.clip && !visible(l, f) {
		return 0, 0, false
	}
	x, y = p.transform(l, f)
	return x, y, finite(x) && finite(y)
}

func (p *Projection) transform(l, f float64) (float64, float64) {
	rx, ry := p.kind.raw.forward(l, f)
	return p.dx + p.k*rx, p.dy - p.k*ry
}

// Invert maps a screen point back to longitude and latitude. ok is false
// outside the projected sphere or the outline of a flat map.
func (p *Projection) Invert(x, y float64) (lon, lat float64, ok bool) {
	if p.k == 0 {
		return 0, 0, false
	}
	rx := (x - p.dx) / p.k
	ry := (p.dy - y) / p.k
	if p.kind.clip && math.Hypot(rx, ry) > 1 {
		return 0, 0, false
	}
	l, f := p.kind.raw.invert(rx, ry)
	if !finite(l) || !finite(f) || math.Abs(f) > math.Pi/2+epsilon {
		return 0, 0, false
	}
	// Past the outline of a flat map; rotating would wrap it back on.
	if !p.kind.clip && math.Abs(l) > math.Pi+epsilon {
		return 0, 0, false
	}
	l, f = p.rot.invert(l, f)
	return l * degrees, f * degrees, true
}

// FitSize scales and translates the projection so g fills w by h.
func (p *Projection) FitSize(w, h float64, g orb.Geometry) {
	p.fit(w, h, func() orb.Bound { return bounds(p.Path(g)) })
}

// FitSphere fits the whole sphere outline into w by h.
func (p *Projection) FitSphere(w, h float64) {
	p.fit(w, h, func() orb.Bound { return bounds(p.Sphere()) })
}

func (p *Projection) fit(w, h float64, measure func() orb.Bound) {
	p.k, p.x, p.y = 150, 0, 0
	p.recenter()
	b := measure()
	bw, bh := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if !(bw > 0) && !(bh > 0) {
		return
	}
	k := math.Inf(1)
	if bw > 0 {
		k = w / bw
	}
	if bh > 0 {
		k = math.Min(k, h/bh)
	}
	p.k = 150 * k
	p.x = (w - k*(b.Max[0]+b.Min[0])) / 2
	p.y = (h - k*(b.Max[1]+b.Min[1])) / 2
	p.recenter()
}

func visible(l, f float64) bool {
	return math.Cos(l)*math.Cos(f) > epsilon
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
