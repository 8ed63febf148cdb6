// Package scale maps metric domains onto visual ranges.
package scale

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Extent returns the finite minimum and maximum of values. ok is false
// when no finite value exists.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

// Max returns the finite maximum of values.
func Max(values []float64) (float64, bool) {
	_, hi, ok := Extent(values)
	return hi, ok
}

// Linear maps [D0, D1] onto [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
	Clamp  bool
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// At maps v. A degenerate domain maps everything to the range midpoint.
func (s Linear) At(v float64) float64 {
	span := s.D1 - s.D0
	var t float64
	switch {
	case span == 0 || math.IsNaN(span):
		t = 0.5
	default:
		t = (v - s.D0) / span
	}
	if s.Clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.R0 + t*(s.R1-s.R0)
}

// Invert maps a range value back into the domain.
func (s Linear) Invert(r float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return s.D0
	}
	return s.D0 + (r-s.R0)/span*(s.D1-s.D0)
}

// Area is a radius scale whose circle area, not radius, is proportional
// to the value: r = RMax * sqrt(v / DMax). Non-zero values never fall
// below RMin so tiny countries stay visible.
type Area struct {
	DMax       float64
	RMin, RMax float64
}

func NewArea(dmax, rmin, rmax float64) Area {
	return Area{DMax: dmax, RMin: rmin, RMax: rmax}
}

// At returns the radius for v. Zero, negative or missing values return 0.
func (s Area) At(v float64) float64 {
	if !(v > 0) || !(s.DMax > 0) || math.IsInf(v, 0) {
		return 0
	}
	r := s.RMax * math.Sqrt(v/s.DMax)
	return math.Max(r, s.RMin)
}

// ColorRamp blends two colors in Lab space over t in [0, 1].
type ColorRamp struct {
	from, to colorful.Color
}

// NewColorRamp parses two hex colors. Unparsable colors fall back to
// black and white.
func NewColorRamp(from, to string) ColorRamp {
	f, err := colorful.Hex(from)
	if err != nil {
		f = colorful.Color{}
	}
	t, err := colorful.Hex(to)
	if err != nil {
		t = colorful.Color{R: 1, G: 1, B: 1}
	}
	return ColorRamp{from: f, to: t}
}

// At returns the hex color at t, clamped to [0, 1].
func (c ColorRamp) At(t float64) string {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	return c.from.BlendLab(c.to, t).Clamped().Hex()
}
