package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Line is one projected ring or polyline in screen coordinates.
type Line struct {
	Points []orb.Point
	Closed bool
}

// Path projects every ring and line of g. Lines are split where they
// leave the visible hemisphere or jump across the antimeridian; rings on a
// clipped projection are pulled onto the horizon so they stay closed.
// Points are ignored.
func (p *Projection) Path(g orb.Geometry) []Line {
	var out []Line
	p.walk(g, &out)
	return out
}

func (p *Projection) walk(g orb.Geometry, out *[]Line) {
	switch v := g.(type) {
	case orb.Polygon:
		for _, r := range v {
			p.ring(r, out)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			p.walk(poly, out)
		}
	case orb.Ring:
		p.ring(v, out)
	case orb.LineString:
		p.line(v, out)
	case orb.MultiLineString:
		for _, ls := range v {
			p.line(ls, out)
		}
	case orb.Collection:
		for _, c := range v {
			p.walk(c, out)
		}
	case orb.Bound:
		p.walk(v.ToPolygon(), out)
	}
}

func (p *Projection) ring(r orb.Ring, out *[]Line) {
	if len(r) < 3 {
		return
	}
	coords := make([]float64, 0, 2*len(r))
	anyVisible := false
	for _, pt := range r {
		l, f := p.rot.forward(pt[0]*radians, pt[1]*radians)
		if p.kind.clip {
			if visible(l, f) {
				anyVisible = true
			} else {
				var ok bool
				if l, f, ok = toHorizon(l, f); !ok {
					continue
				}
			}
		}
		coords = append(coords, l, f)
	}
	if p.kind.clip && !anyVisible {
		return
	}
	if !p.kind.clip {
		unwrap(coords)
	}
	pts := make([]orb.Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, y := p.transform(coords[i], coords[i+1])
		if finite(x) && finite(y) {
			pts = append(pts, orb.Point{x, y})
		}
	}
	if len(pts) >= 3 {
		*out = append(*out, Line{Points: pts, Closed: true})
	}
}

// unwrap makes lambda continuous along a ring so a ring crossing the
// antimeridian is drawn in one piece. Rings that wind around a pole are
// left as they are.
func unwrap(coords []float64) {
	if len(coords) < 4 {
		return
	}
	shifted := make([]float64, len(coords)/2)
	shift := 0.0
	prev := coords[0]
	for i := 2; i < len(coords); i += 2 {
		d := coords[i] - prev
		prev = coords[i]
		if d > math.Pi {
			shift -= 2 * math.Pi
		} else if d < -math.Pi {
			shift += 2 * math.Pi
		}
		shifted[i/2] = shift
	}
	if shift != 0 {
		return
	}
	for i := range shifted {
		coords[2*i] += shifted[i]
	}
}

func (p *Projection) line(ls orb.LineString, out *[]Line) {
	var cur []orb.Point
	flush := func() {
		if len(cur) >= 2 {
			*out = append(*out, Line{Points: cur})
		}
		cur = nil
	}
	prevL := math.NaN()
	for _, pt := range ls {
		l, f := p.rot.forward(pt[0]*radians, pt[1]*radians)
		if p.kind.clip && !visible(l, f) {
			flush()
			prevL = math.NaN()
			continue
		}
		if !p.kind.clip && !math.IsNaN(prevL) && math.Abs(l-prevL) > math.Pi {
			flush()
		}
		prevL = l
		x, y := p.transform(l, f)
		if !finite(x) || !finite(y) {
			flush()
			continue
		}
		cur = append(cur, orb.Point{x, y})
	}
	flush()
}

// toHorizon moves a hidden point to the nearest point on the visible
// hemisphere's edge.
func toHorizon(l, f float64) (float64, float64, bool) {
	y := math.Sin(l) * math.Cos(f)
	z := math.Sin(f)
	n := math.Hypot(y, z)
	if n < epsilon {
		return 0, 0, false
	}
	// a hair inside the edge so the point still counts as projected
	x := 2 * epsilon
	s := math.Sqrt(1-x*x) / n
	return math.Atan2(y*s, x), math.Asin(z * s), true
}

// Sphere returns the projected outline of the whole sphere.
func (p *Projection) Sphere() []Line {
	const steps = 72
	var pts []orb.Point
	if p.kind.clip {
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			pts = append(pts, orb.Point{p.dx + p.k*math.Cos(a), p.dy - p.k*math.Sin(a)})
		}
		return []Line{{Points: pts, Closed: true}}
	}
	edge := math.Pi - epsilon
	add := func(l, f float64) {
		x, y := p.transform(l, f)
		if finite(x) && finite(y) {
			pts = append(pts, orb.Point{x, y})
		}
	}
	half := steps / 2
	for i := 0; i <= half; i++ {
		add(-edge, -math.Pi/2+math.Pi*float64(i)/float64(half))
	}
	for i := 1; i <= half; i++ {
		add(-edge+2*edge*float64(i)/float64(half), math.Pi/2)
	}
	for i := 1; i <= half; i++ {
		add(edge, math.Pi/2-math.Pi*float64(i)/float64(half))
	}
	for i := 1; i < half; i++ {
		add(edge-2*edge*float64(i)/float64(half), -math.Pi/2)
	}
	return []Line{{Points: pts, Closed: true}}
}

func bounds(lines []Line) orb.Bound {
	first := true
	var b orb.Bound
	for _, l := range lines {
		for _, pt := range l.Points {
			if first {
				b = orb.Bound{Min: pt, Max: pt}
				first = false
				continue
			}
			b = b.Extend(pt)
		}
	}
	return b
}
