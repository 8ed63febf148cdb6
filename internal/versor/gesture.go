package versor

import (
	"math"

	"github.com/golang/geo/r3"
)

// DefaultResetThreshold restarts a gesture once the incremental rotation
// nears the antipode of the start point, where the delta is unstable.
const DefaultResetThreshold = 0.7

// Projector is the part of a projection a gesture needs.
type Projector interface {
	Rotate() [3]float64
	SetRotate(r [3]float64)
	Invert(x, y float64) (lon, lat float64, ok bool)
}

// Pointer is one active pointer or touch in screen coordinates.
type Pointer struct {
	X, Y float64
}

// Gesture turns pointer motion into globe rotation. The zero value is
// usable; LockHorizon drops the roll axis from every produced rotation.
type Gesture struct {
	LockHorizon    bool
	ResetThreshold float64

	active bool
	count  int
	v0     r3.Vector
	r0     [3]float64
	q0     Versor
	a0     float64
}

func (g *Gesture) Active() bool { return g.active }

// Start snapshots the rotation and the inverse-projected pointer position.
// It returns false when the pointer is off the sphere.
func (g *Gesture) Start(ptrs []Pointer, proj Projector) bool {
	g.active = false
	x, y, a, ok := centroid(ptrs)
	if !ok {
		return false
	}
	lon, lat, ok := proj.Invert(x, y)
	if !ok {
		return false
	}
	g.v0 = Cartesian(lon, lat)
	g.r0 = proj.Rotate()
	g.q0 = FromRotation(g.r0)
	g.a0 = a
	g.count = len(ptrs)
	g.active = true
	return true
}

// Move applies the rotation that carries the start point under the
// pointers. ok is false when no gesture is active or the pointers are off
// the sphere; the projection is then left as it was.
func (g *Gesture) Move(ptrs []Pointer, proj Projector) (r [3]float64, ok bool) {
	if !g.active {
		return proj.Rotate(), false
	}
	if len(ptrs) != g.count {
		// a finger was added or lifted
		if !g.Start(ptrs, proj) {
			return proj.Rotate(), false
		}
	}
	x, y, a, ok := centroid(ptrs)
	if !ok {
		return proj.Rotate(), false
	}
	prev := proj.Rotate()
	proj.SetRotate(g.r0)
	lon, lat, ok := proj.Invert(x, y)
	if !ok {
		proj.SetRotate(prev)
		return prev, false
	}
	delta := Delta(g.v0, Cartesian(lon, lat), 1)
	q1 := g.q0.Multiply(delta)
	if len(ptrs) > 1 {
		q1 = Roll((a - g.a0) / 2).Multiply(q1)
	}
	r = q1.Rotation()
	if g.LockHorizon {
		r[2] = 0
	}
	proj.SetRotate(r)

	threshold := g.ResetThreshold
	if threshold == 0 {
		threshold = DefaultResetThreshold
	}
	if delta[0] < threshold {
		g.Start(ptrs, proj)
	}
	return r, true
}

// End finishes the gesture. The rotation stays where the last Move left it.
func (g *Gesture) End() {
	g.active = false
	g.count = 0
}

// centroid averages the pointers; with two or more it also returns the
// angle between the first two.
func centroid(ptrs []Pointer) (x, y, angle float64, ok bool) {
	if len(ptrs) == 0 {
		return 0, 0, 0, false
	}
	for _, p := range ptrs {
		x += p.X
		y += p.Y
	}
	n := float64(len(ptrs))
	x, y = x/n, y/n
	if len(ptrs) > 1 {
		angle = math.Atan2(ptrs[1].Y-ptrs[0].Y, ptrs[0].X-ptrs[1].X)
	}
	return x, y, angle, true
}
