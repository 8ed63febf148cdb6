// Package versor holds unit quaternions for globe rotation and the drag
// gesture that turns pointer motion into a new rotation.
package versor

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
)

// Versor is a unit quaternion [w, x, y, z].
type Versor [4]float64

// Identity is the zero rotation.
var Identity = Versor{1, 0, 0, 0}

// FromRotation converts a [yaw, pitch, roll] rotation in degrees.
func FromRotation(r [3]float64) Versor {
	l, p, g := r[0]/2*radians, r[1]/2*radians, r[2]/2*radians
	sl, cl := math.Sin(l), math.Cos(l)
	sp, cp := math.Sin(p), math.Cos(p)
	sg, cg := math.Sin(g), math.Cos(g)
	return Versor{
		cl*cp*cg + sl*sp*sg,
		sl*cp*cg - cl*sp*sg,
		cl*sp*cg + sl*cp*sg,
		cl*cp*sg - sl*sp*cg,
	}
}

// Rotation converts back to [yaw, pitch, roll] in degrees.
func (q Versor) Rotation() [3]float64 {
	return [3]float64{
		math.Atan2(2*(q[0]*q[1]+q[2]*q[3]), 1-2*(q[1]*q[1]+q[2]*q[2])) * degrees,
		math.Asin(clamp(2*(q[0]*q[2]-q[3]*q[1]))) * degrees,
		math.Atan2(2*(q[0]*q[3]+q[1]*q[2]), 1-2*(q[2]*q[2]+q[3]*q[3])) * degrees,
	}
}

// Multiply composes q then o.
func (q Versor) Multiply(o Versor) Versor {
	return Versor{
		q[0]*o[0] - q[1]*o[1] - q[2]*o[2] - q[3]*o[3],
		q[0]*o[1] + q[1]*o[0] + q[2]*o[3] - q[3]*o[2],
		q[0]*o[2] - q[1]*o[3] + q[2]*o[0] + q[3]*o[1],
		q[0]*o[3] + q[1]*o[2] - q[2]*o[1] + q[3]*o[0],
	}
}

// Cartesian returns the unit vector for a longitude and latitude in
// degrees.
func Cartesian(lon, lat float64) r3.Vector {
	l, p := lon*radians, lat*radians
	cp := math.Cos(p)
	return r3.Vector{X: math.Cos(l) * cp, Y: math.Sin(l) * cp, Z: math.Sin(p)}
}

// Delta is the shortest-arc rotation taking v0 to v1, scaled by alpha.
func Delta(v0, v1 r3.Vector, alpha float64) Versor {
	w := v0.Cross(v1)
	l := w.Norm()
	if l == 0 {
		return Identity
	}
	t := alpha * math.Acos(clamp(v0.Dot(v1))) / 2
	s := math.Sin(t)
	return Versor{math.Cos(t), w.Z / l * s, -w.Y / l * s, w.X / l * s}
}

// Roll is a rotation of angle radians about the view axis.
func Roll(angle float64) Versor {
	s := -math.Sin(angle)
	c := 1.0
	if math.Cos(angle) < 0 {
		c = -1
	}
	return Versor{math.Sqrt(1 - s*s), 0, 0, c * s}
}

// Slerp interpolates along the shorter great arc between a and b.
func Slerp(a, b Versor, t float64) Versor {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if dot < 0 {
		b = Versor{-b[0], -b[1], -b[2], -b[3]}
		dot = -dot
	}
	if dot > 0.9995 {
		return Versor{
			a[0] + t*(b[0]-a[0]),
			a[1] + t*(b[1]-a[1]),
			a[2] + t*(b[2]-a[2]),
			a[3] + t*(b[3]-a[3]),
		}.normalize()
	}
	theta0 := math.Acos(clamp(dot))
	l := Versor{b[0] - a[0]*dot, b[1] - a[1]*dot, b[2] - a[2]*dot, b[3] - a[3]*dot}.normalize()
	s, c := math.Sin(theta0*t), math.Cos(theta0*t)
	return Versor{
		a[0]*c + l[0]*s,
		a[1]*c + l[1]*s,
		a[2]*c + l[2]*s,
		a[3]*c + l[3]*s,
	}
}

func (q Versor) normalize() Versor {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		return Identity
	}
	return Versor{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

func clamp(x float64) float64 { return math.Max(-1, math.Min(1, x)) }
