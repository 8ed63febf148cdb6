package projection

import "math"

// rotation turns the sphere by yaw (lambda), pitch (phi) and roll (gamma),
// all in radians, matching the three-axis rotate of d3-geo.
type rotation struct {
	dLambda            float64
	cosPhi, sinPhi     float64
	cosGamma, sinGamma float64
	phiGamma           bool
}

func newRotation(dLambda, dPhi, dGamma float64) rotation {
	return rotation{
		dLambda:  dLambda,
		cosPhi:   math.Cos(dPhi),
		sinPhi:   math.Sin(dPhi),
		cosGamma: math.Cos(dGamma),
		sinGamma: math.Sin(dGamma),
		phiGamma: dPhi != 0 || dGamma != 0,
	}
}

func wrapLambda(l float64) float64 {
	if l > math.Pi {
		return l - 2*math.Pi
	}
	if l < -math.Pi {
		return l + 2*math.Pi
	}
	return l
}

func (r rotation) forward(lambda, phi float64) (float64, float64) {
	lambda = wrapLambda(lambda + r.dLambda)
	if !r.phiGamma {
		return lambda, phi
	}
	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*r.cosPhi + x*r.sinPhi
	return math.Atan2(y*r.cosGamma-k*r.sinGamma, x*r.cosPhi-z*r.sinPhi),
		asin(k*r.cosGamma + y*r.sinGamma)
}

func (r rotation) invert(lambda, phi float64) (float64, float64) {
	if r.phiGamma {
		cosPhi := math.Cos(phi)
		x := math.Cos(lambda) * cosPhi
		y := math.Sin(lambda) * cosPhi
		z := math.Sin(phi)
		k := z*r.cosGamma - y*r.sinGamma
		lambda = math.Atan2(y*r.cosGamma+z*r.sinGamma, x*r.cosPhi+k*r.sinPhi)
		phi = asin(k*r.cosPhi - x*r.sinPhi)
	}
	return wrapLambda(lambda - r.dLambda), phi
}

func asin(x float64) float64 {
	return math.Asin(math.Max(-1, math.Min(1, x)))
}
