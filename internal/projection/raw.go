package projection

import "math"

const epsilon = 1e-6

// raw projects radians onto the unit plane, y pointing north.
type raw interface {
	forward(lambda, phi float64) (x, y float64)
	invert(x, y float64) (lambda, phi float64)
}

type naturalEarth1 struct{}

func (naturalEarth1) forward(lambda, phi float64) (float64, float64) {
	phi2 := phi * phi
	phi4 := phi2 * phi2
	return lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4))),
		phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
}

// invert solves for phi by Newton iteration.
func (naturalEarth1) invert(x, y float64) (float64, float64) {
	phi := y
	for i := 0; i < 25; i++ {
		phi2 := phi * phi
		phi4 := phi2 * phi2
		delta := (phi*(1.007226+phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4))) - y) /
			(1.007226 + phi2*(0.015085*3+phi4*(-0.044475*7+0.028874*9*phi2-0.005916*11*phi4)))
		phi -= delta
		if math.Abs(delta) <= epsilon {
			break
		}
	}
	phi2 := phi * phi
	return x / (0.8707 + phi2*(-0.131979+phi2*(-0.013791+phi2*phi2*phi2*(0.003971-0.001529*phi2)))), phi
}

type equirectangular struct{}

func (equirectangular) forward(lambda, phi float64) (float64, float64) { return lambda, phi }
func (equirectangular) invert(x, y float64) (float64, float64)         { return x, y }

type mercator struct{}

// maxMercatorPhi keeps the poles finite.
const maxMercatorPhi = 85 * math.Pi / 180

func (mercator) forward(lambda, phi float64) (float64, float64) {
	phi = math.Max(-maxMercatorPhi, math.Min(maxMercatorPhi, phi))
	return lambda, math.Log(math.Tan((math.Pi/2 + phi) / 2))
}

func (mercator) invert(x, y float64) (float64, float64) {
	return x, 2*math.Atan(math.Exp(y)) - math.Pi/2
}

const (
	eeA1 = 1.340264
	eeA2 = -0.081106
	eeA3 = 0.000893
	eeA4 = 0.003796
)

var eeM = math.Sqrt(3) / 2

type equalEarth struct{}

func (equalEarth) forward(lambda, phi float64) (float64, float64) {
	l := math.Asin(eeM * math.Sin(phi))
	l2 := l * l
	l6 := l2 * l2 * l2
	return lambda * math.Cos(l) / (eeM * (eeA1 + 3*eeA2*l2 + l6*(7*eeA3+9*eeA4*l2))),
		l * (eeA1 + eeA2*l2 + l6*(eeA3+eeA4*l2))
}

func (equalEarth) invert(x, y float64) (float64, float64) {
	l := y
	l2 := l * l
	l6 := l2 * l2 * l2
	for i := 0; i < 12; i++ {
		fy := l*(eeA1+eeA2*l2+l6*(eeA3+eeA4*l2)) - y
		fpy := eeA1 + 3*eeA2*l2 + l6*(7*eeA3+9*eeA4*l2)
		delta := fy / fpy
		l -= delta
		l2 = l * l
		l6 = l2 * l2 * l2
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return eeM * x * (eeA1 + 3*eeA2*l2 + l6*(7*eeA3+9*eeA4*l2)) / math.Cos(l),
		math.Asin(math.Sin(l) / eeM)
}

type orthographic struct{}

func (orthographic) forward(lambda, phi float64) (float64, float64) {
	return math.Cos(phi) * math.Sin(lambda), math.Sin(phi)
}

func (orthographic) invert(x, y float64) (float64, float64) {
	z := math.Hypot(x, y)
	c := math.Asin(math.Min(1, z))
	sc, cc := math.Sin(c), math.Cos(c)
	var phi float64
	if z != 0 {
		phi = math.Asin(y * sc / z)
	}
	return math.Atan2(x*sc, z*cc), phi
}
