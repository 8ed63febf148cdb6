package versor

import (
	"math"
	"testing"

	"vaxmap/internal/projection"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestRotationRoundTrip(t *testing.T) {
	r := [3]float64{30, -20, 10}
	got := FromRotation(r).Rotation()
	for i := range r {
		if !near(got[i], r[i], 1e-9) {
			t.Fatalf("round trip %v -> %v", r, got)
		}
	}
	if Identity.Multiply(FromRotation(r)) != FromRotation(r) {
		t.Fatal("identity is not neutral")
	}
}

func TestDelta(t *testing.T) {
	v := Cartesian(12, 34)
	if Delta(v, v, 1) != Identity {
		t.Fatal("expected identity for equal vectors")
	}
	d := Delta(Cartesian(0, 0), Cartesian(90, 0), 1)
	if !near(d[0], math.Cos(math.Pi/4), 1e-12) {
		t.Fatalf("unexpected scalar part %v", d[0])
	}
}

func TestSlerpEnds(t *testing.T) {
	a := FromRotation([3]float64{0, 0, 0})
	b := FromRotation([3]float64{-120, 40, 0})
	if got := Slerp(a, b, 0); got != a {
		t.Fatalf("slerp(0) = %v", got)
	}
	end := Slerp(a, b, 1).Rotation()
	if !near(end[0], -120, 1e-9) || !near(end[1], 40, 1e-9) {
		t.Fatalf("slerp(1) = %v", end)
	}
	mid := Slerp(a, b, 0.5)
	if n := mid[0]*mid[0] + mid[1]*mid[1] + mid[2]*mid[2] + mid[3]*mid[3]; !near(n, 1, 1e-12) {
		t.Fatalf("not a unit quaternion: %v", n)
	}
}

func globe() *projection.Projection {
	p, _ := projection.New("orthographic")
	p.SetScale(100)
	p.SetTranslate(0, 0)
	return p
}

func TestGestureStartEndIsIdentity(t *testing.T) {
	p := globe()
	p.SetRotate([3]float64{-20, -10, 0})
	before := p.Rotate()
	g := Gesture{LockHorizon: true}
	if !g.Start([]Pointer{{10, 10}}, p) {
		t.Fatal("expected start on the sphere")
	}
	g.End()
	if p.Rotate() != before {
		t.Fatalf("rotation changed: %v -> %v", before, p.Rotate())
	}

	g.Start([]Pointer{{10, 10}}, p)
	r, ok := g.Move([]Pointer{{10, 10}}, p)
	if !ok {
		t.Fatal("expected move")
	}
	for i := range r {
		if !near(r[i], before[i], 1e-9) {
			t.Fatalf("zero drag changed rotation %v -> %v", before, r)
		}
	}
}

func TestGestureGrabsPoint(t *testing.T) {
	p := globe()
	g := Gesture{LockHorizon: true}
	g.Start([]Pointer{{0, 0}}, p)
	r, ok := g.Move([]Pointer{{50, 0}}, p)
	if !ok || !near(r[0], 30, 1e-9) {
		t.Fatalf("unexpected rotation %v %v", r, ok)
	}
	x, y, _ := p.Project(0, 0)
	if !near(x, 50, 1e-9) || !near(y, 0, 1e-9) {
		t.Fatalf("grabbed point at %v,%v, want 50,0", x, y)
	}
}

func TestGestureRoll(t *testing.T) {
	start := []Pointer{{-10, 0}, {10, 0}}
	turned := []Pointer{{0, -10}, {0, 10}}

	p := globe()
	free := Gesture{}
	free.Start(start, p)
	r, _ := free.Move(turned, p)
	if !near(math.Abs(r[2]), 90, 1e-9) {
		t.Fatalf("expected a quarter roll, got %v", r)
	}

	p = globe()
	locked := Gesture{LockHorizon: true}
	locked.Start(start, p)
	r, _ = locked.Move(turned, p)
	if r[2] != 0 {
		t.Fatalf("expected roll discarded, got %v", r)
	}
}

func TestGestureOffSphere(t *testing.T) {
	p := globe()
	g := Gesture{}
	if g.Start([]Pointer{{500, 500}}, p) || g.Active() {
		t.Fatal("expected start off the sphere to fail")
	}
	if _, ok := g.Move([]Pointer{{0, 0}}, p); ok {
		t.Fatal("expected move without a gesture to fail")
	}
}
