package scale

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestExtent(t *testing.T) {
	lo, hi, ok := Extent([]float64{math.NaN(), 3, -1, math.Inf(1), 2})
	if !ok || lo != -1 || hi != 3 {
		t.Fatalf("got %v %v %v", lo, hi, ok)
	}
	if _, _, ok := Extent(nil); ok {
		t.Fatal("expected ok=false for empty input")
	}
	if _, ok := Max([]float64{math.NaN()}); ok {
		t.Fatal("expected ok=false for all-NaN input")
	}
}

func TestLinear(t *testing.T) {
	s := NewLinear(0, 0.5, 0.01, 0.5)
	if !approx(s.At(0), 0.01) || !approx(s.At(0.5), 0.5) || !approx(s.At(0.25), 0.255) {
		t.Fatalf("unexpected mapping %v %v %v", s.At(0), s.At(0.5), s.At(0.25))
	}
	if !approx(s.Invert(s.At(0.3)), 0.3) {
		t.Fatal("invert mismatch")
	}
	if got := NewLinear(1, 1, 10, 2).At(42); got != 6 {
		t.Fatalf("expected degenerate domain midpoint 6, got %v", got)
	}
	c := Linear{D0: 0, D1: 1, R0: 0, R1: 10, Clamp: true}
	if c.At(2) != 10 || c.At(-1) != 0 {
		t.Fatal("clamp not applied")
	}
}

func TestAreaProportional(t *testing.T) {
	s := NewArea(0.5, 2, 20)
	r1 := s.At(0.25)
	r2 := s.At(0.5)
	if r1 > r2 {
		t.Fatalf("radius not monotonic: %v > %v", r1, r2)
	}
	a1, a2 := math.Pi*r1*r1, math.Pi*r2*r2
	if !approx(a1/a2, 0.25/0.5) {
		t.Fatalf("area ratio %v, want 0.5", a1/a2)
	}
}

func TestAreaEndToEndRadii(t *testing.T) {
	s := NewArea(0.5, 2, 20)
	if got := s.At(0.5); !approx(got, 20) {
		t.Fatalf("max radius %v, want 20", got)
	}
	if got := s.At(0.25); !approx(got, 20*math.Sqrt(0.5)) {
		t.Fatalf("radius %v, want %v", got, 20*math.Sqrt(0.5))
	}
}

func TestAreaGuards(t *testing.T) {
	s := NewArea(0.5, 2, 20)
	if s.At(0) != 0 || s.At(math.NaN()) != 0 || s.At(-1) != 0 {
		t.Fatal("expected 0 for missing values")
	}
	if got := s.At(1e-9); got != 2 {
		t.Fatalf("expected floor radius 2, got %v", got)
	}
	if NewArea(0, 2, 20).At(0.3) != 0 {
		t.Fatal("expected inert scale for empty domain")
	}
}

func TestColorRamp(t *testing.T) {
	c := NewColorRamp("#000000", "#ffffff")
	if c.At(0) != "#000000" || c.At(1) != "#ffffff" {
		t.Fatalf("unexpected ends %s %s", c.At(0), c.At(1))
	}
	if c.At(-3) != c.At(0) || c.At(7) != c.At(1) {
		t.Fatal("expected clamping")
	}
	mid := c.At(0.5)
	if mid == "#000000" || mid == "#ffffff" {
		t.Fatalf("expected blended midpoint, got %s", mid)
	}
}
