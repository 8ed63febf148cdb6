package tessellation

import (
	"math"
	"testing"
)

func TestLocateOwnCentroid(t *testing.T) {
	sites := []Site{
		{Key: "FR", Lon: 2.2, Lat: 46.2},
		{Key: "DE", Lon: 10.4, Lat: 51.1},
		{Key: "ES", Lon: -3.7, Lat: 40.4},
	}
	tess := New(append(sites, OceanResets()...))
	for _, s := range sites {
		got, ok := tess.Locate(s.Lon, s.Lat)
		if !ok || got.Key != s.Key {
			t.Fatalf("centroid of %s resolved to %+v", s.Key, got)
		}
	}
}

func TestLocateOcean(t *testing.T) {
	tess := New(append([]Site{{Key: "FR", Lon: 2.2, Lat: 46.2}}, OceanResets()...))
	got, ok := tess.Locate(-35, 35)
	if !ok || !got.Reset {
		t.Fatalf("expected reset site mid-atlantic, got %+v", got)
	}
}

func TestExcludesDegenerate(t *testing.T) {
	tess := New([]Site{
		{Key: "NULL", Lon: 0, Lat: 0},
		{Key: "NAN", Lon: math.NaN(), Lat: 10},
		{Key: "INF", Lon: 10, Lat: math.Inf(1)},
		{Key: "OK", Lon: 1, Lat: 1},
	})
	if tess.Len() != 1 {
		t.Fatalf("expected 1 site, got %d", tess.Len())
	}
	got, ok := tess.Locate(0, 0)
	if !ok || got.Key != "OK" {
		t.Fatalf("got %+v", got)
	}
}

func TestLocateTieBreaksByIndex(t *testing.T) {
	tess := New([]Site{{Key: "A", Lon: 10, Lat: 0}, {Key: "B", Lon: -10, Lat: 0}})
	for i := 0; i < 3; i++ {
		got, _ := tess.Locate(0, 45)
		if got.Key != "A" {
			t.Fatalf("expected first site on a tie, got %s", got.Key)
		}
	}
}

func TestLocateAcrossAntimeridian(t *testing.T) {
	tess := New([]Site{{Key: "FJ", Lon: 178, Lat: -17}, {Key: "BR", Lon: -50, Lat: -10}})
	got, _ := tess.Locate(-179, -17)
	if got.Key != "FJ" {
		t.Fatalf("expected FJ across the antimeridian, got %s", got.Key)
	}
}

func TestEmpty(t *testing.T) {
	if _, ok := New(nil).Locate(1, 1); ok {
		t.Fatal("expected no site")
	}
}
