// Package tessellation resolves a position on the sphere to the nearest
// country centroid. The cells are the spherical Voronoi diagram of the
// sites: every point belongs to the site at the smallest angular distance.
package tessellation

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Site is one generator point. Reset sites sit in open ocean; resolving to
// one clears the highlight.
type Site struct {
	Key   string
	Lon   float64
	Lat   float64
	Reset bool
}

// oceanResets are placed so pointer traces over open water land in a
// reset cell rather than the nearest coastal country.
var oceanResets = [][2]float64{
	{-40.248108, 38.653788},   // north atlantic
	{-29.800018, 14.536220},   // central atlantic
	{-15.485548, -12.941648},  // south atlantic
	{-174.808659, 35.856127},  // north pacific
	{-117.324414, -11.130821}, // south pacific
	{-173.039131, -44.920697}, // southwest pacific
	{64.407024, 5.045815},     // north indian
	{75.569128, -31.691939},   // south indian
	{-5.783266, -83.608077},   // antarctica
}

// OceanResets returns the ocean reset sites.
func OceanResets() []Site {
	out := make([]Site, len(oceanResets))
	for i, p := range oceanResets {
		out[i] = Site{Lon: p[0], Lat: p[1], Reset: true}
	}
	return out
}

type Tessellation struct {
	sites  []Site
	points []s2.Point
}

// New builds the tessellation. Sites with a non-finite coordinate or at
// exactly (0, 0), the marker of a missing centroid, are left out.
func New(sites []Site) *Tessellation {
	t := &Tessellation{}
	for _, s := range sites {
		if !usable(s) {
			continue
		}
		t.sites = append(t.sites, s)
		t.points = append(t.points, s2.PointFromLatLng(s2.LatLngFromDegrees(s.Lat, s.Lon)))
	}
	return t
}

func usable(s Site) bool {
	for _, v := range []float64{s.Lon, s.Lat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if s.Lon == 0 && s.Lat == 0 {
		return false
	}
	return math.Abs(s.Lat) <= 90
}

func (t *Tessellation) Len() int { return len(t.sites) }

// Sites returns the kept sites in input order.
func (t *Tessellation) Sites() []Site {
	return append([]Site(nil), t.sites...)
}

// Locate returns the site whose cell contains (lon, lat). Ties go to the
// site that came first. ok is false for an empty tessellation or a
// non-finite position.
func (t *Tessellation) Locate(lon, lat float64) (Site, bool) {
	if len(t.points) == 0 || math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return Site{}, false
	}
	q := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	best := -1
	bestD := s1.Angle(math.Inf(1))
	for i, p := range t.points {
		if d := q.Distance(p); d < bestD {
			best, bestD = i, d
		}
	}
	return t.sites[best], true
}
