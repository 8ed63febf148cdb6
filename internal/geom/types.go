package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Atlas is the geography payload: country shapes, the land mass and the
// optional disputed boundaries.
type Atlas struct {
	Countries []Country
	Land      orb.MultiPolygon
	Disputed  orb.MultiLineString
	// HasDisputed is false when the payload carries no disputed boundaries
	// object; the feature is then disabled, not an error.
	HasDisputed bool
}

// Country is one country feature.
type Country struct {
	ID       string
	ISO2     string
	Slug     string
	Names    map[string]string // by locale
	Centroid orb.Point
	// HasCentroid is false when neither the payload nor the geometry
	// yielded a usable centroid.
	HasCentroid bool
	Geometry    orb.Geometry
}

// Name returns the display name for locale, then English, then the ISO code.
func (c Country) Name(locale string) string {
	if n := c.Names[locale]; n != "" {
		return n
	}
	if n := c.Names["en"]; n != "" {
		return n
	}
	return c.ISO2
}

// Bound covers every country geometry.
func (a *Atlas) Bound() orb.Bound {
	var b orb.Bound
	first := true
	for _, c := range a.Countries {
		if c.Geometry == nil {
			continue
		}
		cb := c.Geometry.Bound()
		if first {
			b, first = cb, false
			continue
		}
		b = b.Union(cb)
	}
	return b
}

// Collection returns all country geometries as one collection, the shape
// projections are fit to.
func (a *Atlas) Collection() orb.Collection {
	out := make(orb.Collection, 0, len(a.Countries))
	for _, c := range a.Countries {
		if c.Geometry != nil {
			out = append(out, c.Geometry)
		}
	}
	return out
}

// Lookup finds a country by ISO code.
func (a *Atlas) Lookup(iso string) (Country, bool) {
	for _, c := range a.Countries {
		if c.ISO2 == iso {
			return c, true
		}
	}
	return Country{}, false
}

func validPoint(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}
