package geom

import "github.com/paulmach/orb"

// RangeBox builds the polygon a projection is fit to from a clip box
// [[lon0, lat0], [lon1, lat1]]. ok is false for a malformed box.
//
// A box whose west edge is east of its east edge crosses the antimeridian,
// so lon1 is unwrapped by 360. The long edges carry intermediate points so
// they follow parallels once projected.
func RangeBox(clip [][]float64) (orb.Polygon, bool) {
	if len(clip) != 2 || len(clip[0]) != 2 || len(clip[1]) != 2 {
		return nil, false
	}
	lon0, lat0 := clip[0][0], clip[0][1]
	lon1, lat1 := clip[1][0], clip[1][1]
	if lon0 > 0 && lon1 < 0 {
		lon1 += 360
	}
	if lat0 > lat1 {
		lat0, lat1 = lat1, lat0
	}
	q := (lon1 - lon0) / 4
	ring := orb.Ring{
		{lon0, lat0},
		{lon0, lat1},
		{lon0 + q, lat1},
		{lon0 + 2*q, lat1},
		{lon0 + 3*q, lat1},
		{lon1, lat1},
		{lon1, lat0},
		{lon1 - q, lat0},
		{lon1 - 2*q, lat0},
		{lon1 - 3*q, lat0},
		{lon0, lat0},
	}
	return orb.Polygon{ring}, true
}
