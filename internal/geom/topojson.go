package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	ErrNoGeometry          = errors.New("no geometries found")
	ErrUnsupportedTopology = errors.New("unsupported topology")
)

type topology struct {
	Type      string                     `json:"type"`
	Transform *transform                 `json:"transform"`
	Arcs      [][][]float64              `json:"arcs"`
	Objects   map[string]json.RawMessage `json:"objects"`
}

type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// topoGeometry is any TopoJSON geometry object. Arcs is decoded lazily
// because its nesting depth depends on Type.
type topoGeometry struct {
	Type        string          `json:"type"`
	ID          any             `json:"id"`
	Properties  map[string]any  `json:"properties"`
	Arcs        json.RawMessage `json:"arcs"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  []topoGeometry  `json:"geometries"`
}

type topoDecoder struct {
	arcs []orb.LineString
	tf   *transform
}

// DecodeTopology decodes a TopoJSON topology with the objects
// "countries", "land" and, optionally, "disputedBoundaries".
func DecodeTopology(data []byte) (*Atlas, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}
	if topo.Type != "Topology" {
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedTopology, topo.Type)
	}
	d := &topoDecoder{tf: topo.Transform}
	d.decodeArcs(topo.Arcs)

	rawCountries, ok := topo.Objects["countries"]
	if !ok {
		return nil, fmt.Errorf("%w: missing countries object", ErrUnsupportedTopology)
	}
	var countries topoGeometry
	if err := json.Unmarshal(rawCountries, &countries); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}

	atlas := &Atlas{}
	for _, g := range flatten(countries) {
		geom, err := d.geometry(g)
		if err != nil {
			return nil, fmt.Errorf("country %v: %w", g.ID, err)
		}
		if geom == nil {
			continue
		}
		atlas.Countries = append(atlas.Countries, countryFrom(g.ID, g.Properties, geom))
	}

	if rawLand, ok := topo.Objects["land"]; ok {
		var land topoGeometry
		if err := json.Unmarshal(rawLand, &land); err != nil {
			return nil, fmt.Errorf("decode land: %w", err)
		}
		for _, g := range flatten(land) {
			geom, err := d.geometry(g)
			if err != nil {
				return nil, fmt.Errorf("land: %w", err)
			}
			atlas.Land = appendPolygons(atlas.Land, geom)
		}
	} else {
		atlas.Land = landFromCountries(atlas.Countries)
	}

	if rawDisputed, ok := topo.Objects["disputedBoundaries"]; ok {
		var disputed topoGeometry
		if err := json.Unmarshal(rawDisputed, &disputed); err != nil {
			return nil, fmt.Errorf("decode disputed boundaries: %w", err)
		}
		mesh, err := d.mesh(disputed)
		if err != nil {
			return nil, fmt.Errorf("disputed boundaries: %w", err)
		}
		atlas.Disputed = mesh
		atlas.HasDisputed = true
	}

	if len(atlas.Countries) == 0 {
		return nil, ErrNoGeometry
	}
	return atlas, nil
}

func (d *topoDecoder) decodeArcs(raw [][][]float64) {
	d.arcs = make([]orb.LineString, len(raw))
	for i, arc := range raw {
		ls := make(orb.LineString, 0, len(arc))
		var x, y float64
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if d.tf != nil {
				// quantized arcs are delta-encoded
				x += p[0]
				y += p[1]
				ls = append(ls, orb.Point{x*d.tf.Scale[0] + d.tf.Translate[0], y*d.tf.Scale[1] + d.tf.Translate[1]})
				continue
			}
			ls = append(ls, orb.Point{p[0], p[1]})
		}
		d.arcs[i] = ls
	}
}

func (d *topoDecoder) point(p []float64) (orb.Point, bool) {
	if len(p) < 2 {
		return orb.Point{}, false
	}
	if d.tf != nil {
		return orb.Point{p[0]*d.tf.Scale[0] + d.tf.Translate[0], p[1]*d.tf.Scale[1] + d.tf.Translate[1]}, true
	}
	return orb.Point{p[0], p[1]}, true
}

// arc returns arc i; negative indexes (~i) are reversed.
func (d *topoDecoder) arc(i int) (orb.LineString, error) {
	rev := i < 0
	if rev {
		i = ^i
	}
	if i >= len(d.arcs) {
		return nil, fmt.Errorf("arc %d out of range", i)
	}
	src := d.arcs[i]
	out := make(orb.LineString, len(src))
	copy(out, src)
	if rev {
		out.Reverse()
	}
	return out, nil
}

// line stitches arcs, dropping the shared first point of every arc after
// the first.
func (d *topoDecoder) line(idx []int) (orb.LineString, error) {
	var out orb.LineString
	for k, i := range idx {
		a, err := d.arc(i)
		if err != nil {
			return nil, err
		}
		if k > 0 && len(a) > 0 {
			a = a[1:]
		}
		out = append(out, a...)
	}
	return out, nil
}

func (d *topoDecoder) polygon(rings [][]int) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ls, err := d.line(r)
		if err != nil {
			return nil, err
		}
		if len(ls) < 4 {
			continue
		}
		poly = append(poly, orb.Ring(ls))
	}
	return poly, nil
}

func (d *topoDecoder) geometry(g topoGeometry) (orb.Geometry, error) {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, err
		}
		p, err := d.polygon(rings)
		if err != nil || len(p) == 0 {
			return nil, err
		}
		return p, nil
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, err
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			p, err := d.polygon(rings)
			if err != nil {
				return nil, err
			}
			if len(p) > 0 {
				mp = append(mp, p)
			}
		}
		if len(mp) == 0 {
			return nil, nil
		}
		return mp, nil
	case "LineString":
		var idx []int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return nil, err
		}
		return d.line(idx)
	case "MultiLineString":
		var lines [][]int
		if err := json.Unmarshal(g.Arcs, &lines); err != nil {
			return nil, err
		}
		mls := make(orb.MultiLineString, 0, len(lines))
		for _, idx := range lines {
			ls, err := d.line(idx)
			if err != nil {
				return nil, err
			}
			mls = append(mls, ls)
		}
		return mls, nil
	case "Point":
		var c []float64
		if err := json.Unmarshal(g.Coordinates, &c); err != nil {
			return nil, err
		}
		p, ok := d.point(c)
		if !ok {
			return nil, nil
		}
		return p, nil
	case "", "null":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: geometry type %q", ErrUnsupportedTopology, g.Type)
}

// mesh returns every arc referenced by the object once, as topojson's
// unfiltered mesh does.
func (d *topoDecoder) mesh(obj topoGeometry) (orb.MultiLineString, error) {
	seen := map[int]bool{}
	var out orb.MultiLineString
	add := func(i int) error {
		if i < 0 {
			i = ^i
		}
		if seen[i] {
			return nil
		}
		seen[i] = true
		a, err := d.arc(i)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	}
	for _, g := range flatten(obj) {
		idx, err := arcIndexes(g)
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			if err := add(i); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func arcIndexes(g topoGeometry) ([]int, error) {
	var out []int
	switch g.Type {
	case "LineString":
		if err := json.Unmarshal(g.Arcs, &out); err != nil {
			return nil, err
		}
	case "MultiLineString", "Polygon":
		var nested [][]int
		if err := json.Unmarshal(g.Arcs, &nested); err != nil {
			return nil, err
		}
		for _, n := range nested {
			out = append(out, n...)
		}
	case "MultiPolygon":
		var nested [][][]int
		if err := json.Unmarshal(g.Arcs, &nested); err != nil {
			return nil, err
		}
		for _, p := range nested {
			for _, r := range p {
				out = append(out, r...)
			}
		}
	}
	return out, nil
}

func flatten(g topoGeometry) []topoGeometry {
	if g.Type != "GeometryCollection" {
		return []topoGeometry{g}
	}
	var out []topoGeometry
	for _, c := range g.Geometries {
		out = append(out, flatten(c)...)
	}
	return out
}

func appendPolygons(mp orb.MultiPolygon, g orb.Geometry) orb.MultiPolygon {
	switch v := g.(type) {
	case orb.Polygon:
		return append(mp, v)
	case orb.MultiPolygon:
		return append(mp, v...)
	}
	return mp
}

// landFromCountries unions country polygons, leaving out Antarctica.
func landFromCountries(cs []Country) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, c := range cs {
		if c.Slug == "antarctica" {
			continue
		}
		mp = appendPolygons(mp, c.Geometry)
	}
	return mp
}
