package geom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Load reads a geography file, TopoJSON or GeoJSON.
func Load(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode sniffs the payload type and decodes it.
func Decode(data []byte) (*Atlas, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &head); err != nil {
		return nil, fmt.Errorf("decode geography: %w", err)
	}
	switch head.Type {
	case "Topology":
		return DecodeTopology(data)
	case "FeatureCollection":
		return DecodeGeoJSON(data)
	}
	return nil, fmt.Errorf("%w: type %q", ErrUnsupportedTopology, head.Type)
}

// DecodeGeoJSON reads a country FeatureCollection. There is no disputed
// boundary object in this form; land is the union of country polygons.
func DecodeGeoJSON(data []byte) (*Atlas, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	atlas := &Atlas{}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		atlas.Countries = append(atlas.Countries, countryFrom(f.ID, f.Properties, f.Geometry))
	}
	if len(atlas.Countries) == 0 {
		return nil, ErrNoGeometry
	}
	atlas.Land = landFromCountries(atlas.Countries)
	return atlas, nil
}

func countryFrom(id any, raw map[string]any, g orb.Geometry) Country {
	props := geojson.Properties(raw)
	c := Country{
		ISO2:     props.MustString("isoAlpha2", props.MustString("iso2", "")),
		Slug:     props.MustString("slug", ""),
		Names:    map[string]string{},
		Geometry: g,
	}
	if id != nil {
		c.ID = fmt.Sprint(id)
	}
	if c.ID == "" {
		c.ID = c.ISO2
	}
	if n := props.MustString("name", ""); n != "" {
		c.Names["en"] = n
	}
	if tr, ok := raw["translations"].(map[string]any); ok {
		for locale, v := range tr {
			if s, ok := v.(string); ok && s != "" {
				c.Names[locale] = s
			}
		}
	}

	if p, ok := centroidProp(raw["centroid"]); ok {
		c.Centroid, c.HasCentroid = p, true
	} else if p, _ := planar.CentroidArea(g); validPoint(p) && !p.Equal(orb.Point{}) {
		c.Centroid, c.HasCentroid = p, true
	}
	return c
}

func centroidProp(v any) (orb.Point, bool) {
	a, ok := v.([]any)
	if !ok || len(a) < 2 {
		return orb.Point{}, false
	}
	lon, lok := a[0].(float64)
	lat, aok := a[1].(float64)
	if !lok || !aok {
		return orb.Point{}, false
	}
	p := orb.Point{lon, lat}
	return p, validPoint(p)
}
