package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Props holds every visual constant of the chart. Overlays are merged onto
// it with Merge; nothing replaces it wholesale.
type Props struct {
	Variant  string `yaml:"variant"`
	Locale   string `yaml:"locale"`
	Disputed bool   `yaml:"disputed"`

	Map      MapProps      `yaml:"map"`
	Data     DataProps     `yaml:"data"`
	Filters  FilterProps   `yaml:"filters"`
	Globe    GlobeProps    `yaml:"globe"`
	Autoplay AutoplayProps `yaml:"autoplay"`
	Text     TextProps     `yaml:"text"`
	Legend   LegendProps   `yaml:"legend"`

	Annotations AnnotationProps `yaml:"annotations"`
}

type MapProps struct {
	// Below MinWidth the target is treated as mobile.
	MinWidth          float64         `yaml:"minWidth"`
	HeightRatio       float64         `yaml:"heightRatio"`
	MobileHeightRatio float64         `yaml:"mobileHeightRatio"`
	MarginBottom      float64         `yaml:"marginBottom"`
	Projection        ProjectionProps `yaml:"projection"`
	Styles            StyleProps      `yaml:"styles"`
}

type ProjectionProps struct {
	Name string `yaml:"name"`
	// ClipBox is [[lon0, lat0], [lon1, lat1]].
	ClipBox [][]float64 `yaml:"clipBox"`
	Center  []float64   `yaml:"center"`
	Scale   float64     `yaml:"scale"`
	Rotate  []float64   `yaml:"rotate"`
}

type StyleProps struct {
	Land    ShapeStyle  `yaml:"land"`
	Country ShapeStyle  `yaml:"country"`
	NoData  ShapeStyle  `yaml:"noData"`
	Sphere  ShapeStyle  `yaml:"sphere"`
	Marker  MarkerStyle `yaml:"marker"`
	// Highlight is the stroke color of the active country.
	Highlight string `yaml:"highlight"`
}

type ShapeStyle struct {
	Fill        string  `yaml:"fill"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"strokeWidth"`
	Opacity     float64 `yaml:"opacity"`
}

type MarkerStyle struct {
	Radius         Range      `yaml:"radius"`
	Opacity        Range      `yaml:"opacity"`
	PulseFrequency Range      `yaml:"pulseFrequency"`
	Color          ColorRange `yaml:"color"`
	Outer          ShapeStyle `yaml:"outer"`
	Inner          ShapeStyle `yaml:"inner"`
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type ColorRange struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type DataProps struct {
	// Size and Pace name the metrics driving marker area and pulse speed.
	Size string `yaml:"size"`
	Pace string `yaml:"pace"`
}

type FilterProps struct {
	Country Threshold `yaml:"country"`
	Pace    Threshold `yaml:"pace"`
}

type Threshold struct {
	MinPopulation float64 `yaml:"minPopulation"`
	MinCoverage   float64 `yaml:"minCoverage"`
}

type GlobeProps struct {
	LockHorizon bool    `yaml:"lockHorizon"`
	Tilt        float64 `yaml:"tilt"`
	// ResetThreshold is the versor scalar below which a drag restarts.
	ResetThreshold float64 `yaml:"resetThreshold"`
	OceanReset     bool    `yaml:"oceanReset"`
}

type AutoplayProps struct {
	// Enabled starts the tour on its own; only globe-autoplay does so.
	Enabled   bool `yaml:"enabled"`
	Interval  int  `yaml:"intervalMs"`
	Duration  int  `yaml:"durationMs"`
	MaxCycles int  `yaml:"maxCycles"`
	FPS       int  `yaml:"fps"`
	// Order is random or sequential.
	Order string `yaml:"order"`
}

type TextProps struct {
	Tooltip     string `yaml:"tooltip"`
	AtPeak      string `yaml:"atPeak"`
	CoverageKey string `yaml:"coverageKey"`
	PaceKey     string `yaml:"paceKey"`
	More        string `yaml:"more"`
	Less        string `yaml:"less"`
	Faster      string `yaml:"faster"`
	Slower      string `yaml:"slower"`
}

// AnnotationProps pins labels to countries by ISO code: Names shows the
// country name, Values its coverage text.
type AnnotationProps struct {
	Names    []string `yaml:"names"`
	Values   []string `yaml:"values"`
	HoverGap float64  `yaml:"hoverGap"`
}

type LegendProps struct {
	Show   bool    `yaml:"show"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultProps returns the built-in props.
func DefaultProps() Props {
	return Props{
		Variant:  "flat-static",
		Locale:   "en",
		Disputed: false,
		Map: MapProps{
			MinWidth:          900,
			HeightRatio:       0.5,
			MobileHeightRatio: 0.8,
			MarginBottom:      90,
			Projection: ProjectionProps{
				Name: "geoNaturalEarth1",
			},
			Styles: StyleProps{
				Land:    ShapeStyle{Fill: "#999999", Stroke: "#999999", StrokeWidth: 0, Opacity: 0.1},
				Country: ShapeStyle{Fill: "#74c476", Stroke: "#2f353f", StrokeWidth: 1, Opacity: 0.3},
				NoData:  ShapeStyle{Fill: "#555555", Stroke: "#2f353f", StrokeWidth: 0.5, Opacity: 0.15},
				Sphere:  ShapeStyle{Fill: "none", Stroke: "#3b4452", StrokeWidth: 1, Opacity: 1},
				Marker: MarkerStyle{
					Radius:         Range{Min: 2, Max: 20},
					Opacity:        Range{Min: 0.01, Max: 0.5},
					PulseFrequency: Range{Min: 10, Max: 2},
					Color:          ColorRange{From: "#c7e9c0", To: "#238b45"},
					Outer:          ShapeStyle{Fill: "none", Stroke: "#ffffff", StrokeWidth: 1, Opacity: 0.2},
					Inner:          ShapeStyle{Fill: "#74c476", Stroke: "#74c476", StrokeWidth: 1, Opacity: 0.6},
				},
				Highlight: "#ffa500",
			},
		},
		Data: DataProps{
			Size: "vaccinatedPerPop",
			Pace: "latestWeekDosesPerPop",
		},
		Filters: FilterProps{
			Country: Threshold{MinPopulation: 100000, MinCoverage: 0},
			Pace:    Threshold{MinPopulation: 100000, MinCoverage: 0.4},
		},
		Globe: GlobeProps{
			LockHorizon:    true,
			Tilt:           20,
			ResetThreshold: 0.7,
			OceanReset:     true,
		},
		Autoplay: AutoplayProps{
			Enabled:   true,
			Interval:  4000,
			Duration:  1500,
			MaxCycles: 0,
			FPS:       30,
			Order:     "random",
		},
		Text: TextProps{
			Tooltip:     "{{.Name}}\n{{.Percent}} given at least one dose",
			AtPeak:      "{{.Name}}\nEveryone has at least one dose",
			CoverageKey: "Percent of pop. given at least 1 dose",
			PaceKey:     "Pace of rollout in last reported week",
			More:        "More",
			Less:        "Less",
			Faster:      "Faster",
			Slower:      "Slower",
		},
		Legend:      LegendProps{Show: true, Width: 120, Height: 70},
		Annotations: AnnotationProps{HoverGap: 8},
	}
}

// Merge overlays a partial YAML document onto p. Mappings merge
// recursively; scalars and sequences in the overlay replace.
func Merge(p Props, overlay []byte) (Props, error) {
	var over map[string]any
	if err := yaml.Unmarshal(overlay, &over); err != nil {
		return p, fmt.Errorf("parse overlay: %w", err)
	}
	if len(over) == 0 {
		return p, nil
	}
	return MergeMap(p, over)
}

// MergeMap is Merge for an already decoded overlay.
func MergeMap(p Props, over map[string]any) (Props, error) {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("encode props: %w", err)
	}
	var base map[string]any
	if err := yaml.Unmarshal(raw, &base); err != nil {
		return p, fmt.Errorf("decode props: %w", err)
	}
	merged := deepMerge(base, over)
	out, err := yaml.Marshal(merged)
	if err != nil {
		return p, fmt.Errorf("encode merged props: %w", err)
	}
	var next Props
	if err := yaml.Unmarshal(out, &next); err != nil {
		return p, fmt.Errorf("decode merged props: %w", err)
	}
	return next, nil
}

func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		sm, sok := v.(map[string]any)
		dm, dok := dst[k].(map[string]any)
		if sok && dok {
			dst[k] = deepMerge(dm, sm)
			continue
		}
		dst[k] = v
	}
	return dst
}

// LoadProps reads an overlay file and merges it onto the defaults.
func LoadProps(path string) (Props, error) {
	p := DefaultProps()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read props: %w", err)
	}
	return Merge(p, data)
}
