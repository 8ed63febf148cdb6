package chart

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidVariant = errors.New("invalid variant")

// Variant selects how the map is projected and how it reacts to input.
type Variant int

const (
	// FlatStatic is a flat map with no interaction.
	FlatStatic Variant = iota
	// FlatInteractive is a flat map that pans, zooms and picks countries.
	FlatInteractive
	// GlobeAutoplay is a globe that tours countries on a timer.
	GlobeAutoplay
	// GlobeDrag is a globe rotated by dragging.
	GlobeDrag
)

var variantNames = map[Variant]string{
	FlatStatic:      "flat-static",
	FlatInteractive: "flat-interactive",
	GlobeAutoplay:   "globe-autoplay",
	GlobeDrag:       "globe-drag-interactive",
}

// Variants lists every variant in declaration order.
func Variants() []Variant {
	return []Variant{FlatStatic, FlatInteractive, GlobeAutoplay, GlobeDrag}
}

func (v Variant) String() string {
	if n, ok := variantNames[v]; ok {
		return n
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Globe reports whether the variant draws an orthographic globe.
func (v Variant) Globe() bool { return v == GlobeAutoplay || v == GlobeDrag }

// Interactive reports whether pointer input picks countries.
func (v Variant) Interactive() bool { return v != FlatStatic }

// Next cycles through the variants.
func (v Variant) Next() Variant {
	vs := Variants()
	return vs[(int(v)+1)%len(vs)]
}

// ParseVariant accepts the variant names; an empty name is FlatStatic.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FlatStatic, nil
	}
	if s == "globe-drag" {
		return GlobeDrag, nil
	}
	for v, n := range variantNames {
		if n == s {
			return v, nil
		}
	}
	return FlatStatic, fmt.Errorf("%w: %q", ErrInvalidVariant, s)
}
