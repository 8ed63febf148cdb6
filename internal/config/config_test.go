package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMergeIsAdditive(t *testing.T) {
	base := DefaultProps()

	p, err := Merge(base, []byte(`
map:
  styles:
    marker:
      radius:
        max: 30
`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Map.Styles.Marker.Radius.Max != 30 {
		t.Fatalf("expected radius max 30, got %v", p.Map.Styles.Marker.Radius.Max)
	}
	if p.Map.Styles.Marker.Radius.Min != base.Map.Styles.Marker.Radius.Min {
		t.Fatalf("expected radius min to survive merge, got %v", p.Map.Styles.Marker.Radius.Min)
	}
	if p.Map.Projection.Name != base.Map.Projection.Name {
		t.Fatalf("expected projection name to survive merge, got %q", p.Map.Projection.Name)
	}
	if base.Map.Styles.Marker.Radius.Max != 20 {
		t.Fatal("base props mutated")
	}
}

func TestMergeSuccessiveOverlays(t *testing.T) {
	p, err := Merge(DefaultProps(), []byte("locale: de\n"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	p, err = Merge(p, []byte("map:\n  projection:\n    clipBox: [[170, 10], [-170, -10]]\n"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Locale != "de" {
		t.Fatalf("expected first overlay to persist, got locale %q", p.Locale)
	}
	if len(p.Map.Projection.ClipBox) != 2 || p.Map.Projection.ClipBox[1][0] != -170 {
		t.Fatalf("unexpected clip box %v", p.Map.Projection.ClipBox)
	}
}

func TestMergeEmptyOverlay(t *testing.T) {
	base := DefaultProps()
	p, err := Merge(base, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if p.Text.Tooltip != base.Text.Tooltip {
		t.Fatal("expected unchanged props")
	}
}

func TestMergeInvalidYAML(t *testing.T) {
	_, err := Merge(DefaultProps(), []byte("map: [unterminated"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse overlay:") {
		t.Fatalf("expected parse overlay prefix, got %v", err)
	}
}

func TestLoadProps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	if err := os.WriteFile(path, []byte("variant: globe-drag\nautoplay:\n  maxCycles: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProps(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Variant != "globe-drag" || p.Autoplay.MaxCycles != 3 {
		t.Fatalf("unexpected props %+v", p)
	}
	if p.Autoplay.Interval != DefaultProps().Autoplay.Interval {
		t.Fatal("expected default interval to survive")
	}

	if _, err := LoadProps(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("VAXMAP_DATA", "data.json")
	t.Setenv("VAXMAP_WATCH", "true")

	s, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if s.DataPath != "data.json" || !s.Watch {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", s.LogLevel)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("VAXMAP_WATCH", "not-a-bool")

	_, err := ParseEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
