package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	"vaxmap/internal/chart"
	"vaxmap/internal/config"
	"vaxmap/internal/geom"
	"vaxmap/internal/metrics"
)

// Sources are the files a chart is loaded from. Props is optional.
// Variant, when set, wins over the props file on every load and reload.
type Sources struct {
	Data    string
	Geo     string
	Props   string
	Variant string
}

// Paths lists the configured files, for watching.
func (s Sources) Paths() []string {
	var out []string
	for _, p := range []string{s.Data, s.Geo, s.Props} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads every source into c.
func (s Sources) Load(c *chart.Chart) error {
	if err := s.loadProps(c); err != nil {
		return err
	}
	if err := s.loadGeo(c); err != nil {
		return err
	}
	return s.loadData(c)
}

// Reload re-reads the sources named in changed and leaves the others
// alone. A reloaded props file replaces overlays merged since start but
// keeps the variant override.
func (s Sources) Reload(c *chart.Chart, changed []string) error {
	var errs []error
	for _, p := range changed {
		switch filepath.Clean(p) {
		case filepath.Clean(s.Props):
			errs = append(errs, s.loadProps(c))
		case filepath.Clean(s.Geo):
			errs = append(errs, s.loadGeo(c))
		case filepath.Clean(s.Data):
			errs = append(errs, s.loadData(c))
		}
	}
	return errors.Join(errs...)
}

func (s Sources) loadProps(c *chart.Chart) error {
	p, err := config.LoadProps(s.Props)
	if err != nil {
		return err
	}
	if s.Variant != "" {
		p.Variant = s.Variant
	}
	if err := c.SetProps(p); err != nil {
		return fmt.Errorf("props %s: %w", filepath.Base(s.Props), err)
	}
	return nil
}

func (s Sources) loadGeo(c *chart.Chart) error {
	if s.Geo == "" {
		return errors.New("no geography file")
	}
	a, err := geom.Load(s.Geo)
	if err != nil {
		return fmt.Errorf("geography %s: %w", filepath.Base(s.Geo), err)
	}
	c.SetGeo(a)
	return nil
}

func (s Sources) loadData(c *chart.Chart) error {
	if s.Data == "" {
		return errors.New("no dataset file")
	}
	recs, err := metrics.LoadFile(s.Data)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", filepath.Base(s.Data), err)
	}
	c.SetData(recs)
	return nil
}
