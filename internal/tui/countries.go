package tui

import (
	list "github.com/charmbracelet/bubbles/list"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vaxmap/internal/chart"
)

type countryItem struct {
	stat chart.CountryStat
	desc string
}

func (c countryItem) Title() string       { return c.stat.Name }
func (c countryItem) Description() string { return c.desc }
func (c countryItem) FilterValue() string { return c.stat.Name + " " + c.stat.ISO }

// refreshCountries lists the drawn countries with data, keeping the
// cursor where it was when the list is unchanged in length.
func (m *Model) refreshCountries() {
	p := message.NewPrinter(language.Make(m.chart.Props().Locale))
	stats := m.chart.Countries()
	items := make([]list.Item, 0, len(stats))
	for _, s := range stats {
		items = append(items, countryItem{
			stat: s,
			desc: p.Sprintf("%s  %.0f%% one dose", s.ISO, s.Derived.VaccinatedPerPop*100),
		})
	}
	idx := m.l.Index()
	m.l.SetItems(items)
	if idx < len(items) {
		m.l.Select(idx)
	}
}
