package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statColumns = []table.Column{
	{Title: "#", Width: 4},
	{Title: "Country", Width: 22},
	{Title: "ISO", Width: 4},
	{Title: "Population", Width: 14},
	{Title: "1+ dose", Width: 8},
	{Title: "Fully", Width: 8},
	{Title: "Doses/100", Width: 10},
	{Title: "Week/100k", Width: 10},
}

// refreshStats rebuilds the table from the countries of the last draw.
func (m *Model) refreshStats() {
	p := message.NewPrinter(language.Make(m.chart.Props().Locale))
	stats := m.chart.Countries()
	rows := make([]table.Row, 0, len(stats))
	for i, s := range stats {
		d := s.Derived
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			truncate(s.Name, statColumns[1].Width),
			s.ISO,
			p.Sprintf("%d", int64(d.Population)),
			p.Sprintf("%.1f%%", d.VaccinatedPerPop*100),
			p.Sprintf("%.1f%%", d.FullyVaccinatedPerPop*100),
			p.Sprintf("%.1f", d.TotalDosesPerPop*100),
			p.Sprintf("%.0f", d.LatestWeekDosesPerPop*1e5),
		})
	}
	// Clear rows before columns so the table never sees a mismatch.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(statColumns)
	m.tbl.SetRows(rows)
	if len(rows) == 0 {
		m.status = "no countries with data"
	}
}
