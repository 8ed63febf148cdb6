package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vaxmap/internal/render"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.mapArea()
	contentWidth := max(10, m.width)

	title := " vaxmap ─ " + m.chart.Variant().String() + " "
	header := lipgloss.NewStyle().Width(contentWidth).Render(titleStyle.Render(title))

	var mapView string
	switch {
	case m.showStats:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		boxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(boxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(boxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.editMode:
		m.ta.SetWidth(min(mapWidth-4, 72))
		m.ta.SetHeight(min(mapHeight-2, 12))
		box := boxStyle.Render(m.ta.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	default:
		canvas := render.Terminal(m.root, mapWidth, mapHeight, m.at)
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(canvas)
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := dimStyle.Render(" " + m.status + " ")
	if tip := m.chart.Tooltip(); tip != "" {
		status = tipStyle.Render(" "+strings.ReplaceAll(tip, "\n", " · ")+" ") + status
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	coords := dimStyle.Render(m.hoverText())
	gap := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	footer := lipgloss.NewStyle().Width(contentWidth).Render(padRight(left, gap) + coords)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"space tour",
		"v variant",
		"Tab countries",
		"t stats",
		"p props",
		"r reset",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
