package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"vaxmap/internal/render"
	"vaxmap/internal/versor"
)

const (
	sidebarWidth = 30
	headerHeight = 1
	footerHeight = 2
	zoomStep     = 1.2
)

type (
	pulseMsg        time.Time
	autoplayTickMsg struct{ gen uint64 }
	frameMsg        struct{ gen uint64 }
	reloadMsg       struct{ paths []string }
)

func pulseTick() tea.Cmd {
	return tea.Tick(pulseEvery, func(t time.Time) tea.Msg { return pulseMsg(t) })
}

func autoplayTick(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return autoplayTickMsg{gen} })
}

func frameTick(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return frameMsg{gen} })
}

// waitForChange blocks on the next batch of changed files. It yields nil
// once the channel closes, which ends the chain.
func waitForChange(ch <-chan []string) tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{paths}
	}
}

// mapArea is the cell rectangle the map is drawn into; View lays out the
// same rectangle.
func (m Model) mapArea() (x, y, cols, rows int) {
	x = 0
	if m.showSidebar {
		x = sidebarWidth + 1
	}
	cols = max(10, m.width-x)
	rows = max(4, m.height-headerHeight-footerHeight)
	return x, headerHeight, cols, rows
}

func (m *Model) resize() {
	_, _, cols, rows := m.mapArea()
	m.vp = render.Fit(cols, rows, baseWidth)
	m.root.Width, m.root.Height = m.vp.Width, m.vp.Height
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, rows-2)
	}
	m.redraw()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if first {
			return m, m.autoplayIfEnabled()
		}
	case pulseMsg:
		m.at = time.Time(msg).Sub(m.start)
		return m, pulseTick()
	case autoplayTickMsg:
		touring := m.chart.Touring()
		if !m.chart.AutoplayTick(msg.gen) {
			if !m.chart.AutoplayRunning() {
				m.status = "autoplay off"
			}
			return m, nil
		}
		next := autoplayTick(msg.gen, m.chart.AutoplayInterval())
		if touring {
			// the running frame chain picks up the new transition
			return m, next
		}
		return m, tea.Batch(frameTick(msg.gen, m.chart.FrameInterval()), next)
	case frameMsg:
		if m.chart.AutoplayFrame(msg.gen) {
			return m, frameTick(msg.gen, m.chart.FrameInterval())
		}
		return m, nil
	case reloadMsg:
		if err := m.src.Reload(m.chart, msg.paths); err != nil {
			m.status = "reload error: " + err.Error()
		} else {
			m.status = "reloaded: " + strings.Join(msg.paths, ", ")
		}
		m.redraw()
		if m.changes == nil {
			return m, nil
		}
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filters, keys belong to it.
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.editMode {
		switch msg.String() {
		case "esc":
			m.editMode = false
			m.ta.Blur()
			m.status = "view mode"
			return m, nil
		case "ctrl+s":
			overlay := strings.TrimSpace(m.ta.Value())
			if overlay == "" {
				m.status = "props: empty"
				return m, nil
			}
			if err := m.chart.MergeProps([]byte(overlay)); err != nil {
				m.status = "props error: " + err.Error()
				return m, nil
			}
			m.editMode = false
			m.ta.Blur()
			m.status = "props merged"
			m.redraw()
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}
	if m.showStats {
		switch msg.String() {
		case "esc", "t":
			m.showStats = false
			return m, nil
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}

	// Arrow steps move the map by one cell worth of scene units.
	stepX, stepY := m.vp.Scene(1, 1)
	x0, y0 := m.vp.Scene(0, 0)
	stepX, stepY = stepX-x0, stepY-y0

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "+", "=":
		m.chart.Zoom(zoomStep)
		m.refreshCountries()
	case "-", "_":
		m.chart.Zoom(1 / zoomStep)
		m.refreshCountries()
	case "left":
		m.pan(2*stepX, 0)
	case "right":
		m.pan(-2*stepX, 0)
	case "up":
		m.pan(0, stepY)
	case "down":
		m.pan(0, -stepY)
	case " ":
		if m.chart.StopAutoplay() {
			m.status = "autoplay off"
			return m, nil
		}
		cmd := m.startAutoplay()
		if cmd == nil {
			m.status = "autoplay needs a globe with data"
		}
		return m, cmd
	case "v":
		m.chart.SetVariant(m.chart.Variant().Next())
		m.status = "variant: " + m.chart.Variant().String()
		m.redraw()
		return m, m.autoplayIfEnabled()
	case "r":
		m.chart.ResetView()
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		m.resize()
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(countryItem); ok {
				m.chart.StopAutoplay()
				m.chart.Focus(it.stat.ISO)
				m.status = "focus: " + it.stat.Name
			}
		}
	case "p":
		m.editMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "props mode"
		return m, nil
	case "t":
		m.showStats = true
		m.refreshStats()
	case "h":
		m.helpVisible = !m.helpVisible
	case "esc":
		m.chart.Highlight("")
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// pan moves flat maps and turns globes; either way it ends the tour.
func (m *Model) pan(dx, dy float64) {
	if m.chart.StopAutoplay() {
		m.status = "autoplay off"
	}
	m.chart.Pan(dx, dy)
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ox, oy, cols, rows := m.mapArea()
	col, row := msg.X-ox, msg.Y-oy
	inside := col >= 0 && col < cols && row >= 0 && row < rows
	x, y := m.vp.Scene(col, row)
	ptrs := []versor.Pointer{{X: x, Y: y}}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.chart.Zoom(zoomStep)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.chart.Zoom(1 / zoomStep)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			break
		}
		m.pressed = true
		m.chart.PointerDown(ptrs)
		return m, nil
	case tea.MouseActionMotion:
		m.hovered, m.hoverX, m.hoverY = inside, x, y
		if inside || m.pressed {
			m.chart.PointerMove(ptrs)
		}
		return m, nil
	case tea.MouseActionRelease:
		if !m.pressed {
			break
		}
		m.pressed = false
		m.chart.PointerMove(ptrs)
		if m.chart.PointerUp() {
			if key := m.chart.Highlighted(); key != "" {
				m.status = "selected: " + key
			}
		}
		return m, nil
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// hoverText is the footer readout of the point under the mouse.
func (m Model) hoverText() string {
	if !m.hovered {
		return ""
	}
	proj := m.chart.Projection()
	if proj == nil {
		return ""
	}
	lon, lat, ok := proj.Invert(m.hoverX, m.hoverY)
	if !ok {
		return ""
	}
	return fmt.Sprintf("lon=%.2f lat=%.2f", lon, lat)
}
