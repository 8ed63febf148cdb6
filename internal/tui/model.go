package tui

import (
	"context"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"vaxmap/internal/chart"
	"vaxmap/internal/logging"
	"vaxmap/internal/render"
	"vaxmap/internal/scene"
)

// baseWidth is the scene width the map is laid out at; the terminal
// viewport scales it to the available cells.
const baseWidth = 960

const pulseEvery = 125 * time.Millisecond

type Model struct {
	chart *chart.Chart
	root  *scene.Root
	vp    render.Viewport
	src   Sources
	log   logging.Logger

	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// country list
	l list.Model

	// props editor
	editMode bool
	ta       textarea.Model

	// stats table
	showStats bool
	tbl       table.Model

	// mouse
	pressed bool
	hoverX  float64
	hoverY  float64
	hovered bool

	// pulse clock
	start time.Time
	at    time.Duration

	changes <-chan []string
}

type Option func(*Model)

func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.log = logging.OrNoop(l) }
}

// WithChanges feeds the model batches of changed source files, as
// produced by a watch.Watcher.
func WithChanges(ch <-chan []string) Option {
	return func(m *Model) { m.changes = ch }
}

// New builds the model around a chart whose data, geography and props are
// already loaded from src.
func New(c *chart.Chart, src Sources, opts ...Option) Model {
	m := Model{
		chart:       c,
		root:        scene.NewRoot(baseWidth, 0),
		src:         src,
		log:         logging.Noop(),
		helpVisible: true,
		status:      "vaxmap ready",
		start:       time.Now(),
	}
	for _, o := range opts {
		o(&m)
	}
	c.SetTarget(m.root)

	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Countries"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "YAML props overlay, e.g.\nlocale: fr\nmap:\n  projection:\n    name: mercator\nCtrl+S to apply; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(8)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{pulseTick()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// redraw re-runs the chart draw and refreshes the views fed by it.
func (m *Model) redraw() {
	if err := m.chart.Draw(context.Background()); err != nil {
		m.status = "draw error: " + err.Error()
		m.log.Warn(context.Background(), "draw failed", logging.Err(err))
		return
	}
	m.refreshCountries()
	if m.showStats {
		m.refreshStats()
	}
}

// autoplayIfEnabled starts the tour when the props ask for one.
func (m *Model) autoplayIfEnabled() tea.Cmd {
	if !m.chart.Props().Autoplay.Enabled || m.chart.Variant() != chart.GlobeAutoplay {
		return nil
	}
	return m.startAutoplay()
}

func (m *Model) startAutoplay() tea.Cmd {
	gen, started := m.chart.StartAutoplay()
	if !started {
		return nil
	}
	m.status = "autoplay on"
	return autoplayTick(gen, m.chart.AutoplayInterval())
}
