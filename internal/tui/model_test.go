package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vaxmap/internal/chart"
)

const testGeo = `{"type":"FeatureCollection","features":[
{"type":"Feature","id":"250","properties":{"isoAlpha2":"FR","slug":"france","name":"France","translations":{"fr":"France"},"centroid":[2,46.5]},
 "geometry":{"type":"Polygon","coordinates":[[[-3,42],[7,42],[7,51],[-3,51],[-3,42]]]}},
{"type":"Feature","id":"276","properties":{"isoAlpha2":"DE","slug":"germany","name":"Germany","translations":{"fr":"Allemagne"},"centroid":[11.5,51]},
 "geometry":{"type":"Polygon","coordinates":[[[8,47],[15,47],[15,55],[8,55],[8,47]]]}}
]}`

const testData = `[
{"countryISO":"FR","population":1000000,"totalDoses":2000000,"peopleVaccinated":1000000,"peopleFullyVaccinated":800000,"latestWeekDoses":10000},
{"countryISO":"DE","population":1000000,"totalDoses":1000000,"peopleVaccinated":500000,"peopleFullyVaccinated":400000,"latestWeekDoses":20000}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func newTestModel(t *testing.T, variant string) (Model, Sources) {
	t.Helper()
	return newTestModelWith(t, variant, "locale: en\n")
}

func newTestModelWith(t *testing.T, variant, props string) (Model, Sources) {
	t.Helper()
	dir := t.TempDir()
	src := Sources{
		Data:    writeFile(t, dir, "data.json", testData),
		Geo:     writeFile(t, dir, "world.json", testGeo),
		Props:   writeFile(t, dir, "props.yaml", props),
		Variant: variant,
	}
	c := chart.New()
	if err := src.Load(c); err != nil {
		t.Fatalf("load: %v", err)
	}
	m := New(c, src)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), src
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

// cellOf returns the terminal cell over a country centroid.
func cellOf(t *testing.T, m Model, lon, lat float64) (int, int) {
	t.Helper()
	proj := m.chart.Projection()
	if proj == nil {
		t.Fatal("no projection after resize")
	}
	x, y, ok := proj.Project(lon, lat)
	if !ok {
		t.Fatalf("%v,%v not visible", lon, lat)
	}
	ox, oy, _, _ := m.mapArea()
	col, row := m.vp.Cell(x, y)
	return col + ox, row + oy
}

func TestResizeDrawsMap(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	if m.root.Width != baseWidth || m.root.Height <= 0 {
		t.Fatalf("unexpected root size %vx%v", m.root.Width, m.root.Height)
	}
	if got := len(m.l.Items()); got != 2 {
		t.Fatalf("expected 2 countries listed, got %d", got)
	}
	view := m.View()
	if !strings.Contains(view, "vaxmap") || !strings.Contains(view, "flat-interactive") {
		t.Fatalf("header missing from view")
	}
	if !strings.ContainsRune(view, '⣿') {
		t.Fatal("no map drawn")
	}
}

func TestClickSelectsCountry(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	x, y := cellOf(t, m, 2, 46.5)

	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	next, _ = next.(Model).Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	m = next.(Model)

	if got := m.chart.Highlighted(); got != "FR" {
		t.Fatalf("expected FR highlighted, got %q", got)
	}
	if !strings.Contains(m.View(), "France") {
		t.Fatal("tooltip missing from footer")
	}
}

func TestVariantCycle(t *testing.T) {
	m, _ := newTestModel(t, "flat-static")
	for _, want := range []chart.Variant{chart.FlatInteractive, chart.GlobeAutoplay, chart.GlobeDrag, chart.FlatStatic} {
		m = press(m, "v")
		if got := m.chart.Variant(); got != want {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGlobeAutoplayStartsOnItsOwn(t *testing.T) {
	m, _ := newTestModel(t, "globe-autoplay")
	if !m.chart.AutoplayRunning() {
		t.Fatal("globe-autoplay should tour after the first resize")
	}
	d, _ := newTestModel(t, "globe-drag-interactive")
	if d.chart.AutoplayRunning() {
		t.Fatal("globe-drag-interactive should wait for space")
	}
}

func TestAutoplayDisabledStaysIdle(t *testing.T) {
	m, _ := newTestModelWith(t, "globe-autoplay", "autoplay:\n  enabled: false\n")
	if m.chart.AutoplayRunning() {
		t.Fatal("tour started with autoplay disabled")
	}
}

func TestSpaceTogglesAutoplay(t *testing.T) {
	m, _ := newTestModel(t, "globe-drag-interactive")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if !m.chart.AutoplayRunning() || cmd == nil {
		t.Fatal("space should start the tour")
	}
	m = press(m, "left")
	if m.chart.AutoplayRunning() {
		t.Fatal("panning should end the tour")
	}
}

func TestStaleAutoplayTickIgnored(t *testing.T) {
	m, _ := newTestModel(t, "globe-drag-interactive")
	gen, ok := m.chart.StartAutoplay()
	if !ok {
		t.Fatal("tour did not start")
	}
	m.chart.StopAutoplay()
	if _, cmd := m.Update(autoplayTickMsg{gen}); cmd != nil {
		t.Fatal("stale tick scheduled more work")
	}
}

func TestSlowTransitionKeepsOneFrameChain(t *testing.T) {
	m, _ := newTestModelWith(t, "globe-drag-interactive", "autoplay:\n  intervalMs: 20\n  durationMs: 5000\n")
	gen, ok := m.chart.StartAutoplay()
	if !ok {
		t.Fatal("tour did not start")
	}
	next, cmd := m.Update(autoplayTickMsg{gen})
	m = next.(Model)
	if _, ok := cmd().(tea.BatchMsg); !ok {
		t.Fatal("first tick should start a frame chain next to the next tick")
	}
	if !m.chart.Touring() {
		t.Fatal("no transition after the first tick")
	}

	// the next tick lands while the first transition still runs
	next, cmd = m.Update(autoplayTickMsg{gen})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("tour stopped ticking")
	}
	if _, ok := cmd().(autoplayTickMsg); !ok {
		t.Fatal("second tick started another frame chain")
	}
	if !m.chart.Touring() {
		t.Fatal("second tick dropped the transition")
	}
	if _, cmd = m.Update(frameMsg{gen}); cmd == nil {
		t.Fatal("running frame chain ended early")
	}
}

func TestPropsEditorMerges(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	m = press(m, "p")
	if !m.editMode {
		t.Fatal("p should open the editor")
	}
	m.ta.SetValue("locale: fr\n")
	m = press(m, "ctrl+s")
	if m.editMode {
		t.Fatalf("editor still open: %s", m.status)
	}
	if got := m.chart.Props().Locale; got != "fr" {
		t.Fatalf("locale not merged: %q", got)
	}
	var names []string
	for _, it := range m.l.Items() {
		names = append(names, it.(countryItem).Title())
	}
	if !strings.Contains(strings.Join(names, ","), "Allemagne") {
		t.Fatalf("list not relabelled: %v", names)
	}
}

func TestPropsEditorRejectsBadYAML(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	m = press(m, "p")
	m.ta.SetValue("variant: hexagon\n")
	m = press(m, "ctrl+s")
	if !m.editMode || !strings.HasPrefix(m.status, "props error") {
		t.Fatalf("bad overlay accepted: %q", m.status)
	}
	if m.chart.Variant() != chart.FlatInteractive {
		t.Fatal("variant changed by a rejected overlay")
	}
}

func TestStatsTable(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	m = press(m, "t")
	if !m.showStats {
		t.Fatal("t should open the stats table")
	}
	rows := m.tbl.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][3] != "1,000,000" || rows[0][4] != "100.0%" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
}

func TestReloadData(t *testing.T) {
	m, src := newTestModel(t, "flat-interactive")
	if err := os.WriteFile(src.Data, []byte(`[{"countryISO":"FR","population":1000000,"peopleVaccinated":600000,"latestWeekDoses":5000}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	next, cmd := m.Update(reloadMsg{paths: []string{src.Data}})
	m = next.(Model)
	if cmd != nil {
		t.Fatal("reload without a watcher should not wait for changes")
	}
	if got := len(m.l.Items()); got != 1 {
		t.Fatalf("expected 1 country after reload, got %d", got)
	}
}

func TestReloadPropsKeepsVariantFlag(t *testing.T) {
	m, src := newTestModel(t, "flat-interactive")
	if err := os.WriteFile(src.Props, []byte("locale: fr\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(reloadMsg{paths: []string{src.Props}})
	m = next.(Model)
	if strings.HasPrefix(m.status, "reload error") {
		t.Fatalf("reload failed: %s", m.status)
	}
	if got := m.chart.Props().Locale; got != "fr" {
		t.Fatalf("props not reloaded: locale %q", got)
	}
	if got := m.chart.Variant(); got != chart.FlatInteractive {
		t.Fatalf("variant flag lost on reload: %v", got)
	}
}

func TestSidebarFocus(t *testing.T) {
	m, _ := newTestModel(t, "flat-interactive")
	m = press(m, "tab")
	if !m.showSidebar {
		t.Fatal("tab should open the sidebar")
	}
	if x, _, _, _ := m.mapArea(); x != sidebarWidth+1 {
		t.Fatalf("map not shifted by the sidebar: %d", x)
	}
	m = press(m, "enter")
	if got := m.chart.Highlighted(); got != "FR" {
		t.Fatalf("expected the first country focused, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Democratic Republic", 8); got != "Democra…" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("Chad", 8); got != "Chad" {
		t.Fatalf("got %q", got)
	}
}
