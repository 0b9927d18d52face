package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/sim"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig(), sim.InitialState(10, 0, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelSteps(t *testing.T) {
	m := newTestModel(t)
	if m.ticksPerFrame < 1 {
		t.Fatalf("ticksPerFrame = %d", m.ticksPerFrame)
	}

	for i := 0; i < 30; i++ {
		next, cmd := m.Update(TickMsg(time.Now()))
		m = next.(Model)
		if cmd == nil {
			t.Fatal("expected next tick command")
		}
	}

	if m.sim.Time() <= 0.9 {
		t.Errorf("expected about a second simulated, got %v", m.sim.Time())
	}
	if len(m.roll) != 30 {
		t.Errorf("expected 30 history points, got %d", len(m.roll))
	}
	if !m.last.Armed {
		t.Error("expected the hover scenario to have armed")
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(key(" "))
	m = next.(Model)
	if m.running {
		t.Fatal("expected paused")
	}
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.sim.Time() != 0 {
		t.Errorf("time advanced while paused: %v", m.sim.Time())
	}
}

func TestModelGainNudge(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(key("tab"))
	m = next.(Model)
	name := m.paramKeys[m.selected]
	if name != "level_p" {
		t.Fatalf("expected level_p selected, got %s", name)
	}
	before := m.cfg.GetControllerParams()[name]

	next, _ = m.Update(key("k"))
	m = next.(Model)
	if got := m.cfg.GetControllerParams()[name]; got != before*1.05 {
		t.Errorf("%s: %v -> %v, want +5%%", name, before, got)
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if got := m.cfg.GetControllerParams()[name]; got != before {
		t.Errorf("reset did not restore %s: %v", name, got)
	}
}

func TestModelGainFromZero(t *testing.T) {
	m := newTestModel(t)
	if m.paramKeys[m.selected] != "level_i" {
		t.Fatalf("expected level_i first, got %s", m.paramKeys[m.selected])
	}
	next, _ := m.Update(key("k"))
	m = next.(Model)
	if got := m.cfg.GetControllerParams()["level_i"]; got != 0.01 {
		t.Errorf("level_i = %v, want 0.01", got)
	}
}

func TestModelDisarmOverride(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(key("a"))
	m = next.(Model)
	for i := 0; i < 15; i++ {
		next, _ = m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	if m.last.Armed {
		t.Error("expected override to hold the loop disarmed")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(TickMsg(time.Now()))
	next, _ = next.Update(TickMsg(time.Now()))
	view := next.View()
	for _, want := range []string{"HOVER", "Roll", "GAINS", "level_p"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ = next.Update(key("?"))
	if !strings.Contains(next.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestPickerStartsLive(t *testing.T) {
	p := NewInteractiveApp(sim.InitialState(0, 0, 0), nil)
	if !strings.Contains(p.View(), "autopilot") {
		t.Error("expected preset list")
	}

	next, _ := p.Update(key("j"))
	next, cmd := next.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected live view to start ticking")
	}
	if !strings.Contains(next.View(), "GAINS") {
		t.Error("expected live view after enter")
	}
}

func TestCenterBar(t *testing.T) {
	if got := CenterBar(0, 10, 4); got != "░░│░░" {
		t.Errorf("zero bar = %q", got)
	}
	if got := CenterBar(-10, 10, 4); got != "██│░░" {
		t.Errorf("negative bar = %q", got)
	}
	if got := CenterBar(50, 10, 4); got != "░░│██" {
		t.Errorf("saturated bar = %q", got)
	}
}

func TestCanvasHorizon(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Horizon(0, 0)
	if c.String() == NewCanvas(10, 5).String() {
		t.Error("expected horizon pixels")
	}

	c.Clear()
	if c.String() != NewCanvas(10, 5).String() {
		t.Error("expected blank canvas after clear")
	}
}

func TestCanvasHorizonBanks(t *testing.T) {
	level := NewCanvas(20, 8)
	level.Horizon(0, 0)

	for _, roll := range []float64{30, -30, 90} {
		banked := NewCanvas(20, 8)
		banked.Horizon(roll, 0)
		if banked.String() == level.String() {
			t.Errorf("roll %v: horizon should bank", roll)
		}
	}

	left, right := NewCanvas(20, 8), NewCanvas(20, 8)
	left.Horizon(-30, 0)
	right.Horizon(30, 0)
	if left.String() == right.String() {
		t.Error("opposite rolls should bank opposite ways")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeCockpit.Name)
	NextTheme()
	if CurrentTheme.Name != ThemeRetroGreen.Name {
		t.Errorf("expected retro, got %s", CurrentTheme.Name)
	}
	if GetTheme("missing").Name != ThemeCockpit.Name {
		t.Error("expected fallback theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
