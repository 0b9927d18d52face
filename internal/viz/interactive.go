package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/dynamo"
)

var presetInfo = map[string]string{
	"default":   "level hover, stabilize mode",
	"racer":     "acro rate mode, full-stick roll",
	"cinematic": "gentle pitch sweep, 25° limit",
	"inverted":  "upside-down imu, yaw spin",
	"noisy":     "noisy gyro, half-rate imu",
	"autopilot": "heading hold on a pid autopilot",
}

// picker lists presets and hands over to a live Model once one is chosen.
type picker struct {
	presets []string
	cursor  int
	x0      dynamo.State
	logger  *log.Logger
	live    *Model
	err     error
}

func NewInteractiveApp(x0 dynamo.State, logger *log.Logger) tea.Model {
	return picker{presets: config.ListPresets(), x0: x0, logger: logger}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter":
		cfg := config.GetPreset(p.presets[p.cursor])
		m, err := NewModel(cfg, p.x0, p.logger)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live = &m
		return p, m.Init()
	}
	return p, nil
}

func (p picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	st := currentStyles()
	var s strings.Builder
	s.WriteString(st.title.Render("FLIGHTCORE") + "\n\n")
	for i, name := range p.presets {
		line := fmt.Sprintf("%-10s %s", name, presetInfo[name])
		if i == p.cursor {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	if p.err != nil {
		s.WriteString("\n" + st.bad.Render(p.err.Error()) + "\n")
	}
	s.WriteString(st.hint.Render("\n↑↓:Select Enter:Fly Q:Quit"))
	return st.panel.Render(s.String())
}

func RunInteractive(x0 dynamo.State, logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(x0, logger), tea.WithAltScreen()).Run()
	return err
}
