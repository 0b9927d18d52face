package viz

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flightcore/internal/config"
	"github.com/san-kum/flightcore/internal/control"
	"github.com/san-kum/flightcore/internal/dynamo"
	"github.com/san-kum/flightcore/internal/flight"
	"github.com/san-kum/flightcore/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	historyCapacity = 600
	frameRate       = 30
	outputLimit     = control.FullStickDemand

	// frameBudget bounds one frame of simulation so a stuck mixer writer
	// cannot freeze the UI.
	frameBudget = time.Second
)

type TickMsg time.Time

// Model runs the closed loop in real time and renders it.
type Model struct {
	cfg    *config.Config
	logger *log.Logger
	sim    *sim.Simulator
	x0     dynamo.State

	ticksPerFrame int
	canvas        *Canvas
	running       bool
	disarmed      bool
	showHelp      bool
	err           error

	last         dynamo.Tick
	roll, pitch  []float64
	paramKeys    []string
	selected     int
	initialGains map[string]float64
}

// NewModel builds a live view of cfg starting from x0. cfg is copied.
func NewModel(cfg *config.Config, x0 dynamo.State, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg = cfg.Clone()

	s, err := sim.New(cfg, logger)
	if err != nil {
		return Model{}, err
	}
	if err := s.Reset(x0); err != nil {
		return Model{}, err
	}

	gains := cfg.GetControllerParams()
	keys := make([]string, 0, len(gains))
	for k := range gains {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ticks := int(math.Round(1 / float64(frameRate) / cfg.Sim.Dt))
	if ticks < 1 {
		ticks = 1
	}

	return Model{
		cfg:           cfg,
		logger:        logger,
		sim:           s,
		x0:            x0.Clone(),
		ticksPerFrame: ticks,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		roll:          make([]float64, 0, historyCapacity),
		pitch:         make([]float64, 0, historyCapacity),
		paramKeys:     keys,
		initialGains:  gains,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "a":
			m.disarmed = !m.disarmed
			m.sim.ForceDisarm(m.disarmed)
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustGain(1.05)
		case "down", "j":
			m.adjustGain(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances one frame worth of control ticks.
func (m *Model) step() {
	ctx, cancel := context.WithTimeout(context.Background(), frameBudget)
	defer cancel()

	for i := 0; i < m.ticksPerFrame; i++ {
		t, err := m.sim.Step(ctx, m.cfg.Sim.Dt)
		if err != nil {
			m.err = err
			m.running = false
			m.logger.Error("live step failed", "err", err)
			return
		}
		if !m.sim.State().IsValid() {
			m.err = dynamo.ErrInvalidState
			m.running = false
			return
		}
		m.last = t
	}

	m.roll = appendCapped(m.roll, m.last.Euler.Roll)
	m.pitch = appendCapped(m.pitch, m.last.Euler.Pitch)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) adjustGain(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	v := m.cfg.GetControllerParams()[key]
	nv := v * factor
	if v == 0 && factor > 1 {
		nv = 0.01
	}
	if err := m.cfg.SetControllerParam(key, nv); err != nil {
		m.err = err
		return
	}
	m.rebuild(m.sim.State(), m.sim.Time())
}

// rebuild swaps in a simulator carrying the current gains, continuing
// from x at time t.
func (m *Model) rebuild(x dynamo.State, t float64) {
	s, err := sim.New(m.cfg, m.logger)
	if err == nil {
		err = s.Resume(x, t)
	}
	if err != nil {
		m.err = err
		return
	}
	s.ForceDisarm(m.disarmed)
	m.sim = s
	m.err = nil
}

// reset restores the initial attitude, clock and gains.
func (m *Model) reset() {
	for k, v := range m.initialGains {
		_ = m.cfg.SetControllerParam(k, v)
	}
	m.rebuild(m.x0, 0)
	m.roll = m.roll[:0]
	m.pitch = m.pitch[:0]
	m.last = dynamo.Tick{}
	m.running = true
}

func (m Model) View() string {
	st := currentStyles()

	m.canvas.Clear()
	m.canvas.Horizon(m.last.Euler.Roll, m.last.Euler.Pitch)
	horizon := st.panel.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.title.Render(strings.ToUpper(m.cfg.Sim.Scenario)+" · "+m.cfg.Controller) + "\n")

	status := st.ok.Render("RUNNING")
	if !m.running {
		status = st.warn.Render("PAUSED")
	}
	arm := st.bad.Render("DISARMED")
	if m.last.Armed {
		arm = st.ok.Render("ARMED")
	}
	s.WriteString(status + "  " + arm + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Roll", fmt.Sprintf("%+7.2f°", m.last.Euler.Roll))
	row("Pitch", fmt.Sprintf("%+7.2f°", m.last.Euler.Pitch))
	row("Yaw", fmt.Sprintf("%+7.2f°", m.last.Euler.Yaw))
	row("Throttle", ProgressBar(m.last.Demands.Throttle, 20))
	row("Stale", fmt.Sprintf("%d", m.sim.Loop().Stats().StaleTicks))
	s.WriteString("\n")
	row("Out roll", CenterBar(m.last.Output[flight.Roll], outputLimit, 20))
	row("Out pitch", CenterBar(m.last.Output[flight.Pitch], outputLimit, 20))
	row("Out yaw", CenterBar(m.last.Output[flight.Yaw], outputLimit, 20))

	if len(m.roll) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.roll, m.pitch},
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption("roll (cyan) / pitch (yellow) °"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\nGAINS\n")
	gains := m.cfg.GetControllerParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-17s %.4f", k, gains[k])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + st.bad.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.hint.Render("\nSP:Pause R:Reset A:Arm Q:Quit\nTab:Gain ↑↓:Tune T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, horizon, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset attitude and gains ║
║  A        - Toggle disarm override   ║
║  Tab      - Select gain              ║
║  Up/K     - Increase gain (+5%)      ║
║  Down/J   - Decrease gain (-5%)      ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive runs the live view until the user quits.
func RunLive(cfg *config.Config, x0 dynamo.State, logger *log.Logger) error {
	m, err := NewModel(cfg, x0, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
