package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

// WorldFactory builds a fresh world for a watch session.
type WorldFactory func() (*sim.World, error)

// heatGauge is a spring-smoothed heat display value.
type heatGauge struct {
	pos, vel float64
}

// WatchModel is the Bubble Tea model for watching a scenario play out.
type WatchModel struct {
	factory  WorldFactory
	world    *sim.World
	store    *storage.Store
	inputs   storage.RunInputs
	logger   *log.Logger
	keys     WatchKeyMap
	help     help.Model
	gauges   Gauges
	spring   harmonica.Spring
	heat     map[string]heatGauge
	events   []sim.Event
	tickRate int
	width    int
	height   int
	paused   bool
	quitting bool
	saved    bool // Whether the finished run has been saved
	runID    string
	err      error
}

// NewWatchModel creates a watch model. store may be nil; inputs are saved
// with the finished run.
func NewWatchModel(factory WorldFactory, store *storage.Store, inputs storage.RunInputs, logger *log.Logger, tickRate int) (WatchModel, error) {
	world, err := factory()
	if err != nil {
		return WatchModel{}, err
	}
	if logger == nil {
		logger = log.Default()
	}
	tickRate = max(minTickRate, min(maxTickRate, tickRate))

	m := WatchModel{
		factory:  factory,
		world:    world,
		store:    store,
		inputs:   inputs,
		logger:   logger,
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
		gauges:   NewGauges(),
		tickRate: tickRate,
		width:    80,
		height:   24,
	}
	m.resetGauges()
	return m, nil
}

func (m *WatchModel) resetGauges() {
	m.spring = harmonica.NewSpring(harmonica.FPS(m.tickRate), 6.0, 0.7)
	m.heat = make(map[string]heatGauge, len(m.world.Ships()))
	for _, s := range m.world.Ships() {
		m.heat[s.ID] = heatGauge{}
	}
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}

	case key.Matches(msg, m.keys.Faster):
		m.tickRate = min(maxTickRate, m.tickRate*2)
		m.spring = harmonica.NewSpring(harmonica.FPS(m.tickRate), 6.0, 0.7)

	case key.Matches(msg, m.keys.Slower):
		m.tickRate = max(minTickRate, m.tickRate/2)
		m.spring = harmonica.NewSpring(harmonica.FPS(m.tickRate), 6.0, 0.7)

	case key.Matches(msg, m.keys.Restart):
		world, err := m.factory()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.world = world
		m.events = nil
		m.saved = false
		m.runID = ""
		m.resetGauges()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleTick advances the world unless paused and eases the heat gauges.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		m.step()
	}

	for _, s := range m.world.Ships() {
		g := m.heat[s.ID]
		g.pos, g.vel = m.spring.Update(g.pos, g.vel, s.HeatOut.Heat01)
		m.heat[s.ID] = g
	}

	return m, tickCmd(m.tickRate)
}

// step runs one tick and saves the run once it finishes.
func (m *WatchModel) step() {
	if m.world.Done() {
		return
	}
	rep := m.world.Step()
	m.events = append(m.events, rep.Events...)
	if over := len(m.events) - maxLogRows; over > 0 {
		m.events = append(m.events[:0], m.events[over:]...)
	}

	if rep.Done && !m.saved {
		m.saved = true
		m.save()
	}
}

func (m *WatchModel) save() {
	if m.store == nil {
		return
	}
	runID, err := m.store.SaveRun(m.world.Summary(), m.inputs, true, m.world.Records())
	if err != nil {
		m.logger.Warn("could not save run", "error", err)
		return
	}
	m.runID = runID
}

// View renders the watch screen.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	sc := m.world.Scenario()
	state := "running"
	switch {
	case m.world.Done():
		state = "done"
	case m.paused:
		state = "paused"
	}
	header := fmt.Sprintf("%s  tick %d/%d  %d tps  %s  #%016x",
		sc.Title, m.world.Tick(), m.world.Ticks(), m.tickRate, state, m.world.Snapshot())
	b.WriteString(titleStyle.Render(centerText(header, m.width)))
	b.WriteString("\n\n")

	panels := make([]string, 0, len(m.world.Ships()))
	for _, s := range m.world.Ships() {
		panels = append(panels, RenderShip(m.gauges, s, clamp01(m.heat[s.ID].pos)))
	}
	b.WriteString(RenderPanels(panels, m.width))
	b.WriteString("\n\n")

	for _, e := range m.events {
		b.WriteString(RenderEvent(e))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(statusStyles["WRECK"].Render(m.err.Error()))
		b.WriteString("\n")
	case m.runID != "":
		b.WriteString(dimStyle.Render("saved run " + m.runID))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// clamp01 keeps spring overshoot inside the bar.
func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// RunWatch starts the watch screen.
func RunWatch(factory WorldFactory, store *storage.Store, inputs storage.RunInputs, logger *log.Logger, tickRate int) error {
	model, err := NewWatchModel(factory, store, inputs, logger, tickRate)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
