package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fleetcrawl/internal/scenario/builtin"
	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

func bubbleFactory() (*sim.World, error) {
	return sim.New(builtin.BubbleAbsorb(), sim.Options{})
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m WatchModel, msg tea.Msg) WatchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(WatchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func TestWatchTicksAndPause(t *testing.T) {
	m, err := NewWatchModel(bubbleFactory, nil, storage.RunInputs{}, nil, 20)
	if err != nil {
		t.Fatalf("NewWatchModel: %v", err)
	}

	m = update(t, m, TickMsg{})
	if m.world.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", m.world.Tick())
	}

	m = update(t, m, keyMsg(" "))
	if !m.paused {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg{})
	if m.world.Tick() != 1 {
		t.Errorf("paused world advanced to %d", m.world.Tick())
	}

	m = update(t, m, keyMsg("n"))
	if m.world.Tick() != 2 {
		t.Errorf("step while paused: tick = %d, want 2", m.world.Tick())
	}

	m = update(t, m, keyMsg("r"))
	if m.world.Tick() != 0 || len(m.events) != 0 {
		t.Errorf("restart left tick %d with %d events", m.world.Tick(), len(m.events))
	}
}

func TestWatchTickRateBounds(t *testing.T) {
	m, err := NewWatchModel(bubbleFactory, nil, storage.RunInputs{}, nil, 500)
	if err != nil {
		t.Fatalf("NewWatchModel: %v", err)
	}
	if m.tickRate != maxTickRate {
		t.Fatalf("tick rate = %d, want %d", m.tickRate, maxTickRate)
	}
	m = update(t, m, keyMsg("+"))
	if m.tickRate != maxTickRate {
		t.Errorf("faster exceeded max: %d", m.tickRate)
	}
	for range 10 {
		m = update(t, m, keyMsg("-"))
	}
	if m.tickRate != minTickRate {
		t.Errorf("slower went below min: %d", m.tickRate)
	}
}

func TestWatchSavesFinishedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m, err := NewWatchModel(bubbleFactory, store, storage.RunInputs{Source: "bubble-absorb", SafetyOverride: "unsafe"}, nil, 20)
	if err != nil {
		t.Fatalf("NewWatchModel: %v", err)
	}
	for range 10 {
		m = update(t, m, TickMsg{})
	}
	if !m.world.Done() || m.runID == "" {
		t.Fatalf("done %v run %q", m.world.Done(), m.runID)
	}

	runs, err := store.RecentRuns("bubble-absorb", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Ticks != 5 || runs[0].Hits != 1 {
		t.Errorf("runs = %+v", runs)
	}
	if len(runs) == 1 && (runs[0].Source != "bubble-absorb" || runs[0].SafetyOverride != "unsafe") {
		t.Errorf("run inputs = %+v", runs[0].RunInputs)
	}
	if !strings.Contains(m.View(), "saved run") {
		t.Error("view does not report the saved run")
	}
}

func TestWatchFactoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewWatchModel(func() (*sim.World, error) { return nil, boom }, nil, storage.RunInputs{}, nil, 20)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestWatchViewShowsShips(t *testing.T) {
	m, err := NewWatchModel(bubbleFactory, nil, storage.RunInputs{}, nil, 20)
	if err != nil {
		t.Fatalf("NewWatchModel: %v", err)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, TickMsg{})

	view := m.View()
	for _, want := range []string{"Bubble Absorb", "gunship", "target", "NOMINAL"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = update(t, m, keyMsg("q"))
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestHistoryCyclesScenarios(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	sum, _, err := sim.Simulate(t.Context(), builtin.DotExpiry(), sim.Options{})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if _, err := store.SaveRun(sum, storage.RunInputs{}, true, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	m := NewHistoryModel(store, []string{"bubble-absorb", "dot-expiry"}, 120, 30)
	if len(m.runs) != 0 {
		t.Fatalf("bubble-absorb runs = %d", len(m.runs))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.cursor != 1 || len(m.runs) != 1 {
		t.Errorf("cursor %d runs %d", m.cursor, len(m.runs))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(HistoryModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after shift+tab", m.cursor)
	}
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Error("empty scenario should show placeholder")
	}
}
