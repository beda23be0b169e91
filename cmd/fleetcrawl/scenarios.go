package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vovakirdan/fleetcrawl/internal/config"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
	"github.com/vovakirdan/fleetcrawl/internal/registry"
	"github.com/vovakirdan/fleetcrawl/internal/scenario"
	"github.com/vovakirdan/fleetcrawl/internal/scenario/library"
	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

// scenarioDir returns the library root, or "" when it does not exist.
func scenarioDir() string {
	dir, err := config.ExpandHome(app.settings.ScenarioDir)
	if err != nil || dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// libraryScenarios lists the scenarios found on disk.
func libraryScenarios() ([]scenario.Scenario, error) {
	dir := scenarioDir()
	if dir == "" {
		return nil, nil
	}
	return library.NewLoader(dir).LoadAll()
}

// resolveScenario finds a scenario by ID, or loads it from a file path.
// Builtins win over library files with the same ID.
func resolveScenario(id string) (scenario.Scenario, error) {
	if registry.Exists(id) {
		return registry.Create(id)
	}

	if info, err := os.Stat(id); err == nil && !info.IsDir() {
		return library.NewLoader("").LoadFile(id)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return scenario.Scenario{}, err
	}

	if dir := scenarioDir(); dir != "" {
		if s, err := library.NewLoader(dir).LoadByID(id); err == nil {
			return s, nil
		}
	}
	return scenario.Scenario{}, fmt.Errorf("unknown scenario %q (run 'fleetcrawl list' to see available scenarios)", id)
}

// applyOverrides applies settings that rewrite the scenario itself.
func applyOverrides(s scenario.Scenario) scenario.Scenario {
	if mode, ok := app.settings.Safety(); ok {
		return s.WithSafety(mode)
	}
	return s
}

// runInputs describes how arg and the current settings built a run. File
// paths are stored absolute so a replay works from any directory.
func runInputs(arg string) storage.RunInputs {
	in := storage.RunInputs{Source: arg}
	if !registry.Exists(arg) {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(arg); err == nil {
				in.Source = abs
			}
		}
	}
	if mode, ok := app.settings.Safety(); ok {
		in.SafetyOverride = mode.String()
	}
	return in
}

// rebuildScenario resolves a recorded run's scenario and reapplies the
// safety override it was recorded with.
func rebuildScenario(run storage.RunEntry) (scenario.Scenario, error) {
	s, err := resolveScenario(run.ScenarioSource())
	if err != nil {
		return scenario.Scenario{}, err
	}
	if s.ID != run.ScenarioID {
		return scenario.Scenario{}, fmt.Errorf("source %q now holds scenario %q, recorded %q", run.ScenarioSource(), s.ID, run.ScenarioID)
	}
	if run.SafetyOverride == "" {
		return s, nil
	}
	mode, ok := heat.ParseSafetyMode(run.SafetyOverride)
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("recorded safety override %q is not a safety mode", run.SafetyOverride)
	}
	return s.WithSafety(mode), nil
}

// simOptions builds world options from the loaded settings.
func simOptions() sim.Options {
	return sim.Options{
		Catalog: app.catalog,
		Ticks:   uint32(app.settings.Ticks),
		Logger:  app.logger,
	}
}
