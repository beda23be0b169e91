package sim

import (
	"context"
	"fmt"

	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

// ShipSummary is a ship's final tallies.
type ShipSummary struct {
	ID              string
	HullFraction    float64
	ShieldFraction  float64
	Heat01          float64
	DamageDealt     float64
	DamageTaken     float64
	ReflectedTaken  float64
	ShotsFired      int
	ShotsSuppressed int
	ShotsJammed     int
	Destroyed       bool
}

// Summary is the outcome of a full run.
type Summary struct {
	ScenarioID string
	Ticks      uint32
	Hash       uint64
	TickHashes []uint64
	Hits       int
	Events     int
	Ships      []ShipSummary
}

// Run steps the world until it is done or ctx is cancelled. A cancelled run
// returns the summary so far along with the context error.
func (w *World) Run(ctx context.Context) (Summary, error) {
	for !w.Done() {
		if err := ctx.Err(); err != nil {
			return w.Summary(), err
		}
		w.Step()
	}
	sum := w.Summary()
	w.log.Info("run complete", "ticks", sum.Ticks, "hits", sum.Hits, "hash", fmt.Sprintf("%016x", sum.Hash))
	return sum, nil
}

// Summary reports the world's tallies as of the last completed tick.
func (w *World) Summary() Summary {
	sum := Summary{
		ScenarioID: w.scenario.ID,
		Ticks:      w.tick,
		Hash:       w.Snapshot(),
		TickHashes: append([]uint64(nil), w.hashes...),
		Hits:       len(w.records),
		Events:     w.events,
	}
	for _, s := range w.ships {
		sum.Ships = append(sum.Ships, ShipSummary{
			ID:              s.ID,
			HullFraction:    s.HullFraction(),
			ShieldFraction:  s.ShieldFraction(),
			Heat01:          s.HeatOut.Heat01,
			DamageDealt:     s.DamageDealt,
			DamageTaken:     s.DamageTaken,
			ReflectedTaken:  s.ReflectedTaken,
			ShotsFired:      s.ShotsFired,
			ShotsSuppressed: s.ShotsSuppressed,
			ShotsJammed:     s.ShotsJammed,
			Destroyed:       s.Destroyed,
		})
	}
	return sum
}

// Simulate builds a world for s and runs it to completion.
func Simulate(ctx context.Context, s scenario.Scenario, opts Options) (Summary, []Record, error) {
	w, err := New(s, opts)
	if err != nil {
		return Summary{}, nil, err
	}
	sum, err := w.Run(ctx)
	return sum, w.Records(), err
}

// Verify reruns s and reports the first tick whose hash differs from want.
func Verify(ctx context.Context, s scenario.Scenario, opts Options, want []uint64) error {
	sum, _, err := Simulate(ctx, s, opts)
	if err != nil {
		return err
	}
	if len(sum.TickHashes) != len(want) {
		return fmt.Errorf("sim: replay ran %d ticks, expected %d", len(sum.TickHashes), len(want))
	}
	for i, h := range sum.TickHashes {
		if h != want[i] {
			return fmt.Errorf("sim: replay diverged at tick %d: got %016x, want %016x", i+1, h, want[i])
		}
	}
	return nil
}
