package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-run a recorded run and compare tick hashes",
	Long: `Load a recorded run, rebuild its scenario and run it again for the same
number of ticks. Every tick's state hash must match the recording.

The scenario is resolved from the source the run was recorded with (its ID
or file path) and the recorded safety override is applied again; the
current safety_mode setting is ignored. Editing the scenario file or the heat
catalog after recording makes the replay diverge.

Examples:
  fleetcrawl replay 3f0c8a52-6c1e-4b7a-9d0e-2a4b5c6d7e8f`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) {
	store, err := storage.Open(app.settings.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.RunByID(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no run %q (run 'fleetcrawl history' to see recorded runs)\n", args[0])
		os.Exit(1)
	}

	want, err := store.TickHashes(run.RunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := rebuildScenario(*run)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := simOptions()
	opts.Ticks = run.Ticks
	opts.Logger = log.New(io.Discard)

	safety := run.SafetyOverride
	if safety == "" {
		safety = "per ship"
	}
	fmt.Printf("Replaying %s (%s, %d ticks, safety %s)\n", run.RunID, run.ScenarioID, run.Ticks, safety)
	if err := sim.Verify(cmd.Context(), s, opts, want); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d tick hashes match, final %016x\n", len(want), run.Hash)
}
