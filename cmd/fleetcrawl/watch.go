package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/platform/tui"
	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

var (
	flagTickRate int
	flagLogFile  string
)

var watchCmd = &cobra.Command{
	Use:   "watch <scenario>",
	Short: "Watch a scenario tick by tick",
	Long: `Play a scenario in the terminal with live hull, shield and heat gauges.
The finished run is saved to the database.

Controls:
  Space/P    - Pause
  N          - Step one tick while paused
  +/-        - Change tick rate
  R          - Restart
  Q/Esc      - Quit

Examples:
  fleetcrawl watch broadside
  fleetcrawl watch overheat-spike --tick-rate 4
  fleetcrawl watch broadside --log-file /tmp/fleetcrawl.log --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagTickRate, "tick-rate", 0, "Ticks per second (default from settings)")
	watchCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while the screen is active")
}

func runWatch(cmd *cobra.Command, args []string) {
	s, err := resolveScenario(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s = applyOverrides(s)

	tickRate := app.settings.TickRate
	if flagTickRate > 0 {
		tickRate = flagTickRate
	}

	// Logging to stderr would draw over the alt screen.
	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "fleetcrawl",
		Level:           app.logger.GetLevel(),
	})

	opts := simOptions()
	opts.Logger = logger
	factory := func() (*sim.World, error) {
		return sim.New(s, opts)
	}

	store, err := storage.Open(app.settings.DBPath)
	if err != nil {
		app.logger.Warn("could not open run database", "error", err)
		// Continue without storage - watching still works
		store = nil
	}

	runErr := tui.RunWatch(factory, store, runInputs(args[0]), logger, tickRate)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
