package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/sim"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

var (
	flagNoSave bool
	flagEvents bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario headless",
	Long: `Run a builtin scenario, a library scenario ID, or a scenario file to the
end and print each ship's tallies. The run is saved to the database unless
--no-save is given. Interrupting a run saves it as incomplete.

Examples:
  fleetcrawl run broadside
  fleetcrawl run overheat-spike --events
  fleetcrawl run ./scenarios/ion_skirmish.yaml --ticks 60
  fleetcrawl run broadside --safety unsafe --no-save`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
	runCmd.Flags().BoolVar(&flagEvents, "events", false, "Print every tick event")
}

func runRun(cmd *cobra.Command, args []string) {
	s, err := resolveScenario(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s = applyOverrides(s)

	world, err := sim.New(s, simOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	completed := true
	for !world.Done() {
		if ctx.Err() != nil {
			completed = false
			app.logger.Warn("run interrupted", "tick", world.Tick())
			break
		}
		rep := world.Step()
		if flagEvents {
			for _, e := range rep.Events {
				fmt.Println(e)
			}
		}
	}

	sum := world.Summary()
	printSummary(s.Title, sum)

	if flagNoSave {
		return
	}

	store, err := storage.Open(app.settings.DBPath)
	if err != nil {
		app.logger.Warn("could not open run database", "error", err)
		return
	}
	defer store.Close()

	runID, err := store.SaveRun(sum, runInputs(args[0]), completed, world.Records())
	if err != nil {
		app.logger.Error("could not save run", "error", err)
		return
	}
	fmt.Printf("\nSaved run %s\n", runID)
	if !completed {
		fmt.Println("Run was interrupted and is recorded as incomplete.")
	}
}

// printSummary prints the per-ship tally table.
func printSummary(title string, sum sim.Summary) {
	fmt.Printf("%s - %d ticks, %d hits, hash %016x\n", title, sum.Ticks, sum.Hits, sum.Hash)
	fmt.Println()

	maxIDLen := 4 // "Ship" header
	for _, sh := range sum.Ships {
		maxIDLen = max(maxIDLen, len(sh.ID))
	}

	fmt.Printf("  %-*s  %6s  %6s  %5s  %8s  %8s  %7s  %5s  %4s  %6s\n",
		maxIDLen, "Ship", "Hull", "Shield", "Heat", "Dealt", "Taken", "Reflect", "Fired", "Held", "Jammed")
	fmt.Printf("  %-*s  %6s  %6s  %5s  %8s  %8s  %7s  %5s  %4s  %6s\n",
		maxIDLen, "----", "----", "------", "----", "-----", "-----", "-------", "-----", "----", "------")

	for _, sh := range sum.Ships {
		name := sh.ID
		if sh.Destroyed {
			name += " (X)"
		}
		fmt.Printf("  %-*s  %5.1f%%  %5.1f%%  %5.2f  %8.2f  %8.2f  %7.2f  %5d  %4d  %6d\n",
			maxIDLen, name, sh.HullFraction*100, sh.ShieldFraction*100, sh.Heat01,
			sh.DamageDealt, sh.DamageTaken, sh.ReflectedTaken, sh.ShotsFired, sh.ShotsSuppressed, sh.ShotsJammed)
	}
}
