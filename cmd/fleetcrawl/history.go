package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fleetcrawl/internal/platform/tui"
	"github.com/vovakirdan/fleetcrawl/internal/registry"
	"github.com/vovakirdan/fleetcrawl/internal/storage"
)

var (
	flagHistoryTUI   bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [scenario]",
	Short: "Show recorded runs",
	Long: `List recorded runs, newest first. With a scenario ID only that
scenario's runs are shown. --tui opens an interactive browser.

Examples:
  fleetcrawl history
  fleetcrawl history broadside --limit 5
  fleetcrawl history --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse runs interactively")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum runs to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(app.settings.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, historyScenarios(args), width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
	}

	runs, err := store.RecentRuns(scenarioID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'fleetcrawl run <scenario>' to record one.")
		return
	}

	maxScenarioLen := 8
	for _, r := range runs {
		maxScenarioLen = max(maxScenarioLen, len(r.ScenarioID))
	}

	fmt.Printf("  %-36s  %-*s  %5s  %5s  %-12s  %-16s  %s\n", "Run", maxScenarioLen, "Scenario", "Ticks", "Hits", "Safety", "Hash", "Date")
	fmt.Printf("  %-36s  %-*s  %5s  %5s  %-12s  %-16s  %s\n", "---", maxScenarioLen, "--------", "-----", "----", "------", "----", "----")

	for _, r := range runs {
		date := r.CreatedAt.Format("2006-01-02 15:04")
		if !r.Completed {
			date += " (interrupted)"
		}
		safety := r.SafetyOverride
		if safety == "" {
			safety = "-"
		}
		fmt.Printf("  %-36s  %-*s  %5d  %5d  %-12s  %016x  %s\n", r.RunID, maxScenarioLen, r.ScenarioID, r.Ticks, r.Hits, safety, r.Hash, date)
	}

	if scenarioID != "" {
		if stats, err := store.GetScenarioStats(scenarioID); err == nil && stats.RunsCount > 0 {
			fmt.Println()
			fmt.Printf("%d runs, %d ticks total, %.1f hits on average\n", stats.RunsCount, stats.TotalTicks, stats.AvgHits)
		}
	}
}

// historyScenarios lists the scenarios the browser cycles through. A named
// scenario is shown first.
func historyScenarios(args []string) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(args) == 1 {
		add(args[0])
	}
	for _, info := range registry.List() {
		add(info.ID)
	}
	files, err := libraryScenarios()
	if err != nil {
		app.logger.Warn("could not read scenario directory", "dir", app.settings.ScenarioDir, "error", err)
	}
	for _, s := range files {
		add(s.ID)
	}
	return ids
}
