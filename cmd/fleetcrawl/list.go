package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenarios",
	Long:  `Shows builtin scenarios and any scenario files found in the scenario directory.`,
	Run:   runList,
}

type listRow struct {
	id, title, source string
	ticks             uint32
	ships             int
}

func runList(cmd *cobra.Command, args []string) {
	var rows []listRow
	for _, info := range registry.List() {
		rows = append(rows, listRow{id: info.ID, title: info.Title, source: "builtin", ticks: info.Ticks, ships: info.Ships})
	}

	files, err := libraryScenarios()
	if err != nil {
		app.logger.Warn("could not read scenario directory", "dir", app.settings.ScenarioDir, "error", err)
	}
	for _, s := range files {
		rows = append(rows, listRow{id: s.ID, title: s.Title, source: s.FilePath, ticks: s.Ticks, ships: len(s.Ships)})
	}

	if len(rows) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5
	for _, r := range rows {
		maxIDLen = max(maxIDLen, len(r.id))
		maxTitleLen = max(maxTitleLen, len(r.title))
	}

	fmt.Printf("  %-*s  %-*s  %5s  %5s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Ticks", "Ships", "Source")
	fmt.Printf("  %-*s  %-*s  %5s  %5s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----", "-----", "------")

	for _, r := range rows {
		fmt.Printf("  %-*s  %-*s  %5d  %5d  %s\n", maxIDLen, r.id, maxTitleLen, r.title, r.ticks, r.ships, r.source)
	}

	fmt.Println()
	fmt.Println("Run 'fleetcrawl run <id>' to run a scenario.")
}
