// fleetcrawl runs deterministic fleet combat scenarios and records them.
//
// Usage:
//
//	fleetcrawl list                - List builtin and library scenarios
//	fleetcrawl run <scenario>      - Run a scenario headless and save it
//	fleetcrawl watch <scenario>    - Watch a scenario tick by tick
//	fleetcrawl history [scenario]  - Show recorded runs
//	fleetcrawl replay <run-id>     - Re-run a recorded run and check its hashes
//	fleetcrawl catalog             - Show the heat modifier catalog
//
// Global flags:
//
//	--config <path>     - Settings YAML (default: search ~/.fleetcrawl/configs, ./configs)
//	--catalog <path>    - Heat modifier catalog YAML
//	--db <path>         - Database path (default: ~/.fleetcrawl/runs.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--ticks <n>         - Override scenario length
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/config"
	"github.com/vovakirdan/fleetcrawl/internal/heat"

	// Import builtin scenarios to register them
	_ "github.com/vovakirdan/fleetcrawl/internal/scenario/builtin"
)

var (
	// Global flags
	flagConfig      string
	flagCatalog     string
	flagDBPath      string
	flagLogLevel    string
	flagTicks       int
	flagScenarioDir string
	flagSafety      string
)

// app is the state shared by every subcommand once flags are parsed.
var app struct {
	settings config.Settings
	catalog  []heat.ModifierDefinition
	logger   *log.Logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fleetcrawl",
	Short: "fleetcrawl - deterministic fleet combat and heat simulation",
	Long: `fleetcrawl resolves scripted fleet engagements tick by tick: shields,
hull, lingering effects and weapon heat, with every run reproducible from
its scenario.

Available commands:
  list     - Show builtin and library scenarios
  run      - Run a scenario headless and record it
  watch    - Watch a scenario in the terminal
  history  - Browse recorded runs
  replay   - Verify a recorded run still reproduces
  catalog  - Show the heat modifier catalog

Examples:
  fleetcrawl list
  fleetcrawl run broadside
  fleetcrawl watch overheat-spike --tick-rate 5
  fleetcrawl history broadside
  fleetcrawl replay 3f0c...`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Path to heat modifier catalog YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run database (default from settings)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagTicks, "ticks", 0, "Override scenario length (0 = scenario default)")
	rootCmd.PersistentFlags().StringVar(&flagScenarioDir, "scenarios", "", "Directory of scenario files (default from settings)")
	rootCmd.PersistentFlags().StringVar(&flagSafety, "safety", "", "Force a safety mode on every ship: conservative, balanced, unsafe")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(catalogCmd)
}

// setup loads settings and the heat catalog, then applies flag overrides.
func setup(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(flagConfig)
	if err != nil {
		return err
	}

	if flagDBPath != "" {
		settings.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}
	if flagTicks != 0 {
		settings.Ticks = flagTicks
	}
	if flagScenarioDir != "" {
		settings.ScenarioDir = flagScenarioDir
	}
	if flagSafety != "" {
		settings.SafetyMode = flagSafety
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(settings.LogLevel)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fleetcrawl",
		Level:           level,
	})

	catalog, err := config.LoadHeatCatalog(flagCatalog)
	if err != nil {
		return err
	}
	defs, err := catalog.Definitions()
	if err != nil {
		return err
	}

	app.settings = settings
	app.catalog = defs
	app.logger = logger
	logger.Debug("settings loaded", "db", settings.DBPath, "scenarios", settings.ScenarioDir, "heat_mods", len(defs))
	return nil
}
