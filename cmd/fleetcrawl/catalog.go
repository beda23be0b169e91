package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fleetcrawl/internal/heat"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the heat modifier catalog",
	Long: `Print every heat modifier definition in the loaded catalog with the
key it matches on and its main multipliers.

Examples:
  fleetcrawl catalog
  fleetcrawl catalog --catalog ./configs/heat.yaml`,
	Run: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) {
	if len(app.catalog) == 0 {
		fmt.Println("Heat catalog is empty.")
		return
	}

	maxIDLen, maxKeyLen := 2, 3
	for _, d := range app.catalog {
		maxIDLen = max(maxIDLen, len(d.ID))
		maxKeyLen = max(maxKeyLen, len(sourceKey(d)))
	}

	fmt.Printf("  %-*s  %-15s  %-*s  %5s  %5s  %5s  %6s  %5s\n",
		maxIDLen, "ID", "Source", maxKeyLen, "Key", "Gen", "Diss", "Cap", "Thresh", "Dmg/H")
	fmt.Printf("  %-*s  %-15s  %-*s  %5s  %5s  %5s  %6s  %5s\n",
		maxIDLen, "--", "------", maxKeyLen, "---", "---", "----", "---", "------", "-----")

	for _, d := range app.catalog {
		fmt.Printf("  %-*s  %-15s  %-*s  %5.2f  %5.2f  %5.2f  %+6.2f  %5.2f\n",
			maxIDLen, d.ID, d.SourceKind, maxKeyLen, sourceKey(d),
			d.GenerationMultiplier, d.DissipationMultiplier, d.CapacityMultiplier,
			d.OverheatThresholdOffset01, d.DamageBonusPerHeat01)
	}

	fmt.Println()
	fmt.Printf("%d definitions\n", len(app.catalog))
}

// sourceKey renders the field a definition matches on.
func sourceKey(d heat.ModifierDefinition) string {
	switch d.SourceKind {
	case heat.SourceModuleType:
		return d.ModuleType.String()
	case heat.SourceLimbSlot:
		return d.Slot.String()
	case heat.SourceComboTag:
		return d.ComboTags.String()
	case heat.SourceWeaponBehavior:
		return d.WeaponBehaviors.String()
	default:
		return d.SourceID
	}
}
