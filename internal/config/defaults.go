package config

import (
	_ "embed"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

//go:embed defaults/heat_modifiers.yaml
var defaultHeatCatalogYAML []byte

// DefaultDBPath is where run history is kept unless overridden.
const DefaultDBPath = "~/.fleetcrawl/runs.db"

// DefaultSettings returns the default run settings.
func DefaultSettings() Settings {
	return Settings{
		Ticks:       0,
		TickRate:    20,
		DBPath:      DefaultDBPath,
		LogLevel:    "info",
		ScenarioDir: "scenarios",
		SafetyMode:  "",
	}
}

// DefaultHeatCatalog returns the stock heat modifiers.
func DefaultHeatCatalog() HeatCatalog {
	return HeatCatalog{Modifiers: []HeatModifier{
		{
			ID:         "heat_limb_reactor_flux_core",
			SourceKind: "limb_id",
			SourceID:   "limb_reactor_flux_core",
			Tuning: HeatTuning{
				GenerationMultiplier:          1.18,
				DissipationMultiplier:         1,
				CapacityMultiplier:            1.12,
				DamageBonusPerHeat01:          0.14,
				CooldownBonusPerHeat01:        0.08,
				EngineSpeedBonusPerHeat01:     0.08,
				ShieldRechargeBonusPerHeat01:  0.03,
				ShieldIntensityBonusPerHeat01: 0.02,
				OverheatDamagePenalty:         0.78,
				OverheatCooldownPenalty:       1.22,
				OverheatJamChancePerTick:      0.03,
				OverheatSelfDamagePerTick:     0.1,
				HeatsinkCapacityMultiplier:    1.1,
				HeatsinkAbsorbMultiplier:      1.05,
				HeatsinkVentMultiplier:        1,
				UnsafeLeakMultiplier:          1.15,
				ThrottleStart01:               0.72,
				ThrottleScale:                 0.35,
			},
		},
		{
			ID:         "heat_affix_overclocked",
			SourceKind: "affix_id",
			SourceID:   "affix_overclocked",
			Tuning: HeatTuning{
				GenerationMultiplier:       1.16,
				DissipationMultiplier:      0.95,
				CapacityMultiplier:         1,
				OverheatThresholdOffset01:  -0.02,
				DamageBonusPerHeat01:       0.2,
				CooldownBonusPerHeat01:     0.12,
				EngineSpeedBonusPerHeat01:  0.06,
				OverheatDamagePenalty:      0.72,
				OverheatCooldownPenalty:    1.28,
				OverheatJamChancePerTick:   0.08,
				OverheatSelfDamagePerTick:  0.28,
				HeatsinkCapacityMultiplier: 0.95,
				HeatsinkAbsorbMultiplier:   0.92,
				HeatsinkVentMultiplier:     0.88,
				UnsafeLeakMultiplier:       1.35,
				ThrottleStart01:            0.68,
				ThrottleScale:              0.46,
			},
		},
		{
			ID:         "heat_slot_cooling",
			SourceKind: "limb_slot",
			LimbSlot:   "cooling",
			Tuning: HeatTuning{
				GenerationMultiplier:          0.92,
				DissipationMultiplier:         1.45,
				CapacityMultiplier:            1.08,
				OverheatThresholdOffset01:     0.05,
				ShieldRechargeBonusPerHeat01:  0.05,
				ShieldIntensityBonusPerHeat01: 0.03,
				OverheatDamagePenalty:         1,
				OverheatCooldownPenalty:       1,
				OverheatJamChancePerTick:      -0.04,
				OverheatSelfDamagePerTick:     -0.1,
				HeatsinkCapacityMultiplier:    1.5,
				HeatsinkAbsorbMultiplier:      1.65,
				HeatsinkVentMultiplier:        1.4,
				UnsafeLeakMultiplier:          0.85,
				ThrottleStart01:               0.8,
				ThrottleScale:                 0.18,
			},
		},
		{
			ID:         "heat_item_flux_capsule",
			SourceKind: "item_id",
			SourceID:   "item_flux_capsule",
			Tuning: HeatTuning{
				GenerationMultiplier:          1,
				DissipationMultiplier:         1.05,
				CapacityMultiplier:            1.1,
				OverheatThresholdOffset01:     0.01,
				DamageBonusPerHeat01:          0.1,
				CooldownBonusPerHeat01:        0.06,
				ShieldIntensityBonusPerHeat01: 0.08,
				OverheatDamagePenalty:         0.88,
				OverheatCooldownPenalty:       1.15,
				OverheatJamChancePerTick:      0.02,
				OverheatSelfDamagePerTick:     0.05,
				HeatsinkCapacityMultiplier:    1.2,
				HeatsinkAbsorbMultiplier:      1.1,
				HeatsinkVentMultiplier:        1.12,
				UnsafeLeakMultiplier:          1.08,
				ThrottleStart01:               0.74,
				ThrottleScale:                 0.3,
			},
		},
		{
			ID:              "heat_behavior_ionize",
			SourceKind:      "weapon_behavior",
			WeaponBehaviors: []string{"ionize"},
			Tuning: HeatTuning{
				GenerationMultiplier:          1.02,
				DissipationMultiplier:         1,
				CapacityMultiplier:            1,
				DamageBonusPerHeat01:          0.06,
				CooldownBonusPerHeat01:        0.03,
				ShieldRechargeBonusPerHeat01:  0.12,
				ShieldIntensityBonusPerHeat01: 0.1,
				OverheatDamagePenalty:         0.92,
				OverheatCooldownPenalty:       1.08,
				HeatsinkCapacityMultiplier:    1.06,
				HeatsinkAbsorbMultiplier:      1.02,
				HeatsinkVentMultiplier:        1.1,
				ThrottleStart01:               0.76,
				ThrottleScale:                 0.24,
			},
		},
		{
			ID:         "heat_set_prism",
			SourceKind: "set_id",
			SourceID:   "set_prism",
			Tuning: HeatTuning{
				GenerationMultiplier:         1,
				DissipationMultiplier:        1.08,
				CapacityMultiplier:           1.12,
				OverheatThresholdOffset01:    0.03,
				DamageBonusPerHeat01:         0.08,
				CooldownBonusPerHeat01:       0.05,
				EngineSpeedBonusPerHeat01:    0.04,
				ShieldRechargeBonusPerHeat01: 0.08,
				OverheatDamagePenalty:        0.9,
				OverheatCooldownPenalty:      1.12,
				OverheatJamChancePerTick:     -0.03,
				HeatsinkCapacityMultiplier:   1.2,
				HeatsinkAbsorbMultiplier:     1.16,
				HeatsinkVentMultiplier:       1.2,
				UnsafeLeakMultiplier:         0.92,
				ThrottleStart01:              0.78,
				ThrottleScale:                0.22,
			},
		},
	}}
}
