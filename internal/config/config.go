// Package config provides YAML-based configuration for fleetcrawl: run
// settings and the heat modifier catalog.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fleetcrawl/internal/heat"
)

// Settings contains run-level configuration.
type Settings struct {
	Ticks       int    `yaml:"ticks"`     // 0 = use the scenario's own length
	TickRate    int    `yaml:"tick_rate"` // ticks per second when watching
	DBPath      string `yaml:"db_path"`
	LogLevel    string `yaml:"log_level"`
	ScenarioDir string `yaml:"scenario_dir"`
	SafetyMode  string `yaml:"safety_mode"` // forced onto every ship when set
}

// Validate checks settings values that would otherwise fail later.
func (s Settings) Validate() error {
	if s.Ticks < 0 {
		return fmt.Errorf("config: ticks must be >= 0, got %d", s.Ticks)
	}
	if s.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be > 0, got %d", s.TickRate)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q: %w", s.LogLevel, err)
	}
	if _, ok := heat.ParseSafetyMode(s.SafetyMode); s.SafetyMode != "" && !ok {
		return fmt.Errorf("config: invalid safety_mode %q", s.SafetyMode)
	}
	return nil
}

// Safety returns the safety mode override, if one is configured.
func (s Settings) Safety() (heat.SafetyMode, bool) {
	if s.SafetyMode == "" {
		return heat.SafetyBalanced, false
	}
	return heat.ParseSafetyMode(s.SafetyMode)
}

// HeatCatalog is the list of heat modifiers that equipment can trigger.
type HeatCatalog struct {
	Modifiers []HeatModifier `yaml:"modifiers"`
}

// HeatModifier is one catalog entry with the source key in YAML names.
type HeatModifier struct {
	ID              string     `yaml:"id"`
	SourceKind      string     `yaml:"source_kind"`
	SourceID        string     `yaml:"source_id,omitempty"`
	ModuleType      string     `yaml:"module_type,omitempty"`
	LimbSlot        string     `yaml:"limb_slot,omitempty"`
	ComboTags       []string   `yaml:"combo_tags,omitempty"`
	WeaponBehaviors []string   `yaml:"weapon_behaviors,omitempty"`
	Tuning          HeatTuning `yaml:",inline"`
}

// HeatTuning mirrors heat.Tuning with YAML names. Omitted multipliers are neutral.
type HeatTuning struct {
	GenerationMultiplier          float64 `yaml:"generation_multiplier,omitempty"`
	DissipationMultiplier         float64 `yaml:"dissipation_multiplier,omitempty"`
	CapacityMultiplier            float64 `yaml:"capacity_multiplier,omitempty"`
	OverheatThresholdOffset01     float64 `yaml:"overheat_threshold_offset01,omitempty"`
	DamageBonusPerHeat01          float64 `yaml:"damage_bonus_per_heat01,omitempty"`
	CooldownBonusPerHeat01        float64 `yaml:"cooldown_bonus_per_heat01,omitempty"`
	EngineSpeedBonusPerHeat01     float64 `yaml:"engine_speed_bonus_per_heat01,omitempty"`
	ShieldRechargeBonusPerHeat01  float64 `yaml:"shield_recharge_bonus_per_heat01,omitempty"`
	ShieldIntensityBonusPerHeat01 float64 `yaml:"shield_intensity_bonus_per_heat01,omitempty"`
	OverheatDamagePenalty         float64 `yaml:"overheat_damage_penalty,omitempty"`
	OverheatCooldownPenalty       float64 `yaml:"overheat_cooldown_penalty,omitempty"`
	OverheatJamChancePerTick      float64 `yaml:"overheat_jam_chance_per_tick,omitempty"`
	OverheatSelfDamagePerTick     float64 `yaml:"overheat_self_damage_per_tick,omitempty"`
	HeatsinkCapacityMultiplier    float64 `yaml:"heatsink_capacity_multiplier,omitempty"`
	HeatsinkAbsorbMultiplier      float64 `yaml:"heatsink_absorb_multiplier,omitempty"`
	HeatsinkVentMultiplier        float64 `yaml:"heatsink_vent_multiplier,omitempty"`
	UnsafeLeakMultiplier          float64 `yaml:"unsafe_leak_multiplier,omitempty"`
	ThrottleStart01               float64 `yaml:"throttle_start01,omitempty"`
	ThrottleScale                 float64 `yaml:"throttle_scale,omitempty"`
}

// Definition converts the entry to a heat modifier definition.
func (m HeatModifier) Definition() (heat.ModifierDefinition, error) {
	def := heat.ModifierDefinition{
		ID:       m.ID,
		SourceID: m.SourceID,
		Tuning:   heat.Tuning(m.Tuning),
	}
	if strings.TrimSpace(m.ID) == "" {
		return def, fmt.Errorf("config: heat modifier has no id")
	}

	var ok bool
	if def.SourceKind, ok = heat.ParseSourceKind(m.SourceKind); !ok {
		return def, fmt.Errorf("config: heat modifier %q: unknown source_kind %q", m.ID, m.SourceKind)
	}
	if def.ModuleType, ok = heat.ParseModuleType(m.ModuleType); !ok {
		return def, fmt.Errorf("config: heat modifier %q: unknown module_type %q", m.ID, m.ModuleType)
	}
	if def.Slot, ok = heat.ParseLimbSlot(m.LimbSlot); !ok {
		return def, fmt.Errorf("config: heat modifier %q: unknown limb_slot %q", m.ID, m.LimbSlot)
	}

	var err error
	if def.ComboTags, err = heat.ParseComboTags(m.ComboTags); err != nil {
		return def, fmt.Errorf("config: heat modifier %q: %w", m.ID, err)
	}
	if def.WeaponBehaviors, err = heat.ParseBehaviorTags(m.WeaponBehaviors); err != nil {
		return def, fmt.Errorf("config: heat modifier %q: %w", m.ID, err)
	}
	return def, nil
}

// Definitions converts every entry in catalog order. IDs must be unique.
func (c HeatCatalog) Definitions() ([]heat.ModifierDefinition, error) {
	defs := make([]heat.ModifierDefinition, 0, len(c.Modifiers))
	seen := make(map[string]bool, len(c.Modifiers))
	for _, m := range c.Modifiers {
		def, err := m.Definition()
		if err != nil {
			return nil, err
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("config: duplicate heat modifier %q", def.ID)
		}
		seen[def.ID] = true
		defs = append(defs, def)
	}
	return defs, nil
}
