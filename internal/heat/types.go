// Package heat advances a per-ship heat accumulator and turns it into the
// multiplier bundle the combat layer consumes.
//
// Heat stats are aggregated from equipped limbs and owned items, then each
// tick consumes queued action events, dissipates, and evaluates the
// overheat/recovery hysteresis. Like combat, the package is pure.
package heat

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// SourceKind selects which field of a limb or item a modifier matches on.
type SourceKind uint8

const (
	SourceLimbID SourceKind = iota
	SourceAffixID
	SourceItemID
	SourceSetID
	SourceModuleType
	SourceLimbSlot
	SourceComboTag
	SourceWeaponBehavior
)

var sourceKindNames = [...]string{"limb_id", "affix_id", "item_id", "set_id", "module_type", "limb_slot", "combo_tag", "weapon_behavior"}

func (k SourceKind) String() string {
	if int(k) < len(sourceKindNames) {
		return sourceKindNames[k]
	}
	return "unknown"
}

// ParseSourceKind converts a snake_case name to a SourceKind.
func ParseSourceKind(s string) (SourceKind, bool) {
	s = strings.ToLower(s)
	for i, name := range sourceKindNames {
		if name == s {
			return SourceKind(i), true
		}
	}
	return SourceLimbID, false
}

// ModuleType is the kind of module a limb is mounted on.
type ModuleType uint8

const (
	ModuleWeapon ModuleType = iota
	ModuleReactor
	ModuleHangar
	ModuleUtility
)

var moduleTypeNames = [...]string{"weapon", "reactor", "hangar", "utility"}

func (m ModuleType) String() string {
	if int(m) < len(moduleTypeNames) {
		return moduleTypeNames[m]
	}
	return "unknown"
}

// ParseModuleType converts a name to a ModuleType. Empty means weapon.
func ParseModuleType(s string) (ModuleType, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return ModuleWeapon, true
	}
	for i, name := range moduleTypeNames {
		if name == s {
			return ModuleType(i), true
		}
	}
	return ModuleWeapon, false
}

// LimbSlot is the position a limb occupies on its module.
type LimbSlot uint8

const (
	SlotCore LimbSlot = iota
	SlotBarrel
	SlotStabilizer
	SlotScope
	SlotBattery
	SlotCooling
	SlotUtility
)

var limbSlotNames = [...]string{"core", "barrel", "stabilizer", "scope", "battery", "cooling", "utility"}

func (s LimbSlot) String() string {
	if int(s) < len(limbSlotNames) {
		return limbSlotNames[s]
	}
	return "unknown"
}

// ParseLimbSlot converts a name to a LimbSlot. Empty means core.
func ParseLimbSlot(s string) (LimbSlot, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return SlotCore, true
	}
	for i, name := range limbSlotNames {
		if name == s {
			return LimbSlot(i), true
		}
	}
	return SlotCore, false
}

// ComboTag is a bitmask of build archetype tags.
type ComboTag uint16

const (
	ComboAgile ComboTag = 1 << iota
	ComboSiege
	ComboVanguard
	ComboSupport
	ComboArc
	ComboKinetic
	ComboDrone
	ComboFlux
)

var comboTagNames = []string{"agile", "siege", "vanguard", "support", "arc", "kinetic", "drone", "flux"}

func (c ComboTag) String() string {
	return maskString(uint16(c), comboTagNames)
}

// ParseComboTags ORs together the named tags.
func ParseComboTags(names []string) (ComboTag, error) {
	m, err := parseMask(names, comboTagNames)
	return ComboTag(m), err
}

// WeaponBehaviorTag is a bitmask of weapon behaviors.
type WeaponBehaviorTag uint16

const (
	BehaviorPierce WeaponBehaviorTag = 1 << iota
	BehaviorRicochet
	BehaviorIonize
	BehaviorDroneFocus
	BehaviorBeamFork
)

var behaviorTagNames = []string{"pierce", "ricochet", "ionize", "drone_focus", "beam_fork"}

func (b WeaponBehaviorTag) String() string {
	return maskString(uint16(b), behaviorTagNames)
}

// ParseBehaviorTags ORs together the named behaviors.
func ParseBehaviorTags(names []string) (WeaponBehaviorTag, error) {
	m, err := parseMask(names, behaviorTagNames)
	return WeaponBehaviorTag(m), err
}

func maskString(m uint16, names []string) string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for i, name := range names {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

func parseMask(values, names []string) (uint16, error) {
	var m uint16
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		found := false
		for i, name := range names {
			if name == v {
				m |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("heat: unknown tag %q", v)
		}
	}
	return m, nil
}

// SafetyMode controls how a ship reacts to overheating.
type SafetyMode uint8

const (
	// SafetyConservative throttles hard and suppresses fire while overheated.
	SafetyConservative SafetyMode = iota
	// SafetyBalanced suppresses fire while overheated with a lighter throttle.
	SafetyBalanced
	// SafetyUnsafe never suppresses fire, trading jams and self damage instead.
	SafetyUnsafe
)

func (m SafetyMode) String() string {
	switch m {
	case SafetyConservative:
		return "conservative"
	case SafetyUnsafe:
		return "unsafe"
	default:
		return "balanced"
	}
}

// ParseSafetyMode converts a name to a SafetyMode. Empty means balanced.
func ParseSafetyMode(s string) (SafetyMode, bool) {
	switch strings.ToLower(s) {
	case "conservative", "conservative_throttle":
		return SafetyConservative, true
	case "", "balanced", "balanced_auto_vent":
		return SafetyBalanced, true
	case "unsafe", "unsafe_no_reduction":
		return SafetyUnsafe, true
	default:
		return SafetyBalanced, false
	}
}

// RolledLimb is an equipped limb as seen by heat aggregation.
type RolledLimb struct {
	LimbID     string
	AffixID    string
	ModuleType ModuleType
	Slot       LimbSlot
	ComboTags  ComboTag
}

// RolledItem is an owned item as seen by heat aggregation.
type RolledItem struct {
	ItemID          string
	SetID           string
	ManufacturerID  string
	ComboTags       ComboTag
	WeaponBehaviors WeaponBehaviorTag
}

// ActionEvent is one heat-generating action taken this tick.
type ActionEvent struct {
	ModuleType      ModuleType
	Slot            LimbSlot
	ComboTags       ComboTag
	WeaponBehaviors WeaponBehaviorTag
	BaseHeat        float64
	Scale           float64
}

// RuntimeState is the persistent heat state of one ship.
type RuntimeState struct {
	CurrentHeat             float64
	BaseHeatCapacity        float64
	BaseDissipationPerTick  float64
	BaseOverheatThreshold01 float64
	BaseRecoveryThreshold01 float64
	Overheated              bool
	LastTick                uint32
}

// Default thresholds for a freshly bootstrapped ship.
const (
	DefaultOverheatThreshold01 = 0.85
	DefaultRecoveryThreshold01 = 0.45
)

// NewRuntimeState returns a cold runtime with the default thresholds.
func NewRuntimeState(capacity, dissipation float64) RuntimeState {
	return RuntimeState{
		BaseHeatCapacity:        capacity,
		BaseDissipationPerTick:  dissipation,
		BaseOverheatThreshold01: DefaultOverheatThreshold01,
		BaseRecoveryThreshold01: DefaultRecoveryThreshold01,
	}
}

// MountHeat is the heat rating of one weapon mount.
type MountHeat struct {
	Capacity    float64
	Dissipation float64
}

// BootstrapRuntime derives a ship's base heat runtime from its mounts.
// Mounts without ratings count as capacity 100 and dissipation 4.
func BootstrapRuntime(mounts []MountHeat) RuntimeState {
	capSum, dissSum := 0.0, 0.0
	for _, m := range mounts {
		if m.Capacity > 0 {
			capSum += m.Capacity
		} else {
			capSum += 100
		}
		if m.Dissipation > 0 {
			dissSum += m.Dissipation
		} else {
			dissSum += 4
		}
	}
	return NewRuntimeState(core.MaxF(40, capSum*0.5), core.MaxF(0.5, dissSum*0.25))
}

// HeatsinkState is an optional buffer that soaks heat before the core.
type HeatsinkState struct {
	StoredHeat        float64
	BaseCapacity      float64
	BaseAbsorbPerTick float64
	BaseVentPerTick   float64
}

// DefaultHeatsink returns the stock heatsink fitted to every ship.
func DefaultHeatsink() HeatsinkState {
	return HeatsinkState{
		BaseCapacity:      60,
		BaseAbsorbPerTick: 10,
		BaseVentPerTick:   3,
	}
}

// Output is the per-tick heat result consumed by combat.
type Output struct {
	Heat01                     float64
	HeatCapacity               float64
	DissipationPerTick         float64
	OverheatThreshold01        float64
	RecoveryThreshold01        float64
	DamageMultiplier           float64
	CooldownMultiplier         float64
	FireRateThrottleMultiplier float64
	EngineSpeedMultiplier      float64
	ShieldRechargeMultiplier   float64
	ShieldIntensityMultiplier  float64
	JamChance                  float64
	ThermalSelfDamagePerTick   float64
	HeatsinkStoredHeat         float64
	HeatsinkCapacity           float64
	SuppressFire               bool
	Overheated                 bool
}

// NeutralOutput returns an output with every multiplier at 1.
func NeutralOutput() Output {
	return Output{
		DamageMultiplier:           1,
		CooldownMultiplier:         1,
		FireRateThrottleMultiplier: 1,
		EngineSpeedMultiplier:      1,
		ShieldRechargeMultiplier:   1,
		ShieldIntensityMultiplier:  1,
	}
}
