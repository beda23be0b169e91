package heat

import "github.com/vovakirdan/fleetcrawl/internal/core"

// Floor applied to every folded multiplier.
const minMultiplier = 0.05

// Tuning is the set of heat scalars a modifier contributes and a resolved
// aggregate carries. Multiplier fields at 0 are neutral on a definition.
type Tuning struct {
	GenerationMultiplier          float64
	DissipationMultiplier         float64
	CapacityMultiplier            float64
	OverheatThresholdOffset01     float64
	DamageBonusPerHeat01          float64
	CooldownBonusPerHeat01        float64
	EngineSpeedBonusPerHeat01     float64
	ShieldRechargeBonusPerHeat01  float64
	ShieldIntensityBonusPerHeat01 float64
	OverheatDamagePenalty         float64
	OverheatCooldownPenalty       float64
	OverheatJamChancePerTick      float64
	OverheatSelfDamagePerTick     float64
	HeatsinkCapacityMultiplier    float64
	HeatsinkAbsorbMultiplier      float64
	HeatsinkVentMultiplier        float64
	UnsafeLeakMultiplier          float64
	ThrottleStart01               float64
	ThrottleScale                 float64
}

// ModifierDefinition is a heat catalog entry: a source key plus tuning.
type ModifierDefinition struct {
	ID              string
	SourceKind      SourceKind
	SourceID        string
	ModuleType      ModuleType
	Slot            LimbSlot
	ComboTags       ComboTag
	WeaponBehaviors WeaponBehaviorTag
	Tuning
}

// ResolvedStats is the folded result of every matching definition.
type ResolvedStats struct {
	Tuning
	Applied []string
}

// Identity returns stats for a ship with no heat modifiers.
func Identity() ResolvedStats {
	return ResolvedStats{Tuning: Tuning{
		GenerationMultiplier:       1,
		DissipationMultiplier:      1,
		CapacityMultiplier:         1,
		OverheatDamagePenalty:      0.75,
		OverheatCooldownPenalty:    1.25,
		OverheatJamChancePerTick:   0.12,
		OverheatSelfDamagePerTick:  0.4,
		HeatsinkCapacityMultiplier: 1,
		HeatsinkAbsorbMultiplier:   1,
		HeatsinkVentMultiplier:     1,
		UnsafeLeakMultiplier:       1.35,
		ThrottleStart01:            0.72,
		ThrottleScale:              0.4,
	}}
}

// foldMul multiplies acc by v, treating v <= 0 as neutral and flooring it.
func foldMul(acc, v float64) float64 {
	return acc * core.MaxF(minMultiplier, core.NeutralIfNonPositive(core.Finite(v, 1)))
}

// finiteTuning zeroes non-finite fields. Zero is the no-change value for
// every field.
func finiteTuning(d Tuning) Tuning {
	for _, f := range []*float64{
		&d.GenerationMultiplier, &d.DissipationMultiplier, &d.CapacityMultiplier,
		&d.OverheatThresholdOffset01, &d.DamageBonusPerHeat01, &d.CooldownBonusPerHeat01,
		&d.EngineSpeedBonusPerHeat01, &d.ShieldRechargeBonusPerHeat01, &d.ShieldIntensityBonusPerHeat01,
		&d.OverheatDamagePenalty, &d.OverheatCooldownPenalty, &d.OverheatJamChancePerTick,
		&d.OverheatSelfDamagePerTick, &d.HeatsinkCapacityMultiplier, &d.HeatsinkAbsorbMultiplier,
		&d.HeatsinkVentMultiplier, &d.UnsafeLeakMultiplier, &d.ThrottleStart01, &d.ThrottleScale,
	} {
		*f = core.Finite(*f, 0)
	}
	return d
}

// Apply folds one definition into the stats.
func (s *ResolvedStats) Apply(def ModifierDefinition) {
	t := &s.Tuning
	d := finiteTuning(def.Tuning)

	t.GenerationMultiplier = foldMul(t.GenerationMultiplier, d.GenerationMultiplier)
	t.DissipationMultiplier = foldMul(t.DissipationMultiplier, d.DissipationMultiplier)
	t.CapacityMultiplier = foldMul(t.CapacityMultiplier, d.CapacityMultiplier)
	t.OverheatThresholdOffset01 += d.OverheatThresholdOffset01

	t.DamageBonusPerHeat01 += core.MaxF(0, d.DamageBonusPerHeat01)
	t.CooldownBonusPerHeat01 += core.MaxF(0, d.CooldownBonusPerHeat01)
	t.EngineSpeedBonusPerHeat01 += core.MaxF(0, d.EngineSpeedBonusPerHeat01)
	t.ShieldRechargeBonusPerHeat01 += core.MaxF(0, d.ShieldRechargeBonusPerHeat01)
	t.ShieldIntensityBonusPerHeat01 += core.MaxF(0, d.ShieldIntensityBonusPerHeat01)

	t.OverheatDamagePenalty = foldMul(t.OverheatDamagePenalty, d.OverheatDamagePenalty)
	t.OverheatCooldownPenalty = foldMul(t.OverheatCooldownPenalty, d.OverheatCooldownPenalty)
	t.OverheatJamChancePerTick = core.Saturate(t.OverheatJamChancePerTick + d.OverheatJamChancePerTick)
	t.OverheatSelfDamagePerTick = core.MaxF(0, t.OverheatSelfDamagePerTick+d.OverheatSelfDamagePerTick)

	t.HeatsinkCapacityMultiplier = foldMul(t.HeatsinkCapacityMultiplier, d.HeatsinkCapacityMultiplier)
	t.HeatsinkAbsorbMultiplier = foldMul(t.HeatsinkAbsorbMultiplier, d.HeatsinkAbsorbMultiplier)
	t.HeatsinkVentMultiplier = foldMul(t.HeatsinkVentMultiplier, d.HeatsinkVentMultiplier)
	t.UnsafeLeakMultiplier = foldMul(t.UnsafeLeakMultiplier, d.UnsafeLeakMultiplier)

	if d.ThrottleStart01 > 0 {
		t.ThrottleStart01 = core.ClampF(core.MinF(t.ThrottleStart01, d.ThrottleStart01), 0.05, 0.99)
	}
	t.ThrottleScale += core.MaxF(0, d.ThrottleScale)

	s.Applied = append(s.Applied, def.ID)
}

// ResolveAggregate folds every definition that matches at least one limb or
// item into Identity, in catalog order. A definition applies once no matter
// how many sources match it.
func ResolveAggregate(limbs []RolledLimb, items []RolledItem, defs []ModifierDefinition) ResolvedStats {
	stats := Identity()
	for _, def := range defs {
		if matchesAny(def, limbs, items) {
			stats.Apply(def)
		}
	}
	return stats
}

func matchesAny(def ModifierDefinition, limbs []RolledLimb, items []RolledItem) bool {
	for _, l := range limbs {
		if MatchesLimb(def, l) {
			return true
		}
	}
	for _, it := range items {
		if MatchesItem(def, it) {
			return true
		}
	}
	return false
}

// MatchesLimb reports whether def keys on a field of the limb.
// Tag matches require every tag on the definition.
func MatchesLimb(def ModifierDefinition, limb RolledLimb) bool {
	switch def.SourceKind {
	case SourceLimbID:
		return def.SourceID != "" && limb.LimbID == def.SourceID
	case SourceAffixID:
		return def.SourceID != "" && limb.AffixID == def.SourceID
	case SourceModuleType:
		return limb.ModuleType == def.ModuleType
	case SourceLimbSlot:
		return limb.Slot == def.Slot
	case SourceComboTag:
		return def.ComboTags != 0 && limb.ComboTags&def.ComboTags == def.ComboTags
	default:
		return false
	}
}

// MatchesItem reports whether def keys on a field of the item.
func MatchesItem(def ModifierDefinition, item RolledItem) bool {
	switch def.SourceKind {
	case SourceItemID:
		return def.SourceID != "" && item.ItemID == def.SourceID
	case SourceSetID:
		return def.SourceID != "" && item.SetID == def.SourceID
	case SourceComboTag:
		return def.ComboTags != 0 && item.ComboTags&def.ComboTags == def.ComboTags
	case SourceWeaponBehavior:
		return def.WeaponBehaviors != 0 && item.WeaponBehaviors&def.WeaponBehaviors == def.WeaponBehaviors
	default:
		return false
	}
}
