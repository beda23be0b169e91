package combat

import (
	"strings"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// Floor applied to runtime multipliers that effects scale.
const minRuntimeMultiplier = 0.05

// OpKind is the behavior of a payload op and the pending effect it creates.
type OpKind uint8

const (
	OpNone OpKind = iota
	OpDamageOverTime
	OpPowerReduction
	OpShieldRechargeModifier
	OpMassModifier
	OpReflectModifier
	OpResistanceModifier
	OpSpawnSecondaryPayload
)

var opKindNames = [...]string{
	"none",
	"damage_over_time",
	"power_reduction",
	"shield_recharge_modifier",
	"mass_modifier",
	"reflect_modifier",
	"resistance_modifier",
	"spawn_secondary_payload",
}

// String returns the snake_case name of the kind.
func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "none"
}

// ParseOpKind converts a snake_case name to an OpKind.
func ParseOpKind(s string) (OpKind, bool) {
	s = strings.ToLower(s)
	switch s {
	case "dot":
		return OpDamageOverTime, true
	case "":
		return OpNone, true
	}
	for i, name := range opKindNames {
		if name == s {
			return OpKind(i), true
		}
	}
	return OpNone, false
}

// createsPendingEffect reports whether ops of this kind become pending effects.
func (k OpKind) createsPendingEffect() bool {
	switch k {
	case OpDamageOverTime, OpPowerReduction, OpShieldRechargeModifier,
		OpMassModifier, OpReflectModifier, OpResistanceModifier:
		return true
	default:
		return false
	}
}

// PayloadOp is an effect template attached to a weapon.
type PayloadOp struct {
	EffectID      string
	Kind          OpKind
	DamageType    DamageType
	Magnitude     float64
	AuxA          float64
	AuxB          float64
	DurationTicks uint32
	TickInterval  uint32
	MaxStacks     uint8
}

// PendingEffect is a live, stacking status on a defender.
type PendingEffect struct {
	EffectID       string
	Kind           OpKind
	DamageType     DamageType
	Magnitude      float64
	AuxA           float64
	AuxB           float64
	RemainingTicks uint32
	TickInterval   uint32
	NextTick       uint32
	Stacks         uint8
}

// ApplyPayloadOps converts every accepted op into a pending effect and
// returns the flags describing what was applied. Ops of kind None or
// SpawnSecondaryPayload are ignored.
func ApplyPayloadOps(ops []PayloadOp, pending *[]PendingEffect, fallback DamageType, tick uint32) ResolutionFlags {
	var flags ResolutionFlags
	for _, op := range ops {
		if !op.Kind.createsPendingEffect() {
			continue
		}
		AddPendingEffect(op, pending, fallback, tick)
		switch op.Kind {
		case OpDamageOverTime:
			flags |= FlagAppliedDamageOverTime
		case OpPowerReduction:
			flags |= FlagAppliedPowerReduction
		}
	}
	return flags
}

// AddPendingEffect creates a new pending effect from op, or stacks onto the
// existing one with the same kind, resolved damage type and effect id.
// An op without a damage type inherits fallback.
func AddPendingEffect(op PayloadOp, pending *[]PendingEffect, fallback DamageType, tick uint32) {
	dt := op.DamageType
	if dt == DamageUnknown {
		dt = fallback
	}
	maxStacks := op.MaxStacks
	if maxStacks < 1 {
		maxStacks = 1
	}
	duration := op.DurationTicks
	if duration < 1 {
		duration = 1
	}

	effects := *pending
	for i := range effects {
		e := &effects[i]
		if e.Kind != op.Kind || e.DamageType != dt || e.EffectID != op.EffectID {
			continue
		}
		if e.Stacks < maxStacks {
			e.Stacks++
		}
		if e.Stacks > maxStacks {
			e.Stacks = maxStacks
		}
		e.Magnitude += op.Magnitude
		if duration > e.RemainingTicks {
			e.RemainingTicks = duration
		}
		return
	}

	interval := op.TickInterval
	if interval < 1 {
		interval = 1
	}
	*pending = append(effects, PendingEffect{
		EffectID:       op.EffectID,
		Kind:           op.Kind,
		DamageType:     dt,
		Magnitude:      op.Magnitude,
		AuxA:           op.AuxA,
		AuxB:           op.AuxB,
		RemainingTicks: duration,
		TickInterval:   interval,
		NextTick:       tick + interval,
		Stacks:         1,
	})
}

// EffectTick summarizes one pass of TickPendingEffects.
type EffectTick struct {
	HullDamage        float64
	Triggered         int
	Expired           int
	SegmentsDestroyed int
}

// TickPendingEffects ages every pending effect by one tick, triggering those
// whose NextTick has arrived. Expired effects are removed from *pending.
func TickPendingEffects(tick uint32, pending *[]PendingEffect, hull []HullSegment, runtime *DefenseRuntime) EffectTick {
	var report EffectTick

	runtime.IncomingDamageMultiplier = 1
	runtime.ShieldRechargeMultiplier = core.MaxF(minRuntimeMultiplier, runtime.ShieldRechargeMultiplier)
	runtime.ReactorOutputMultiplier = core.MaxF(minRuntimeMultiplier, runtime.ReactorOutputMultiplier)
	runtime.MassMultiplier = core.MaxF(minRuntimeMultiplier, runtime.MassMultiplier)
	runtime.ReflectBonusPct = core.MaxF(0, runtime.ReflectBonusPct)

	effects := *pending
	for i := len(effects) - 1; i >= 0; i-- {
		e := &effects[i]
		if e.RemainingTicks == 0 {
			effects = removeEffect(effects, i)
			report.Expired++
			continue
		}

		strength := e.Magnitude * float64(e.Stacks)

		// Resistance modifiers hold for as long as the effect is alive.
		if e.Kind == OpResistanceModifier {
			runtime.IncomingDamageMultiplier *= core.MaxF(minRuntimeMultiplier, 1+strength)
		}

		if e.NextTick <= tick {
			report.Triggered++
			switch e.Kind {
			case OpDamageOverTime:
				dealt, destroyed := applyTickDamage(*e, hull)
				report.HullDamage += dealt
				if destroyed {
					report.SegmentsDestroyed++
				}
			case OpPowerReduction:
				runtime.ReactorOutputMultiplier *= core.MaxF(minRuntimeMultiplier, 1-strength)
			case OpShieldRechargeModifier:
				runtime.ShieldRechargeMultiplier *= core.MaxF(minRuntimeMultiplier, 1+strength)
			case OpMassModifier:
				runtime.MassMultiplier *= core.MaxF(minRuntimeMultiplier, 1+strength)
			case OpReflectModifier:
				runtime.ReflectBonusPct += core.MaxF(0, strength)
			}

			interval := e.TickInterval
			if interval < 1 {
				interval = 1
			}
			e.NextTick = tick + interval
		}

		if e.RemainingTicks > 0 {
			e.RemainingTicks--
		}
		if e.RemainingTicks == 0 {
			effects = removeEffect(effects, i)
			report.Expired++
		}
	}
	*pending = effects
	return report
}

// applyTickDamage deals damage-over-time to the first targetable segment.
// Armor does not apply.
func applyTickDamage(e PendingEffect, hull []HullSegment) (float64, bool) {
	idx := selectHullSegment(hull, NoIndex)
	if idx == NoIndex {
		return 0, false
	}
	seg := &hull[idx]
	damage := core.MaxF(0, e.Magnitude*float64(e.Stacks)*ResolveResistance(seg.Resistances, e.DamageType))
	seg.Current = core.MaxF(0, seg.Current-damage)
	if seg.Current <= core.Epsilon {
		seg.Active = false
		return damage, true
	}
	return damage, false
}

// removeEffect deletes index i preserving order.
func removeEffect(effects []PendingEffect, i int) []PendingEffect {
	copy(effects[i:], effects[i+1:])
	effects[len(effects)-1] = PendingEffect{}
	return effects[:len(effects)-1]
}

// RechargeShields restores charge on every layer whose recharge delay has
// elapsed, scaled by the defender's shield recharge multiplier.
func RechargeShields(tick uint32, shields []ShieldLayer, runtime DefenseRuntime) float64 {
	mul := core.MaxF(minRuntimeMultiplier, runtime.ShieldRechargeMultiplier)
	restored := 0.0
	for i := range shields {
		layer := &shields[i]
		if layer.Topology == TopologyNone || layer.RechargePerTick <= 0 || tick < layer.RechargeResumeTick {
			continue
		}
		if layer.Current >= layer.Max {
			continue
		}
		next := core.MinF(layer.Max, layer.Current+layer.RechargePerTick*mul)
		restored += next - layer.Current
		layer.Current = next
	}
	return restored
}
