package heat

import "github.com/vovakirdan/fleetcrawl/internal/core"

// Threshold bands. Recovery always sits at least recoveryGap below overheat.
const (
	minOverheatThreshold = 0.25
	maxOverheatThreshold = 0.99
	minRecoveryThreshold = 0.05
	maxRecoveryThreshold = 0.98
	recoveryGap          = 0.01
)

// Per-mode reactions while overheated.
const (
	conservativeThrottle = 1.25
	balancedThrottle     = 1.15

	unsafeEngineScale         = 0.95
	safeEngineScale           = 0.88
	unsafeShieldRechargeScale = 0.92
	safeShieldRechargeScale   = 0.82
	unsafeShieldIntensity     = 0.9
	safeShieldIntensity       = 0.78
)

// Tick advances heat with no heatsink in balanced mode.
func Tick(tick uint32, actions *[]ActionEvent, stats ResolvedStats, runtime *RuntimeState) Output {
	var sink HeatsinkState
	return TickAdvanced(tick, actions, stats, runtime, &sink, SafetyBalanced)
}

// TickAdvanced consumes this tick's actions, feeds the heatsink, dissipates,
// evaluates hysteresis and returns the resulting multipliers. The action
// queue is always emptied.
func TickAdvanced(
	tick uint32,
	actions *[]ActionEvent,
	stats ResolvedStats,
	runtime *RuntimeState,
	sink *HeatsinkState,
	mode SafetyMode,
) Output {
	t := stats.Tuning
	out := NeutralOutput()

	capacity := core.MaxF(1, core.Finite(runtime.BaseHeatCapacity, 0)*core.MaxF(minMultiplier, t.CapacityMultiplier))
	dissipation := core.MaxF(0, core.Finite(runtime.BaseDissipationPerTick, 0)*core.MaxF(minMultiplier, t.DissipationMultiplier))
	generation := core.MaxF(minMultiplier, t.GenerationMultiplier)

	sinkCapacity := core.MaxF(0, sink.BaseCapacity*core.MaxF(minMultiplier, t.HeatsinkCapacityMultiplier))
	sinkAbsorb := core.MaxF(0, sink.BaseAbsorbPerTick*core.MaxF(minMultiplier, t.HeatsinkAbsorbMultiplier))
	sinkVent := core.MaxF(0, sink.BaseVentPerTick*core.MaxF(minMultiplier, t.HeatsinkVentMultiplier))

	// A non-finite heat value would pin the hysteresis state forever.
	runtime.CurrentHeat = core.Finite(runtime.CurrentHeat, 0)
	sink.StoredHeat = core.Finite(sink.StoredHeat, 0)

	generated := 0.0
	if actions != nil {
		for _, a := range *actions {
			scale := core.NeutralIfNonPositive(core.Finite(a.Scale, 1))
			generated += core.MaxF(0, core.Finite(a.BaseHeat, 0)*scale*generation)
		}
	}

	if generated > 0 && sinkCapacity > 0 && sinkAbsorb > 0 {
		sink.StoredHeat = core.ClampF(sink.StoredHeat, 0, sinkCapacity)
		absorbed := core.MinF(generated, core.MinF(sinkAbsorb, sinkCapacity-sink.StoredHeat))
		if absorbed > 0 {
			sink.StoredHeat += absorbed
			generated -= absorbed
		}
	}

	runtime.CurrentHeat = core.MaxF(0, runtime.CurrentHeat+generated-dissipation)

	if sink.StoredHeat > 0 && sinkVent > 0 {
		sink.StoredHeat = core.MaxF(0, sink.StoredHeat-core.MinF(sink.StoredHeat, sinkVent))
	}

	heat01 := core.Saturate(runtime.CurrentHeat / capacity)
	overheat := core.ClampF(runtime.BaseOverheatThreshold01+t.OverheatThresholdOffset01, minOverheatThreshold, maxOverheatThreshold)
	recovery := core.ClampF(core.MinF(runtime.BaseRecoveryThreshold01, overheat-recoveryGap), minRecoveryThreshold, maxRecoveryThreshold)

	switch {
	case !runtime.Overheated && heat01 >= overheat:
		runtime.Overheated = true
	case runtime.Overheated && heat01 <= recovery:
		runtime.Overheated = false
	}

	normalized := core.Saturate(heat01 / core.MaxF(0.01, overheat))

	if runtime.Overheated {
		if mode == SafetyUnsafe {
			stress := core.Saturate((heat01 - overheat) / core.MaxF(0.01, 1-overheat))
			out.JamChance = core.Saturate(t.OverheatJamChancePerTick * (1 + stress))
			out.ThermalSelfDamagePerTick = core.MaxF(0, t.OverheatSelfDamagePerTick*t.UnsafeLeakMultiplier*(1+stress))
			out.EngineSpeedMultiplier *= unsafeEngineScale
			out.ShieldRechargeMultiplier *= unsafeShieldRechargeScale
			out.ShieldIntensityMultiplier *= unsafeShieldIntensity
		} else {
			out.DamageMultiplier *= core.MaxF(minMultiplier, t.OverheatDamagePenalty)
			out.CooldownMultiplier *= core.MaxF(minMultiplier, t.OverheatCooldownPenalty)
			if mode == SafetyConservative {
				out.FireRateThrottleMultiplier *= conservativeThrottle
			} else {
				out.FireRateThrottleMultiplier *= balancedThrottle
			}
			out.SuppressFire = true
			out.EngineSpeedMultiplier *= safeEngineScale
			out.ShieldRechargeMultiplier *= safeShieldRechargeScale
			out.ShieldIntensityMultiplier *= safeShieldIntensity
		}
	} else {
		out.DamageMultiplier *= 1 + t.DamageBonusPerHeat01*normalized
		out.CooldownMultiplier *= core.MaxF(0.1, 1-t.CooldownBonusPerHeat01*normalized)
		out.EngineSpeedMultiplier *= 1 + t.EngineSpeedBonusPerHeat01*normalized
		out.ShieldRechargeMultiplier *= 1 + t.ShieldRechargeBonusPerHeat01*normalized
		out.ShieldIntensityMultiplier *= 1 + t.ShieldIntensityBonusPerHeat01*normalized

		if mode != SafetyUnsafe {
			start := core.ClampF(t.ThrottleStart01, 0.05, 0.99)
			if heat01 > start {
				over := core.Saturate((heat01 - start) / core.MaxF(0.01, 1-start))
				out.FireRateThrottleMultiplier *= 1 + over*core.MaxF(0, t.ThrottleScale)
			}
		}
	}

	runtime.LastTick = tick

	out.Heat01 = heat01
	out.HeatCapacity = capacity
	out.DissipationPerTick = dissipation
	out.OverheatThreshold01 = overheat
	out.RecoveryThreshold01 = recovery
	out.HeatsinkStoredHeat = sink.StoredHeat
	out.HeatsinkCapacity = sinkCapacity
	out.Overheated = runtime.Overheated

	if actions != nil {
		*actions = (*actions)[:0]
	}
	return out
}
