package combat

import "github.com/vovakirdan/fleetcrawl/internal/core"

// NoIndex marks a resolution that touched no shield layer or hull segment.
const NoIndex = -1

// ResolvePacket resolves one packet against a defender.
//
// Shields are consumed front to back, then any leftover damage lands on a
// single hull segment, then payload ops are converted into pending effects.
// shields, hull and *pending are mutated in place.
func ResolvePacket(
	packet Packet,
	defender DefenderState,
	shields []ShieldLayer,
	hull []HullSegment,
	pending *[]PendingEffect,
	ops []PayloadOp,
	tick uint32,
) Resolution {
	res := Resolution{
		IncomingArc:      ResolveIncomingArc(defender.Forward, packet.IncomingDirection),
		ShieldLayerIndex: NoIndex,
		HullSegmentIndex: NoIndex,
	}

	// Non-finite inputs become neutral so a bad packet cannot poison buffers.
	base := core.Finite(packet.BaseDamage, 0)
	crit := core.Finite(packet.CritMultiplier, 1)
	remaining := core.MaxF(0, base*core.MaxF(1, crit))
	penetration := core.Saturate(core.Finite(packet.Penetration01, 0))
	reflected := 0.0

	for i := range shields {
		if remaining <= core.Epsilon {
			break
		}
		layer := &shields[i]
		if layer.Current <= core.Epsilon || layer.Topology == TopologyNone || !ArcMatches(*layer, res.IncomingArc) {
			continue
		}

		resistance := ResolveResistance(layer.Resistances, packet.DamageType)
		scaled := remaining * resistance
		absorbed := core.MinF(layer.Current, scaled)
		if absorbed <= core.Epsilon {
			continue
		}
		consumed := absorbed / core.MaxF(MinResistance, resistance)

		layer.Current = core.MaxF(0, layer.Current-absorbed)
		layer.RechargeResumeTick = tick + layer.RechargeDelayTicks
		res.AppliedShieldDamage += absorbed
		remaining = core.MaxF(0, remaining-consumed)
		res.ShieldLayerIndex = i
		reflected += absorbed * core.Saturate(layer.ReflectPct)

		if layer.Topology == TopologyBubble {
			res.Flags |= FlagHitBubbleShield
		} else {
			res.Flags |= FlagHitDirectionalShield
		}
	}

	if remaining > core.Epsilon {
		res.Flags |= FlagShieldBypassed
		idx := selectHullSegment(hull, packet.PreferredHullSegment)
		res.HullSegmentIndex = idx
		if idx != NoIndex {
			applied, destroyed := damageSegment(&hull[idx], remaining, packet.DamageType, penetration)
			res.AppliedHullDamage = applied
			res.Flags |= FlagHitHull
			if destroyed {
				res.Flags |= FlagHullSegmentDestroyed
			}
			remaining = 0
		}
	}

	res.RemainingDamage = remaining
	res.ReflectedDamage = reflected
	res.Flags |= ApplyPayloadOps(ops, pending, packet.DamageType, tick)
	return res
}

// selectHullSegment picks the preferred segment when it is in range and
// active, otherwise the first targetable one.
func selectHullSegment(hull []HullSegment, preferred int) int {
	if preferred >= 0 && preferred < len(hull) && hull[preferred].Active {
		return preferred
	}
	for i := range hull {
		if hull[i].Targetable() {
			return i
		}
	}
	return NoIndex
}

// damageSegment applies resisted, armor-reduced damage to a segment and
// reports the structure removed and whether the segment was destroyed.
func damageSegment(seg *HullSegment, amount float64, dt DamageType, penetration float64) (float64, bool) {
	resisted := amount * ResolveResistance(seg.Resistances, dt)
	armorBlock := core.MaxF(0, core.Finite(seg.Armor, 0)*(1-penetration))
	final := core.MaxF(0, resisted-armorBlock)
	seg.Current = core.MaxF(0, seg.Current-final)
	if seg.Current <= core.Epsilon {
		seg.Active = false
		return final, true
	}
	return final, false
}
