package sim

import (
	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
)

// Step advances the world by one tick. Calling Step on a finished world
// returns an empty report flagged Done.
func (w *World) Step() TickReport {
	if w.Done() {
		return TickReport{Tick: w.tick, Hash: w.Snapshot(), Done: true}
	}

	w.tick++
	t := w.tick

	var events []Event
	events = w.heatPhase(t, events)
	events = w.firePhase(t, events)
	events = w.effectPhase(t, events)

	hash := w.Snapshot()
	w.hashes = append(w.hashes, hash)
	w.events += len(events)

	return TickReport{
		Tick:   t,
		Events: events,
		Hash:   hash,
		Done:   w.Done(),
	}
}

// heatPhase consumes the actions queued on the previous tick.
func (w *World) heatPhase(t uint32, events []Event) []Event {
	for _, s := range w.ships {
		wasOverheated := s.Heat.Overheated
		out := heat.TickAdvanced(t, &s.actions, s.Stats, &s.Heat, &s.Heatsink, s.Safety)
		s.HeatOut = out
		s.Merged = heat.ApplyHeatToUpgradeStats(s.Upgrade, out)

		switch {
		case !wasOverheated && out.Overheated:
			events = append(events, Event{Tick: t, Kind: EventOverheat, Ship: s.ID, Shot: -1, Amount: out.Heat01})
			w.log.Warn("ship overheated", "tick", t, "ship", s.ID, "heat01", out.Heat01, "safety", s.Safety)
		case wasOverheated && !out.Overheated:
			events = append(events, Event{Tick: t, Kind: EventRecovered, Ship: s.ID, Shot: -1, Amount: out.Heat01})
			w.log.Info("ship recovered", "tick", t, "ship", s.ID, "heat01", out.Heat01)
		}

		if out.ThermalSelfDamagePerTick > 0 && !s.Destroyed {
			events = w.thermalDamage(t, s, out.ThermalSelfDamagePerTick, events)
		}
	}
	return events
}

// thermalDamage burns the first targetable segment. Armor does not apply.
func (w *World) thermalDamage(t uint32, s *Ship, amount float64, events []Event) []Event {
	for i := range s.Hull {
		seg := &s.Hull[i]
		if !seg.Targetable() {
			continue
		}
		dealt := core.MinF(seg.Current, amount)
		seg.Current = core.MaxF(0, seg.Current-amount)
		s.DamageTaken += dealt
		events = append(events, Event{Tick: t, Kind: EventThermalDamage, Ship: s.ID, Shot: -1, Amount: dealt})
		if seg.Current <= core.Epsilon {
			seg.Active = false
			events = append(events, Event{Tick: t, Kind: EventSegmentDestroyed, Ship: s.ID, Target: seg.ID, Shot: -1})
		}
		break
	}
	return events
}

// firePhase resolves the shots scripted for t in script order.
func (w *World) firePhase(t uint32, events []Event) []Event {
	for _, idx := range w.shots[t] {
		shot := w.scenario.Shots[idx]
		a, d := w.byID[shot.From], w.byID[shot.To]
		if a == nil || d == nil || a.Destroyed || d.Destroyed {
			continue
		}
		wpn := shot.Weapon

		if heat.ShouldSuppressFire(a.HeatOut) {
			a.ShotsSuppressed++
			events = append(events, Event{Tick: t, Kind: EventSuppressed, Ship: a.ID, Target: d.ID, Shot: idx})
			w.log.Debug("fire suppressed", "tick", t, "ship", a.ID, "shot", idx)
			continue
		}
		if heat.ResolveJam(a.HeatOut, a.Ref, wpn.Mount, t) {
			a.ShotsJammed++
			events = append(events, Event{Tick: t, Kind: EventJammed, Ship: a.ID, Target: d.ID, Shot: idx})
			w.log.Debug("mount jammed", "tick", t, "ship", a.ID, "mount", wpn.Mount)
			continue
		}

		damage := wpn.BaseDamage * a.Merged.Damage * core.NeutralIfNonPositive(d.Runtime.IncomingDamageMultiplier)
		packet := combat.Packet{
			Source:               a.Ref,
			Target:               d.Ref,
			DamageType:           wpn.DamageType,
			Delivery:             wpn.Delivery,
			BaseDamage:           damage,
			CritMultiplier:       wpn.CritMultiplier,
			Penetration01:        wpn.Penetration01,
			IncomingDirection:    d.Position.Sub(a.Position).NormalizeSafe(a.Defender.Forward),
			PreferredHullSegment: wpn.PreferredSegment,
			BehaviorTags:         combat.BehaviorTag(wpn.Behaviors),
		}
		res := combat.ResolvePacket(packet, d.Defender, d.Shields, d.Hull, &d.Pending, wpn.Payload, t)

		a.actions = append(a.actions, heat.ActionEvent{
			ModuleType:      heat.ModuleWeapon,
			Slot:            wpn.Slot,
			ComboTags:       a.comboTags(wpn.Slot),
			WeaponBehaviors: wpn.Behaviors,
			BaseHeat:        wpn.Heat,
			Scale:           wpn.HeatScale,
		})

		dealt := res.AppliedShieldDamage + res.AppliedHullDamage
		a.ShotsFired++
		a.DamageDealt += dealt
		a.ReflectedTaken += res.ReflectedDamage
		d.DamageTaken += dealt

		events = append(events, Event{Tick: t, Kind: EventHit, Ship: a.ID, Target: d.ID, Shot: idx, Amount: dealt, Resolution: res})
		if res.Flags.Has(combat.FlagHullSegmentDestroyed) {
			events = append(events, Event{Tick: t, Kind: EventSegmentDestroyed, Ship: d.ID, Target: d.Hull[res.HullSegmentIndex].ID, Shot: idx})
		}
		w.records = append(w.records, Record{
			Tick:       t,
			Shot:       idx,
			Attacker:   a.ID,
			Target:     d.ID,
			DamageType: wpn.DamageType,
			Damage:     damage,
			Resolution: res,
		})
	}
	return events
}

// comboTags returns the combo tags of the ship's limbs fitted to slot.
func (s *Ship) comboTags(slot heat.LimbSlot) heat.ComboTag {
	var tags heat.ComboTag
	for _, l := range s.Limbs {
		if l.Slot == slot {
			tags |= l.ComboTags
		}
	}
	return tags
}

// effectPhase ages pending effects, recharges shields and marks wrecks.
func (w *World) effectPhase(t uint32, events []Event) []Event {
	for _, s := range w.ships {
		if s.Destroyed {
			continue
		}

		rep := combat.TickPendingEffects(t, &s.Pending, s.Hull, &s.Runtime)
		if rep.HullDamage > 0 {
			s.DamageTaken += rep.HullDamage
			events = append(events, Event{Tick: t, Kind: EventEffectDamage, Ship: s.ID, Shot: -1, Amount: rep.HullDamage})
		}
		if rep.SegmentsDestroyed > 0 {
			events = append(events, Event{Tick: t, Kind: EventSegmentDestroyed, Ship: s.ID, Shot: -1, Amount: float64(rep.SegmentsDestroyed)})
		}
		if rep.Expired > 0 {
			events = append(events, Event{Tick: t, Kind: EventEffectExpired, Ship: s.ID, Shot: -1, Amount: float64(rep.Expired)})
		}

		// Recharge scales with both heat output and reactor output.
		runtime := s.Runtime
		runtime.ShieldRechargeMultiplier *= core.NeutralIfNonPositive(s.HeatOut.ShieldRechargeMultiplier)
		runtime.ShieldRechargeMultiplier *= core.NeutralIfNonPositive(s.Runtime.ReactorOutputMultiplier)
		if restored := combat.RechargeShields(t, s.Shields, runtime); restored > 0 {
			events = append(events, Event{Tick: t, Kind: EventShieldRecharge, Ship: s.ID, Shot: -1, Amount: restored})
		}

		if len(s.Hull) > 0 && !anyTargetable(s.Hull) {
			s.Destroyed = true
			events = append(events, Event{Tick: t, Kind: EventShipDestroyed, Ship: s.ID, Shot: -1})
			w.log.Warn("ship destroyed", "tick", t, "ship", s.ID, "damage_taken", s.DamageTaken)
		}
	}
	return events
}

func anyTargetable(hull []combat.HullSegment) bool {
	for _, seg := range hull {
		if seg.Targetable() {
			return true
		}
	}
	return false
}
