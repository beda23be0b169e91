package sim

import (
	"fmt"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
)

// EventKind identifies what happened during a tick.
type EventKind uint8

const (
	EventHit EventKind = iota
	EventSuppressed
	EventJammed
	EventOverheat
	EventRecovered
	EventThermalDamage
	EventEffectDamage
	EventEffectExpired
	EventShieldRecharge
	EventSegmentDestroyed
	EventShipDestroyed
)

var eventKindNames = [...]string{
	"hit",
	"suppressed",
	"jammed",
	"overheat",
	"recovered",
	"thermal_damage",
	"effect_damage",
	"effect_expired",
	"shield_recharge",
	"segment_destroyed",
	"ship_destroyed",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is one observable outcome of a tick.
type Event struct {
	Tick   uint32
	Kind   EventKind
	Ship   string // shooter for fire events, subject otherwise
	Target string
	Shot   int // script index, -1 when not shot related
	Amount float64

	// Set for EventHit.
	Resolution combat.Resolution
}

func (e Event) String() string {
	switch e.Kind {
	case EventHit:
		r := e.Resolution
		return fmt.Sprintf("t%d %s -> %s: shield %.2f hull %.2f reflect %.2f [%s]",
			e.Tick, e.Ship, e.Target, r.AppliedShieldDamage, r.AppliedHullDamage, r.ReflectedDamage, r.Flags)
	case EventSuppressed, EventJammed:
		return fmt.Sprintf("t%d %s -> %s: %s", e.Tick, e.Ship, e.Target, e.Kind)
	default:
		return fmt.Sprintf("t%d %s: %s %.2f", e.Tick, e.Ship, e.Kind, e.Amount)
	}
}

// Record is a persisted view of a resolved hit.
type Record struct {
	Tick       uint32
	Shot       int
	Attacker   string
	Target     string
	DamageType combat.DamageType
	Damage     float64 // after heat and incoming multipliers
	Resolution combat.Resolution
}

// TickReport is the result of one Step.
type TickReport struct {
	Tick   uint32
	Events []Event
	Hash   uint64
	Done   bool
}
