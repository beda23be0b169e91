package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a scenario for errors that would make a run meaningless.
// Every problem found is returned, joined.
// Checks:
//   - Scenario has an ID, a positive length and at least one ship
//   - Ship IDs are present and unique
//   - Shield, hull and heat capacities are positive; hull is not negative
//   - Shots reference known ships, not themselves, within the run length
//   - No number is NaN or infinite
func Validate(s Scenario) error {
	var errs []error

	if strings.TrimSpace(s.ID) == "" {
		errs = append(errs, invalid("EMPTY_ID", "scenario has no id"))
	}
	if s.Ticks == 0 {
		errs = append(errs, invalid("NO_TICKS", "scenario %q has zero ticks", s.ID))
	}
	if len(s.Ships) == 0 {
		errs = append(errs, invalid("NO_SHIPS", "scenario %q has no ships", s.ID))
	}

	seen := make(map[string]bool, len(s.Ships))
	for i, ship := range s.Ships {
		if strings.TrimSpace(ship.ID) == "" {
			errs = append(errs, invalid("EMPTY_SHIP_ID", "ship #%d has no id", i))
			continue
		}
		if seen[ship.ID] {
			errs = append(errs, invalid("DUPLICATE_SHIP", "ship %q is defined more than once", ship.ID))
		}
		seen[ship.ID] = true
		errs = append(errs, validateShip(ship)...)
	}

	for i, shot := range s.Shots {
		if !seen[shot.From] {
			errs = append(errs, invalid("UNKNOWN_SHIP", "shot #%d fired by unknown ship %q", i, shot.From))
		}
		if !seen[shot.To] {
			errs = append(errs, invalid("UNKNOWN_SHIP", "shot #%d targets unknown ship %q", i, shot.To))
		}
		if shot.From == shot.To {
			errs = append(errs, invalid("SELF_TARGET", "shot #%d: ship %q targets itself", i, shot.From))
		}
		if shot.Tick == 0 {
			errs = append(errs, invalid("SHOT_BEFORE_START", "shot #%d at tick 0; ticks start at 1", i))
		}
		if shot.Tick > s.Ticks {
			errs = append(errs, invalid("SHOT_AFTER_END", "shot #%d at tick %d is past the last tick %d", i, shot.Tick, s.Ticks))
		}
		if shot.Weapon.BaseDamage < 0 {
			errs = append(errs, invalid("NEGATIVE_DAMAGE", "shot #%d has negative damage %.2f", i, shot.Weapon.BaseDamage))
		}
		errs = append(errs, nonFinite(fmt.Sprintf("shot #%d", i), weaponValues(shot.Weapon))...)
	}

	return errors.Join(errs...)
}

func validateShip(ship Ship) []error {
	errs := nonFinite(fmt.Sprintf("ship %q", ship.ID), shipValues(ship))
	for _, layer := range ship.Shields {
		if layer.Max <= core.Epsilon {
			errs = append(errs, invalid("BAD_CAPACITY", "ship %q shield %q has non-positive max %.2f", ship.ID, layer.ID, layer.Max))
		}
		if layer.Current < 0 || layer.Current > layer.Max {
			errs = append(errs, invalid("BAD_SHIELD", "ship %q shield %q current %.2f outside [0, %.2f]", ship.ID, layer.ID, layer.Current, layer.Max))
		}
	}
	for _, seg := range ship.Hull {
		if seg.Max <= core.Epsilon {
			errs = append(errs, invalid("BAD_CAPACITY", "ship %q hull %q has non-positive max %.2f", ship.ID, seg.ID, seg.Max))
		}
		if seg.Current < 0 {
			errs = append(errs, invalid("NEGATIVE_HULL", "ship %q hull %q has negative current %.2f", ship.ID, seg.ID, seg.Current))
		}
	}
	if ship.Heat.BaseHeatCapacity <= core.Epsilon {
		errs = append(errs, invalid("BAD_CAPACITY", "ship %q has non-positive heat capacity %.2f", ship.ID, ship.Heat.BaseHeatCapacity))
	}
	if ship.Heatsink.BaseCapacity < 0 {
		errs = append(errs, invalid("BAD_CAPACITY", "ship %q has negative heatsink capacity %.2f", ship.ID, ship.Heatsink.BaseCapacity))
	}
	return errs
}

// named is one numeric field checked for NaN and infinity.
type named struct {
	name string
	v    float64
}

func nonFinite(owner string, values []named) []error {
	var errs []error
	for _, n := range values {
		if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			errs = append(errs, invalid("NON_FINITE", "%s has non-finite %s", owner, n.name))
		}
	}
	return errs
}

func vecValues(prefix string, v core.Vec3) []named {
	return []named{{prefix + ".x", v.X}, {prefix + ".y", v.Y}, {prefix + ".z", v.Z}}
}

func resistanceValues(prefix string, r combat.ResistanceProfile) []named {
	return []named{
		{prefix + ".energy", r.Energy}, {prefix + ".thermal", r.Thermal}, {prefix + ".em", r.EM},
		{prefix + ".radiation", r.Radiation}, {prefix + ".kinetic", r.Kinetic},
		{prefix + ".explosive", r.Explosive}, {prefix + ".caustic", r.Caustic},
	}
}

func shipValues(ship Ship) []named {
	values := append(vecValues("position", ship.Position), vecValues("forward", ship.Forward)...)
	values = append(values, vecValues("up", ship.Up)...)
	for _, l := range ship.Shields {
		p := "shield " + l.ID
		values = append(values,
			named{p + " current", l.Current}, named{p + " max", l.Max},
			named{p + " recharge", l.RechargePerTick}, named{p + " reflect", l.ReflectPct})
		values = append(values, resistanceValues(p+" resistance", l.Resistances)...)
	}
	for _, seg := range ship.Hull {
		p := "hull " + seg.ID
		values = append(values,
			named{p + " current", seg.Current}, named{p + " max", seg.Max},
			named{p + " armor", seg.Armor}, named{p + " mass", seg.Mass})
		values = append(values, resistanceValues(p+" resistance", seg.Resistances)...)
	}
	for _, m := range ship.Modifiers {
		p := "modifier " + m.ID
		values = append(values,
			named{p + " shield capacity", m.ShieldCapacityMul}, named{p + " shield recharge", m.ShieldRechargeMul},
			named{p + " armor", m.ArmorMul}, named{p + " mass", m.MassMul},
			named{p + " reactor output", m.ReactorOutputMul}, named{p + " reflect", m.ReflectAddPct},
			named{p + " em resistance", m.EMResistanceAdd}, named{p + " caustic resistance", m.CausticResistanceAdd})
	}
	r := ship.Runtime
	values = append(values,
		named{"mass multiplier", r.MassMultiplier}, named{"shield recharge multiplier", r.ShieldRechargeMultiplier},
		named{"reactor output multiplier", r.ReactorOutputMultiplier}, named{"reflect bonus", r.ReflectBonusPct},
		named{"incoming damage multiplier", r.IncomingDamageMultiplier})
	h := ship.Heat
	values = append(values,
		named{"heat current", h.CurrentHeat}, named{"heat capacity", h.BaseHeatCapacity},
		named{"heat dissipation", h.BaseDissipationPerTick},
		named{"overheat threshold", h.BaseOverheatThreshold01}, named{"recovery threshold", h.BaseRecoveryThreshold01},
		named{"heatsink stored", ship.Heatsink.StoredHeat}, named{"heatsink capacity", ship.Heatsink.BaseCapacity},
		named{"heatsink absorb", ship.Heatsink.BaseAbsorbPerTick}, named{"heatsink vent", ship.Heatsink.BaseVentPerTick})
	u := ship.Upgrade
	values = append(values,
		named{"turn rate", u.TurnRate}, named{"acceleration", u.Acceleration}, named{"deceleration", u.Deceleration},
		named{"max speed", u.MaxSpeed}, named{"cooldown", u.Cooldown}, named{"damage", u.Damage})
	return values
}

func weaponValues(w Weapon) []named {
	values := []named{
		{"damage", w.BaseDamage}, {"crit", w.CritMultiplier}, {"penetration", w.Penetration01},
		{"heat", w.Heat}, {"heat scale", w.HeatScale},
	}
	for _, op := range w.Payload {
		p := "payload " + op.EffectID
		values = append(values, named{p + " magnitude", op.Magnitude}, named{p + " aux a", op.AuxA}, named{p + " aux b", op.AuxB})
	}
	return values
}
