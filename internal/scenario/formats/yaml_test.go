package formats

import (
	"testing"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
)

const duelYAML = `
id: duel
ticks: 12
ships:
  - id: a
    position: [1, 2, 3]
    heat: {capacity: 100, dissipation: 5, overheat_threshold: 0.8}
    heatsink: {capacity: 0, absorb: 0, vent: 0}
    safety_mode: conservative
    modifiers:
      - {id: cap, discipline: shield_capacitor, shield_capacity: 1.5}
    limbs:
      - {id: limb_x, affix: affix_overclocked, module: weapon, slot: cooling, combo: [agile, arc]}
    upgrade: {damage: 1.3}
  - id: b
    forward: [0, 1, 0]
    shields:
      - {id: front, topology: directional, arc: front, max: 40, current: 10, recharge: 2, recharge_delay: 3}
    hull:
      - {id: h0, class: light, max: 50, active: false, resistances: {kinetic: 0.5, em: 2}}
shots:
  - tick: 4
    from: a
    to: b
    every: 3
    count: 2
    weapon:
      damage_type: kinetic
      delivery: slug
      damage: 25
      crit: 1.5
      penetration: 0.2
      segment: 0
      heat: 8
      mount: 1
      payload:
        - {id: slow, kind: mass_modifier, magnitude: 0.1, duration: 5, max_stacks: 3}
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(duelYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	if s.ID != "duel" || s.Title != "duel" || s.Ticks != 12 {
		t.Errorf("header = %q %q %d", s.ID, s.Title, s.Ticks)
	}
	if len(s.Ships) != 2 {
		t.Fatalf("ships = %d, expected 2", len(s.Ships))
	}

	a := s.Ships[0]
	if a.Position != core.V3(1, 2, 3) || a.Forward != core.AxisX {
		t.Errorf("a position/forward = %v %v", a.Position, a.Forward)
	}
	if a.Heat.BaseHeatCapacity != 100 || a.Heat.BaseOverheatThreshold01 != 0.8 || a.Heat.BaseRecoveryThreshold01 != heat.DefaultRecoveryThreshold01 {
		t.Errorf("a heat = %+v", a.Heat)
	}
	if a.Heatsink != (heat.HeatsinkState{}) {
		t.Errorf("explicit zero heatsink should remove it, got %+v", a.Heatsink)
	}
	if a.Safety != heat.SafetyConservative {
		t.Errorf("safety = %v", a.Safety)
	}
	if len(a.Modifiers) != 1 || a.Modifiers[0].Discipline != combat.DisciplineShieldCapacitor || a.Modifiers[0].ShieldCapacityMul != 1.5 {
		t.Errorf("modifiers = %+v", a.Modifiers)
	}
	if len(a.Limbs) != 1 || a.Limbs[0].Slot != heat.SlotCooling || a.Limbs[0].ComboTags != heat.ComboAgile|heat.ComboArc {
		t.Errorf("limbs = %+v", a.Limbs)
	}
	if a.Upgrade.Damage != 1.3 || a.Upgrade.MaxSpeed != 1 {
		t.Errorf("upgrade = %+v", a.Upgrade)
	}

	b := s.Ships[1]
	if b.Forward != core.AxisY {
		t.Errorf("b forward = %v", b.Forward)
	}
	if len(b.Shields) != 1 {
		t.Fatalf("b shields = %d", len(b.Shields))
	}
	sh := b.Shields[0]
	if sh.Topology != combat.TopologyDirectional || sh.Arc != combat.ArcFront || sh.Current != 10 || sh.Max != 40 || sh.RechargeDelayTicks != 3 {
		t.Errorf("shield = %+v", sh)
	}
	if sh.Resistances != combat.IdentityResistances() {
		t.Error("shield resistances should default to identity")
	}
	seg := b.Hull[0]
	if seg.Active || seg.Class != combat.HullLight || seg.Current != 50 || seg.Mass != 1 {
		t.Errorf("segment = %+v", seg)
	}
	if seg.Resistances.Kinetic != 0.5 || seg.Resistances.EM != 2 || seg.Resistances.Energy != 1 {
		t.Errorf("segment resistances = %+v", seg.Resistances)
	}
	if b.Heatsink != heat.DefaultHeatsink() {
		t.Error("omitted heatsink should be the stock one")
	}

	if len(s.Shots) != 2 || s.Shots[0].Tick != 4 || s.Shots[1].Tick != 7 {
		t.Fatalf("shots = %+v", s.Shots)
	}
	w := s.Shots[0].Weapon
	if w.DamageType != combat.DamageKinetic || w.Delivery != combat.DeliverySlug || w.BaseDamage != 25 {
		t.Errorf("weapon = %+v", w)
	}
	if w.CritMultiplier != 1.5 || w.Penetration01 != 0.2 || w.PreferredSegment != 0 || w.Mount != 1 || w.HeatScale != 1 {
		t.Errorf("weapon extras = %+v", w)
	}
	if len(w.Payload) != 1 || w.Payload[0].Kind != combat.OpMassModifier || w.Payload[0].MaxStacks != 3 {
		t.Errorf("payload = %+v", w.Payload)
	}

	// Repeated shots must not share payload backing arrays.
	s.Shots[0].Weapon.Payload[0].Magnitude = 99
	if s.Shots[1].Weapon.Payload[0].Magnitude == 99 {
		t.Error("repeated shots share payload slices")
	}
}

func TestParseYAMLDefaults(t *testing.T) {
	s, err := ParseYAML([]byte(`
id: bare
ticks: 1
ships:
  - id: x
    mounts: [{}, {capacity: 200}]
shots:
  - {tick: 1, from: x, to: x, weapon: {damage_type: energy, damage: 3}}
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	x := s.Ships[0]
	if x.Heat.BaseHeatCapacity != 150 || x.Heat.BaseDissipationPerTick != 2 {
		t.Errorf("bootstrapped heat = %+v", x.Heat)
	}
	if x.Safety != heat.SafetyBalanced || x.Upgrade != heat.IdentityUpgrade() {
		t.Errorf("defaults = %v %+v", x.Safety, x.Upgrade)
	}
	w := s.Shots[0].Weapon
	if w.PreferredSegment != combat.NoIndex || w.CritMultiplier != 1 || w.Slot != heat.SlotBarrel {
		t.Errorf("weapon defaults = %+v", w)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: "id: [oops"},
		{name: "bad vector", data: "id: x\nships: [{id: a, position: [1, 2]}]"},
		{name: "bad topology", data: "id: x\nships: [{id: a, shields: [{id: s, topology: dome, max: 1}]}]"},
		{name: "bad arc", data: "id: x\nships: [{id: a, shields: [{id: s, topology: directional, arc: up, max: 1}]}]"},
		{name: "bad resistance", data: "id: x\nships: [{id: a, hull: [{id: h, max: 1, resistances: {plasma: 1}}]}]"},
		{name: "bad hull class", data: "id: x\nships: [{id: a, hull: [{id: h, class: mega, max: 1}]}]"},
		{name: "bad safety", data: "id: x\nships: [{id: a, safety_mode: reckless}]"},
		{name: "bad discipline", data: "id: x\nships: [{id: a, modifiers: [{id: m, discipline: warp}]}]"},
		{name: "bad combo", data: "id: x\nships: [{id: a, limbs: [{id: l, combo: [glass]}]}]"},
		{name: "bad behavior", data: "id: x\nships: [{id: a, items: [{id: i, behaviors: [laser]}]}]"},
		{name: "bad damage type", data: "id: x\nshots: [{tick: 1, from: a, to: b, weapon: {damage_type: plasma}}]"},
		{name: "bad delivery", data: "id: x\nshots: [{tick: 1, from: a, to: b, weapon: {damage_type: em, delivery: teleport}}]"},
		{name: "bad payload kind", data: "id: x\nshots: [{tick: 1, from: a, to: b, weapon: {damage_type: em, payload: [{id: p, kind: freeze}]}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
