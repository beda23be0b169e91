// Package builtin registers the stock scenarios shipped with fleetcrawl.
// Import it for side effects.
package builtin

import (
	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
	"github.com/vovakirdan/fleetcrawl/internal/registry"
	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

func init() {
	registry.Register("bubble-absorb", BubbleAbsorb)
	registry.Register("bubble-overflow", BubbleOverflow)
	registry.Register("overheat-spike", OverheatSpike)
	registry.Register("dot-expiry", DotExpiry)
	registry.Register("broadside", Broadside)
}

func bubble(id string, current, capacity, reflect float64) combat.ShieldLayer {
	return combat.ShieldLayer{
		ID:          id,
		Topology:    combat.TopologyBubble,
		Arc:         combat.ArcAny,
		Current:     current,
		Max:         capacity,
		ReflectPct:  reflect,
		Resistances: combat.IdentityResistances(),
	}
}

func directional(id string, arc combat.ShieldArc, capacity, recharge float64, delay uint32) combat.ShieldLayer {
	return combat.ShieldLayer{
		ID:                 id,
		Topology:           combat.TopologyDirectional,
		Arc:                arc,
		Current:            capacity,
		Max:                capacity,
		RechargePerTick:    recharge,
		RechargeDelayTicks: delay,
		Resistances:        combat.IdentityResistances(),
	}
}

func segment(id string, class combat.HullClass, capacity, armor float64) combat.HullSegment {
	return combat.HullSegment{
		ID:          id,
		Class:       class,
		Current:     capacity,
		Max:         capacity,
		Armor:       armor,
		Mass:        1,
		Resistances: combat.IdentityResistances(),
		Active:      true,
	}
}

// duel places a shooter at the origin and a target 100 units down +X
// facing back at it.
func duel(id, title, description string, ticks uint32, target scenario.Ship) scenario.Scenario {
	shooter := scenario.NewShip("gunship")
	target.Position = core.V3(100, 0, 0)
	target.Forward = core.AxisX.Neg()
	return scenario.Scenario{
		ID:          id,
		Title:       title,
		Description: description,
		Ticks:       ticks,
		Ships:       []scenario.Ship{shooter, target},
	}
}

// BubbleAbsorb is a single hit fully soaked by a reflecting bubble.
func BubbleAbsorb() scenario.Scenario {
	target := scenario.NewShip("target")
	target.Shields = []combat.ShieldLayer{bubble("bubble", 50, 50, 0.2)}
	target.Hull = []combat.HullSegment{segment("core", combat.HullBalanced, 100, 5)}

	s := duel("bubble-absorb", "Bubble Absorb", "A 40 damage slug is absorbed by a 50 point bubble that reflects a fifth of it.", 5, target)
	w := scenario.NewWeapon(combat.DamageKinetic, 40)
	w.Heat = 10
	s.Shots = []scenario.Shot{{Tick: 1, From: "gunship", To: "target", Weapon: w}}
	return s
}

// BubbleOverflow drains a weak bubble and carries the rest into armored hull.
func BubbleOverflow() scenario.Scenario {
	target := scenario.NewShip("target")
	target.Shields = []combat.ShieldLayer{bubble("bubble", 10, 50, 0.2)}
	target.Hull = []combat.HullSegment{segment("core", combat.HullBalanced, 100, 5)}

	s := duel("bubble-overflow", "Bubble Overflow", "A 40 damage slug drains a 10 point bubble; 30 reaches 5 armor hull.", 5, target)
	w := scenario.NewWeapon(combat.DamageKinetic, 40)
	w.Heat = 10
	s.Shots = []scenario.Shot{{Tick: 1, From: "gunship", To: "target", Weapon: w}}
	return s
}

// OverheatSpike fires one huge heat shot, then keeps trying while the
// shooter's safety holds fire until it cools below recovery.
func OverheatSpike() scenario.Scenario {
	target := scenario.NewShip("target")
	target.Hull = []combat.HullSegment{segment("core", combat.HullHeavy, 500, 0)}

	s := duel("overheat-spike", "Overheat Spike", "A 90 heat volley overheats the gunship; follow-up shots are suppressed until it recovers.", 20, target)
	gun := &s.Ships[0]
	gun.Heat = heat.NewRuntimeState(100, 5)
	gun.Heat.BaseOverheatThreshold01 = 0.8
	gun.Heatsink = heat.HeatsinkState{}

	spike := scenario.NewWeapon(combat.DamageThermal, 30)
	spike.Delivery = combat.DeliveryBeam
	spike.Heat = 90
	s.Shots = append(s.Shots, scenario.Shot{Tick: 1, From: "gunship", To: "target", Weapon: spike})

	followUp := scenario.NewWeapon(combat.DamageThermal, 10)
	followUp.Delivery = combat.DeliveryBeam
	followUp.Heat = 2
	for tick := uint32(2); tick <= 16; tick += 2 {
		s.Shots = append(s.Shots, scenario.Shot{Tick: tick, From: "gunship", To: "target", Weapon: followUp})
	}
	return s
}

// DotExpiry applies a caustic damage-over-time that burns out on schedule.
func DotExpiry() scenario.Scenario {
	target := scenario.NewShip("target")
	target.Hull = []combat.HullSegment{segment("core", combat.HullLight, 60, 0)}

	s := duel("dot-expiry", "DoT Expiry", "A four tick caustic payload burns 3 damage on each of its three triggers and is removed when its duration runs out.", 8, target)
	w := scenario.NewWeapon(combat.DamageCaustic, 0)
	w.Delivery = combat.DeliveryCloud
	w.Payload = []combat.PayloadOp{{
		EffectID:      "corrode",
		Kind:          combat.OpDamageOverTime,
		DamageType:    combat.DamageCaustic,
		Magnitude:     3,
		DurationTicks: 4,
		TickInterval:  1,
		MaxStacks:     1,
	}}
	s.Shots = []scenario.Shot{{Tick: 1, From: "gunship", To: "target", Weapon: w}}
	return s
}

// Broadside is a flagship with layered shields and outfitted modules holding
// off two raiders attacking from different arcs.
func Broadside() scenario.Scenario {
	flagship := scenario.NewShip("flagship")
	flagship.Forward = core.AxisX
	flagship.Shields = []combat.ShieldLayer{
		bubble("canopy", 60, 60, 0.05),
		directional("bow-screen", combat.ArcFront, 80, 2, 3),
		directional("port-screen", combat.ArcLeft, 40, 1, 4),
	}
	flagship.Shields[0].RechargePerTick = 1.5
	flagship.Shields[0].RechargeDelayTicks = 2
	flagship.Shields[0].Resistances.EM = 1.4
	flagship.Hull = []combat.HullSegment{
		segment("bow", combat.HullHeavy, 180, 8),
		segment("midship", combat.HullBalanced, 220, 5),
		segment("engines", combat.HullLight, 90, 2),
	}
	flagship.Modifiers = []combat.ModuleDefenseModifier{
		{ID: "capacitor-bank", Discipline: combat.DisciplineShieldCapacitor, ShieldCapacityMul: 1.2, ShieldRechargeMul: 1.1},
		{ID: "ablative-plates", Discipline: combat.DisciplineArmorPlating, ArmorMul: 1.25, MassMul: 1.1, EMResistanceAdd: 0.1},
	}
	flagship.Limbs = []heat.RolledLimb{
		{LimbID: "limb_reactor_flux_core", ModuleType: heat.ModuleReactor, Slot: heat.SlotCore, ComboTags: heat.ComboFlux},
		{LimbID: "limb_radiator_fin", ModuleType: heat.ModuleUtility, Slot: heat.SlotCooling},
	}

	lancer := scenario.NewShip("raider-lancer")
	lancer.Position = core.V3(150, 0, 0)
	lancer.Forward = core.AxisX.Neg()
	lancer.Safety = heat.SafetyUnsafe
	lancer.Hull = []combat.HullSegment{segment("frame", combat.HullLight, 120, 3)}
	lancer.Limbs = []heat.RolledLimb{
		{LimbID: "limb_lance_emitter", AffixID: "affix_overclocked", ModuleType: heat.ModuleWeapon, Slot: heat.SlotBarrel, ComboTags: heat.ComboArc},
	}
	lancer.Items = []heat.RolledItem{
		{ItemID: "item_flux_capsule", SetID: "set_prism", ComboTags: heat.ComboArc, WeaponBehaviors: heat.BehaviorIonize},
	}

	gunner := scenario.NewShip("raider-gunner")
	gunner.Position = core.V3(0, 0, 120)
	gunner.Forward = core.AxisZ.Neg()
	gunner.Safety = heat.SafetyConservative
	gunner.Shields = []combat.ShieldLayer{bubble("deflector", 30, 30, 0)}
	gunner.Hull = []combat.HullSegment{segment("frame", combat.HullBalanced, 140, 4)}

	ion := scenario.NewWeapon(combat.DamageEM, 18)
	ion.Delivery = combat.DeliveryBeam
	ion.Behaviors = heat.BehaviorIonize
	ion.Heat = 14
	ion.Payload = []combat.PayloadOp{{
		EffectID:      "ion-drain",
		Kind:          combat.OpPowerReduction,
		DamageType:    combat.DamageEM,
		Magnitude:     0.05,
		DurationTicks: 6,
		TickInterval:  2,
		MaxStacks:     3,
	}}

	slug := scenario.NewWeapon(combat.DamageKinetic, 26)
	slug.Penetration01 = 0.3
	slug.PreferredSegment = 2
	slug.Heat = 9
	slug.Mount = 1

	torpedo := scenario.NewWeapon(combat.DamageExplosive, 45)
	torpedo.Delivery = combat.DeliveryGuided
	torpedo.CritMultiplier = 1.5
	torpedo.Heat = 20
	torpedo.Payload = []combat.PayloadOp{{
		EffectID:      "hull-fire",
		Kind:          combat.OpDamageOverTime,
		DamageType:    combat.DamageThermal,
		Magnitude:     2,
		DurationTicks: 5,
		TickInterval:  1,
		MaxStacks:     2,
	}}

	counter := scenario.NewWeapon(combat.DamageEnergy, 22)
	counter.Delivery = combat.DeliveryBeam
	counter.Heat = 12

	var shots []scenario.Shot
	for tick := uint32(1); tick <= 30; tick++ {
		if tick%3 == 1 {
			shots = append(shots, scenario.Shot{Tick: tick, From: "raider-lancer", To: "flagship", Weapon: ion})
		}
		if tick%4 == 2 {
			shots = append(shots, scenario.Shot{Tick: tick, From: "raider-gunner", To: "flagship", Weapon: slug})
		}
		if tick%10 == 5 {
			shots = append(shots, scenario.Shot{Tick: tick, From: "raider-lancer", To: "flagship", Weapon: torpedo})
		}
		if tick%5 == 0 {
			shots = append(shots, scenario.Shot{Tick: tick, From: "flagship", To: "raider-gunner", Weapon: counter})
		}
		if tick%6 == 3 {
			shots = append(shots, scenario.Shot{Tick: tick, From: "flagship", To: "raider-lancer", Weapon: counter})
		}
	}
	for i := range shots {
		shots[i].Weapon.Payload = append([]combat.PayloadOp(nil), shots[i].Weapon.Payload...)
	}

	return scenario.Scenario{
		ID:          "broadside",
		Title:       "Broadside",
		Description: "A shielded flagship trades fire with an ion lancer off the bow and a slug gunner off the port side.",
		Ticks:       40,
		Ships:       []scenario.Ship{flagship, lancer, gunner},
		Shots:       shots,
	}
}
