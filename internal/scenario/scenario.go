// Package scenario defines scripted combat encounters: the ships taking part,
// their defenses and heat loadouts, and the shots fired on each tick.
//
// Scenarios are plain data. Parsing lives in scenario/formats, directory
// loading in scenario/library, and stepping in sim.
package scenario

import (
	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
)

// Scenario is a complete encounter definition.
type Scenario struct {
	ID          string
	Title       string
	Description string
	Ticks       uint32
	Ships       []Ship
	Shots       []Shot
	FilePath    string
}

// Ship is one participant with its defenses and heat loadout.
type Ship struct {
	ID       string
	Position core.Vec3
	Forward  core.Vec3
	Up       core.Vec3

	Shields   []combat.ShieldLayer
	Hull      []combat.HullSegment
	Runtime   combat.DefenseRuntime
	Modifiers []combat.ModuleDefenseModifier

	Heat     heat.RuntimeState
	Heatsink heat.HeatsinkState
	Safety   heat.SafetyMode
	Limbs    []heat.RolledLimb
	Items    []heat.RolledItem
	Upgrade  heat.UpgradeStats
}

// Weapon describes what a shot delivers and the heat it costs the shooter.
type Weapon struct {
	DamageType       combat.DamageType
	Delivery         combat.Delivery
	BaseDamage       float64
	CritMultiplier   float64
	Penetration01    float64
	PreferredSegment int
	Behaviors        heat.WeaponBehaviorTag
	Heat             float64
	HeatScale        float64
	Mount            int
	Slot             heat.LimbSlot
	Payload          []combat.PayloadOp
}

// Shot is one scripted weapon discharge.
type Shot struct {
	Tick   uint32
	From   string
	To     string
	Weapon Weapon
}

// NewShip returns a ship facing +X with the stock heatsink and neutral stats.
func NewShip(id string) Ship {
	return Ship{
		ID:       id,
		Forward:  core.AxisX,
		Up:       core.AxisY,
		Runtime:  combat.NewDefenseRuntime(),
		Heat:     heat.BootstrapRuntime(nil),
		Heatsink: heat.DefaultHeatsink(),
		Safety:   heat.SafetyBalanced,
		Upgrade:  heat.IdentityUpgrade(),
	}
}

// NewWeapon returns a slug weapon with neutral crit and no preferred segment.
func NewWeapon(dt combat.DamageType, damage float64) Weapon {
	return Weapon{
		DamageType:       dt,
		Delivery:         combat.DeliverySlug,
		BaseDamage:       damage,
		CritMultiplier:   1,
		PreferredSegment: combat.NoIndex,
		HeatScale:        1,
		Slot:             heat.SlotBarrel,
	}
}

// Ship returns the ship with the given ID.
func (s *Scenario) Ship(id string) (*Ship, bool) {
	for i := range s.Ships {
		if s.Ships[i].ID == id {
			return &s.Ships[i], true
		}
	}
	return nil, false
}

// ShotsAt returns the shots scripted for a tick in script order.
func (s *Scenario) ShotsAt(tick uint32) []Shot {
	var shots []Shot
	for _, shot := range s.Shots {
		if shot.Tick == tick {
			shots = append(shots, shot)
		}
	}
	return shots
}

// LastShotTick returns the latest tick any shot is scripted for.
func (s *Scenario) LastShotTick() uint32 {
	var last uint32
	for _, shot := range s.Shots {
		last = max(last, shot.Tick)
	}
	return last
}

// Clone returns a deep copy so a run can mutate ship state freely.
func (s Scenario) Clone() Scenario {
	c := s
	c.Ships = make([]Ship, len(s.Ships))
	for i, ship := range s.Ships {
		c.Ships[i] = ship.clone()
	}
	c.Shots = make([]Shot, len(s.Shots))
	for i, shot := range s.Shots {
		shot.Weapon.Payload = append([]combat.PayloadOp(nil), shot.Weapon.Payload...)
		c.Shots[i] = shot
	}
	return c
}

// WithSafety returns a copy with every ship forced to mode.
func (s Scenario) WithSafety(mode heat.SafetyMode) Scenario {
	c := s.Clone()
	for i := range c.Ships {
		c.Ships[i].Safety = mode
	}
	return c
}

func (s Ship) clone() Ship {
	c := s
	c.Shields = append([]combat.ShieldLayer(nil), s.Shields...)
	c.Hull = append([]combat.HullSegment(nil), s.Hull...)
	c.Modifiers = append([]combat.ModuleDefenseModifier(nil), s.Modifiers...)
	c.Limbs = append([]heat.RolledLimb(nil), s.Limbs...)
	c.Items = append([]heat.RolledItem(nil), s.Items...)
	return c
}
