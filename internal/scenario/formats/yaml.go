// Package formats provides scenario file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

// YAMLScenario represents the YAML structure for a scenario file.
type YAMLScenario struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Ticks       uint32     `yaml:"ticks"`
	Ships       []YAMLShip `yaml:"ships"`
	Shots       []YAMLShot `yaml:"shots"`
}

// YAMLVec is a vector written as [x, y, z].
type YAMLVec []float64

// YAMLShip represents one ship entry.
type YAMLShip struct {
	ID        string         `yaml:"id"`
	Position  YAMLVec        `yaml:"position,omitempty"`
	Forward   YAMLVec        `yaml:"forward,omitempty"`
	Up        YAMLVec        `yaml:"up,omitempty"`
	Shields   []YAMLShield   `yaml:"shields,omitempty"`
	Hull      []YAMLSegment  `yaml:"hull,omitempty"`
	Modifiers []YAMLModifier `yaml:"modifiers,omitempty"`
	Heat      *YAMLHeat      `yaml:"heat,omitempty"`
	Mounts    []YAMLMount    `yaml:"mounts,omitempty"`
	Heatsink  *YAMLHeatsink  `yaml:"heatsink,omitempty"`
	Safety    string         `yaml:"safety_mode,omitempty"`
	Limbs     []YAMLLimb     `yaml:"limbs,omitempty"`
	Items     []YAMLItem     `yaml:"items,omitempty"`
	Upgrade   *YAMLUpgrade   `yaml:"upgrade,omitempty"`
}

// YAMLShield represents one shield layer.
type YAMLShield struct {
	ID            string             `yaml:"id"`
	Topology      string             `yaml:"topology"`
	Arc           string             `yaml:"arc,omitempty"`
	Max           float64            `yaml:"max"`
	Current       *float64           `yaml:"current,omitempty"` // defaults to max
	Recharge      float64            `yaml:"recharge,omitempty"`
	RechargeDelay uint32             `yaml:"recharge_delay,omitempty"`
	Reflect       float64            `yaml:"reflect,omitempty"`
	Resistances   map[string]float64 `yaml:"resistances,omitempty"`
}

// YAMLSegment represents one hull segment.
type YAMLSegment struct {
	ID          string             `yaml:"id"`
	Class       string             `yaml:"class,omitempty"`
	Max         float64            `yaml:"max"`
	Current     *float64           `yaml:"current,omitempty"` // defaults to max
	Armor       float64            `yaml:"armor,omitempty"`
	Mass        float64            `yaml:"mass,omitempty"`
	Active      *bool              `yaml:"active,omitempty"` // defaults to true
	Resistances map[string]float64 `yaml:"resistances,omitempty"`
}

// YAMLModifier represents a module defense modifier.
type YAMLModifier struct {
	ID               string  `yaml:"id"`
	Discipline       string  `yaml:"discipline,omitempty"`
	ShieldCapacity   float64 `yaml:"shield_capacity,omitempty"`
	ShieldRecharge   float64 `yaml:"shield_recharge,omitempty"`
	Armor            float64 `yaml:"armor,omitempty"`
	Mass             float64 `yaml:"mass,omitempty"`
	ReactorOutput    float64 `yaml:"reactor_output,omitempty"`
	ReflectAdd       float64 `yaml:"reflect_add,omitempty"`
	EMResistAdd      float64 `yaml:"em_resist_add,omitempty"`
	CausticResistAdd float64 `yaml:"caustic_resist_add,omitempty"`
}

// YAMLHeat sets the heat runtime directly. Without it the runtime is
// bootstrapped from mounts.
type YAMLHeat struct {
	Capacity          float64 `yaml:"capacity"`
	Dissipation       float64 `yaml:"dissipation"`
	Current           float64 `yaml:"current,omitempty"`
	OverheatThreshold float64 `yaml:"overheat_threshold,omitempty"`
	RecoveryThreshold float64 `yaml:"recovery_threshold,omitempty"`
}

// YAMLMount is the heat rating of one weapon mount.
type YAMLMount struct {
	Capacity    float64 `yaml:"capacity,omitempty"`
	Dissipation float64 `yaml:"dissipation,omitempty"`
}

// YAMLHeatsink overrides the stock heatsink. capacity: 0 removes it.
type YAMLHeatsink struct {
	Capacity float64 `yaml:"capacity"`
	Absorb   float64 `yaml:"absorb"`
	Vent     float64 `yaml:"vent"`
	Stored   float64 `yaml:"stored,omitempty"`
}

// YAMLLimb represents an equipped limb.
type YAMLLimb struct {
	ID     string   `yaml:"id"`
	Affix  string   `yaml:"affix,omitempty"`
	Module string   `yaml:"module,omitempty"`
	Slot   string   `yaml:"slot,omitempty"`
	Combo  []string `yaml:"combo,omitempty"`
}

// YAMLItem represents an owned item.
type YAMLItem struct {
	ID           string   `yaml:"id"`
	Set          string   `yaml:"set,omitempty"`
	Manufacturer string   `yaml:"manufacturer,omitempty"`
	Combo        []string `yaml:"combo,omitempty"`
	Behaviors    []string `yaml:"behaviors,omitempty"`
}

// YAMLUpgrade represents a ship's base upgrade stats. Omitted fields are 1.
type YAMLUpgrade struct {
	TurnRate     float64 `yaml:"turn_rate,omitempty"`
	Acceleration float64 `yaml:"acceleration,omitempty"`
	Deceleration float64 `yaml:"deceleration,omitempty"`
	MaxSpeed     float64 `yaml:"max_speed,omitempty"`
	Cooldown     float64 `yaml:"cooldown,omitempty"`
	Damage       float64 `yaml:"damage,omitempty"`
}

// YAMLShot represents one scripted shot, optionally repeated.
type YAMLShot struct {
	Tick   uint32     `yaml:"tick"`
	From   string     `yaml:"from"`
	To     string     `yaml:"to"`
	Weapon YAMLWeapon `yaml:"weapon"`
	Every  uint32     `yaml:"every,omitempty"`
	Count  uint32     `yaml:"count,omitempty"`
}

// YAMLWeapon represents a weapon discharge.
type YAMLWeapon struct {
	DamageType  string        `yaml:"damage_type"`
	Delivery    string        `yaml:"delivery,omitempty"`
	Damage      float64       `yaml:"damage"`
	Crit        float64       `yaml:"crit,omitempty"`
	Penetration float64       `yaml:"penetration,omitempty"`
	Segment     *int          `yaml:"segment,omitempty"`
	Behaviors   []string      `yaml:"behaviors,omitempty"`
	Heat        float64       `yaml:"heat,omitempty"`
	HeatScale   float64       `yaml:"heat_scale,omitempty"`
	Mount       int           `yaml:"mount,omitempty"`
	Slot        string        `yaml:"slot,omitempty"`
	Payload     []YAMLPayload `yaml:"payload,omitempty"`
}

// YAMLPayload represents one payload op.
type YAMLPayload struct {
	ID         string  `yaml:"id"`
	Kind       string  `yaml:"kind"`
	DamageType string  `yaml:"damage_type,omitempty"`
	Magnitude  float64 `yaml:"magnitude"`
	AuxA       float64 `yaml:"aux_a,omitempty"`
	AuxB       float64 `yaml:"aux_b,omitempty"`
	Duration   uint32  `yaml:"duration"`
	Interval   uint32  `yaml:"interval,omitempty"`
	MaxStacks  uint8   `yaml:"max_stacks,omitempty"`
}

// ParseYAML parses a YAML scenario file. Names are resolved here; structural
// checks are left to scenario.Validate.
func ParseYAML(data []byte) (scenario.Scenario, error) {
	var ys YAMLScenario
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return scenario.Scenario{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	s := scenario.Scenario{
		ID:          ys.ID,
		Title:       ys.Title,
		Description: ys.Description,
		Ticks:       ys.Ticks,
	}
	if s.Title == "" {
		s.Title = s.ID
	}

	for _, y := range ys.Ships {
		ship, err := parseShip(y)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("ship %q: %w", y.ID, err)
		}
		s.Ships = append(s.Ships, ship)
	}

	for i, y := range ys.Shots {
		shots, err := parseShot(y)
		if err != nil {
			return scenario.Scenario{}, fmt.Errorf("shot #%d: %w", i, err)
		}
		s.Shots = append(s.Shots, shots...)
	}

	return s, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func parseVec(v YAMLVec, fallback core.Vec3) (core.Vec3, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 3:
		return core.V3(v[0], v[1], v[2]), nil
	default:
		return fallback, fmt.Errorf("vector needs 3 components, got %d", len(v))
	}
}

func parseResistances(m map[string]float64) (combat.ResistanceProfile, error) {
	p := combat.IdentityResistances()
	for name, v := range m {
		dt, ok := combat.ParseDamageType(name)
		if !ok || dt == combat.DamageUnknown {
			return p, fmt.Errorf("unknown damage type %q in resistances", name)
		}
		switch dt {
		case combat.DamageEnergy:
			p.Energy = v
		case combat.DamageThermal:
			p.Thermal = v
		case combat.DamageEM:
			p.EM = v
		case combat.DamageRadiation:
			p.Radiation = v
		case combat.DamageKinetic:
			p.Kinetic = v
		case combat.DamageExplosive:
			p.Explosive = v
		case combat.DamageCaustic:
			p.Caustic = v
		}
	}
	return p, nil
}

func parseShip(y YAMLShip) (scenario.Ship, error) {
	ship := scenario.NewShip(y.ID)
	var err error

	if ship.Position, err = parseVec(y.Position, core.Vec3{}); err != nil {
		return ship, fmt.Errorf("position: %w", err)
	}
	if ship.Forward, err = parseVec(y.Forward, core.AxisX); err != nil {
		return ship, fmt.Errorf("forward: %w", err)
	}
	if ship.Up, err = parseVec(y.Up, core.AxisY); err != nil {
		return ship, fmt.Errorf("up: %w", err)
	}

	for _, ys := range y.Shields {
		layer, err := parseShield(ys)
		if err != nil {
			return ship, fmt.Errorf("shield %q: %w", ys.ID, err)
		}
		ship.Shields = append(ship.Shields, layer)
	}

	for _, yh := range y.Hull {
		seg, err := parseSegment(yh)
		if err != nil {
			return ship, fmt.Errorf("hull %q: %w", yh.ID, err)
		}
		ship.Hull = append(ship.Hull, seg)
	}

	for _, ym := range y.Modifiers {
		disc, ok := combat.ParseDiscipline(ym.Discipline)
		if !ok {
			return ship, fmt.Errorf("modifier %q: unknown discipline %q", ym.ID, ym.Discipline)
		}
		ship.Modifiers = append(ship.Modifiers, combat.ModuleDefenseModifier{
			ID:                   ym.ID,
			Discipline:           disc,
			ShieldCapacityMul:    ym.ShieldCapacity,
			ShieldRechargeMul:    ym.ShieldRecharge,
			ArmorMul:             ym.Armor,
			MassMul:              ym.Mass,
			ReactorOutputMul:     ym.ReactorOutput,
			ReflectAddPct:        ym.ReflectAdd,
			EMResistanceAdd:      ym.EMResistAdd,
			CausticResistanceAdd: ym.CausticResistAdd,
		})
	}

	if y.Heat != nil {
		ship.Heat = heat.NewRuntimeState(y.Heat.Capacity, y.Heat.Dissipation)
		ship.Heat.CurrentHeat = y.Heat.Current
		if y.Heat.OverheatThreshold > 0 {
			ship.Heat.BaseOverheatThreshold01 = y.Heat.OverheatThreshold
		}
		if y.Heat.RecoveryThreshold > 0 {
			ship.Heat.BaseRecoveryThreshold01 = y.Heat.RecoveryThreshold
		}
	} else {
		mounts := make([]heat.MountHeat, len(y.Mounts))
		for i, m := range y.Mounts {
			mounts[i] = heat.MountHeat{Capacity: m.Capacity, Dissipation: m.Dissipation}
		}
		ship.Heat = heat.BootstrapRuntime(mounts)
	}

	if y.Heatsink != nil {
		ship.Heatsink = heat.HeatsinkState{
			StoredHeat:        y.Heatsink.Stored,
			BaseCapacity:      y.Heatsink.Capacity,
			BaseAbsorbPerTick: y.Heatsink.Absorb,
			BaseVentPerTick:   y.Heatsink.Vent,
		}
	}

	mode, ok := heat.ParseSafetyMode(y.Safety)
	if !ok {
		return ship, fmt.Errorf("unknown safety mode %q", y.Safety)
	}
	ship.Safety = mode

	for _, yl := range y.Limbs {
		limb, err := parseLimb(yl)
		if err != nil {
			return ship, fmt.Errorf("limb %q: %w", yl.ID, err)
		}
		ship.Limbs = append(ship.Limbs, limb)
	}

	for _, yi := range y.Items {
		combo, err := heat.ParseComboTags(yi.Combo)
		if err != nil {
			return ship, fmt.Errorf("item %q: %w", yi.ID, err)
		}
		behaviors, err := heat.ParseBehaviorTags(yi.Behaviors)
		if err != nil {
			return ship, fmt.Errorf("item %q: %w", yi.ID, err)
		}
		ship.Items = append(ship.Items, heat.RolledItem{
			ItemID:          yi.ID,
			SetID:           yi.Set,
			ManufacturerID:  yi.Manufacturer,
			ComboTags:       combo,
			WeaponBehaviors: behaviors,
		})
	}

	if y.Upgrade != nil {
		ship.Upgrade = heat.IdentityUpgrade().ApplyMultipliers(heat.UpgradeStats{
			TurnRate:     core.NeutralIfNonPositive(y.Upgrade.TurnRate),
			Acceleration: core.NeutralIfNonPositive(y.Upgrade.Acceleration),
			Deceleration: core.NeutralIfNonPositive(y.Upgrade.Deceleration),
			MaxSpeed:     core.NeutralIfNonPositive(y.Upgrade.MaxSpeed),
			Cooldown:     core.NeutralIfNonPositive(y.Upgrade.Cooldown),
			Damage:       core.NeutralIfNonPositive(y.Upgrade.Damage),
		})
	}

	return ship, nil
}

func parseShield(y YAMLShield) (combat.ShieldLayer, error) {
	topology, ok := combat.ParseTopology(y.Topology)
	if !ok {
		return combat.ShieldLayer{}, fmt.Errorf("unknown topology %q", y.Topology)
	}
	arc, ok := combat.ParseArc(y.Arc)
	if !ok {
		return combat.ShieldLayer{}, fmt.Errorf("unknown arc %q", y.Arc)
	}
	res, err := parseResistances(y.Resistances)
	if err != nil {
		return combat.ShieldLayer{}, err
	}

	current := y.Max
	if y.Current != nil {
		current = *y.Current
	}
	return combat.ShieldLayer{
		ID:                 y.ID,
		Topology:           topology,
		Arc:                arc,
		Current:            current,
		Max:                y.Max,
		RechargePerTick:    y.Recharge,
		RechargeDelayTicks: y.RechargeDelay,
		ReflectPct:         y.Reflect,
		Resistances:        res,
	}, nil
}

func parseSegment(y YAMLSegment) (combat.HullSegment, error) {
	class, ok := combat.ParseHullClass(y.Class)
	if !ok {
		return combat.HullSegment{}, fmt.Errorf("unknown hull class %q", y.Class)
	}
	res, err := parseResistances(y.Resistances)
	if err != nil {
		return combat.HullSegment{}, err
	}

	current := y.Max
	if y.Current != nil {
		current = *y.Current
	}
	active := true
	if y.Active != nil {
		active = *y.Active
	}
	mass := y.Mass
	if mass <= 0 {
		mass = 1
	}
	return combat.HullSegment{
		ID:          y.ID,
		Class:       class,
		Current:     current,
		Max:         y.Max,
		Armor:       y.Armor,
		Mass:        mass,
		Resistances: res,
		Active:      active,
	}, nil
}

func parseLimb(y YAMLLimb) (heat.RolledLimb, error) {
	module, ok := heat.ParseModuleType(y.Module)
	if !ok {
		return heat.RolledLimb{}, fmt.Errorf("unknown module type %q", y.Module)
	}
	slot, ok := heat.ParseLimbSlot(y.Slot)
	if !ok {
		return heat.RolledLimb{}, fmt.Errorf("unknown slot %q", y.Slot)
	}
	combo, err := heat.ParseComboTags(y.Combo)
	if err != nil {
		return heat.RolledLimb{}, err
	}
	return heat.RolledLimb{
		LimbID:     y.ID,
		AffixID:    y.Affix,
		ModuleType: module,
		Slot:       slot,
		ComboTags:  combo,
	}, nil
}

func parseShot(y YAMLShot) ([]scenario.Shot, error) {
	w, err := parseWeapon(y.Weapon)
	if err != nil {
		return nil, err
	}

	count := max(1, y.Count)
	every := max(1, y.Every)
	shots := make([]scenario.Shot, 0, count)
	for i := range count {
		shot := scenario.Shot{Tick: y.Tick + i*every, From: y.From, To: y.To, Weapon: w}
		shot.Weapon.Payload = append([]combat.PayloadOp(nil), w.Payload...)
		shots = append(shots, shot)
	}
	return shots, nil
}

func parseWeapon(y YAMLWeapon) (scenario.Weapon, error) {
	dt, ok := combat.ParseDamageType(y.DamageType)
	if !ok {
		return scenario.Weapon{}, fmt.Errorf("unknown damage type %q", y.DamageType)
	}
	w := scenario.NewWeapon(dt, y.Damage)

	if y.Delivery != "" {
		if w.Delivery, ok = combat.ParseDelivery(y.Delivery); !ok {
			return w, fmt.Errorf("unknown delivery %q", y.Delivery)
		}
	}
	if y.Crit > 0 {
		w.CritMultiplier = y.Crit
	}
	w.Penetration01 = y.Penetration
	if y.Segment != nil {
		w.PreferredSegment = *y.Segment
	}

	var err error
	if w.Behaviors, err = heat.ParseBehaviorTags(y.Behaviors); err != nil {
		return w, err
	}
	w.Heat = y.Heat
	if y.HeatScale > 0 {
		w.HeatScale = y.HeatScale
	}
	w.Mount = y.Mount
	if y.Slot != "" {
		if w.Slot, ok = heat.ParseLimbSlot(y.Slot); !ok {
			return w, fmt.Errorf("unknown slot %q", y.Slot)
		}
	}

	for _, yp := range y.Payload {
		kind, ok := combat.ParseOpKind(yp.Kind)
		if !ok {
			return w, fmt.Errorf("payload %q: unknown kind %q", yp.ID, yp.Kind)
		}
		pdt, ok := combat.ParseDamageType(yp.DamageType)
		if !ok {
			return w, fmt.Errorf("payload %q: unknown damage type %q", yp.ID, yp.DamageType)
		}
		w.Payload = append(w.Payload, combat.PayloadOp{
			EffectID:      yp.ID,
			Kind:          kind,
			DamageType:    pdt,
			Magnitude:     yp.Magnitude,
			AuxA:          yp.AuxA,
			AuxB:          yp.AuxB,
			DurationTicks: yp.Duration,
			TickInterval:  yp.Interval,
			MaxStacks:     yp.MaxStacks,
		})
	}

	return w, nil
}
