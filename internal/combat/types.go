// Package combat resolves incoming damage packets against a defender's shield
// layers and hull segments, and ages the lingering effects those packets
// leave behind.
//
// Every function here is a pure operation over caller-owned buffers. Slices
// are mutated in place; nothing is retained between calls.
package combat

import (
	"strings"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// DamageType classifies incoming damage for resistance lookups.
type DamageType uint8

const (
	DamageUnknown DamageType = iota
	DamageEnergy
	DamageThermal
	DamageEM
	DamageRadiation
	DamageKinetic
	DamageExplosive
	DamageCaustic
)

// String returns the lowercase name of the damage type.
func (d DamageType) String() string {
	switch d {
	case DamageEnergy:
		return "energy"
	case DamageThermal:
		return "thermal"
	case DamageEM:
		return "em"
	case DamageRadiation:
		return "radiation"
	case DamageKinetic:
		return "kinetic"
	case DamageExplosive:
		return "explosive"
	case DamageCaustic:
		return "caustic"
	default:
		return "unknown"
	}
}

// ParseDamageType converts a name to a DamageType.
// Returns DamageUnknown and false if the name is not recognized.
func ParseDamageType(s string) (DamageType, bool) {
	switch strings.ToLower(s) {
	case "energy":
		return DamageEnergy, true
	case "thermal":
		return DamageThermal, true
	case "em", "emp":
		return DamageEM, true
	case "radiation":
		return DamageRadiation, true
	case "kinetic":
		return DamageKinetic, true
	case "explosive":
		return DamageExplosive, true
	case "caustic":
		return DamageCaustic, true
	case "", "unknown":
		return DamageUnknown, true
	default:
		return DamageUnknown, false
	}
}

// Delivery describes how a weapon puts damage on target.
type Delivery uint8

const (
	DeliveryUnknown Delivery = iota
	DeliveryBeam
	DeliverySlug
	DeliveryGuided
	DeliveryBus
	DeliveryField
	DeliveryArea
	DeliveryCloud
	DeliveryBurst
)

var deliveryNames = [...]string{"unknown", "beam", "slug", "guided", "bus", "field", "area", "cloud", "burst"}

// String returns the lowercase name of the delivery method.
func (d Delivery) String() string {
	if int(d) < len(deliveryNames) {
		return deliveryNames[d]
	}
	return "unknown"
}

// ParseDelivery converts a name to a Delivery.
func ParseDelivery(s string) (Delivery, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return DeliveryUnknown, true
	}
	for i, name := range deliveryNames {
		if name == s {
			return Delivery(i), true
		}
	}
	return DeliveryUnknown, false
}

// ShieldTopology is the coverage shape of a shield layer.
type ShieldTopology uint8

const (
	TopologyNone ShieldTopology = iota
	TopologyBubble
	TopologyDirectional
)

// String returns the lowercase name of the topology.
func (t ShieldTopology) String() string {
	switch t {
	case TopologyBubble:
		return "bubble"
	case TopologyDirectional:
		return "directional"
	default:
		return "none"
	}
}

// ParseTopology converts a name to a ShieldTopology.
func ParseTopology(s string) (ShieldTopology, bool) {
	switch strings.ToLower(s) {
	case "bubble":
		return TopologyBubble, true
	case "directional":
		return TopologyDirectional, true
	case "", "none":
		return TopologyNone, true
	default:
		return TopologyNone, false
	}
}

// ShieldArc is one of the coarse sectors around a defender.
type ShieldArc uint8

const (
	ArcAny ShieldArc = iota
	ArcFront
	ArcLeft
	ArcRight
	ArcRear
)

// String returns the lowercase name of the arc.
func (a ShieldArc) String() string {
	switch a {
	case ArcFront:
		return "front"
	case ArcLeft:
		return "left"
	case ArcRight:
		return "right"
	case ArcRear:
		return "rear"
	default:
		return "any"
	}
}

// ParseArc converts a name to a ShieldArc.
func ParseArc(s string) (ShieldArc, bool) {
	switch strings.ToLower(s) {
	case "", "any":
		return ArcAny, true
	case "front":
		return ArcFront, true
	case "left":
		return ArcLeft, true
	case "right":
		return ArcRight, true
	case "rear", "back":
		return ArcRear, true
	default:
		return ArcAny, false
	}
}

// HullClass is the chassis weight class of a hull segment.
type HullClass uint8

const (
	HullLight HullClass = iota
	HullBalanced
	HullHeavy
)

// String returns the lowercase name of the hull class.
func (h HullClass) String() string {
	switch h {
	case HullLight:
		return "light"
	case HullHeavy:
		return "heavy"
	default:
		return "balanced"
	}
}

// ParseHullClass converts a name to a HullClass. Empty means balanced.
func ParseHullClass(s string) (HullClass, bool) {
	switch strings.ToLower(s) {
	case "light":
		return HullLight, true
	case "", "balanced":
		return HullBalanced, true
	case "heavy":
		return HullHeavy, true
	default:
		return HullBalanced, false
	}
}

// ShieldLayer is one entry of a defender's ordered shield stack.
type ShieldLayer struct {
	ID                 string
	Topology           ShieldTopology
	Arc                ShieldArc
	Current            float64
	Max                float64
	RechargePerTick    float64
	RechargeDelayTicks uint32
	RechargeResumeTick uint32
	ReflectPct         float64
	Resistances        ResistanceProfile
}

// HullSegment is one structural section of a defender.
type HullSegment struct {
	ID          string
	Class       HullClass
	Current     float64
	Max         float64
	Armor       float64
	Mass        float64
	Resistances ResistanceProfile
	Active      bool
}

// Targetable reports whether the segment can be selected for a hit.
func (h HullSegment) Targetable() bool {
	return h.Active && h.Current > core.Epsilon
}

// DefenderState carries the orientation used for arc resolution.
type DefenderState struct {
	Forward core.Vec3
	Up      core.Vec3
}

// DefenseRuntime holds the defender-wide multipliers that effects and module
// modifiers accumulate into.
type DefenseRuntime struct {
	MassMultiplier           float64
	ShieldRechargeMultiplier float64
	ReactorOutputMultiplier  float64
	ReflectBonusPct          float64
	IncomingDamageMultiplier float64
}

// NewDefenseRuntime returns a runtime with every multiplier at 1.
func NewDefenseRuntime() DefenseRuntime {
	return DefenseRuntime{
		MassMultiplier:           1,
		ShieldRechargeMultiplier: 1,
		ReactorOutputMultiplier:  1,
		ReflectBonusPct:          0,
		IncomingDamageMultiplier: 1,
	}
}

// BehaviorTag is a bitmask of weapon behaviors carried on a packet.
type BehaviorTag uint16

// Packet is a single incoming hit.
type Packet struct {
	Source               core.EntityRef
	Target               core.EntityRef
	DamageType           DamageType
	Delivery             Delivery
	BaseDamage           float64
	CritMultiplier       float64
	Penetration01        float64
	IncomingDirection    core.Vec3
	PreferredHullSegment int
	BehaviorTags         BehaviorTag
}

// Resolution is the record produced by ResolvePacket.
type Resolution struct {
	IncomingArc         ShieldArc
	ShieldLayerIndex    int
	HullSegmentIndex    int
	AppliedShieldDamage float64
	AppliedHullDamage   float64
	RemainingDamage     float64
	ReflectedDamage     float64
	Flags               ResolutionFlags
}

// ResolutionFlags records what a packet touched.
type ResolutionFlags uint16

const (
	FlagHitBubbleShield ResolutionFlags = 1 << iota
	FlagHitDirectionalShield
	FlagShieldBypassed
	FlagHitHull
	FlagHullSegmentDestroyed
	FlagAppliedDamageOverTime
	FlagAppliedPowerReduction
)

var flagNames = []struct {
	flag ResolutionFlags
	name string
}{
	{FlagHitBubbleShield, "HitBubbleShield"},
	{FlagHitDirectionalShield, "HitDirectionalShield"},
	{FlagShieldBypassed, "ShieldBypassed"},
	{FlagHitHull, "HitHull"},
	{FlagHullSegmentDestroyed, "HullSegmentDestroyed"},
	{FlagAppliedDamageOverTime, "AppliedDamageOverTime"},
	{FlagAppliedPowerReduction, "AppliedPowerReduction"},
}

// Has reports whether all bits of mask are set.
func (f ResolutionFlags) Has(mask ResolutionFlags) bool {
	return f&mask == mask
}

// String joins the set flag names with "|".
func (f ResolutionFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
