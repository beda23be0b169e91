package combat

import "github.com/vovakirdan/fleetcrawl/internal/core"

// Resistance multipliers are clamped to this band when applied.
const (
	MinResistance = 0.05
	MaxResistance = 4.0
)

// ResistanceProfile holds one damage multiplier per damage type.
type ResistanceProfile struct {
	Energy    float64
	Thermal   float64
	EM        float64
	Radiation float64
	Kinetic   float64
	Explosive float64
	Caustic   float64
}

// IdentityResistances returns a profile that leaves damage unchanged.
func IdentityResistances() ResistanceProfile {
	return ResistanceProfile{
		Energy:    1,
		Thermal:   1,
		EM:        1,
		Radiation: 1,
		Kinetic:   1,
		Explosive: 1,
		Caustic:   1,
	}
}

// ResolveResistance returns the clamped multiplier for damage type d.
// Unknown damage is unresisted.
func ResolveResistance(p ResistanceProfile, d DamageType) float64 {
	var v float64
	switch d {
	case DamageEnergy:
		v = p.Energy
	case DamageThermal:
		v = p.Thermal
	case DamageEM:
		v = p.EM
	case DamageRadiation:
		v = p.Radiation
	case DamageKinetic:
		v = p.Kinetic
	case DamageExplosive:
		v = p.Explosive
	case DamageCaustic:
		v = p.Caustic
	default:
		v = 1
	}
	if v != v { // NaN
		return 1
	}
	return core.ClampF(v, MinResistance, MaxResistance)
}

// scaleResistance multiplies a resistance by (1 - add), floored at the
// minimum resistance.
func scaleResistance(v, add float64) float64 {
	return core.MaxF(MinResistance, v*(1-add))
}
