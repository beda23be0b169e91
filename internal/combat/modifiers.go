package combat

import (
	"strings"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// ModuleDiscipline is the kind of ship module contributing a modifier.
type ModuleDiscipline uint8

const (
	DisciplineReactor ModuleDiscipline = iota
	DisciplineEngine
	DisciplineShieldCapacitor
	DisciplineShieldCanopy
	DisciplineArmorPlating
)

var disciplineNames = [...]string{"reactor", "engine", "shield_capacitor", "shield_canopy", "armor_plating"}

// String returns the snake_case name of the discipline.
func (d ModuleDiscipline) String() string {
	if int(d) < len(disciplineNames) {
		return disciplineNames[d]
	}
	return "reactor"
}

// ParseDiscipline converts a snake_case name to a ModuleDiscipline.
func ParseDiscipline(s string) (ModuleDiscipline, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return DisciplineReactor, true
	}
	for i, name := range disciplineNames {
		if name == s {
			return ModuleDiscipline(i), true
		}
	}
	return DisciplineReactor, false
}

// ModuleDefenseModifier scales a defender's shields, hull and runtime.
// Multiplier fields left at 0 are neutral.
type ModuleDefenseModifier struct {
	ID                   string
	Discipline           ModuleDiscipline
	ShieldCapacityMul    float64
	ShieldRechargeMul    float64
	ArmorMul             float64
	MassMul              float64
	ReactorOutputMul     float64
	ReflectAddPct        float64
	EMResistanceAdd      float64
	CausticResistanceAdd float64
}

// modifierMul coerces an unset multiplier to 1 and floors it.
func modifierMul(v float64) float64 {
	if v == 0 {
		v = 1
	}
	return core.MaxF(minRuntimeMultiplier, v)
}

// ApplyModuleDefenseModifiers folds every modifier into shields, hull and
// runtime in place. Calling it twice with the same set compounds; hosts that
// recompute on equipment changes should use a DefenseBaseline instead.
func ApplyModuleDefenseModifiers(mods []ModuleDefenseModifier, shields []ShieldLayer, hull []HullSegment, runtime *DefenseRuntime) {
	for _, m := range mods {
		capMul := modifierMul(m.ShieldCapacityMul)
		rechargeMul := modifierMul(m.ShieldRechargeMul)
		armorMul := modifierMul(m.ArmorMul)
		massMul := modifierMul(m.MassMul)
		reactorMul := modifierMul(m.ReactorOutputMul)
		reflectAdd := core.MaxF(0, m.ReflectAddPct)

		runtime.MassMultiplier *= massMul
		runtime.ShieldRechargeMultiplier *= rechargeMul
		runtime.ReactorOutputMultiplier *= reactorMul
		runtime.ReflectBonusPct += reflectAdd

		for i := range shields {
			s := &shields[i]
			s.Max *= capMul
			s.Current = core.MinF(s.Max, s.Current*capMul)
			s.RechargePerTick *= rechargeMul
			s.ReflectPct += reflectAdd
			s.Resistances.EM = scaleResistance(s.Resistances.EM, m.EMResistanceAdd)
			s.Resistances.Caustic = scaleResistance(s.Resistances.Caustic, m.CausticResistanceAdd)
		}

		for i := range hull {
			h := &hull[i]
			h.Armor *= armorMul
			h.Mass *= massMul
			h.Resistances.EM = scaleResistance(h.Resistances.EM, m.EMResistanceAdd)
			h.Resistances.Caustic = scaleResistance(h.Resistances.Caustic, m.CausticResistanceAdd)
		}
	}
}

// DefenseBaseline is an unmodified copy of a defender's defenses.
type DefenseBaseline struct {
	shields []ShieldLayer
	hull    []HullSegment
	runtime DefenseRuntime
}

// CaptureBaseline copies the current defenses so modifiers can be reapplied
// without compounding.
func CaptureBaseline(shields []ShieldLayer, hull []HullSegment, runtime DefenseRuntime) DefenseBaseline {
	return DefenseBaseline{
		shields: append([]ShieldLayer(nil), shields...),
		hull:    append([]HullSegment(nil), hull...),
		runtime: runtime,
	}
}

// Reapply returns fresh buffers derived from the baseline with mods applied
// exactly once.
func (b DefenseBaseline) Reapply(mods []ModuleDefenseModifier) ([]ShieldLayer, []HullSegment, DefenseRuntime) {
	shields := append([]ShieldLayer(nil), b.shields...)
	hull := append([]HullSegment(nil), b.hull...)
	runtime := b.runtime
	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)
	return shields, hull, runtime
}
