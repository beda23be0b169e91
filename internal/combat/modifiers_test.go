package combat

import (
	"math"
	"testing"
)

func sampleDefenses() ([]ShieldLayer, []HullSegment, DefenseRuntime) {
	shields := []ShieldLayer{
		{ID: "canopy", Topology: TopologyBubble, Current: 40, Max: 60, RechargePerTick: 2, ReflectPct: 0.1, Resistances: IdentityResistances()},
		{ID: "bow", Topology: TopologyDirectional, Arc: ArcFront, Current: 25, Max: 25, RechargePerTick: 1, Resistances: IdentityResistances()},
	}
	hull := []HullSegment{
		{ID: "core", Current: 100, Max: 100, Armor: 8, Mass: 40, Resistances: IdentityResistances(), Active: true},
	}
	return shields, hull, NewDefenseRuntime()
}

func TestApplyModuleDefenseModifiersNoOp(t *testing.T) {
	shields, hull, runtime := sampleDefenses()
	wantShields := append([]ShieldLayer(nil), shields...)
	wantHull := append([]HullSegment(nil), hull...)
	wantRuntime := runtime

	mods := []ModuleDefenseModifier{{ID: "blank"}, {ID: "blank-2", Discipline: DisciplineEngine}}
	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)

	for i := range shields {
		if shields[i] != wantShields[i] {
			t.Errorf("shield %d changed: %+v", i, shields[i])
		}
	}
	if hull[0] != wantHull[0] {
		t.Errorf("hull changed: %+v", hull[0])
	}
	if runtime != wantRuntime {
		t.Errorf("runtime changed: %+v", runtime)
	}
}

func TestApplyModuleDefenseModifiersScales(t *testing.T) {
	shields, hull, runtime := sampleDefenses()
	mods := []ModuleDefenseModifier{{
		ID:                   "capacitor",
		Discipline:           DisciplineShieldCapacitor,
		ShieldCapacityMul:    1.5,
		ShieldRechargeMul:    2,
		ArmorMul:             1.25,
		MassMul:              1.1,
		ReactorOutputMul:     0.9,
		ReflectAddPct:        0.05,
		EMResistanceAdd:      0.2,
		CausticResistanceAdd: 0.5,
	}}

	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"canopy max", shields[0].Max, 90},
		{"canopy current", shields[0].Current, 60},
		{"canopy recharge", shields[0].RechargePerTick, 4},
		{"canopy reflect", shields[0].ReflectPct, 0.15},
		{"canopy em", shields[0].Resistances.EM, 0.8},
		{"canopy caustic", shields[0].Resistances.Caustic, 0.5},
		{"bow current", shields[1].Current, 37.5},
		{"hull armor", hull[0].Armor, 10},
		{"hull mass", hull[0].Mass, 44},
		{"hull em", hull[0].Resistances.EM, 0.8},
		{"runtime mass", runtime.MassMultiplier, 1.1},
		{"runtime recharge", runtime.ShieldRechargeMultiplier, 2},
		{"runtime reactor", runtime.ReactorOutputMultiplier, 0.9},
		{"runtime reflect", runtime.ReflectBonusPct, 0.05},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %f, expected %f", c.name, c.got, c.want)
		}
	}
	if shields[0].Resistances.Kinetic != 1 {
		t.Error("kinetic resistance should be untouched")
	}
}

func TestApplyModuleDefenseModifiersFloors(t *testing.T) {
	shields, hull, runtime := sampleDefenses()
	mods := []ModuleDefenseModifier{{
		ID:                "broken",
		ShieldCapacityMul: -3,
		ArmorMul:          0.001,
		ReflectAddPct:     -1,
		EMResistanceAdd:   5,
	}}

	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)

	if !approx(shields[0].Max, 3) {
		t.Errorf("max = %f, expected floored multiplier 0.05", shields[0].Max)
	}
	if !approx(hull[0].Armor, 0.4) {
		t.Errorf("armor = %f, expected 0.4", hull[0].Armor)
	}
	if shields[0].ReflectPct != 0.1 {
		t.Errorf("reflect = %f, expected negative add ignored", shields[0].ReflectPct)
	}
	if shields[0].Resistances.EM != MinResistance {
		t.Errorf("em = %f, expected floor %f", shields[0].Resistances.EM, MinResistance)
	}
}

func TestApplyModuleDefenseModifiersCompounds(t *testing.T) {
	shields, hull, runtime := sampleDefenses()
	mods := []ModuleDefenseModifier{{ID: "plating", ArmorMul: 2}}

	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)
	ApplyModuleDefenseModifiers(mods, shields, hull, &runtime)

	if !approx(hull[0].Armor, 32) {
		t.Errorf("armor = %f, expected 32 after two applications", hull[0].Armor)
	}
}

func TestDefenseBaselineReapply(t *testing.T) {
	shields, hull, runtime := sampleDefenses()
	baseline := CaptureBaseline(shields, hull, runtime)
	mods := []ModuleDefenseModifier{{ID: "plating", ArmorMul: 2, ShieldCapacityMul: 1.5}}

	s1, h1, r1 := baseline.Reapply(mods)
	s2, h2, r2 := baseline.Reapply(mods)

	if !approx(h1[0].Armor, 16) || !approx(h2[0].Armor, 16) {
		t.Errorf("armor = (%f, %f), expected 16 both times", h1[0].Armor, h2[0].Armor)
	}
	if s1[0] != s2[0] || r1 != r2 {
		t.Error("reapply is not stable")
	}

	// The captured buffers are independent from the caller's.
	shields[0].Current = 0
	s3, _, _ := baseline.Reapply(nil)
	if s3[0].Current != 40 {
		t.Errorf("baseline current = %f, expected 40", s3[0].Current)
	}
	s3[0].Current = 1
	s4, _, _ := baseline.Reapply(nil)
	if s4[0].Current != 40 {
		t.Error("reapplied buffers alias the baseline")
	}
}
