package combat

import (
	"math"
	"testing"
)

func TestResolveResistanceClamped(t *testing.T) {
	values := []float64{-100, -1, 0, 0.01, 0.05, 0.5, 1, 3.99, 4, 4.01, 1e9, math.Inf(1), math.Inf(-1), math.NaN()}
	types := []DamageType{DamageUnknown, DamageEnergy, DamageThermal, DamageEM, DamageRadiation, DamageKinetic, DamageExplosive, DamageCaustic}

	for _, v := range values {
		p := ResistanceProfile{Energy: v, Thermal: v, EM: v, Radiation: v, Kinetic: v, Explosive: v, Caustic: v}
		for _, dt := range types {
			got := ResolveResistance(p, dt)
			if got < MinResistance || got > MaxResistance || math.IsNaN(got) {
				t.Errorf("ResolveResistance(%v, %s) = %f, outside [%f, %f]", v, dt, got, MinResistance, MaxResistance)
			}
		}
	}
}

func TestResolveResistanceSelectsType(t *testing.T) {
	p := ResistanceProfile{Energy: 0.1, Thermal: 0.2, EM: 0.3, Radiation: 0.4, Kinetic: 0.5, Explosive: 0.6, Caustic: 0.7}
	tests := []struct {
		dt       DamageType
		expected float64
	}{
		{DamageEnergy, 0.1},
		{DamageThermal, 0.2},
		{DamageEM, 0.3},
		{DamageRadiation, 0.4},
		{DamageKinetic, 0.5},
		{DamageExplosive, 0.6},
		{DamageCaustic, 0.7},
		{DamageUnknown, 1},
	}

	for _, tc := range tests {
		if got := ResolveResistance(p, tc.dt); got != tc.expected {
			t.Errorf("ResolveResistance(%s) = %f, expected %f", tc.dt, got, tc.expected)
		}
	}
}

func TestParseNames(t *testing.T) {
	if dt, ok := ParseDamageType("Thermal"); !ok || dt != DamageThermal {
		t.Errorf("ParseDamageType(Thermal) = %s, %v", dt, ok)
	}
	if _, ok := ParseDamageType("plasma"); ok {
		t.Error("ParseDamageType(plasma) should fail")
	}
	if d, ok := ParseDelivery("beam"); !ok || d != DeliveryBeam {
		t.Errorf("ParseDelivery(beam) = %s, %v", d, ok)
	}
	if k, ok := ParseOpKind("damage_over_time"); !ok || k != OpDamageOverTime {
		t.Errorf("ParseOpKind = %s, %v", k, ok)
	}
	if a, ok := ParseArc("rear"); !ok || a != ArcRear {
		t.Errorf("ParseArc = %s, %v", a, ok)
	}
	if top, ok := ParseTopology("bubble"); !ok || top != TopologyBubble {
		t.Errorf("ParseTopology = %s, %v", top, ok)
	}
	flags := FlagHitBubbleShield | FlagShieldBypassed
	if flags.String() != "HitBubbleShield|ShieldBypassed" {
		t.Errorf("flags string = %q", flags.String())
	}
}
