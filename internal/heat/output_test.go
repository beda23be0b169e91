package heat

import (
	"encoding/binary"
	"hash/fnv"
	"testing"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

func TestApplyHeatToUpgradeStats(t *testing.T) {
	out := NeutralOutput()
	out.DamageMultiplier = 1.2
	out.CooldownMultiplier = 0.9
	out.FireRateThrottleMultiplier = 1.3
	out.EngineSpeedMultiplier = 1.1

	got := ApplyHeatToUpgradeStats(IdentityUpgrade(), out)

	if !approx(got.Damage, 1.2) {
		t.Errorf("damage = %f, expected 1.2", got.Damage)
	}
	if !approx(got.Cooldown, 1.17) {
		t.Errorf("cooldown = %f, expected 1.17", got.Cooldown)
	}
	for name, v := range map[string]float64{
		"turn":  got.TurnRate,
		"accel": got.Acceleration,
		"decel": got.Deceleration,
		"speed": got.MaxSpeed,
	} {
		if !approx(v, 1.1) {
			t.Errorf("%s = %f, expected 1.1", name, v)
		}
	}
}

func TestApplyHeatToUpgradeStatsNeutral(t *testing.T) {
	base := UpgradeStats{TurnRate: 2, Acceleration: 3, Deceleration: 4, MaxSpeed: 5, Cooldown: 0.5, Damage: 10}
	got := ApplyHeatToUpgradeStats(base, NeutralOutput())
	if got != base {
		t.Errorf("neutral output changed stats: %+v", got)
	}

	zero := ApplyHeatToUpgradeStats(base, Output{})
	if !approx(zero.Damage, 0.5) {
		t.Errorf("damage = %f, expected floor 0.05", zero.Damage)
	}
	if zero.MaxSpeed != 5 {
		t.Errorf("max speed = %f, zero engine should be neutral", zero.MaxSpeed)
	}
}

func TestUpgradeApplyMultipliers(t *testing.T) {
	base := IdentityUpgrade()
	got := base.ApplyMultipliers(UpgradeStats{TurnRate: 2, Acceleration: 0, Deceleration: 1, MaxSpeed: 1, Cooldown: 0.5, Damage: 1.5})
	if got.TurnRate != 2 || got.Cooldown != 0.5 || got.Damage != 1.5 {
		t.Errorf("unexpected %+v", got)
	}
	if got.Acceleration != 0.01 {
		t.Errorf("acceleration = %f, expected floor 0.01", got.Acceleration)
	}
}

func TestResolveHeatSignature01(t *testing.T) {
	tests := []struct {
		name     string
		out      Output
		expected float64
	}{
		{name: "cold", out: Output{}, expected: 0},
		{name: "heat only", out: Output{Heat01: 0.5}, expected: 0.5},
		{name: "sink half full", out: Output{Heat01: 0.2, HeatsinkStoredHeat: 30, HeatsinkCapacity: 60}, expected: 0.375},
		{name: "overheated", out: Output{Heat01: 0.5, Overheated: true}, expected: 0.7},
		{name: "saturates", out: Output{Heat01: 1, HeatsinkStoredHeat: 60, HeatsinkCapacity: 60, Overheated: true}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveHeatSignature01(tt.out); !approx(got, tt.expected) {
				t.Errorf("signature = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestResolveJamDeterministic(t *testing.T) {
	out := NeutralOutput()
	out.JamChance = 0.5
	src := core.EntityRef{Index: 3, Version: 1}

	jams := 0
	for tick := uint32(0); tick < 1000; tick++ {
		a := ResolveJam(out, src, 0, tick)
		b := ResolveJam(out, src, 0, tick)
		if a != b {
			t.Fatalf("jam roll differs at tick %d", tick)
		}
		if a {
			jams++
		}
	}
	if jams < 300 || jams > 700 {
		t.Errorf("jams = %d of 1000 at chance 0.5", jams)
	}
}

func TestResolveJamEdges(t *testing.T) {
	src := core.EntityRef{Index: 1}

	out := NeutralOutput()
	for tick := uint32(0); tick < 100; tick++ {
		if ResolveJam(out, src, 0, tick) {
			t.Fatal("zero jam chance should never jam")
		}
	}

	out.JamChance = 1
	out.SuppressFire = true
	if ResolveJam(out, src, 0, 1) {
		t.Error("suppressed fire should not report a jam")
	}
	if !ShouldSuppressFire(out) {
		t.Error("expected suppression")
	}
}

func TestJamRollRange(t *testing.T) {
	for mount := -1; mount < 4; mount++ {
		for tick := uint32(0); tick < 50; tick++ {
			r := jamRoll(core.EntityRef{Index: 7, Version: -2}, mount, tick)
			if r < 0 || r > 1 {
				t.Fatalf("roll %f out of range", r)
			}
		}
	}
}

func TestJamRollUsesLowBits(t *testing.T) {
	src := core.EntityRef{Index: 3, Version: 1}
	for tick := uint32(1); tick < 20; tick++ {
		var buf [16]byte
		binary.LittleEndian.PutUint32(buf[0:], 3)
		binary.LittleEndian.PutUint32(buf[4:], 1)
		binary.LittleEndian.PutUint32(buf[8:], 3)
		binary.LittleEndian.PutUint32(buf[12:], tick^0x9E3779B9)
		h := fnv.New32a()
		h.Write(buf[:])
		want := float64(h.Sum32()&0xFFFF) / 65535

		if got := jamRoll(src, 2, tick); got != want {
			t.Fatalf("tick %d: roll = %f, expected %f", tick, got, want)
		}
	}
}
