package heat

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/vovakirdan/fleetcrawl/internal/core"
)

// UpgradeStats is the externally resolved stat bundle heat output scales.
type UpgradeStats struct {
	TurnRate     float64
	Acceleration float64
	Deceleration float64
	MaxSpeed     float64
	Cooldown     float64
	Damage       float64
}

// IdentityUpgrade returns an upgrade bundle with every multiplier at 1.
func IdentityUpgrade() UpgradeStats {
	return UpgradeStats{
		TurnRate:     1,
		Acceleration: 1,
		Deceleration: 1,
		MaxSpeed:     1,
		Cooldown:     1,
		Damage:       1,
	}
}

// ApplyMultipliers scales each field by the matching factor, floored at 0.01.
func (u UpgradeStats) ApplyMultipliers(o UpgradeStats) UpgradeStats {
	return UpgradeStats{
		TurnRate:     u.TurnRate * core.MaxF(0.01, o.TurnRate),
		Acceleration: u.Acceleration * core.MaxF(0.01, o.Acceleration),
		Deceleration: u.Deceleration * core.MaxF(0.01, o.Deceleration),
		MaxSpeed:     u.MaxSpeed * core.MaxF(0.01, o.MaxSpeed),
		Cooldown:     u.Cooldown * core.MaxF(0.01, o.Cooldown),
		Damage:       u.Damage * core.MaxF(0.01, o.Damage),
	}
}

// ApplyHeatToUpgradeStats merges a heat output into an upgrade bundle.
// The throttle lengthens cooldown; the engine scale applies to all movement.
func ApplyHeatToUpgradeStats(base UpgradeStats, out Output) UpgradeStats {
	merged := base
	merged.Damage *= core.MaxF(minMultiplier, out.DamageMultiplier)

	throttle := core.NeutralIfNonPositive(out.FireRateThrottleMultiplier)
	merged.Cooldown *= core.MaxF(minMultiplier, out.CooldownMultiplier*core.MaxF(0.1, throttle))

	engine := 1.0
	if out.EngineSpeedMultiplier > 0 {
		engine = core.MaxF(minMultiplier, out.EngineSpeedMultiplier)
	}
	merged.TurnRate *= engine
	merged.Acceleration *= engine
	merged.Deceleration *= engine
	merged.MaxSpeed *= engine
	return merged
}

// ResolveHeatSignature01 returns how visible a ship's heat is to sensors.
func ResolveHeatSignature01(out Output) float64 {
	fill := 0.0
	if out.HeatsinkCapacity > core.Epsilon {
		fill = core.Saturate(out.HeatsinkStoredHeat / out.HeatsinkCapacity)
	}
	overheat := 0.0
	if out.Overheated {
		overheat = 0.2
	}
	return core.Saturate(core.Saturate(out.Heat01) + fill*0.35 + overheat)
}

// ShouldSuppressFire reports whether the safety mode is holding fire.
func ShouldSuppressFire(out Output) bool {
	return out.SuppressFire
}

// jamSalt decorrelates jam rolls from other hashes of the same tick.
const jamSalt uint32 = 0x9E3779B9

// ResolveJam rolls whether a mount jams this tick. The roll is a hash of
// (source, mount, tick), so replays jam identically.
func ResolveJam(out Output, source core.EntityRef, mountIndex int, tick uint32) bool {
	if out.SuppressFire || out.JamChance <= core.Epsilon {
		return false
	}
	return jamRoll(source, mountIndex, tick) < core.Saturate(out.JamChance)
}

// jamRoll maps (source, mount, tick) to [0, 1] from the low 16 bits of the
// hash.
func jamRoll(source core.EntityRef, mountIndex int, tick uint32) float64 {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(source.Index))
	binary.LittleEndian.PutUint32(buf[4:], uint32(max(0, source.Version)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(max(0, mountIndex+1)))
	binary.LittleEndian.PutUint32(buf[12:], tick^jamSalt)

	h := fnv.New32a()
	h.Write(buf[:])
	return float64(h.Sum32()&0xFFFF) / 65535
}
