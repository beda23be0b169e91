package sim

import (
	"fmt"
	"hash/fnv"
	"math"
)

// quantum is the resolution state is hashed at. Values closer than this
// hash identically.
const quantum = 1e6

func q(v float64) int64 {
	return int64(math.Round(v * quantum))
}

// Snapshot hashes every ship's mutable state. Two worlds built from the same
// scenario and stepped the same number of times produce the same hash.
func (w *World) Snapshot() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "T:%d;", w.tick)
	for _, s := range w.ships {
		fmt.Fprintf(h, "S:%s;D:%t;", s.ID, s.Destroyed)
		for _, l := range s.Shields {
			fmt.Fprintf(h, "L:%d,%d;", q(l.Current), l.RechargeResumeTick)
		}
		for _, seg := range s.Hull {
			fmt.Fprintf(h, "H:%d,%t;", q(seg.Current), seg.Active)
		}
		for _, e := range s.Pending {
			fmt.Fprintf(h, "E:%s,%d,%d,%d,%d,%d;", e.EffectID, e.Kind, q(e.Magnitude), e.RemainingTicks, e.NextTick, e.Stacks)
		}
		r := s.Runtime
		fmt.Fprintf(h, "R:%d,%d,%d,%d,%d;",
			q(r.MassMultiplier), q(r.ShieldRechargeMultiplier), q(r.ReactorOutputMultiplier), q(r.ReflectBonusPct), q(r.IncomingDamageMultiplier))
		fmt.Fprintf(h, "X:%d,%d,%t;", q(s.Heat.CurrentHeat), q(s.Heatsink.StoredHeat), s.Heat.Overheated)
		fmt.Fprintf(h, "A:%d;", len(s.actions))
	}
	return h.Sum64()
}
