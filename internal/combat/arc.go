package combat

import "github.com/vovakirdan/fleetcrawl/internal/core"

// Arc classification thresholds on dot(forward, approach).
const (
	frontConeDot = 0.5
	rearConeDot  = -0.5
)

// ResolveIncomingArc classifies the sector a hit arrives from.
//
// incoming is the direction the projectile travels; the approach vector is
// its negation. Degenerate inputs fall back to the canonical forward axis.
func ResolveIncomingArc(forward, incoming core.Vec3) ShieldArc {
	fwd := forward.NormalizeSafe(core.AxisZ)
	up := core.AxisY
	right := up.Cross(fwd).NormalizeSafe(core.AxisX)
	approach := incoming.Neg().NormalizeSafe(fwd)

	f := fwd.Dot(approach)
	switch {
	case f >= frontConeDot:
		return ArcFront
	case f <= rearConeDot:
		return ArcRear
	case right.Dot(approach) >= 0:
		return ArcRight
	default:
		return ArcLeft
	}
}

// ArcMatches reports whether a shield layer covers the given arc.
// Bubble layers cover every arc.
func ArcMatches(layer ShieldLayer, arc ShieldArc) bool {
	if layer.Topology == TopologyBubble {
		return true
	}
	return layer.Arc == ArcAny || layer.Arc == arc
}
