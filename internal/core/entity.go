package core

// EntityRef identifies a simulated entity by slot index and generation.
type EntityRef struct {
	Index   int32
	Version int32
}

// NullEntity is the reference used when there is no entity.
var NullEntity = EntityRef{Index: -1}

// IsNull reports whether the reference points at nothing.
func (e EntityRef) IsNull() bool {
	return e.Index < 0
}
