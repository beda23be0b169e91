// Package sim is the fixed-step host for combat and heat.
//
// A World owns every ship's defense and heat buffers and steps them through
// three phases per tick:
//
//  1. heat: each ship consumes last tick's action queue
//  2. fire: scripted shots resolve against their targets
//  3. effects: pending effects age and shields recharge at the rate
//     allowed by heat and reactor output
//
// Ships are processed in ID order and nothing reads the wall clock, so
// replaying a scenario reproduces the same snapshot hashes on the same
// architecture.
package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/core"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

// Options configures a World.
type Options struct {
	Catalog []heat.ModifierDefinition
	Ticks   uint32 // overrides the scenario length when > 0
	Logger  *log.Logger
}

// Ship is the live state of one participant.
type Ship struct {
	ID       string
	Ref      core.EntityRef
	Position core.Vec3
	Defender combat.DefenderState

	Shields   []combat.ShieldLayer
	Hull      []combat.HullSegment
	Runtime   combat.DefenseRuntime
	Pending   []combat.PendingEffect
	Modifiers []combat.ModuleDefenseModifier
	baseline  combat.DefenseBaseline

	Heat     heat.RuntimeState
	Heatsink heat.HeatsinkState
	Safety   heat.SafetyMode
	Limbs    []heat.RolledLimb
	Items    []heat.RolledItem
	Stats    heat.ResolvedStats
	Upgrade  heat.UpgradeStats
	Merged   heat.UpgradeStats
	HeatOut  heat.Output
	actions  []heat.ActionEvent

	DamageDealt     float64
	DamageTaken     float64
	ReflectedTaken  float64
	ShotsFired      int
	ShotsSuppressed int
	ShotsJammed     int
	Destroyed       bool
}

// HullFraction returns remaining hull over total hull capacity.
func (s *Ship) HullFraction() float64 {
	cur, total := 0.0, 0.0
	for _, seg := range s.Hull {
		cur += seg.Current
		total += seg.Max
	}
	if total <= core.Epsilon {
		return 0
	}
	return core.Saturate(cur / total)
}

// ShieldFraction returns remaining shield charge over total capacity.
func (s *Ship) ShieldFraction() float64 {
	cur, total := 0.0, 0.0
	for _, l := range s.Shields {
		cur += l.Current
		total += l.Max
	}
	if total <= core.Epsilon {
		return 0
	}
	return core.Saturate(cur / total)
}

// World steps one scenario.
type World struct {
	scenario scenario.Scenario
	ships    []*Ship
	byID     map[string]*Ship
	shots    map[uint32][]int
	catalog  []heat.ModifierDefinition
	log      *log.Logger

	tick    uint32
	ticks   uint32
	records []Record
	hashes  []uint64
	events  int
}

// New validates s and builds a world from a private copy of it.
func New(s scenario.Scenario, opts Options) (*World, error) {
	if err := scenario.Validate(s); err != nil {
		return nil, fmt.Errorf("sim: invalid scenario: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &World{
		scenario: s.Clone(),
		byID:     make(map[string]*Ship, len(s.Ships)),
		shots:    make(map[uint32][]int),
		catalog:  append([]heat.ModifierDefinition(nil), opts.Catalog...),
		log:      logger.With("scenario", s.ID),
		ticks:    s.Ticks,
	}
	if opts.Ticks > 0 {
		w.ticks = opts.Ticks
	}

	specs := w.scenario.Ships
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })

	for i, spec := range specs {
		ship := newShip(spec, core.EntityRef{Index: int32(i), Version: 1}, w.catalog)
		w.ships = append(w.ships, ship)
		w.byID[ship.ID] = ship
		w.log.Debug("ship ready",
			"ship", ship.ID,
			"shields", len(ship.Shields),
			"hull", len(ship.Hull),
			"heat_mods", len(ship.Stats.Applied),
		)
	}

	for i, shot := range w.scenario.Shots {
		w.shots[shot.Tick] = append(w.shots[shot.Tick], i)
	}

	return w, nil
}

func newShip(spec scenario.Ship, ref core.EntityRef, catalog []heat.ModifierDefinition) *Ship {
	ship := &Ship{
		ID:        spec.ID,
		Ref:       ref,
		Position:  spec.Position,
		Defender:  combat.DefenderState{Forward: spec.Forward, Up: spec.Up},
		Modifiers: spec.Modifiers,
		baseline:  combat.CaptureBaseline(spec.Shields, spec.Hull, spec.Runtime),
		Heat:      spec.Heat,
		Heatsink:  spec.Heatsink,
		Safety:    spec.Safety,
		Limbs:     spec.Limbs,
		Items:     spec.Items,
		Upgrade:   spec.Upgrade,
		Merged:    spec.Upgrade,
		HeatOut:   heat.NeutralOutput(),
	}
	ship.Shields, ship.Hull, ship.Runtime = ship.baseline.Reapply(ship.Modifiers)
	ship.Stats = heat.ResolveAggregate(ship.Limbs, ship.Items, catalog)
	return ship
}

// Reequip swaps a ship's defense modifiers and heat loadout mid-run.
// Modifiers are reapplied from the build-time baseline so they never
// compound. Shield and hull fill fractions carry over to the new maxima.
func (w *World) Reequip(shipID string, mods []combat.ModuleDefenseModifier, limbs []heat.RolledLimb, items []heat.RolledItem) error {
	ship, ok := w.byID[shipID]
	if !ok {
		return fmt.Errorf("sim: unknown ship %q", shipID)
	}

	shields, hull, runtime := ship.baseline.Reapply(mods)
	for i := range shields {
		if i < len(ship.Shields) {
			old := ship.Shields[i]
			shields[i].Current = shields[i].Max * fraction(old.Current, old.Max)
			shields[i].RechargeResumeTick = old.RechargeResumeTick
		}
	}
	for i := range hull {
		if i < len(ship.Hull) {
			old := ship.Hull[i]
			hull[i].Current = hull[i].Max * fraction(old.Current, old.Max)
			hull[i].Active = old.Active
		}
	}

	// Effects accumulated into the runtime survive; only module factors change.
	runtime.IncomingDamageMultiplier = ship.Runtime.IncomingDamageMultiplier

	ship.Shields, ship.Hull, ship.Runtime = shields, hull, runtime
	ship.Modifiers = append([]combat.ModuleDefenseModifier(nil), mods...)
	ship.Limbs = append([]heat.RolledLimb(nil), limbs...)
	ship.Items = append([]heat.RolledItem(nil), items...)
	ship.Stats = heat.ResolveAggregate(ship.Limbs, ship.Items, w.catalog)

	w.log.Info("ship re-equipped",
		"ship", shipID,
		"tick", w.tick,
		"modifiers", len(mods),
		"heat_mods", len(ship.Stats.Applied),
	)
	return nil
}

func fraction(cur, total float64) float64 {
	if total <= core.Epsilon {
		return 0
	}
	return core.Saturate(cur / total)
}

// Scenario returns the world's copy of its scenario.
func (w *World) Scenario() scenario.Scenario {
	return w.scenario
}

// Ships returns the live ships in processing order.
func (w *World) Ships() []*Ship {
	return w.ships
}

// Ship returns a live ship by ID.
func (w *World) Ship(id string) (*Ship, bool) {
	s, ok := w.byID[id]
	return s, ok
}

// Tick returns the last completed tick; 0 before the first Step.
func (w *World) Tick() uint32 {
	return w.tick
}

// Ticks returns the run length.
func (w *World) Ticks() uint32 {
	return w.ticks
}

// Done reports whether every tick has run.
func (w *World) Done() bool {
	return w.tick >= w.ticks
}

// Records returns every resolved hit so far in resolution order.
func (w *World) Records() []Record {
	return w.records
}
