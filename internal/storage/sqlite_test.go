package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/heat"
	"github.com/vovakirdan/fleetcrawl/internal/scenario/builtin"
	"github.com/vovakirdan/fleetcrawl/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSummary(scenarioID string, hits int) sim.Summary {
	return sim.Summary{
		ScenarioID: scenarioID,
		Ticks:      3,
		Hash:       0xfedcba9876543210,
		TickHashes: []uint64{1, 0xffffffffffffffff, 0xfedcba9876543210},
		Hits:       hits,
		Events:     hits * 2,
		Ships: []sim.ShipSummary{
			{ID: "target", HullFraction: 0.75, ShieldFraction: 0.2, DamageTaken: 35, Destroyed: false},
			{ID: "gunship", Heat01: 0.1, DamageDealt: 35, ReflectedTaken: 2, ShotsFired: 1, ShotsSuppressed: 2, ShotsJammed: 1},
		},
	}
}

func testRecords() []sim.Record {
	return []sim.Record{{
		Tick:       1,
		Shot:       0,
		Attacker:   "gunship",
		Target:     "target",
		DamageType: combat.DamageKinetic,
		Damage:     40,
		Resolution: combat.Resolution{
			IncomingArc:         combat.ArcFront,
			ShieldLayerIndex:    0,
			HullSegmentIndex:    0,
			AppliedShieldDamage: 10,
			AppliedHullDamage:   25,
			ReflectedDamage:     2,
			Flags:               combat.FlagHitBubbleShield | combat.FlagShieldBypassed | combat.FlagHitHull,
		},
	}}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveRun(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.SaveRun(testSummary("bubble-overflow", 1), RunInputs{}, true, testRecords())
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if len(runID) != 36 {
		t.Errorf("run ID %q is not a UUID", runID)
	}

	run, err := store.RunByID(runID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("run not found")
	}
	if run.ScenarioID != "bubble-overflow" || run.Ticks != 3 || run.Hits != 1 || run.Events != 2 || !run.Completed {
		t.Errorf("run = %+v", run)
	}
	if run.Hash != 0xfedcba9876543210 {
		t.Errorf("hash = %x", run.Hash)
	}
	if run.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}

	hashes, err := store.TickHashes(runID)
	if err != nil {
		t.Fatalf("TickHashes() failed: %v", err)
	}
	want := []uint64{1, 0xffffffffffffffff, 0xfedcba9876543210}
	if len(hashes) != len(want) {
		t.Fatalf("Expected %d hashes, got %d", len(want), len(hashes))
	}
	for i := range want {
		if hashes[i] != want[i] {
			t.Errorf("hash[%d] = %x, want %x", i, hashes[i], want[i])
		}
	}

	ships, err := store.ShipResults(runID)
	if err != nil {
		t.Fatalf("ShipResults() failed: %v", err)
	}
	if len(ships) != 2 || ships[0].ID != "gunship" || ships[1].ID != "target" {
		t.Fatalf("ships = %+v", ships)
	}
	if ships[0].ShotsSuppressed != 2 || ships[0].ReflectedTaken != 2 || ships[1].HullFraction != 0.75 {
		t.Errorf("ship tallies = %+v", ships)
	}

	res, err := store.Resolutions(runID)
	if err != nil {
		t.Fatalf("Resolutions() failed: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("Expected 1 resolution, got %d", len(res))
	}
	got := res[0]
	if got.RunID != runID || got.DamageType != combat.DamageKinetic || got.Resolution.IncomingArc != combat.ArcFront {
		t.Errorf("resolution = %+v", got)
	}
	if got.Resolution.AppliedHullDamage != 25 || !got.Resolution.Flags.Has(combat.FlagShieldBypassed) {
		t.Errorf("resolution = %+v", got.Resolution)
	}
}

func TestStoreRunNotFound(t *testing.T) {
	store := openTestStore(t)

	run, err := store.RunByID("missing")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("Expected nil run, got %+v", run)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for i, scenario := range []string{"broadside", "dot-expiry", "broadside"} {
		id, err := store.SaveRun(testSummary(scenario, i), RunInputs{}, true, nil)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		ids = append(ids, id)
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 || all[0].RunID != ids[2] {
		t.Errorf("Expected newest first, got %+v", all)
	}

	broadside, err := store.RecentRuns("broadside", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(broadside) != 2 {
		t.Errorf("Expected 2 broadside runs, got %d", len(broadside))
	}

	limited, err := store.RecentRuns("", 1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 run, got %d", len(limited))
	}
}

func TestStoreScenarioStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetScenarioStats("broadside")
	if err != nil {
		t.Fatalf("GetScenarioStats() failed: %v", err)
	}
	if stats.RunsCount != 0 || !stats.LastRun.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	for _, hits := range []int{4, 8} {
		if _, err := store.SaveRun(testSummary("broadside", hits), RunInputs{}, true, nil); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	stats, err = store.GetScenarioStats("broadside")
	if err != nil {
		t.Fatalf("GetScenarioStats() failed: %v", err)
	}
	if stats.RunsCount != 2 || stats.AvgHits != 6 || stats.TotalTicks != 6 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	cleared, err := store.SaveRun(testSummary("broadside", 1), RunInputs{}, true, testRecords())
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	kept, err := store.SaveRun(testSummary("dot-expiry", 1), RunInputs{}, false, testRecords())
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	if err := store.ClearRuns("broadside"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	if run, _ := store.RunByID(cleared); run != nil {
		t.Error("cleared run still present")
	}
	if hashes, _ := store.TickHashes(cleared); len(hashes) != 0 {
		t.Error("cleared tick hashes still present")
	}
	if res, _ := store.Resolutions(cleared); len(res) != 0 {
		t.Error("cleared resolutions still present")
	}

	run, err := store.RunByID(kept)
	if err != nil || run == nil {
		t.Fatalf("kept run missing: %v", err)
	}
	if run.Completed {
		t.Error("kept run should be marked incomplete")
	}
}

func TestStoreRunInputs(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name       string
		in         RunInputs
		wantSource string
	}{
		{name: "defaults", in: RunInputs{}, wantSource: "broadside"},
		{name: "file and override", in: RunInputs{Source: "/tmp/broadside.yaml", SafetyOverride: "unsafe"}, wantSource: "/tmp/broadside.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.SaveRun(testSummary("broadside", 1), tt.in, true, nil)
			if err != nil {
				t.Fatalf("SaveRun() failed: %v", err)
			}
			run, err := store.RunByID(id)
			if err != nil || run == nil {
				t.Fatalf("RunByID() = %v, %v", run, err)
			}
			if run.RunInputs != tt.in {
				t.Errorf("inputs = %+v, want %+v", run.RunInputs, tt.in)
			}
			if got := run.ScenarioSource(); got != tt.wantSource {
				t.Errorf("ScenarioSource() = %q, want %q", got, tt.wantSource)
			}
		})
	}
}

func TestOpenAddsRunInputColumns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			scenario_id TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0,
			final_hash TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO runs (run_id, scenario_id, ticks, final_hash) VALUES ('old-run', 'dot-expiry', 8, '00000000000000ff');
	`); err != nil {
		t.Fatalf("seed old schema: %v", err)
	}
	db.Close()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	run, err := store.RunByID("old-run")
	if err != nil || run == nil {
		t.Fatalf("RunByID() = %v, %v", run, err)
	}
	if run.Source != "" || run.SafetyOverride != "" || run.ScenarioSource() != "dot-expiry" {
		t.Errorf("migrated run = %+v", run)
	}

	// Reopening must not add the columns twice.
	store.Close()
	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	reopened.Close()
}

func TestRecordedSafetyOverrideReplays(t *testing.T) {
	ctx := context.Background()
	recorded := builtin.OverheatSpike().WithSafety(heat.SafetyUnsafe)

	sum, records, err := sim.Simulate(ctx, recorded, sim.Options{})
	if err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}

	store := openTestStore(t)
	id, err := store.SaveRun(sum, RunInputs{Source: "overheat-spike", SafetyOverride: heat.SafetyUnsafe.String()}, true, records)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	run, err := store.RunByID(id)
	if err != nil || run == nil {
		t.Fatalf("RunByID() = %v, %v", run, err)
	}
	want, err := store.TickHashes(id)
	if err != nil {
		t.Fatalf("TickHashes() failed: %v", err)
	}

	mode, ok := heat.ParseSafetyMode(run.SafetyOverride)
	if !ok {
		t.Fatalf("stored override %q does not parse", run.SafetyOverride)
	}
	rebuilt := builtin.OverheatSpike().WithSafety(mode)
	opts := sim.Options{Ticks: run.Ticks}
	if err := sim.Verify(ctx, rebuilt, opts, want); err != nil {
		t.Errorf("replay with recorded override: %v", err)
	}

	if err := sim.Verify(ctx, builtin.OverheatSpike(), opts, want); err == nil {
		t.Error("replay without the override should diverge")
	}
}
