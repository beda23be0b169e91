// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/fleetcrawl/internal/combat"
	"github.com/vovakirdan/fleetcrawl/internal/sim"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunEntry is one persisted simulation run.
type RunEntry struct {
	ID         int64
	RunID      string
	ScenarioID string
	Ticks      uint32
	Hits       int
	Events     int
	Hash       uint64
	Completed  bool
	CreatedAt  time.Time
	RunInputs
}

// RunInputs records what a run was built from beyond the scenario ID, so a
// replay can rebuild the same world.
type RunInputs struct {
	// Source is the registry ID, library ID or file path the scenario was
	// resolved from. Empty means ScenarioID.
	Source string
	// SafetyOverride is the safety mode forced onto every ship, or empty
	// when ships kept their own modes.
	SafetyOverride string
}

// ScenarioSource returns what to resolve the run's scenario from.
func (e RunEntry) ScenarioSource() string {
	if e.Source != "" {
		return e.Source
	}
	return e.ScenarioID
}

// ResolutionEntry is one persisted hit.
type ResolutionEntry struct {
	RunID string
	sim.Record
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			scenario_id TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0,
			final_hash TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 1,
			source TEXT NOT NULL DEFAULT '',
			safety_override TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario_id ON runs(scenario_id);

		CREATE TABLE IF NOT EXISTS run_ticks (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			hash TEXT NOT NULL,
			PRIMARY KEY (run_id, tick)
		);

		CREATE TABLE IF NOT EXISTS ship_results (
			run_id TEXT NOT NULL,
			ship_id TEXT NOT NULL,
			hull_fraction REAL NOT NULL,
			shield_fraction REAL NOT NULL,
			heat01 REAL NOT NULL,
			damage_dealt REAL NOT NULL,
			damage_taken REAL NOT NULL,
			reflected_taken REAL NOT NULL,
			shots_fired INTEGER NOT NULL,
			shots_suppressed INTEGER NOT NULL,
			shots_jammed INTEGER NOT NULL,
			destroyed INTEGER NOT NULL,
			PRIMARY KEY (run_id, ship_id)
		);

		CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			shot INTEGER NOT NULL,
			attacker TEXT NOT NULL,
			target TEXT NOT NULL,
			damage_type INTEGER NOT NULL,
			damage REAL NOT NULL,
			arc INTEGER NOT NULL,
			shield_layer INTEGER NOT NULL,
			hull_segment INTEGER NOT NULL,
			shield_damage REAL NOT NULL,
			hull_damage REAL NOT NULL,
			remaining REAL NOT NULL,
			reflected REAL NOT NULL,
			flags INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resolutions_run_id ON resolutions(run_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before run inputs were recorded.
	for _, col := range []string{"source", "safety_override"} {
		if err := s.addColumnIfMissing("runs", col, "TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addColumnIfMissing(table, column, decl string) error {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + decl)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run summary with its inputs, tick hashes, ship tallies
// and resolutions in one transaction. Returns the generated run ID.
func (s *Store) SaveRun(sum sim.Summary, in RunInputs, completed bool, records []sim.Record) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, scenario_id, ticks, hits, events, final_hash, completed, source, safety_override)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, sum.ScenarioID, sum.Ticks, sum.Hits, sum.Events, formatHash(sum.Hash), completed,
		in.Source, in.SafetyOverride,
	); err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	for i, h := range sum.TickHashes {
		if _, err := tx.Exec(
			"INSERT INTO run_ticks (run_id, tick, hash) VALUES (?, ?, ?)",
			runID, i+1, formatHash(h),
		); err != nil {
			return "", fmt.Errorf("storage: cannot save tick hash: %w", err)
		}
	}

	for _, ship := range sum.Ships {
		if _, err := tx.Exec(
			`INSERT INTO ship_results
			 (run_id, ship_id, hull_fraction, shield_fraction, heat01, damage_dealt, damage_taken,
			  reflected_taken, shots_fired, shots_suppressed, shots_jammed, destroyed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, ship.ID, ship.HullFraction, ship.ShieldFraction, ship.Heat01, ship.DamageDealt, ship.DamageTaken,
			ship.ReflectedTaken, ship.ShotsFired, ship.ShotsSuppressed, ship.ShotsJammed, ship.Destroyed,
		); err != nil {
			return "", fmt.Errorf("storage: cannot save ship result: %w", err)
		}
	}

	for _, rec := range records {
		r := rec.Resolution
		if _, err := tx.Exec(
			`INSERT INTO resolutions
			 (run_id, tick, shot, attacker, target, damage_type, damage, arc, shield_layer, hull_segment,
			  shield_damage, hull_damage, remaining, reflected, flags)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, rec.Tick, rec.Shot, rec.Attacker, rec.Target, int(rec.DamageType), rec.Damage, int(r.IncomingArc),
			r.ShieldLayerIndex, r.HullSegmentIndex, r.AppliedShieldDamage, r.AppliedHullDamage,
			r.RemainingDamage, r.ReflectedDamage, int(r.Flags),
		); err != nil {
			return "", fmt.Errorf("storage: cannot save resolution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `id, run_id, scenario_id, ticks, hits, events, final_hash, completed, source, safety_override, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunEntry, error) {
	var e RunEntry
	var hash string
	var createdAt any
	if err := row.Scan(&e.ID, &e.RunID, &e.ScenarioID, &e.Ticks, &e.Hits, &e.Events, &hash, &e.Completed,
		&e.Source, &e.SafetyOverride, &createdAt); err != nil {
		return e, err
	}
	h, err := parseHash(hash)
	if err != nil {
		return e, err
	}
	e.Hash = h
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty
// scenarioID matches every scenario.
func (s *Store) RecentRuns(scenarioID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenarioID, scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		e, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RunByID retrieves a run by its run ID. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*RunEntry, error) {
	e, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &e, nil
}

// TickHashes returns a run's per-tick snapshot hashes in tick order.
func (s *Store) TickHashes(runID string) ([]uint64, error) {
	rows, err := s.db.Query("SELECT hash FROM run_ticks WHERE run_id = ? ORDER BY tick", runID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tick hashes: %w", err)
	}
	defer rows.Close()

	var hashes []uint64
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		h, err := parseHash(hash)
		if err != nil {
			return nil, fmt.Errorf("storage: corrupt tick hash: %w", err)
		}
		hashes = append(hashes, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return hashes, nil
}

// ShipResults returns a run's final ship tallies ordered by ship ID.
func (s *Store) ShipResults(runID string) ([]sim.ShipSummary, error) {
	rows, err := s.db.Query(
		`SELECT ship_id, hull_fraction, shield_fraction, heat01, damage_dealt, damage_taken,
		        reflected_taken, shots_fired, shots_suppressed, shots_jammed, destroyed
		 FROM ship_results
		 WHERE run_id = ?
		 ORDER BY ship_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ship results: %w", err)
	}
	defer rows.Close()

	var ships []sim.ShipSummary
	for rows.Next() {
		var sh sim.ShipSummary
		if err := rows.Scan(
			&sh.ID,
			&sh.HullFraction,
			&sh.ShieldFraction,
			&sh.Heat01,
			&sh.DamageDealt,
			&sh.DamageTaken,
			&sh.ReflectedTaken,
			&sh.ShotsFired,
			&sh.ShotsSuppressed,
			&sh.ShotsJammed,
			&sh.Destroyed,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ships = append(ships, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ships, nil
}

// Resolutions returns a run's hits in resolution order.
func (s *Store) Resolutions(runID string) ([]ResolutionEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, tick, shot, attacker, target, damage_type, damage, arc, shield_layer, hull_segment,
		        shield_damage, hull_damage, remaining, reflected, flags
		 FROM resolutions
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query resolutions: %w", err)
	}
	defer rows.Close()

	var entries []ResolutionEntry
	for rows.Next() {
		var e ResolutionEntry
		var damageType, arc, flags int
		r := &e.Resolution
		if err := rows.Scan(
			&e.RunID,
			&e.Tick,
			&e.Shot,
			&e.Attacker,
			&e.Target,
			&damageType,
			&e.Damage,
			&arc,
			&r.ShieldLayerIndex,
			&r.HullSegmentIndex,
			&r.AppliedShieldDamage,
			&r.AppliedHullDamage,
			&r.RemainingDamage,
			&r.ReflectedDamage,
			&flags,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.DamageType = combat.DamageType(damageType)
		r.IncomingArc = combat.ShieldArc(arc)
		r.Flags = combat.ResolutionFlags(flags)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	ScenarioID string
	RunsCount  int
	AvgHits    float64
	TotalTicks int64
	LastRun    time.Time
}

// GetScenarioStats retrieves aggregated statistics for one scenario.
func (s *Store) GetScenarioStats(scenarioID string) (*ScenarioStats, error) {
	stats := &ScenarioStats{ScenarioID: scenarioID}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(hits), 0), COALESCE(SUM(ticks), 0), MAX(created_at)
		 FROM runs WHERE scenario_id = ?`,
		scenarioID,
	).Scan(&stats.RunsCount, &stats.AvgHits, &stats.TotalTicks, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// ClearRuns deletes every run recorded for a scenario.
func (s *Store) ClearRuns(scenarioID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"run_ticks", "ship_results", "resolutions"} {
		if _, err := tx.Exec(
			"DELETE FROM "+table+" WHERE run_id IN (SELECT run_id FROM runs WHERE scenario_id = ?)",
			scenarioID,
		); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE scenario_id = ?", scenarioID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}

// Hashes are stored as hex text since SQLite integers are signed.
func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func parseHash(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
