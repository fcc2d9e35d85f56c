// Package persistence provides a SQLite catalog of generation runs.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexterrain/internal/world"
)

// ErrNotFound is returned when a run ID is not in the catalog.
var ErrNotFound = errors.New("run not found")

// DB wraps a SQLite connection for the run catalog.
type DB struct {
	conn *sqlx.DB
}

// Run is one catalog row.
type Run struct {
	ID           string         `db:"id" json:"id"`
	Seed         int64          `db:"seed" json:"seed"`
	Width        int            `db:"width" json:"width"`
	Height       int            `db:"height" json:"height"`
	CreatedAt    int64          `db:"created_at" json:"created_at"` // unix seconds
	DurationMS   int64          `db:"duration_ms" json:"duration_ms"`
	Descent      string         `db:"descent" json:"descent"`
	RiverWalks   int            `db:"river_walks" json:"river_walks"`
	RiverCells   int            `db:"river_cells" json:"river_cells"`
	LongestRiver int            `db:"longest_river" json:"longest_river"`
	EndsJSON     string         `db:"ends_json" json:"-"`
	Ends         map[string]int `db:"-" json:"ends,omitempty"`
}

// Created returns the run's creation time.
func (r Run) Created() time.Time {
	return time.Unix(r.CreatedAt, 0)
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		descent TEXT NOT NULL,
		river_walks INTEGER NOT NULL,
		river_cells INTEGER NOT NULL,
		longest_river INTEGER NOT NULL,
		ends_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_terrain (
		run_id TEXT NOT NULL REFERENCES runs(id),
		terrain TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, terrain)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records a generation report and its terrain counts. It returns the
// new run ID.
func (db *DB) SaveRun(rep world.Report) (string, error) {
	id := uuid.NewString()

	endsJSON, err := json.Marshal(rep.Rivers.Ends)
	if err != nil {
		return "", fmt.Errorf("encode river ends: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// SQLite integers are signed; the seed keeps its bit pattern.
	_, err = tx.Exec(`INSERT INTO runs
		(id, seed, width, height, created_at, duration_ms, descent,
		 river_walks, river_cells, longest_river, ends_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, int64(rep.Seed), rep.Width, rep.Height, time.Now().Unix(),
		rep.Duration.Milliseconds(), rep.Descent,
		rep.Rivers.Walks, rep.Rivers.Cells, rep.Rivers.Longest, string(endsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex("INSERT INTO run_terrain (run_id, terrain, count) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for t, n := range rep.Counts {
		if _, err := stmt.Exec(id, t.String(), n); err != nil {
			return "", fmt.Errorf("insert terrain %s: %w", t, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Debug("run recorded", "id", id, "seed", rep.Seed)
	return id, nil
}

// LoadRun returns one run by ID.
func (db *DB) LoadRun(id string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("load run %s: %w", id, err)
	}
	if err := r.decode(); err != nil {
		return Run{}, err
	}
	return r, nil
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	for i := range runs {
		if err := runs[i].decode(); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// TerrainCounts returns the stored cell counts of a run keyed by type name.
func (db *DB) TerrainCounts(runID string) (map[string]int, error) {
	var rows []struct {
		Terrain string `db:"terrain"`
		Count   int    `db:"count"`
	}
	err := db.conn.Select(&rows, "SELECT terrain, count FROM run_terrain WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("terrain counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Terrain] = r.Count
	}
	return counts, nil
}

// SaveMeta stores a key-value pair in catalog metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

func (r *Run) decode() error {
	if r.EndsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(r.EndsJSON), &r.Ends); err != nil {
		return fmt.Errorf("decode ends of run %s: %w", r.ID, err)
	}
	return nil
}
