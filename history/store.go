// Package history persists generation runs and their outputs in SQLite,
// so repeated tool invocations against the same database build a queryable
// record of what was generated, from which grammar, and when.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timeFormat is RFC 3339 with a fixed-width nanosecond fraction. The
// started_at column is TEXT and ListRuns orders by it lexically, so the
// stored form must be fixed width; RFC3339Nano trims trailing zeros and
// would sort whole-second timestamps after fractional ones.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store handles SQLite operations for generation run history.
type Store struct {
	db *sql.DB
}

// Run is one invocation of a generator.
type Run struct {
	ID         string     `json:"id"`
	Grammar    string     `json:"grammar"` // source name, e.g. the grammar file path
	Rule       string     `json:"rule"`    // starting rule, empty for all public rules
	Mode       string     `json:"mode"`    // "expand" or "sample"
	Requested  int        `json:"requested"`
	Produced   int        `json:"produced"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Output is one generated string within a run.
type Output struct {
	RunID string `json:"run_id"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Open creates a store backed by the database at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it does not exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		grammar TEXT NOT NULL,
		rule TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL,
		requested INTEGER NOT NULL DEFAULT 0,
		produced INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS outputs (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (run_id, idx),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a new run row.
func (s *Store) RecordRun(run Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, grammar, rule, mode, requested, produced, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Grammar, run.Rule, run.Mode, run.Requested, run.Produced,
		run.StartedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// AppendOutput stores one generated string for a run.
func (s *Store) AppendOutput(runID string, index int, text string) error {
	_, err := s.db.Exec(`
		INSERT INTO outputs (run_id, idx, text) VALUES (?, ?, ?)`,
		runID, index, text)
	if err != nil {
		return fmt.Errorf("append output: %w", err)
	}
	return nil
}

// FinishRun marks a run finished and records how many strings it produced.
func (s *Store) FinishRun(runID string, produced int, finishedAt time.Time) error {
	res, err := s.db.Exec(`
		UPDATE runs SET produced = ?, finished_at = ? WHERE id = ?`,
		produced, finishedAt.UTC().Format(timeFormat), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("finish run: no run with id %q", runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, grammar, rule, mode, requested, produced, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.Grammar, &run.Rule, &run.Mode,
			&run.Requested, &run.Produced, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished.Valid {
			t, err := time.Parse(time.RFC3339Nano, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOutputs returns every output of a run, in generation order.
func (s *Store) RunOutputs(runID string) ([]Output, error) {
	rows, err := s.db.Query(`
		SELECT run_id, idx, text FROM outputs WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("run outputs: %w", err)
	}
	defer rows.Close()

	var outputs []Output
	for rows.Next() {
		var out Output
		if err := rows.Scan(&out.RunID, &out.Index, &out.Text); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		outputs = append(outputs, out)
	}
	return outputs, rows.Err()
}
