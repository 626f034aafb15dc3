// Package history persists diagnostic results across runs so that
// throughput regressions show up in comparisons.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Result is one reported metric from a diagnostic run.
type Result struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Run is one stored execution of a diagnostic suite.
type Run struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Results   []Result  `json:"results"`
}

// Store keeps runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the history database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history: creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrating database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Save appends a run and returns its id.
func (s *Store) Save(run Run) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback()

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	res, err := tx.Exec(`INSERT INTO runs (tool, created_at) VALUES (?, ?)`, run.Tool, ts)
	if err != nil {
		return 0, fmt.Errorf("history: inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, r := range run.Results {
		if _, err := tx.Exec(
			`INSERT INTO results (run_id, name, value, unit) VALUES (?, ?, ?, ?)`,
			id, r.Name, r.Value, r.Unit,
		); err != nil {
			return 0, fmt.Errorf("history: inserting result %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return id, nil
}

// LoadAll returns every stored run for tool, oldest first. Empty tool
// matches all tools.
func (s *Store) LoadAll(tool string) ([]Run, error) {
	query := `SELECT id, tool, created_at FROM runs ORDER BY id`
	args := []any{}
	if tool != "" {
		query = `SELECT id, tool, created_at FROM runs WHERE tool = ? ORDER BY id`
		args = append(args, tool)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Tool, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("history: scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Results, err = s.loadResults(runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) loadResults(runID int64) ([]Result, error) {
	rows, err := s.db.Query(`SELECT name, value, unit FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: querying results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Name, &r.Value, &r.Unit); err != nil {
			return nil, fmt.Errorf("history: scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LoadLatest returns the most recent run for tool, or nil when none
// exists.
func (s *Store) LoadLatest(tool string) (*Run, error) {
	runs, err := s.LoadAll(tool)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}
