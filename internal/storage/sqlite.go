// Package storage provides SQLite-based persistence for run statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is one finished loop run.
type Run struct {
	ID               int64
	SceneID          string
	Host             string // "tui", "term" or "ssh"
	Mode             string // "cooperative" or "blocking"
	TickRate         int
	Frames           uint64
	Steps            uint64
	Stalls           uint64
	SkippedDraws     uint64
	ResizeRequests   uint64
	ResizeSuppressed uint64
	Duration         time.Duration
	CreatedAt        time.Time
}

// FPS returns the average presented frames per second.
func (r Run) FPS() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Duration.Seconds()
}

// SceneSummary aggregates all runs of one scene.
type SceneSummary struct {
	SceneID  string
	Runs     int
	Frames   uint64
	Steps    uint64
	Stalls   uint64
	Duration time.Duration
}

// FPS returns the average presented frames per second over all runs.
func (s SceneSummary) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
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

	// Create parent directories
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
			scene_id TEXT NOT NULL,
			host TEXT NOT NULL,
			mode TEXT NOT NULL,
			tick_rate INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			stalls INTEGER NOT NULL DEFAULT 0,
			skipped_draws INTEGER NOT NULL DEFAULT 0,
			resize_requests INTEGER NOT NULL DEFAULT 0,
			resize_suppressed INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene_id ON runs(scene_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (scene_id, host, mode, tick_rate, frames, steps, stalls, skipped_draws,
		  resize_requests, resize_suppressed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SceneID, r.Host, r.Mode, r.TickRate,
		int64(r.Frames), int64(r.Steps), int64(r.Stalls), int64(r.SkippedDraws),
		int64(r.ResizeRequests), int64(r.ResizeSuppressed),
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the latest runs, newest first. An empty sceneID
// matches every scene.
func (s *Store) RecentRuns(sceneID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, host, mode, tick_rate, frames, steps, stalls,
		        skipped_draws, resize_requests, resize_suppressed, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR scene_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var frames, steps, stalls, skipped, requests, suppressed, durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SceneID, &r.Host, &r.Mode, &r.TickRate,
			&frames, &steps, &stalls, &skipped, &requests, &suppressed,
			&durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Frames = uint64(frames)
		r.Steps = uint64(steps)
		r.Stalls = uint64(stalls)
		r.SkippedDraws = uint64(skipped)
		r.ResizeRequests = uint64(requests)
		r.ResizeSuppressed = uint64(suppressed)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// SceneSummaries aggregates runs per scene, ordered by scene ID.
func (s *Store) SceneSummaries() ([]SceneSummary, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, COUNT(*), SUM(frames), SUM(steps), SUM(stalls), SUM(duration_ms)
		 FROM runs
		 GROUP BY scene_id
		 ORDER BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query summaries: %w", err)
	}
	defer rows.Close()

	var out []SceneSummary
	for rows.Next() {
		var sum SceneSummary
		var frames, steps, stalls, durationMS int64
		if err := rows.Scan(&sum.SceneID, &sum.Runs, &frames, &steps, &stalls, &durationMS); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sum.Frames = uint64(frames)
		sum.Steps = uint64(steps)
		sum.Stalls = uint64(stalls)
		sum.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// ClearRuns deletes all runs for the given scene.
func (s *Store) ClearRuns(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
