// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned by RunByID for an unknown run.
var ErrNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run records.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished simulation.
type RunRecord struct {
	ID         string // UUID, assigned by SaveRun when empty
	MazeID     string
	SolverID   string
	Reached    bool
	Phase      string // final solver phase
	Error      string // solver or host error, empty on success
	Ticks      int
	Forward    int
	Turns      int
	Rejected   int
	Collisions int
	Cells      int // distinct cells visited
	RunMoves   int // forward moves of the final run to the goal
	Refloods   int
	Seed       int64
	FailRate   float64
	Duration   time.Duration
	CreatedAt  time.Time
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
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			maze_id TEXT NOT NULL,
			solver_id TEXT NOT NULL,
			reached INTEGER NOT NULL DEFAULT 0,
			phase TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			forward INTEGER NOT NULL DEFAULT 0,
			turns INTEGER NOT NULL DEFAULT 0,
			rejected INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			cells INTEGER NOT NULL DEFAULT 0,
			run_moves INTEGER NOT NULL DEFAULT 0,
			refloods INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			fail_rate REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_maze_id ON runs(maze_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(maze_id, reached, run_moves, ticks);
		CREATE INDEX IF NOT EXISTS idx_runs_solver_id ON runs(solver_id);
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

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs
		 (id, maze_id, solver_id, reached, phase, error, ticks, forward, turns,
		  rejected, collisions, cells, run_moves, refloods, seed, fail_rate, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MazeID, r.SolverID, r.Reached, r.Phase, r.Error,
		r.Ticks, r.Forward, r.Turns, r.Rejected, r.Collisions, r.Cells,
		r.RunMoves, r.Refloods, r.Seed, r.FailRate, r.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `id, maze_id, solver_id, reached, phase, error, ticks, forward, turns,
		 rejected, collisions, cells, run_moves, refloods, seed, fail_rate, duration_ms, created_at`

// RecentRuns retrieves the most recent runs, newest first. An empty
// mazeID matches every maze.
func (s *Store) RecentRuns(mazeID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR maze_id = ?
		 ORDER BY seq DESC
		 LIMIT ?`,
		mazeID, mazeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns retrieves the fastest successful runs on a maze: fewest
// final-run moves, then fewest ticks.
func (s *Store) BestRuns(mazeID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE maze_id = ? AND reached = 1
		 ORDER BY run_moves ASC, ticks ASC, seq ASC
		 LIMIT ?`,
		mazeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	return scanRuns(rows)
}

// RunByID retrieves a single run. Returns ErrNotFound if no such run exists.
func (s *Store) RunByID(id string) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return r, nil
}

// MazeIDs lists every maze that has at least one run, sorted.
func (s *Store) MazeIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT maze_id FROM runs ORDER BY maze_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query mazes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return ids, nil
}

// ClearRuns deletes all runs for the given maze, or every run when mazeID
// is empty. Returns the number of deleted rows.
func (s *Store) ClearRuns(mazeID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR maze_id = ?", mazeID, mazeID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted runs: %w", err)
	}
	return n, nil
}

// StrategyStats contains aggregated statistics for one solver.
type StrategyStats struct {
	SolverID  string
	Runs      int
	Reached   int
	BestTicks int // 0 when no run reached the goal
	BestMoves int // 0 when no run reached the goal
	AvgTicks  float64
	LastRun   time.Time
}

// SuccessRate returns the fraction of runs that reached the goal.
func (st StrategyStats) SuccessRate() float64 {
	if st.Runs == 0 {
		return 0
	}
	return float64(st.Reached) / float64(st.Runs)
}

// GetStrategyStats retrieves per-solver statistics. An empty mazeID
// aggregates over every maze.
func (s *Store) GetStrategyStats(mazeID string) (map[string]*StrategyStats, error) {
	rows, err := s.db.Query(
		`SELECT solver_id, COUNT(*), SUM(reached),
		        MIN(CASE WHEN reached = 1 THEN ticks END),
		        MIN(CASE WHEN reached = 1 THEN run_moves END),
		        AVG(ticks), MAX(created_at)
		 FROM runs
		 WHERE ? = '' OR maze_id = ?
		 GROUP BY solver_id`,
		mazeID, mazeID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get strategy stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StrategyStats)
	for rows.Next() {
		var st StrategyStats
		var bestTicks, bestMoves sql.NullInt64
		var lastRun any
		if err := rows.Scan(&st.SolverID, &st.Runs, &st.Reached, &bestTicks, &bestMoves, &st.AvgTicks, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestTicks = int(bestTicks.Int64)
		st.BestMoves = int(bestMoves.Int64)
		st.LastRun = parseTime(lastRun)
		stats[st.SolverID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*RunRecord, error) {
	var r RunRecord
	var durationMS int64
	var createdAt any
	if err := sc.Scan(
		&r.ID,
		&r.MazeID,
		&r.SolverID,
		&r.Reached,
		&r.Phase,
		&r.Error,
		&r.Ticks,
		&r.Forward,
		&r.Turns,
		&r.Rejected,
		&r.Collisions,
		&r.Cells,
		&r.RunMoves,
		&r.Refloods,
		&r.Seed,
		&r.FailRate,
		&durationMS,
		&createdAt,
	); err != nil {
		return nil, err
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// parseTime handles both time.Time and string datetimes.
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
