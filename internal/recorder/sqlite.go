package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the refresh log to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			duration_ms INTEGER,
			period      TEXT,
			requested   TEXT,
			returned    TEXT,
			row_count   INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_started ON refresh_runs(started_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO refresh_runs
		(id, started_at, duration_ms, period, requested, returned, row_count, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.ID.String(), evt.StartedAt.UnixMilli(), evt.Duration.Milliseconds(),
		evt.Period, strings.Join(evt.Requested, ","), strings.Join(evt.Returned, ","),
		evt.Rows, evt.Err,
	)
	return err
}

// Recent returns the latest refresh runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]RefreshEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, started_at, duration_ms, period, requested, returned, row_count, error
		FROM refresh_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh runs: %w", err)
	}
	defer rows.Close()

	var out []RefreshEvent
	for rows.Next() {
		var (
			id, period, requested, returned, errText string
			startedMs, durationMs                    int64
			n                                        int
		)
		if err := rows.Scan(&id, &startedMs, &durationMs, &period, &requested, &returned, &n, &errText); err != nil {
			return nil, fmt.Errorf("scan refresh run: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id %q: %w", id, err)
		}
		out = append(out, RefreshEvent{
			ID:        parsed,
			StartedAt: time.UnixMilli(startedMs),
			Duration:  time.Duration(durationMs) * time.Millisecond,
			Period:    period,
			Requested: splitList(requested),
			Returned:  splitList(returned),
			Rows:      n,
			Err:       errText,
		})
	}
	return out, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
