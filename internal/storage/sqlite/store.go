// Package sqlite provides a SQLite-backed run archive.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/tenfacts/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/tenfacts/internal/storage"
	"github.com/louisbranch/tenfacts/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	// DefaultListLimit applies when ListRuns is called without a limit.
	DefaultListLimit = 20
	// MaxListLimit caps ListRuns.
	MaxListLimit = 200

	keySeparator = ","
)

// Store persists worksheet runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.RunStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite archive and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRun stores a run and its pages atomically.
func (s *Store) PutRun(ctx context.Context, run storage.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.Mode != storage.ModeSingle && run.Mode != storage.ModeMulti {
		return fmt.Errorf("unknown run mode %q", run.Mode)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (id, mode, start_page, pages, count, seed, sheet_date, locale, format, question_file, answer_file, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Mode),
		run.Start,
		run.Pages,
		run.Count,
		run.Seed,
		run.Date,
		run.Locale,
		run.Format,
		run.QuestionFile,
		run.AnswerFile,
		toMillis(run.CreatedAt),
	); err != nil {
		return fmt.Errorf("put run: %w", err)
	}

	for _, page := range run.PageRecords {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_pages (run_id, page_number, seed, fact_keys) VALUES (?, ?, ?, ?)`,
			run.ID,
			page.Number,
			page.Seed,
			strings.Join(page.Keys, keySeparator),
		); err != nil {
			return fmt.Errorf("put run page %d: %w", page.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put run: %w", err)
	}
	return nil
}

// GetRun returns one run with its pages.
func (s *Store) GetRun(ctx context.Context, id string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Run{}, fmt.Errorf("run id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT page_number, seed, fact_keys FROM run_pages WHERE run_id = ? ORDER BY page_number`,
		id,
	)
	if err != nil {
		return storage.Run{}, fmt.Errorf("get run pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page storage.RunPage
		var keys string
		if err := rows.Scan(&page.Number, &page.Seed, &keys); err != nil {
			return storage.Run{}, fmt.Errorf("scan run page: %w", err)
		}
		if keys != "" {
			page.Keys = strings.Split(keys, keySeparator)
		}
		run.PageRecords = append(run.PageRecords, page)
	}
	if err := rows.Err(); err != nil {
		return storage.Run{}, fmt.Errorf("iterate run pages: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first, without page records.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	rows, err := s.sqlDB.QueryContext(ctx, selectRun+` ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []storage.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

const selectRun = `SELECT id, mode, start_page, pages, count, seed, sheet_date, locale, format, question_file, answer_file, created_at FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (storage.Run, error) {
	var run storage.Run
	var mode string
	var createdAt int64
	if err := row.Scan(
		&run.ID,
		&mode,
		&run.Start,
		&run.Pages,
		&run.Count,
		&run.Seed,
		&run.Date,
		&run.Locale,
		&run.Format,
		&run.QuestionFile,
		&run.AnswerFile,
		&createdAt,
	); err != nil {
		return storage.Run{}, err
	}
	run.Mode = storage.Mode(mode)
	run.CreatedAt = fromMillis(createdAt)
	return run, nil
}
