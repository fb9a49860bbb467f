// Package sqldb keeps the history of generated wages files in SQLite or
// PostgreSQL.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/wages-generator/internal/domain"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

type Repository struct {
	db     *sql.DB
	driver string
}

// New opens the database. Schema migrations are managed by dbmate
// (db/migrations); Migrate applies the same schema for tests and first runs.
func New(driver, dsn string) (*Repository, error) {
	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, driver: driver}, nil
}

// Open connects, checks the connection and applies the schema. Use it from
// entrypoints; New alone does not touch the database.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	r, err := New(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := r.Ping(ctx); err != nil {
		r.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}
	if err := r.Migrate(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// Migrate creates the runs table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	contentType := "BLOB"
	if r.driver == DriverPostgres {
		contentType = "BYTEA"
	}
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			filename      TEXT NOT NULL,
			batch         TEXT NOT NULL,
			quarter       TEXT NOT NULL DEFAULT '',
			row_count     INTEGER NOT NULL,
			trailing_crlf INTEGER NOT NULL DEFAULT 0,
			content       `+contentType+` NOT NULL,
			operator      TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate runs: %w", err)
	}
	return nil
}

// ── Runs ──────────────────────────────────────────────────────────────────────

func (r *Repository) CreateRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO runs (
			id, filename, batch, quarter, row_count, trailing_crlf,
			content, operator, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)`),
		run.ID, run.Filename, run.Batch, run.Quarter, run.RowCount,
		boolToInt(run.TrailingCRLF), run.Content, run.Operator, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *Repository) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	run := &domain.Run{}
	var trailing int
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT id, filename, batch, quarter, row_count, trailing_crlf,
		       content, operator, created_at
		FROM runs WHERE id=?`), id).Scan(
		&run.ID, &run.Filename, &run.Batch, &run.Quarter, &run.RowCount, &trailing,
		&run.Content, &run.Operator, &run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.TrailingCRLF = trailing == 1
	return run, nil
}

func (r *Repository) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, batch, quarter, row_count, trailing_crlf, operator, created_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Run
	for rows.Next() {
		var run domain.Run
		var trailing int
		if err := rows.Scan(&run.ID, &run.Filename, &run.Batch, &run.Quarter,
			&run.RowCount, &trailing, &run.Operator, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.TrailingCRLF = trailing == 1
		list = append(list, run)
	}
	return list, rows.Err()
}

func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM runs WHERE id=?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (r *Repository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
