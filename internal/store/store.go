// Package store persists MCP records, override audit entries and load
// results. SQLite (modernc.org/sqlite) is the default; a postgres:// DSN
// selects lib/pq.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Abaw1984/azload-sub000/internal/metrics"
)

// ErrNotFound is returned when no record exists for a model
var ErrNotFound = errors.New("record not found")

// UnavailableError reports a failed store operation. Callers log it and
// carry on without persistence.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable (%s): %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// SinkTimeout bounds a single override write made through RecordOverride
const SinkTimeout = 5 * time.Second

// Store wraps a sqlx database
type Store struct {
	db      *sqlx.DB
	driver  string
	logger  *slog.Logger
	metrics *metrics.Registry
}

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// ParseDSN maps a DSN to a driver name and data source. Anything that is not
// a postgres URL is treated as a SQLite path.
func ParseDSN(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	default:
		return "sqlite", dsn
	}
}

// Open connects to dsn and creates the schema
func Open(ctx context.Context, dsn string, logger *slog.Logger, reg *metrics.Registry) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	driver, source := ParseDSN(dsn)

	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, &UnavailableError{Op: "open", Err: err}
	}
	if driver == "sqlite" {
		// one writer; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, &UnavailableError{Op: "open", Err: fmt.Errorf("pragma %s: %w", pragma, err)}
			}
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &UnavailableError{Op: "ping", Err: err}
	}

	s := &Store{db: db, driver: driver, logger: logger.With("store", driver), metrics: reg}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns "sqlite" or "postgres"
func (s *Store) Driver() string { return s.driver }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS mcp_records (
		model_id   TEXT PRIMARY KEY,
		version    INTEGER NOT NULL,
		locked     BOOLEAN NOT NULL,
		data       TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS overrides (
		id           TEXT PRIMARY KEY,
		model_id     TEXT NOT NULL,
		kind         TEXT NOT NULL,
		target       TEXT NOT NULL,
		before_value TEXT NOT NULL,
		after_value  TEXT NOT NULL,
		manual       BOOLEAN NOT NULL,
		accepted     BOOLEAN NOT NULL,
		reason       TEXT NOT NULL,
		version      INTEGER NOT NULL,
		recorded_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS overrides_model_idx ON overrides (model_id)`,
	`CREATE TABLE IF NOT EXISTS load_results (
		id          TEXT PRIMARY KEY,
		run_id      TEXT NOT NULL,
		model_id    TEXT NOT NULL,
		mcp_version INTEGER NOT NULL,
		load_type   TEXT NOT NULL,
		data        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS load_results_model_idx ON load_results (model_id)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return s.fail("migrate", err)
		}
	}
	return nil
}

// fail counts and wraps a database error. sql.ErrNoRows passes through as
// ErrNotFound.
func (s *Store) fail(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	s.metrics.RecordStoreError(op)
	s.logger.Warn("store operation failed", "op", op, "error", err)
	return &UnavailableError{Op: op, Err: err}
}

// timeLayout is fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func timestamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimestamp(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
