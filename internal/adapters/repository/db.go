// Package repository persists vocabulary and score entries.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// sqliteUnicodeDriver is go-sqlite3 with LOWER replaced by a Unicode-aware
// fold. The built-in one only maps ASCII letters.
const sqliteUnicodeDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicodeDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteUnicodeDriver, sqlx.QUESTION)
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS english_vocabs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word TEXT NOT NULL UNIQUE,
		word_type TEXT,
		meaning TEXT,
		example TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_english_vocabs_word_type ON english_vocabs(word_type)`,
	`CREATE TABLE IF NOT EXISTS high_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		high_score INTEGER NOT NULL,
		high_scorer TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_high_scores_high_score ON high_scores(high_score)`,
	`CREATE INDEX IF NOT EXISTS idx_high_scores_scorer_lower ON high_scores(LOWER(high_scorer))`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS english_vocabs (
		id BIGSERIAL PRIMARY KEY,
		word TEXT NOT NULL UNIQUE,
		word_type TEXT,
		meaning TEXT,
		example TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_english_vocabs_word_type ON english_vocabs(word_type)`,
	`CREATE TABLE IF NOT EXISTS high_scores (
		id BIGSERIAL PRIMARY KEY,
		high_score BIGINT NOT NULL,
		high_scorer TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_high_scores_high_score ON high_scores(high_score)`,
	`CREATE INDEX IF NOT EXISTS idx_high_scores_scorer_lower ON high_scores(LOWER(high_scorer))`,
}

// Open connects to the storage engine identified by driver and dsn.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	name := driver
	if driver == DriverSQLite {
		name = sqliteUnicodeDriver
	}
	db, err := sqlx.ConnectContext(ctx, name, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers, and every ":memory:"
		// connection would be a separate database.
		maxOpenConns = 1
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	return db, nil
}

// EnsureSchema creates the tables and indexes if they don't exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	var stmts []string
	switch db.DriverName() {
	case DriverSQLite, sqliteUnicodeDriver:
		stmts = sqliteSchema
	case DriverPostgres:
		stmts = postgresSchema
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, db.DriverName())
	}
	return withConn(ctx, db, func(conn *sqlx.Conn) error {
		for _, stmt := range stmts {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		return nil
	})
}

// withConn runs fn on a dedicated connection and always hands it back to
// the pool, whatever fn returns.
func withConn(ctx context.Context, db *sqlx.DB, fn func(conn *sqlx.Conn) error) (err error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release connection: %w", cerr)
		}
	}()
	return fn(conn)
}

// isUniqueViolation reports whether err is a unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}

// ensureSQLiteDir creates the parent directory of a file-backed database.
func ensureSQLiteDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// base holds what both stores share.
type base struct {
	db    *sqlx.DB
	clock func() time.Time
}

func newBase(db *sqlx.DB, opts []Option) base {
	b := base{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// now returns the current time in UTC at microsecond precision, which both
// engines round-trip exactly.
func (b base) now() time.Time {
	return b.clock().UTC().Truncate(time.Microsecond)
}
