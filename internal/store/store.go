package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/criteria/internal/querybuilder"
)

// ErrUnknownDriver is returned by Open for drivers without a dialect.
var ErrUnknownDriver = errors.New("unknown database driver")

// driverDialects maps database/sql driver names to placeholder dialects.
var driverDialects = map[string]querybuilder.Dialect{
	"sqlite3":  querybuilder.SQLite,
	"postgres": querybuilder.Postgres,
	"mysql":    querybuilder.MySQL,
}

// Store wraps a database handle together with the dialect its queries
// are rendered in.
type Store struct {
	db      *sql.DB
	driver  string
	dialect querybuilder.Dialect
}

// Open connects to dsn with the named driver and verifies the connection.
//
// For sqlite3 the pool is limited to a single connection and the pragmas
// listed in the package documentation are applied.
func Open(driver, dsn string) (*Store, error) {
	dialect, ok := driverDialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == querybuilder.SQLite {
		// SQLite only supports one writer at a time, so limit connections
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return &Store{db: db, driver: driver, dialect: dialect}, nil
}

// OpenSQLite creates or opens a SQLite database at path.
func OpenSQLite(path string) (*Store, error) {
	return Open("sqlite3", path)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Collection methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the database/sql driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Dialect returns the placeholder dialect used for rendered queries.
func (s *Store) Dialect() querybuilder.Dialect {
	return s.dialect
}

// Exec executes a statement without returning rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
