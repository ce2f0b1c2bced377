// Package store persists contacts, safe locations, and the emergency log in a
// local relational database. A Store owns a single *sql.DB for the life of
// the application.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"women-safety/internal/logger"
)

// Dialect selects schema and driver details.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrInvalidLogType is returned when a log entry carries an unknown type.
var ErrInvalidLogType = errors.New("invalid log type")

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  logger.Logger
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, dialect Dialect, dsn string, log logger.Logger) (*Store, error) {
	driverName, err := driverFor(dialect)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if dialect == DialectSQLite {
		// One connection serialises writers on the single database file.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	s := New(db, dialect, log)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Store", "database ready", map[string]interface{}{
		"dialect": string(dialect),
	})
	return s, nil
}

// New wraps an existing handle without touching the schema.
func New(db *sql.DB, dialect Dialect, log logger.Logger) *Store {
	return &Store{db: db, dialect: dialect, logger: log}
}

func driverFor(d Dialect) (string, error) {
	switch d {
	case DialectSQLite:
		return "sqlite", nil
	case DialectPostgres:
		return "postgres", nil
	default:
		return "", errors.Errorf("unsupported dialect %q", d)
	}
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

// Migrate runs the idempotent schema statements.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaFor(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create schema")
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warning("Store", "rollback failed", map[string]interface{}{
					"error": rbErr.Error(),
				})
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Shutdown closes the handle for the shutdown manager.
func (s *Store) Shutdown() {
	if err := s.Close(); err != nil {
		s.logger.Error("Store", "close failed", err, nil)
	}
}
