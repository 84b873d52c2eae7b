package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/marshallshelly/pebble-seed/pkg/dialect"
)

// Querier is implemented by both DB and Tx.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Dialect() dialect.Dialect
}

// Beginner starts transactions. It is implemented by DB but not by Tx.
type Beginner interface {
	Begin(ctx context.Context) (*Tx, error)
}

// DB represents an open storage location.
type DB struct {
	sqlDB    *sql.DB
	dialect  dialect.Dialect
	location string
}

// FilePath returns the file behind a SQLite location. It reports false for
// server URLs and in-memory databases.
func FilePath(location string) (string, bool) {
	if dialect.ForLocation(location).Name() != dialect.SQLite {
		return "", false
	}
	path := strings.TrimPrefix(location, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return "", false
	}
	return path, true
}

// Provisioned reports whether storage may already exist at location without
// touching it. Only a missing SQLite file is known not to be provisioned.
func Provisioned(location string) (bool, error) {
	path, ok := FilePath(location)
	if !ok {
		return true, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &StorageError{Op: "stat", Location: location, Err: err}
	}
	return true, nil
}

// Open opens the storage at location, creating parent directories for file
// locations, and verifies the connection.
func Open(ctx context.Context, location string) (*DB, error) {
	if strings.TrimSpace(location) == "" {
		return nil, &StorageError{Op: "open", Location: location, Err: errors.New("empty location")}
	}

	d := dialect.ForLocation(location)

	if path, ok := FilePath(location); ok {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &StorageError{Op: "create directory for", Location: location, Err: err}
			}
		}
	}

	sqlDB, err := sql.Open(d.DriverName(), d.DSN(location))
	if err != nil {
		return nil, &StorageError{Op: "open", Location: location, Err: err}
	}

	if d.Name() == dialect.SQLite {
		// A single connection keeps the per-connection pragmas and in-memory
		// databases alive for the handle's whole lifetime.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	// Test the connection
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &StorageError{Op: "connect to", Location: location, Err: err}
	}

	return &DB{
		sqlDB:    sqlDB,
		dialect:  d,
		location: location,
	}, nil
}

// Location returns the location the DB was opened from.
func (db *DB) Location() string {
	return db.location
}

// Dialect implements Querier.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

// SQL returns the underlying *sql.DB.
func (db *DB) SQL() *sql.DB {
	return db.sqlDB
}

// Close closes the database handle.
func (db *DB) Close() error {
	if db.sqlDB == nil {
		return nil
	}
	if err := db.sqlDB.Close(); err != nil {
		return &StorageError{Op: "close", Location: db.location, Err: err}
	}
	return nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.sqlDB.PingContext(ctx)
}

// Begin starts a new transaction.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StorageError{Op: "begin transaction on", Location: db.location, Err: err}
	}
	return &Tx{tx: tx, dialect: db.dialect}, nil
}

// Exec executes a query without returning any rows.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := db.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &QueryError{Query: query, Err: err}
	}
	return rowsAffected(result), nil
}

// Query executes a query that returns rows.
func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return rows, nil
}

// Tx is a transaction on a DB.
type Tx struct {
	tx      *sql.Tx
	dialect dialect.Dialect
	done    bool
}

// Dialect implements Querier.
func (t *Tx) Dialect() dialect.Dialect {
	return t.dialect
}

// Exec executes a query inside the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if t.done {
		return 0, ErrTransactionClosed
	}
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &QueryError{Query: query, Err: err}
	}
	return rowsAffected(result), nil
}

// Query executes a row-returning query inside the transaction.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if t.done {
		return nil, ErrTransactionClosed
	}
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return rows, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTransactionClosed
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func rowsAffected(result sql.Result) int64 {
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
