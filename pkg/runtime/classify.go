package runtime

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// EnumConstraintSuffix marks CHECK constraints generated for enumerations.
const EnumConstraintSuffix = "_enum"

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
	pgDatetimeOverflow    = "22008"
	pgNumericOutOfRange   = "22003"
)

// Classify converts a driver error raised while writing to table into a
// *ConstraintViolation. Errors that are not integrity failures are returned as-is.
func Classify(err error, table string, row int) error {
	if err == nil {
		return nil
	}

	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr, err, table, row)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if kind, ok := sqliteKind(sqliteErr.Code()); ok {
			return newViolation(kind, table, row, sqliteErr.Error(), err)
		}
	}

	// Some wrappers flatten the driver error into text; fall back to SQLite's messages.
	if kind, ok := sqliteKindFromMessage(err.Error()); ok {
		return newViolation(kind, table, row, err.Error(), err)
	}

	return err
}

func classifyPostgres(pgErr *pgconn.PgError, err error, table string, row int) error {
	var kind ViolationKind
	switch pgErr.Code {
	case pgUniqueViolation:
		kind = DuplicateKey
	case pgForeignKeyViolation:
		kind = ForeignKey
	case pgNotNullViolation:
		kind = NotNull
	case pgCheckViolation:
		kind = Check
		if strings.HasSuffix(pgErr.ConstraintName, EnumConstraintSuffix) {
			kind = EnumDomain
		}
	case pgInvalidText, pgDatetimeOverflow, pgNumericOutOfRange:
		kind = TypeMismatch
	default:
		return err
	}

	if pgErr.TableName != "" {
		table = pgErr.TableName
	}
	return &ConstraintViolation{
		Kind:    kind,
		Table:   table,
		Column:  pgErr.ColumnName,
		Row:     row,
		Message: pgErr.Message,
		Err:     err,
	}
}

func sqliteKind(code int) (ViolationKind, bool) {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_ROWID:
		return DuplicateKey, true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKey, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNull, true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return Check, true
	case sqlite3.SQLITE_MISMATCH:
		return TypeMismatch, true
	}
	return "", false
}

func sqliteKindFromMessage(msg string) (ViolationKind, bool) {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return DuplicateKey, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKey, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNull, true
	case strings.Contains(msg, "CHECK constraint failed"):
		return Check, true
	case strings.Contains(msg, "datatype mismatch"):
		return TypeMismatch, true
	}
	return "", false
}

// newViolation builds a violation from a SQLite message such as
// "NOT NULL constraint failed: users.email" or "CHECK constraint failed: chk_users_role_enum".
func newViolation(kind ViolationKind, table string, row int, msg string, err error) *ConstraintViolation {
	cv := &ConstraintViolation{
		Kind:    kind,
		Table:   table,
		Row:     row,
		Message: msg,
		Err:     err,
	}

	idx := strings.LastIndex(msg, "constraint failed: ")
	if idx < 0 {
		return cv
	}
	detail := strings.TrimSpace(msg[idx+len("constraint failed: "):])
	if i := strings.IndexAny(detail, " ,)"); i >= 0 {
		detail = detail[:i]
	}

	if kind == Check {
		if strings.HasSuffix(detail, EnumConstraintSuffix) {
			cv.Kind = EnumDomain
		}
		return cv
	}

	if tbl, col, ok := strings.Cut(detail, "."); ok {
		cv.Table = tbl
		cv.Column = col
	}
	return cv
}
