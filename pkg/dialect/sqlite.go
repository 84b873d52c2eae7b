package dialect

import "strings"

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

// Name implements Dialect.
func (SQLiteDialect) Name() Name { return SQLite }

// DriverName implements Dialect.
func (SQLiteDialect) DriverName() string { return "sqlite" }

// DSN enables foreign key enforcement and a busy timeout on every
// connection, and stores times in SQLite's own text format.
func (SQLiteDialect) DSN(location string) string {
	if location == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"
	}
	dsn := location
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Placeholder implements Dialect.
func (SQLiteDialect) Placeholder(_ int) string { return "?" }

// QuoteIdent implements Dialect.
func (SQLiteDialect) QuoteIdent(name string) string { return quoteIdent(name) }
