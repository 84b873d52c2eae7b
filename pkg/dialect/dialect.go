// Package dialect describes the SQL flavours a storage location can speak.
package dialect

import (
	"fmt"
	"strings"
)

// Name identifies a dialect.
type Name string

const (
	// SQLite stores each schema in a single file.
	SQLite Name = "sqlite"
	// Postgres talks to a PostgreSQL server.
	Postgres Name = "postgres"
)

// Dialect captures the syntax differences the builder and planner care about.
type Dialect interface {
	// Name returns the dialect identifier.
	Name() Name
	// DriverName returns the database/sql driver name.
	DriverName() string
	// DSN turns a storage location into a driver connection string.
	DSN(location string) string
	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder(n int) string
	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string
}

// ForLocation picks the dialect for a storage location.
// postgres:// and postgresql:// URLs select PostgreSQL, anything else is a SQLite file path.
func ForLocation(location string) Dialect {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return PostgresDialect{}
	}
	return SQLiteDialect{}
}

// ByName returns the dialect registered under name.
func ByName(name string) (Dialect, error) {
	switch Name(strings.ToLower(name)) {
	case SQLite, "sqlite3":
		return SQLiteDialect{}, nil
	case Postgres, "postgresql", "pg":
		return PostgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}

// quoteIdent quotes an identifier with double quotes, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral renders a string as a single-quoted SQL literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
