package dialect

import "fmt"

// PostgresDialect targets PostgreSQL through pgx's database/sql driver.
type PostgresDialect struct{}

// Name implements Dialect.
func (PostgresDialect) Name() Name { return Postgres }

// DriverName implements Dialect.
func (PostgresDialect) DriverName() string { return "pgx" }

// DSN implements Dialect. PostgreSQL URLs are passed through unchanged.
func (PostgresDialect) DSN(location string) string { return location }

// Placeholder implements Dialect.
func (PostgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// QuoteIdent implements Dialect.
func (PostgresDialect) QuoteIdent(name string) string { return quoteIdent(name) }
