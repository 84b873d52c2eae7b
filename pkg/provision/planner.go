// Package provision turns a registry into physical tables.
package provision

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// PlannerOptions configures DDL generation.
type PlannerOptions struct {
	// IfNotExists adds IF NOT EXISTS to CREATE TABLE statements.
	// Default: true
	IfNotExists bool
}

// Planner generates CREATE TABLE statements for one dialect.
type Planner struct {
	dialect dialect.Dialect
	options PlannerOptions
}

// NewPlanner creates a planner with default options.
func NewPlanner(d dialect.Dialect) *Planner {
	return NewPlannerWithOptions(d, PlannerOptions{IfNotExists: true})
}

// NewPlannerWithOptions creates a planner with custom options.
func NewPlannerWithOptions(d dialect.Dialect, opts PlannerOptions) *Planner {
	return &Planner{dialect: d, options: opts}
}

// Plan returns one CREATE TABLE statement per table, parents first.
func (p *Planner) Plan(reg *registry.Registry) ([]string, error) {
	tables, err := reg.Order()
	if err != nil {
		return nil, err
	}

	statements := make([]string, len(tables))
	for i, table := range tables {
		statements[i] = p.CreateTable(table)
	}
	return statements, nil
}

// Script renders the whole schema as one SQL script.
func (p *Planner) Script(reg *registry.Registry) (string, error) {
	statements, err := p.Plan(reg)
	if err != nil {
		return "", err
	}
	return strings.Join(statements, "\n\n") + "\n", nil
}

// CreateTable generates a CREATE TABLE statement.
func (p *Planner) CreateTable(table *schema.TableMetadata) string {
	var parts []string

	for _, col := range table.Columns {
		parts = append(parts, "    "+p.columnDefinition(col))
	}

	for _, col := range table.Columns {
		if col.Type == schema.Enum {
			parts = append(parts, "    "+p.enumCheck(table.Name, col))
		}
	}

	for _, fk := range table.ForeignKeys {
		parts = append(parts, "    "+p.foreignKeyDefinition(fk))
	}

	createClause := "CREATE TABLE"
	if p.options.IfNotExists {
		createClause = "CREATE TABLE IF NOT EXISTS"
	}

	return fmt.Sprintf("%s %s (\n%s\n);", createClause, p.dialect.QuoteIdent(table.Name), strings.Join(parts, ",\n"))
}

// columnDefinition generates a column definition.
func (p *Planner) columnDefinition(col schema.ColumnMetadata) string {
	name := p.dialect.QuoteIdent(col.Name)

	if col.PrimaryKey {
		switch {
		case p.dialect.Name() == dialect.SQLite:
			// Integer primary keys alias the rowid and are assigned on insert.
			return name + " INTEGER PRIMARY KEY"
		case col.AutoIncrement:
			return name + " integer GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
		default:
			return name + " integer PRIMARY KEY"
		}
	}

	parts := []string{name, p.sqlType(col)}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if col.Default != nil {
		parts = append(parts, "DEFAULT", p.defaultExpression(col))
	}

	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

// sqlType maps a semantic type to the dialect's column type. SQLite keeps
// the DATE and TIMESTAMP declarations so the driver reads them back as times.
func (p *Planner) sqlType(col schema.ColumnMetadata) string {
	sqlite := p.dialect.Name() == dialect.SQLite

	switch col.Type {
	case schema.Integer:
		return "integer"
	case schema.Text, schema.Enum:
		return "text"
	case schema.Varchar, schema.Numeric:
		return col.SQLType()
	case schema.Float:
		if sqlite {
			return "real"
		}
		return "double precision"
	case schema.Boolean:
		return "boolean"
	case schema.Timestamp:
		if sqlite {
			return "TIMESTAMP"
		}
		return "timestamp with time zone"
	case schema.Date:
		if sqlite {
			return "DATE"
		}
		return "date"
	}
	return string(col.Type)
}

// defaultExpression renders a default rule as a SQL expression for rows
// written outside the loader.
func (p *Planner) defaultExpression(col schema.ColumnMetadata) string {
	sqlite := p.dialect.Name() == dialect.SQLite

	if col.Default.Now {
		switch {
		case col.Type == schema.Date:
			return "CURRENT_DATE"
		case sqlite:
			return "CURRENT_TIMESTAMP"
		default:
			return "now()"
		}
	}

	v, err := col.Coerce(col.Default.Literal)
	if err != nil {
		// Parse rejects such defaults; fall back to the raw text.
		return dialect.QuoteLiteral(col.Default.Literal)
	}

	switch x := v.(type) {
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%g", x)
	case decimal.Decimal:
		return x.StringFixed(int32(col.Scale))
	case bool:
		if sqlite {
			if x {
				return "1"
			}
			return "0"
		}
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if col.Type == schema.Date {
			return dialect.QuoteLiteral(x.Format(time.DateOnly))
		}
		return dialect.QuoteLiteral(x.Format("2006-01-02 15:04:05-07:00"))
	case string:
		return dialect.QuoteLiteral(x)
	}
	return dialect.QuoteLiteral(col.Default.Literal)
}

// enumCheck renders the CHECK constraint restricting an enumeration column.
// The constraint name ends in runtime.EnumConstraintSuffix so violations can
// be told apart from other CHECK failures.
func (p *Planner) enumCheck(tableName string, col schema.ColumnMetadata) string {
	values := make([]string, len(col.EnumValues))
	for i, v := range col.EnumValues {
		values[i] = dialect.QuoteLiteral(v)
	}

	name := fmt.Sprintf("chk_%s_%s%s", tableName, col.Name, runtime.EnumConstraintSuffix)
	return fmt.Sprintf("CONSTRAINT %s CHECK (%s IN (%s))",
		p.dialect.QuoteIdent(name), p.dialect.QuoteIdent(col.Name), strings.Join(values, ", "))
}

// foreignKeyDefinition generates a foreign key constraint.
func (p *Planner) foreignKeyDefinition(fk schema.ForeignKeyMetadata) string {
	parts := []string{
		fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s)", p.dialect.QuoteIdent(fk.Name), p.dialect.QuoteIdent(fk.Column)),
		fmt.Sprintf("REFERENCES %s (%s)", p.dialect.QuoteIdent(fk.ReferencedTable), p.dialect.QuoteIdent(fk.ReferencedColumn)),
	}

	if fk.OnDelete != schema.NoAction && fk.OnDelete != "" {
		parts = append(parts, "ON DELETE "+string(fk.OnDelete))
	}

	return strings.Join(parts, " ")
}
