// Package schema describes tables as metadata parsed from tagged Go structs.
package schema

import (
	"fmt"
	"reflect"
	"time"
)

// Type is the semantic type of a column, independent of any SQL dialect.
type Type string

const (
	Integer   Type = "integer"
	Text      Type = "text"
	Varchar   Type = "varchar"
	Numeric   Type = "numeric"
	Float     Type = "float"
	Boolean   Type = "boolean"
	Timestamp Type = "timestamp"
	Date      Type = "date"
	Enum      Type = "enum"
)

// IsTemporal reports whether values of t are points in time.
func (t Type) IsTemporal() bool {
	return t == Timestamp || t == Date
}

// ReferenceAction is the action taken on a child row when its parent is deleted.
type ReferenceAction string

const (
	NoAction   ReferenceAction = "NO ACTION"
	Cascade    ReferenceAction = "CASCADE"
	Restrict   ReferenceAction = "RESTRICT"
	SetNull    ReferenceAction = "SET NULL"
	SetDefault ReferenceAction = "SET DEFAULT"
)

// DefaultValue is a default-value rule, evaluated for each row at insert time.
type DefaultValue struct {
	Now     bool   // current instant from the loader's clock
	Literal string // raw literal, coerced to the column type
}

// Evaluate returns the default for a row inserted at now.
func (d *DefaultValue) Evaluate(now time.Time) any {
	if d.Now {
		return now
	}
	return d.Literal
}

// String renders the rule the way it is written in a tag.
func (d *DefaultValue) String() string {
	if d.Now {
		return "now"
	}
	return d.Literal
}

// ColumnMetadata describes one column of a table.
type ColumnMetadata struct {
	Name          string
	GoField       string
	GoType        reflect.Type
	Position      int // struct field index
	Type          Type
	Length        int // varchar(n)
	Precision     int // numeric(p,s)
	Scale         int
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	EnumValues    []string
	Default       *DefaultValue
	UpdateNow     bool // refreshed with the current instant on every update
}

// SQLType renders the semantic type with its parameters, e.g. varchar(255).
func (c *ColumnMetadata) SQLType() string {
	switch c.Type {
	case Varchar:
		return fmt.Sprintf("varchar(%d)", c.Length)
	case Numeric:
		return fmt.Sprintf("numeric(%d,%d)", c.Precision, c.Scale)
	default:
		return string(c.Type)
	}
}

// PrimaryKeyMetadata describes a table's primary key.
type PrimaryKeyMetadata struct {
	Name    string
	Columns []string
}

// ForeignKeyMetadata describes a many-to-one reference from Column to
// ReferencedTable.ReferencedColumn.
type ForeignKeyMetadata struct {
	Name             string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
	OnDelete         ReferenceAction
}

// TableMetadata describes one table.
type TableMetadata struct {
	Name        string
	GoType      reflect.Type
	Columns     []ColumnMetadata
	PrimaryKey  *PrimaryKeyMetadata
	ForeignKeys []ForeignKeyMetadata
}

// GetColumnByName returns the named column or nil.
func (t *TableMetadata) GetColumnByName(name string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// GetColumnByField returns the column mapped to the named struct field or nil.
func (t *TableMetadata) GetColumnByField(field string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].GoField == field {
			return &t.Columns[i]
		}
	}
	return nil
}

// PrimaryKeyColumn returns the identifier column, or nil when none is declared.
func (t *TableMetadata) PrimaryKeyColumn() *ColumnMetadata {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) != 1 {
		return nil
	}
	return t.GetColumnByName(t.PrimaryKey.Columns[0])
}

// ColumnNames returns column names in declaration order.
func (t *TableMetadata) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ReferencedTables returns the distinct tables referenced by foreign keys,
// in declaration order.
func (t *TableMetadata) ReferencedTables() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, fk := range t.ForeignKeys {
		if !seen[fk.ReferencedTable] {
			seen[fk.ReferencedTable] = true
			refs = append(refs, fk.ReferencedTable)
		}
	}
	return refs
}
