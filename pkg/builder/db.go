package builder

import (
	"fmt"
	"reflect"

	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// DB binds a registry to a runtime.Querier (a *runtime.DB or a *runtime.Tx)
// and provides query builder methods.
type DB struct {
	q   runtime.Querier
	reg *registry.Registry
}

// New creates a new query builder DB.
func New(q runtime.Querier, reg *registry.Registry) *DB {
	return &DB{q: q, reg: reg}
}

// Querier returns the underlying runtime.Querier.
func (d *DB) Querier() runtime.Querier {
	return d.q
}

// Registry returns the schema the builder resolves tables from.
func (d *DB) Registry() *registry.Registry {
	return d.reg
}

// Dialect returns the dialect of the underlying storage.
func (d *DB) Dialect() dialect.Dialect {
	return d.q.Dialect()
}

func (d *DB) quote(name string) string {
	return d.q.Dialect().QuoteIdent(name)
}

func tableFor[T any](d *DB) (*schema.TableMetadata, error) {
	return d.reg.Get(reflect.TypeFor[T]())
}

// Select creates a new type-safe SELECT query.
// Usage: builder.Select[User](db).Where(...).All(ctx)
func Select[T any](d *DB) *SelectQuery[T] {
	table, err := tableFor[T](d)
	return &SelectQuery[T]{
		db:      d,
		table:   table,
		err:     err,
		where:   make([]Condition, 0),
		orderBy: make([]OrderBy, 0),
	}
}

// InsertInto creates a single-row INSERT into the named table.
// Usage: builder.InsertInto(db, "users").Values(row).Exec(ctx)
func InsertInto(d *DB, tableName string) *InsertQuery {
	table, err := d.reg.GetByName(tableName)
	return &InsertQuery{
		db:    d,
		table: table,
		err:   err,
		index: -1,
	}
}

// Update creates a new type-safe UPDATE query.
// Usage: builder.Update[User](db).Set("name", "John").Where(...).Exec(ctx)
func Update[T any](d *DB) *UpdateQuery[T] {
	table, err := tableFor[T](d)
	return &UpdateQuery[T]{
		db:    d,
		table: table,
		err:   err,
		sets:  make([]setClause, 0),
		where: make([]Condition, 0),
	}
}

// Delete creates a new type-safe DELETE query.
// Usage: builder.Delete[User](db).Where(...).Exec(ctx)
func Delete[T any](d *DB) *DeleteQuery[T] {
	table, err := tableFor[T](d)
	return &DeleteQuery[T]{
		db:    d,
		table: table,
		err:   err,
		where: make([]Condition, 0),
	}
}

// checkTable reports a missing table the way every query does.
func checkTable(table *schema.TableMetadata, err error) error {
	if err != nil {
		return fmt.Errorf("table metadata not available: %w", err)
	}
	if table == nil {
		return fmt.Errorf("table metadata not available")
	}
	return nil
}
