package provision

import (
	"context"
	"fmt"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Introspector inspects what already exists in a store.
type Introspector struct {
	q runtime.Querier
}

// NewIntrospector creates a new introspector.
func NewIntrospector(q runtime.Querier) *Introspector {
	return &Introspector{q: q}
}

// TableStatus describes one declared table as found in storage.
type TableStatus struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
	Rows   int64  `json:"rows"`
}

// TableNames returns the names of the user tables present in storage.
func (i *Introspector) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	if i.q.Dialect().Name() == dialect.Postgres {
		query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	}

	rows, err := i.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// Existing returns the set of table names present in storage.
func (i *Introspector) Existing(ctx context.Context) (map[string]bool, error) {
	names, err := i.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}
	return existing, nil
}

// RowCount returns the number of rows in a table.
func (i *Introspector) RowCount(ctx context.Context, table string) (int64, error) {
	return builder.CountTable(ctx, builder.New(i.q, nil), table)
}

// Status reports, for every declared table in dependency order, whether it
// exists and how many rows it holds.
func (i *Introspector) Status(ctx context.Context, reg *registry.Registry) ([]TableStatus, error) {
	tables, err := reg.Order()
	if err != nil {
		return nil, err
	}

	existing, err := i.Existing(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	status := make([]TableStatus, len(tables))
	for idx, table := range tables {
		status[idx] = TableStatus{Name: table.Name, Exists: existing[table.Name]}
		if !status[idx].Exists {
			continue
		}
		n, err := i.RowCount(ctx, table.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", table.Name, err)
		}
		status[idx].Rows = n
	}

	return status, nil
}
