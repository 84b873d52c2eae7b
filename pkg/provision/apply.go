package provision

import (
	"context"
	"fmt"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// Report lists what Apply did, in dependency order.
type Report struct {
	Created  []string
	Existing []string
}

// Apply creates every declared table that is missing, parents first, inside
// one transaction. Tables that already exist are left untouched, so running
// Apply twice is a no-op the second time.
func Apply(ctx context.Context, db *builder.DB) (*Report, error) {
	tables, err := db.Registry().Order()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	err = db.Transaction(ctx, func(tx *builder.DB) error {
		existing, err := NewIntrospector(tx.Querier()).Existing(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}

		planner := NewPlanner(tx.Dialect())
		for _, table := range tables {
			if existing[table.Name] {
				report.Existing = append(report.Existing, table.Name)
				continue
			}
			if _, err := tx.Querier().Exec(ctx, planner.CreateTable(table)); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.Name, err)
			}
			report.Created = append(report.Created, table.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// SyncIdentity moves a PostgreSQL identity sequence past the largest stored
// identifier, so rows inserted without an id after rows that supplied one do
// not collide. It is a no-op on SQLite, whose rowid already tracks the maximum.
func SyncIdentity(ctx context.Context, db *builder.DB, table *schema.TableMetadata) error {
	if db.Dialect().Name() != dialect.Postgres {
		return nil
	}

	pk := table.PrimaryKeyColumn()
	if pk == nil || !pk.AutoIncrement {
		return nil
	}

	d := db.Dialect()
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence(%s, %s), COALESCE(MAX(%s), 0) + 1, false) FROM %s",
		dialect.QuoteLiteral(d.QuoteIdent(table.Name)),
		dialect.QuoteLiteral(pk.Name),
		d.QuoteIdent(pk.Name),
		d.QuoteIdent(table.Name),
	)

	rows, err := db.Querier().Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to sync identity of %s: %w", table.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		// setval returns the new value; nothing to read.
	}
	return rows.Err()
}

// Script renders the DDL for every declared table in dialect d.
func Script(reg *registry.Registry, d dialect.Dialect) (string, error) {
	return NewPlanner(d).Script(reg)
}
