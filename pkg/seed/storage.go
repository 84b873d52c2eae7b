// Package seed provisions storage from a schema and loads fixture batches
// into it.
package seed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/provision"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// DefineSchema validates a set of tagged structs and returns the schema
// handle. It fails with *runtime.SchemaError when a foreign key names an
// undeclared table or column, two tables share a name, or a tag is malformed.
func DefineSchema(models ...any) (*registry.Registry, error) {
	return registry.Define(models...)
}

// Storage is an open store holding the tables of one schema. It owns its
// connection until Close.
type Storage struct {
	db     *runtime.DB
	qb     *builder.DB
	opts   options
	report *provision.Report

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// CreateStorage opens or creates the store at location and creates every
// missing table, parents first, in one transaction. Existing tables are left
// untouched. An unreachable location fails with *runtime.StorageError.
func CreateStorage(ctx context.Context, reg *registry.Registry, location string, opts ...Option) (*Storage, error) {
	if reg == nil {
		return nil, &runtime.SchemaError{Message: "no schema"}
	}

	o := newOptions(opts)

	db, err := runtime.Open(ctx, location)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		db:   db,
		qb:   builder.New(db, reg),
		opts: o,
	}

	report, err := provision.Apply(ctx, s.qb)
	if err != nil {
		_ = db.Close()
		return nil, &runtime.StorageError{Op: "create tables in", Location: location, Err: err}
	}
	s.report = report

	for _, name := range report.Created {
		o.logger.Info("created table", "table", name, "location", location)
	}
	if len(report.Existing) > 0 {
		o.logger.Debug("tables already present", "tables", report.Existing, "location", location)
	}

	return s, nil
}

// Location returns where the storage lives.
func (s *Storage) Location() string {
	return s.db.Location()
}

// Registry returns the schema the storage was created from.
func (s *Storage) Registry() *registry.Registry {
	return s.qb.Registry()
}

// DB returns the query builder bound to the storage.
func (s *Storage) DB() *builder.DB {
	return s.qb
}

// Report returns the tables created and found by CreateStorage.
func (s *Storage) Report() provision.Report {
	return *s.report
}

// LoadFixtures inserts each batch into its table in the order given. Each
// batch is one transaction: a batch with any bad row fails with
// *runtime.ConstraintViolation and leaves nothing behind, while earlier
// batches stay committed. The caller orders batches so that parents precede
// children.
func (s *Storage) LoadFixtures(ctx context.Context, batches ...fixture.Batch) error {
	if s.closed.Load() {
		return runtime.ErrClosed
	}

	for i, batch := range batches {
		loaded, skipped, err := s.loadBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("batch %d (%s): %w", i, batch.Table, err)
		}

		if skipped {
			s.opts.logger.Info("skipped populated table", "table", batch.Table, "location", s.Location())
		} else {
			s.opts.logger.Info("loaded batch", "table", batch.Table, "rows", loaded, "location", s.Location())
		}

		if s.opts.observer != nil {
			s.opts.observer(Progress{
				Index:   i,
				Total:   len(batches),
				Table:   batch.Table,
				Rows:    loaded,
				Skipped: skipped,
			})
		}
	}

	return nil
}

func (s *Storage) loadBatch(ctx context.Context, batch fixture.Batch) (int, bool, error) {
	table, err := s.Registry().GetByName(batch.Table)
	if err != nil {
		return 0, false, &runtime.SchemaError{Table: batch.Table, Message: "table not declared"}
	}

	if s.opts.skipPopulated {
		n, err := s.Count(ctx, table.Name)
		if err != nil {
			return 0, false, err
		}
		if n > 0 {
			return 0, true, nil
		}
	}

	rows, err := fixture.Prepare(table, batch, s.opts.clock)
	if err != nil {
		return 0, false, err
	}

	pk := table.PrimaryKeyColumn()
	err = s.qb.Transaction(ctx, func(tx *builder.DB) error {
		suppliedIDs := false
		for i, row := range rows {
			if _, err := builder.InsertInto(tx, table.Name).Values(row).AtRow(i).Exec(ctx); err != nil {
				return err
			}
			if pk != nil {
				if _, ok := row[pk.Name]; ok {
					suppliedIDs = true
				}
			}
		}
		if suppliedIDs {
			return provision.SyncIdentity(ctx, tx, table)
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return len(rows), false, nil
}

// Count returns the number of rows in a declared table.
func (s *Storage) Count(ctx context.Context, table string) (int64, error) {
	if s.closed.Load() {
		return 0, runtime.ErrClosed
	}
	if !s.Registry().HasTable(table) {
		return 0, &runtime.SchemaError{Table: table, Message: "table not declared"}
	}
	return builder.CountTable(ctx, s.qb, table)
}

// Status reports every declared table with its row count.
func (s *Storage) Status(ctx context.Context) ([]provision.TableStatus, error) {
	if s.closed.Load() {
		return nil, runtime.ErrClosed
	}
	return provision.NewIntrospector(s.db).Status(ctx, s.Registry())
}

// Close releases the connection. Calling Close more than once is safe; later
// calls return the result of the first.
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.db.Close()
		s.opts.logger.Debug("closed storage", "location", s.Location())
	})
	return s.closeErr
}

// With creates the storage, runs fn and closes the storage on every exit
// path, including errors and panics. A close failure is reported only when
// fn succeeded.
func With(ctx context.Context, reg *registry.Registry, location string, fn func(*Storage) error, opts ...Option) (err error) {
	s, err := CreateStorage(ctx, reg, location, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(s)
}
