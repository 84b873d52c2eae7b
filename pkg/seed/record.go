package seed

import (
	"context"
	"reflect"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// Mutate fetches the first record of T whose column equals value, applies
// update and persists the changed columns together with any onUpdate(now)
// columns. It returns the stored record, or nil when nothing matches; in
// that case storage is unchanged.
func Mutate[T any](ctx context.Context, s *Storage, column string, value any, update func(*T)) (*T, error) {
	if s.closed.Load() {
		return nil, runtime.ErrClosed
	}

	table, pk, err := recordTable[T](s)
	if err != nil {
		return nil, err
	}

	var result *T
	err = s.qb.Transaction(ctx, func(tx *builder.DB) error {
		record, err := builder.Select[T](tx).Where(builder.Eq(column, value)).OrderByAsc(pk.Name).FirstOrNil(ctx)
		if err != nil || record == nil {
			return err
		}

		before, err := builder.StructValues(record, table, false)
		if err != nil {
			return err
		}
		id := before[pk.Name]

		if update != nil {
			update(record)
		}

		after, err := builder.StructValues(record, table, false)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(after[pk.Name], id) {
			return &runtime.SchemaError{Table: table.Name, Column: pk.Name, Message: "identifier cannot be changed"}
		}

		query := builder.Update[T](tx)
		changed := 0
		for _, col := range table.Columns {
			if col.PrimaryKey {
				continue
			}
			if !reflect.DeepEqual(before[col.Name], after[col.Name]) {
				query.Set(col.Name, after[col.Name])
				changed++
			}
		}

		if changed > 0 {
			now := s.opts.clock()
			for _, col := range table.Columns {
				if col.UpdateNow && reflect.DeepEqual(before[col.Name], after[col.Name]) {
					query.Set(col.Name, now)
				}
			}

			if _, err := query.Where(builder.Eq(pk.Name, id)).Exec(ctx); err != nil {
				return err
			}
		}

		result, err = builder.Select[T](tx).Where(builder.Eq(pk.Name, id)).First(ctx)
		if err != nil {
			return err
		}

		s.opts.logger.Info("updated record", "table", table.Name, pk.Name, id, "columns", changed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Remove deletes the first record of T whose column equals value and
// reports whether one was found.
func Remove[T any](ctx context.Context, s *Storage, column string, value any) (bool, error) {
	if s.closed.Load() {
		return false, runtime.ErrClosed
	}

	table, pk, err := recordTable[T](s)
	if err != nil {
		return false, err
	}

	removed := false
	err = s.qb.Transaction(ctx, func(tx *builder.DB) error {
		record, err := builder.Select[T](tx).Where(builder.Eq(column, value)).OrderByAsc(pk.Name).FirstOrNil(ctx)
		if err != nil || record == nil {
			return err
		}

		values, err := builder.StructValues(record, table, false)
		if err != nil {
			return err
		}
		id := values[pk.Name]

		n, err := builder.Delete[T](tx).Where(builder.Eq(pk.Name, id)).Exec(ctx)
		if err != nil {
			return err
		}
		removed = n == 1

		s.opts.logger.Info("removed record", "table", table.Name, pk.Name, id)
		return nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// Find returns every record of T ordered by identifier.
func Find[T any](ctx context.Context, s *Storage) ([]T, error) {
	if s.closed.Load() {
		return nil, runtime.ErrClosed
	}

	_, pk, err := recordTable[T](s)
	if err != nil {
		return nil, err
	}

	return builder.Select[T](s.qb).OrderByAsc(pk.Name).All(ctx)
}

func recordTable[T any](s *Storage) (*schema.TableMetadata, *schema.ColumnMetadata, error) {
	table, err := s.Registry().Get(reflect.TypeFor[T]())
	if err != nil {
		return nil, nil, &runtime.SchemaError{Message: err.Error(), Err: runtime.ErrInvalidModel}
	}

	pk := table.PrimaryKeyColumn()
	if pk == nil {
		return nil, nil, &runtime.SchemaError{Table: table.Name, Message: "single-column identifier required", Err: runtime.ErrNoPrimaryKey}
	}

	return table, pk, nil
}
