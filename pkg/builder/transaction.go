package builder

import (
	"context"
	"fmt"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Transaction runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics. Called on a
// DB that is already bound to a transaction, fn joins it.
//
// Usage:
//
//	err := db.Transaction(ctx, func(tx *builder.DB) error {
//	    _, err := builder.InsertInto(tx, "users").Values(row).Exec(ctx)
//	    return err
//	})
func (d *DB) Transaction(ctx context.Context, fn func(tx *DB) error) (err error) {
	beginner, ok := d.q.(runtime.Beginner)
	if !ok {
		return fn(d)
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(New(tx, d.reg)); err != nil {
		return err
	}

	return tx.Commit()
}

// InTransaction reports whether the DB is bound to a transaction.
func (d *DB) InTransaction() bool {
	_, ok := d.q.(*runtime.Tx)
	return ok
}
