package fixture

import (
	"fmt"
	"time"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// Prepare checks every row of a batch against its table and returns rows
// holding canonical values ready for insertion:
//
//   - unknown columns are rejected
//   - values are coerced to the column type and checked against enumerations
//     and varchar lengths
//   - absent columns with a default rule get it evaluated for that row, with
//     the instant read from clock (time.Now when nil)
//   - absent or null required columns are rejected, except an auto-increment
//     identifier which storage assigns
//   - an identifier supplied twice within the batch is rejected
//
// Failures are *runtime.ConstraintViolation values carrying the row index.
func Prepare(table *schema.TableMetadata, batch Batch, clock func() time.Time) ([]Row, error) {
	if batch.Table != table.Name {
		return nil, fmt.Errorf("batch for %s prepared against table %s", batch.Table, table.Name)
	}

	if clock == nil {
		clock = time.Now
	}

	pk := table.PrimaryKeyColumn()
	seen := make(map[any]int)

	prepared := make([]Row, len(batch.Rows))
	for i, row := range batch.Rows {
		out, err := prepareRow(table, row, i, clock)
		if err != nil {
			return nil, err
		}

		if pk != nil {
			if id, ok := out[pk.Name]; ok {
				if first, dup := seen[id]; dup {
					return nil, &runtime.ConstraintViolation{
						Kind:    runtime.DuplicateKey,
						Table:   table.Name,
						Column:  pk.Name,
						Row:     i,
						Message: fmt.Sprintf("identifier %v already used by row %d", id, first),
					}
				}
				seen[id] = i
			}
		}

		prepared[i] = out
	}

	return prepared, nil
}

func prepareRow(table *schema.TableMetadata, row Row, index int, clock func() time.Time) (Row, error) {
	violation := func(kind runtime.ViolationKind, column, msg string) error {
		return &runtime.ConstraintViolation{
			Kind:    kind,
			Table:   table.Name,
			Column:  column,
			Row:     index,
			Message: msg,
		}
	}

	for column := range row {
		if table.GetColumnByName(column) == nil {
			return nil, violation(runtime.UnknownColumn, column, "no such column")
		}
	}

	now := clock()
	out := make(Row, len(table.Columns))
	for i := range table.Columns {
		col := &table.Columns[i]

		raw, present := row[col.Name]
		if !present && col.Default != nil {
			raw, present = col.Default.Evaluate(now), true
		}

		if !present || raw == nil {
			switch {
			case col.AutoIncrement:
				continue
			case !col.Nullable:
				return nil, violation(runtime.NotNull, col.Name, "value required")
			case present:
				out[col.Name] = nil
			}
			continue
		}

		v, err := col.Coerce(raw)
		if err == nil {
			err = col.Validate(v)
		}
		if err != nil {
			if cv, ok := err.(*runtime.ConstraintViolation); ok {
				cv.Table = table.Name
				cv.Row = index
			}
			return nil, err
		}
		out[col.Name] = v
	}

	return out, nil
}
