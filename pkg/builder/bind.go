package builder

import (
	"errors"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// bindValue coerces v to the column's canonical type and checks its domain,
// producing a value every supported driver accepts.
func bindValue(table *schema.TableMetadata, column string, v any, row int) (*schema.ColumnMetadata, any, error) {
	col := table.GetColumnByName(column)
	if col == nil {
		return nil, nil, &runtime.ConstraintViolation{
			Kind:    runtime.UnknownColumn,
			Table:   table.Name,
			Column:  column,
			Row:     row,
			Message: "no such column",
		}
	}

	out, err := col.Coerce(v)
	if err == nil {
		err = col.Validate(out)
	}
	if err != nil {
		var cv *runtime.ConstraintViolation
		if errors.As(err, &cv) {
			cv.Table = table.Name
			cv.Row = row
		}
		return col, nil, err
	}
	return col, out, nil
}
