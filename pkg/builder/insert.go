package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Values sets the row to insert as a column → value map. Columns left out
// take their storage default.
func (q *InsertQuery) Values(row map[string]any) *InsertQuery {
	q.row = row
	return q
}

// AtRow records the row's position in its batch for error reporting.
func (q *InsertQuery) AtRow(index int) *InsertQuery {
	q.index = index
	return q
}

// ToSQL generates the INSERT SQL and arguments. Columns are emitted in
// declaration order.
func (q *InsertQuery) ToSQL() (string, []any, error) {
	if err := checkTable(q.table, q.err); err != nil {
		return "", nil, err
	}

	for column := range q.row {
		if q.table.GetColumnByName(column) == nil {
			return "", nil, &runtime.ConstraintViolation{
				Kind:    runtime.UnknownColumn,
				Table:   q.table.Name,
				Column:  column,
				Row:     q.index,
				Message: "no such column",
			}
		}
	}

	d := q.db.Dialect()
	var sql strings.Builder
	var args []any

	sql.WriteString("INSERT INTO ")
	sql.WriteString(d.QuoteIdent(q.table.Name))

	columns := make([]string, 0, len(q.row))
	placeholders := make([]string, 0, len(q.row))
	for _, col := range q.table.Columns {
		value, ok := q.row[col.Name]
		if !ok {
			continue
		}
		_, val, err := bindValue(q.table, col.Name, value, q.index)
		if err != nil {
			return "", nil, err
		}
		columns = append(columns, d.QuoteIdent(col.Name))
		args = append(args, val)
		placeholders = append(placeholders, d.Placeholder(len(args)))
	}

	if len(columns) == 0 {
		sql.WriteString(" DEFAULT VALUES")
		return sql.String(), nil, nil
	}

	fmt.Fprintf(&sql, " (%s) VALUES (%s)", strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	return sql.String(), args, nil
}

// Exec executes the INSERT query and returns the number of inserted rows.
// Driver failures are classified into *runtime.ConstraintViolation.
func (q *InsertQuery) Exec(ctx context.Context) (int64, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return 0, err
	}

	n, err := q.db.q.Exec(ctx, sql, args...)
	if err != nil {
		name := ""
		if q.table != nil {
			name = q.table.Name
		}
		return 0, runtime.Classify(err, name, q.index)
	}
	return n, nil
}
