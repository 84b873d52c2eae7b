package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Set sets a column value for the UPDATE. Setting the same column twice
// keeps the last value.
func (q *UpdateQuery[T]) Set(column string, value any) *UpdateQuery[T] {
	for i := range q.sets {
		if q.sets[i].column == column {
			q.sets[i].value = value
			return q
		}
	}
	q.sets = append(q.sets, setClause{column: column, value: value})
	return q
}

// SetMap sets multiple column values from a map, in table column order.
func (q *UpdateQuery[T]) SetMap(values map[string]any) *UpdateQuery[T] {
	if q.table == nil {
		return q
	}
	for _, col := range q.table.Columns {
		if val, ok := values[col.Name]; ok {
			q.Set(col.Name, val)
		}
	}
	for col := range values {
		if q.table.GetColumnByName(col) == nil {
			q.Set(col, values[col])
		}
	}
	return q
}

// Where adds a WHERE condition.
func (q *UpdateQuery[T]) Where(condition Condition) *UpdateQuery[T] {
	q.where = append(q.where, condition)
	return q
}

// And adds an AND condition.
func (q *UpdateQuery[T]) And(condition Condition) *UpdateQuery[T] {
	condition.Logic = LogicAnd
	return q.Where(condition)
}

// Or adds an OR condition.
func (q *UpdateQuery[T]) Or(condition Condition) *UpdateQuery[T] {
	condition.Logic = LogicOr
	return q.Where(condition)
}

// ToSQL generates the UPDATE SQL and arguments.
func (q *UpdateQuery[T]) ToSQL() (string, []any, error) {
	if err := checkTable(q.table, q.err); err != nil {
		return "", nil, err
	}

	if len(q.sets) == 0 {
		return "", nil, fmt.Errorf("no columns to update")
	}

	d := q.db.Dialect()
	var sql strings.Builder
	var args []any
	paramNum := 1

	sql.WriteString("UPDATE ")
	sql.WriteString(d.QuoteIdent(q.table.Name))
	sql.WriteString(" SET ")

	// SET clause
	setClauses := make([]string, 0, len(q.sets))
	for _, set := range q.sets {
		col, val, err := bindValue(q.table, set.column, set.value, -1)
		if err != nil {
			return "", nil, err
		}
		if val == nil && !col.Nullable {
			return "", nil, &runtime.ConstraintViolation{
				Kind:    runtime.NotNull,
				Table:   q.table.Name,
				Column:  col.Name,
				Row:     -1,
				Message: "value required",
			}
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", d.QuoteIdent(col.Name), d.Placeholder(paramNum)))
		args = append(args, val)
		paramNum++
	}
	sql.WriteString(strings.Join(setClauses, ", "))

	// WHERE clause
	if len(q.where) > 0 {
		whereBuilder := NewWhereBuilderWithStart(d, paramNum)
		whereBuilder.Add(q.where...)
		whereSQL, whereArgs, err := whereBuilder.Build()
		if err != nil {
			return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
		}

		if whereSQL != "" {
			sql.WriteString(" ")
			sql.WriteString(whereSQL)
			args = append(args, whereArgs...)
		}
	}

	return sql.String(), args, nil
}

// Exec executes the UPDATE query and returns the number of affected rows.
func (q *UpdateQuery[T]) Exec(ctx context.Context) (int64, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return 0, err
	}

	n, err := q.db.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, runtime.Classify(err, q.table.Name, -1)
	}
	return n, nil
}
