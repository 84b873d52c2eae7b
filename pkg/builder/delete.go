package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Where adds a WHERE condition to the DELETE query.
func (q *DeleteQuery[T]) Where(condition Condition) *DeleteQuery[T] {
	q.where = append(q.where, condition)
	return q
}

// And adds an AND condition.
func (q *DeleteQuery[T]) And(condition Condition) *DeleteQuery[T] {
	condition.Logic = LogicAnd
	return q.Where(condition)
}

// Or adds an OR condition.
func (q *DeleteQuery[T]) Or(condition Condition) *DeleteQuery[T] {
	condition.Logic = LogicOr
	return q.Where(condition)
}

// ToSQL generates the DELETE SQL and arguments. A DELETE without conditions
// is refused.
func (q *DeleteQuery[T]) ToSQL() (string, []any, error) {
	if err := checkTable(q.table, q.err); err != nil {
		return "", nil, err
	}

	if len(q.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s without conditions", q.table.Name)
	}

	d := q.db.Dialect()
	var sql strings.Builder
	var args []any

	sql.WriteString("DELETE FROM ")
	sql.WriteString(d.QuoteIdent(q.table.Name))

	whereBuilder := NewWhereBuilder(d)
	whereBuilder.Add(q.where...)
	whereSQL, whereArgs, err := whereBuilder.Build()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
	}

	sql.WriteString(" ")
	sql.WriteString(whereSQL)
	args = append(args, whereArgs...)

	return sql.String(), args, nil
}

// Exec executes the DELETE query and returns the number of affected rows.
func (q *DeleteQuery[T]) Exec(ctx context.Context) (int64, error) {
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
