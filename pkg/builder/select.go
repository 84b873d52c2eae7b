package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Where adds a WHERE condition.
func (q *SelectQuery[T]) Where(condition Condition) *SelectQuery[T] {
	q.where = append(q.where, condition)
	return q
}

// And adds an AND condition (alias for Where).
func (q *SelectQuery[T]) And(condition Condition) *SelectQuery[T] {
	condition.Logic = LogicAnd
	return q.Where(condition)
}

// Or adds an OR condition.
func (q *SelectQuery[T]) Or(condition Condition) *SelectQuery[T] {
	condition.Logic = LogicOr
	return q.Where(condition)
}

// OrderBy adds an ORDER BY clause.
func (q *SelectQuery[T]) OrderBy(column string, direction OrderDirection) *SelectQuery[T] {
	q.orderBy = append(q.orderBy, OrderBy{
		Column:    column,
		Direction: direction,
	})
	return q
}

// OrderByAsc adds an ascending ORDER BY clause.
func (q *SelectQuery[T]) OrderByAsc(column string) *SelectQuery[T] {
	return q.OrderBy(column, Asc)
}

// OrderByDesc adds a descending ORDER BY clause.
func (q *SelectQuery[T]) OrderByDesc(column string) *SelectQuery[T] {
	return q.OrderBy(column, Desc)
}

// Limit sets the LIMIT clause.
func (q *SelectQuery[T]) Limit(limit int) *SelectQuery[T] {
	q.limit = &limit
	return q
}

// Offset sets the OFFSET clause.
func (q *SelectQuery[T]) Offset(offset int) *SelectQuery[T] {
	q.offset = &offset
	return q
}

// ToSQL generates the SQL query and arguments.
func (q *SelectQuery[T]) ToSQL() (string, []any, error) {
	if err := checkTable(q.table, q.err); err != nil {
		return "", nil, err
	}

	var sql strings.Builder
	var args []any

	// SELECT clause, always an explicit column list in declaration order
	columns := make([]string, len(q.table.Columns))
	for i, col := range q.table.Columns {
		columns[i] = q.db.quote(col.Name)
	}
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(columns, ", "))

	// FROM clause
	sql.WriteString(" FROM ")
	sql.WriteString(q.db.quote(q.table.Name))

	// WHERE clause
	whereSQL, whereArgs, err := q.buildWhere()
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		sql.WriteString(" ")
		sql.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}

	// ORDER BY clause
	if len(q.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		orderParts := make([]string, len(q.orderBy))
		for i, order := range q.orderBy {
			direction := order.Direction
			if direction == "" {
				direction = Asc
			}
			orderParts[i] = q.db.quote(order.Column) + " " + string(direction)
		}
		sql.WriteString(strings.Join(orderParts, ", "))
	}

	// LIMIT clause
	if q.limit != nil {
		fmt.Fprintf(&sql, " LIMIT %d", *q.limit)
	}

	// OFFSET clause
	if q.offset != nil {
		fmt.Fprintf(&sql, " OFFSET %d", *q.offset)
	}

	return sql.String(), args, nil
}

func (q *SelectQuery[T]) buildWhere() (string, []any, error) {
	if len(q.where) == 0 {
		return "", nil, nil
	}
	whereBuilder := NewWhereBuilder(q.db.Dialect())
	whereBuilder.Add(q.where...)
	whereSQL, whereArgs, err := whereBuilder.Build()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
	}
	return whereSQL, whereArgs, nil
}

// All executes the query and returns all results.
func (q *SelectQuery[T]) All(ctx context.Context) ([]T, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		var item T
		if err := scanIntoStruct(rows, &item, q.table); err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// First executes the query and returns the first result. It returns an
// error wrapping runtime.ErrNotFound when no row matches.
func (q *SelectQuery[T]) First(ctx context.Context) (*T, error) {
	// Limit to 1 result
	q.Limit(1)

	results, err := q.All(ctx)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%s: %w", q.table.Name, runtime.ErrNotFound)
	}

	return &results[0], nil
}

// FirstOrNil is like First but returns nil, nil when no row matches.
func (q *SelectQuery[T]) FirstOrNil(ctx context.Context) (*T, error) {
	result, err := q.First(ctx)
	if errors.Is(err, runtime.ErrNotFound) {
		return nil, nil
	}
	return result, err
}

// Count executes a COUNT query.
func (q *SelectQuery[T]) Count(ctx context.Context) (int64, error) {
	if err := checkTable(q.table, q.err); err != nil {
		return 0, err
	}

	whereSQL, whereArgs, err := q.buildWhere()
	if err != nil {
		return 0, err
	}

	return count(ctx, q.db, q.table.Name, whereSQL, whereArgs)
}

// Exists checks if any rows match the query.
func (q *SelectQuery[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountTable counts every row of a table by name. The table does not need
// to be registered.
func CountTable(ctx context.Context, d *DB, table string) (int64, error) {
	return count(ctx, d, table, "", nil)
}

func count(ctx context.Context, d *DB, table, whereSQL string, args []any) (int64, error) {
	var sql strings.Builder
	sql.WriteString("SELECT COUNT(*) FROM ")
	sql.WriteString(d.quote(table))
	if whereSQL != "" {
		sql.WriteString(" ")
		sql.WriteString(whereSQL)
	}

	rows, err := d.q.Query(ctx, sql.String(), args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan count: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	return n, nil
}
