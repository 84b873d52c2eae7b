package builder

import (
	"testing"

	"github.com/marshallshelly/pebble-seed/pkg/dialect"
)

func TestWhereBuilder(t *testing.T) {
	tests := []struct {
		name       string
		dialect    dialect.Dialect
		conditions []Condition
		wantSQL    string
		wantArgs   int
		wantErr    bool
	}{
		{
			name:       "no conditions",
			dialect:    dialect.PostgresDialect{},
			conditions: nil,
			wantSQL:    "",
		},
		{
			name:       "single equality",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Eq("age", 25)},
			wantSQL:    `WHERE "age" = $1`,
			wantArgs:   1,
		},
		{
			name:       "sqlite placeholders",
			dialect:    dialect.SQLiteDialect{},
			conditions: []Condition{Eq("age", 25), Eq("name", "John")},
			wantSQL:    `WHERE "age" = ? AND "name" = ?`,
			wantArgs:   2,
		},
		{
			name:       "or condition",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Eq("age", 25), Or(Eq("age", 30))},
			wantSQL:    `WHERE "age" = $1 OR "age" = $2`,
			wantArgs:   2,
		},
		{
			name:       "in list",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{In("id", 1, 2, 3)},
			wantSQL:    `WHERE "id" IN ($1, $2, $3)`,
			wantArgs:   3,
		},
		{
			name:       "not in list",
			dialect:    dialect.SQLiteDialect{},
			conditions: []Condition{NotIn("id", 1, 2)},
			wantSQL:    `WHERE "id" NOT IN (?, ?)`,
			wantArgs:   2,
		},
		{
			name:       "empty in list",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{In("id")},
			wantErr:    true,
		},
		{
			name:       "null checks",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{IsNull("deleted_at"), IsNotNull("email")},
			wantSQL:    `WHERE "deleted_at" IS NULL AND "email" IS NOT NULL`,
		},
		{
			name:       "equality with nil",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Eq("deleted_at", nil)},
			wantErr:    true,
		},
		{
			name:       "between",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Between("age", 18, 65)},
			wantSQL:    `WHERE "age" BETWEEN $1 AND $2`,
			wantArgs:   2,
		},
		{
			name:       "like and comparisons",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Like("name", "A%"), Gt("age", 1), Gte("age", 2), Lt("age", 3), Lte("age", 4), NotEq("age", 5)},
			wantSQL:    `WHERE "name" LIKE $1 AND "age" > $2 AND "age" >= $3 AND "age" < $4 AND "age" <= $5 AND "age" != $6`,
			wantArgs:   6,
		},
		{
			name:       "negated group",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{Eq("status", "Pending"), Not(Group(Eq("age", 1), Or(Eq("age", 2))))},
			wantSQL:    `WHERE "status" = $1 AND NOT (("age" = $2 OR "age" = $3))`,
			wantArgs:   3,
		},
		{
			name:       "unknown operator",
			dialect:    dialect.PostgresDialect{},
			conditions: []Condition{{Column: "age", Operator: "~~", Value: 1}},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder(tt.dialect)
			wb.Add(tt.conditions...)
			sql, args, err := wb.Build()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Build() expected error, got SQL %q", sql)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("Build() SQL = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("Build() args len = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilderWithStart(t *testing.T) {
	wb := NewWhereBuilderWithStart(dialect.PostgresDialect{}, 3)
	wb.Add(Eq("id", 7), In("age", 1, 2))

	sql, args, err := wb.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := `WHERE "id" = $3 AND "age" IN ($4, $5)`
	if sql != want {
		t.Errorf("Build() SQL = %q, want %q", sql, want)
	}
	if len(args) != 3 {
		t.Errorf("Build() args len = %d, want 3", len(args))
	}
}
