package builder

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

func TestInsertQuery_ToSQL(t *testing.T) {
	tests := []struct {
		name     string
		db       func(t *testing.T) *DB
		table    string
		row      map[string]any
		wantSQL  string
		wantArgs []any
		wantKind runtime.ViolationKind
	}{
		{
			name:     "declaration order",
			db:       postgresDB,
			table:    "test_user",
			row:      map[string]any{"age": 30, "email": "a@example.com", "name": "Alice"},
			wantSQL:  `INSERT INTO "test_user" ("name", "email", "age") VALUES ($1, $2, $3)`,
			wantArgs: []any{"Alice", "a@example.com", int64(30)},
		},
		{
			name:     "sqlite placeholders",
			db:       sqliteDB,
			table:    "test_user",
			row:      map[string]any{"id": 1, "name": "Alice"},
			wantSQL:  `INSERT INTO "test_user" ("id", "name") VALUES (?, ?)`,
			wantArgs: []any{int64(1), "Alice"},
		},
		{
			name:    "no columns",
			db:      postgresDB,
			table:   "test_user",
			row:     map[string]any{},
			wantSQL: `INSERT INTO "test_user" DEFAULT VALUES`,
		},
		{
			name:     "values are coerced",
			db:       postgresDB,
			table:    "test_order",
			row:      map[string]any{"status": "Pending", "total": "12.5", "shipped_on": "2023-11-01"},
			wantSQL:  `INSERT INTO "test_order" ("status", "total", "shipped_on") VALUES ($1, $2, $3)`,
			wantArgs: []any{"Pending", decimal.RequireFromString("12.50"), time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:     "unknown column",
			db:       postgresDB,
			table:    "test_user",
			row:      map[string]any{"nickname": "Al"},
			wantKind: runtime.UnknownColumn,
		},
		{
			name:     "enum outside domain",
			db:       postgresDB,
			table:    "test_order",
			row:      map[string]any{"status": "Lost"},
			wantKind: runtime.EnumDomain,
		},
		{
			name:     "type mismatch",
			db:       postgresDB,
			table:    "test_user",
			row:      map[string]any{"age": "thirty"},
			wantKind: runtime.TypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := InsertInto(tt.db(t), tt.table).Values(tt.row).AtRow(2).ToSQL()

			if tt.wantKind != "" {
				var cv *runtime.ConstraintViolation
				if !errors.As(err, &cv) {
					t.Fatalf("ToSQL() error = %v, want a constraint violation", err)
				}
				if cv.Kind != tt.wantKind || cv.Table != tt.table || cv.Row != 2 {
					t.Errorf("violation = %+v, want kind %s on %s row 2", cv, tt.wantKind, tt.table)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToSQL() error = %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("ToSQL() SQL = %v, want %v", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("ToSQL() args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if d, ok := args[i].(decimal.Decimal); ok {
					if !d.Equal(tt.wantArgs[i].(decimal.Decimal)) {
						t.Errorf("arg %d = %v, want %v", i, args[i], tt.wantArgs[i])
					}
					continue
				}
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d = %#v, want %#v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestInsertInto_UnknownTable(t *testing.T) {
	_, _, err := InsertInto(postgresDB(t), "missing").Values(map[string]any{"id": 1}).ToSQL()
	if err == nil {
		t.Fatal("expected an error for an undeclared table")
	}
}
