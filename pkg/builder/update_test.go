package builder

import (
	"errors"
	"testing"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

func TestUpdateQuery_ToSQL(t *testing.T) {
	db := postgresDB(t)

	tests := []struct {
		name       string
		setupQuery func() *UpdateQuery[TestUser]
		wantSQL    string
		wantArgLen int
		wantErr    bool
	}{
		{
			name: "single column",
			setupQuery: func() *UpdateQuery[TestUser] {
				return Update[TestUser](db).Set("name", "Alicia").Where(Eq("id", 1))
			},
			wantSQL:    `UPDATE "test_user" SET "name" = $1 WHERE "id" = $2`,
			wantArgLen: 2,
		},
		{
			name: "set order is preserved",
			setupQuery: func() *UpdateQuery[TestUser] {
				return Update[TestUser](db).
					Set("email", "b@example.com").
					Set("name", "Bob").
					Set("email", "c@example.com").
					Where(Eq("id", 2))
			},
			wantSQL:    `UPDATE "test_user" SET "email" = $1, "name" = $2 WHERE "id" = $3`,
			wantArgLen: 3,
		},
		{
			name: "set map uses column order",
			setupQuery: func() *UpdateQuery[TestUser] {
				return Update[TestUser](db).SetMap(map[string]any{"age": 40, "name": "Carol"})
			},
			wantSQL:    `UPDATE "test_user" SET "name" = $1, "age" = $2`,
			wantArgLen: 2,
		},
		{
			name: "no columns",
			setupQuery: func() *UpdateQuery[TestUser] {
				return Update[TestUser](db).Where(Eq("id", 1))
			},
			wantErr: true,
		},
		{
			name: "null into required column",
			setupQuery: func() *UpdateQuery[TestUser] {
				return Update[TestUser](db).Set("name", nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.setupQuery().ToSQL()

			if (err != nil) != tt.wantErr {
				t.Errorf("ToSQL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if sql != tt.wantSQL {
				t.Errorf("ToSQL() SQL = %v, want %v", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgLen {
				t.Errorf("ToSQL() args length = %v, want %v", len(args), tt.wantArgLen)
			}
		})
	}
}

func TestUpdateQuery_UnknownColumn(t *testing.T) {
	_, _, err := Update[TestUser](postgresDB(t)).Set("nickname", "Al").ToSQL()

	var cv *runtime.ConstraintViolation
	if !errors.As(err, &cv) || cv.Kind != runtime.UnknownColumn {
		t.Fatalf("ToSQL() error = %v, want unknown_column violation", err)
	}
}
