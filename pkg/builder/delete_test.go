package builder

import (
	"testing"
)

func TestDeleteQuery_ToSQL(t *testing.T) {
	tests := []struct {
		name       string
		db         func(t *testing.T) *DB
		conditions []Condition
		wantSQL    string
		wantArgLen int
		wantErr    bool
	}{
		{
			name:       "by identifier",
			db:         postgresDB,
			conditions: []Condition{Eq("id", 3)},
			wantSQL:    `DELETE FROM "test_user" WHERE "id" = $1`,
			wantArgLen: 1,
		},
		{
			name:       "sqlite",
			db:         sqliteDB,
			conditions: []Condition{Eq("id", 3), Or(Eq("age", 0))},
			wantSQL:    `DELETE FROM "test_user" WHERE "id" = ? OR "age" = ?`,
			wantArgLen: 2,
		},
		{
			name:    "without conditions",
			db:      postgresDB,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := Delete[TestUser](tt.db(t))
			for _, cond := range tt.conditions {
				query.Where(cond)
			}
			sql, args, err := query.ToSQL()

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
