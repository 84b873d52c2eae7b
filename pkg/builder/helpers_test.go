package builder

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

type TestUser struct {
	ID    int    `po:"id,primaryKey,autoIncrement"`
	Name  string `po:"name,varchar(255),notNull"`
	Email string `po:"email,varchar(320),unique,notNull"`
	Age   int    `po:"age,integer"`
}

type TestOrder struct {
	ID        int             `po:"order_id,primaryKey,autoIncrement"`
	UserID    *int            `po:"user_id,fk(test_user.id),onDelete(setNull)"`
	Status    string          `po:"status,enum(Pending|Shipped),notNull"`
	Total     decimal.Decimal `po:"total,numeric(10,2)"`
	Paid      bool            `po:"paid,default(false)"`
	ShippedOn *time.Time      `po:"shipped_on,date"`
	CreatedAt time.Time       `po:"created_at,default(now)"`
}

// sqlOnly is a Querier for SQL generation tests; it never reaches storage.
type sqlOnly struct {
	d dialect.Dialect
}

func (s sqlOnly) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("no storage")
}

func (s sqlOnly) Query(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("no storage")
}

func (s sqlOnly) Dialect() dialect.Dialect { return s.d }

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Define(TestUser{}, TestOrder{})
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	return reg
}

func postgresDB(t *testing.T) *DB {
	t.Helper()
	return New(sqlOnly{d: dialect.PostgresDialect{}}, testRegistry(t))
}

func sqliteDB(t *testing.T) *DB {
	t.Helper()
	return New(sqlOnly{d: dialect.SQLiteDialect{}}, testRegistry(t))
}

// openSQLite opens a file-backed database with the test tables created.
func openSQLite(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	rdb, err := runtime.Open(ctx, filepath.Join(t.TempDir(), "builder.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	ddl := []string{
		`CREATE TABLE "test_user" ("id" INTEGER PRIMARY KEY, "name" varchar(255) NOT NULL, "email" varchar(320) NOT NULL UNIQUE, "age" integer NOT NULL)`,
		`CREATE TABLE "test_order" ("order_id" INTEGER PRIMARY KEY, "user_id" integer REFERENCES "test_user" ("id") ON DELETE SET NULL, "status" text NOT NULL CHECK ("status" IN ('Pending', 'Shipped')), "total" numeric(10,2), "paid" boolean NOT NULL DEFAULT 0, "shipped_on" DATE, "created_at" TIMESTAMP NOT NULL)`,
	}
	for _, stmt := range ddl {
		if _, err := rdb.Exec(ctx, stmt); err != nil {
			t.Fatalf("create table failed: %v", err)
		}
	}

	return New(rdb, testRegistry(t))
}
