package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

func openTestDB(t *testing.T, path string) *builder.DB {
	t.Helper()
	rdb, err := runtime.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return builder.New(rdb, testRegistry(t))
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "apply.db")

	db := openTestDB(t, path)
	report, err := Apply(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "notes"}, report.Created)
	assert.Empty(t, report.Existing)

	_, err = builder.InsertInto(db, "accounts").Values(map[string]any{
		"account_id": 1,
		"email":      "a@example.com",
	}).Exec(ctx)
	require.NoError(t, err)

	report, err = Apply(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Equal(t, []string{"accounts", "notes"}, report.Existing)

	status, err := NewIntrospector(db.Querier()).Status(ctx, db.Registry())
	require.NoError(t, err)
	assert.Equal(t, []TableStatus{
		{Name: "accounts", Exists: true, Rows: 1},
		{Name: "notes", Exists: true, Rows: 0},
	}, status)

	names, err := NewIntrospector(db.Querier()).TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "notes"}, names)
}

func TestApply_StorageDefaultsAndChecks(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "checks.db"))

	_, err := Apply(ctx, db)
	require.NoError(t, err)

	// Columns left out take the SQL defaults rendered by the planner.
	_, err = builder.InsertInto(db, "accounts").Values(map[string]any{"email": "b@example.com"}).Exec(ctx)
	require.NoError(t, err)

	accounts, err := builder.Select[Account](db).All(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "USERS", accounts[0].Role)
	assert.True(t, accounts[0].Active)
	assert.False(t, accounts[0].CreatedAt.IsZero())

	// The enumeration CHECK is enforced by storage too.
	_, err = db.Querier().Exec(ctx, `INSERT INTO "accounts" ("email", "role") VALUES ('c@example.com', 'ROOT')`)
	var cv *runtime.ConstraintViolation
	require.True(t, errors.As(runtime.Classify(err, "accounts", 0), &cv))
	assert.Equal(t, runtime.EnumDomain, cv.Kind)

	// Deleting a parent nulls out references.
	_, err = builder.InsertInto(db, "notes").Values(map[string]any{"note_id": 1, "account_id": accounts[0].ID, "body": "hi"}).Exec(ctx)
	require.NoError(t, err)
	_, err = builder.Delete[Account](db).Where(builder.Eq("account_id", accounts[0].ID)).Exec(ctx)
	require.NoError(t, err)

	notes, err := builder.Select[Note](db).All(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Nil(t, notes[0].AccountID)
}

func TestSyncIdentity_SQLiteNoop(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "noop.db"))
	table, err := db.Registry().GetByName("accounts")
	require.NoError(t, err)
	assert.NoError(t, SyncIdentity(context.Background(), db, table))
}

func TestWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "schema.sql")
	require.NoError(t, WriteScript(path, "CREATE TABLE x ();\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE x ();\n", string(data))
}
