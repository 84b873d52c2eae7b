package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

type Author struct {
	ID        int       `po:"author_id,primaryKey,autoIncrement"`
	Name      string    `po:"name,varchar(50),notNull"`
	Role      string    `po:"role,enum(writer|editor),notNull"`
	CreatedAt time.Time `po:"created_at,default(now)"`
	UpdatedAt time.Time `po:"updated_at,default(now),onUpdate(now)"`
}

func (Author) TableName() string { return "authors" }

type Post struct {
	ID       int    `po:"post_id,primaryKey,autoIncrement"`
	AuthorID *int   `po:"author_id,fk(authors.author_id),onDelete(setNull)"`
	Title    string `po:"title,notNull"`
}

func (Post) TableName() string { return "posts" }

var (
	seededAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mutateAt = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
)

func testSchema(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := DefineSchema(Author{}, Post{})
	require.NoError(t, err)
	return reg
}

func authors() fixture.Batch {
	return fixture.NewBatch("authors",
		fixture.Row{"author_id": 1, "name": "Alice", "role": "writer"},
		fixture.Row{"author_id": 2, "name": "Bob", "role": "editor"},
		fixture.Row{"author_id": 3, "name": "Charlie", "role": "writer"},
	)
}

func posts() fixture.Batch {
	return fixture.NewBatch("posts",
		fixture.Row{"post_id": 1, "author_id": 1, "title": "Hello"},
		fixture.Row{"post_id": 2, "author_id": 3, "title": "World"},
	)
}

func newStorage(t *testing.T, opts ...Option) (*Storage, string) {
	t.Helper()
	location := filepath.Join(t.TempDir(), "data", "seed.db")
	opts = append([]Option{WithClock(func() time.Time { return seededAt })}, opts...)
	s, err := CreateStorage(context.Background(), testSchema(t), location, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, location
}

func TestDefineSchema_Errors(t *testing.T) {
	type Orphan struct {
		ID      int `po:"orphan_id,primaryKey"`
		OwnerID int `po:"owner_id,fk(owners.owner_id)"`
	}
	type Twin struct {
		ID int `po:"author_id,primaryKey"`
	}

	tests := []struct {
		name   string
		models []any
	}{
		{"undeclared reference", []any{Orphan{}}},
		{"no tables", nil},
		{"duplicate table name", []any{Author{}, twinAuthors{}}},
		{"malformed tag", []any{struct {
			ID int `po:"id,primaryKey,bogus"`
		}{}}},
		{"missing identifier", []any{Twin{}, struct {
			Name string `po:"name"`
		}{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefineSchema(tt.models...)
			var se *runtime.SchemaError
			assert.True(t, errors.As(err, &se), "got %v", err)
			assert.ErrorIs(t, err, runtime.ErrSchema)
		})
	}
}

type twinAuthors struct {
	ID int `po:"id,primaryKey"`
}

func (twinAuthors) TableName() string { return "authors" }

func TestCreateStorage_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, location := newStorage(t)

	assert.Equal(t, []string{"authors", "posts"}, s.Report().Created)
	require.NoError(t, s.LoadFixtures(ctx, authors(), posts()))
	require.NoError(t, s.Close())

	again, err := CreateStorage(ctx, testSchema(t), location)
	require.NoError(t, err)
	defer again.Close()

	assert.Empty(t, again.Report().Created)
	assert.Equal(t, []string{"authors", "posts"}, again.Report().Existing)

	n, err := again.Count(ctx, "authors")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	status, err := again.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.EqualValues(t, 2, status[1].Rows)
}

func TestCreateStorage_Unreachable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := CreateStorage(context.Background(), testSchema(t), filepath.Join(blocker, "seed.db"))
	var se *runtime.StorageError
	assert.True(t, errors.As(err, &se), "got %v", err)
	assert.ErrorIs(t, err, runtime.ErrStorage)

	_, err = CreateStorage(context.Background(), nil, filepath.Join(t.TempDir(), "x.db"))
	assert.ErrorIs(t, err, runtime.ErrSchema)
}

func TestLoadFixtures_BatchAtomicity(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t)

	badPosts := fixture.NewBatch("posts",
		fixture.Row{"post_id": 1, "author_id": 1, "title": "ok"},
		fixture.Row{"post_id": 2, "author_id": 1},
	)

	err := s.LoadFixtures(ctx, authors(), badPosts)
	var cv *runtime.ConstraintViolation
	require.True(t, errors.As(err, &cv), "got %v", err)
	assert.Equal(t, runtime.NotNull, cv.Kind)
	assert.Equal(t, "posts", cv.Table)
	assert.Equal(t, 1, cv.Row)

	n, err := s.Count(ctx, "authors")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n, "earlier batch stays committed")

	n, err = s.Count(ctx, "posts")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n, "failed batch leaves nothing behind")
}

func TestLoadFixtures_Violations(t *testing.T) {
	tests := []struct {
		name  string
		batch fixture.Batch
		kind  runtime.ViolationKind
	}{
		{
			name:  "duplicate identifier in batch",
			batch: fixture.NewBatch("authors", fixture.Row{"author_id": 9, "name": "A", "role": "writer"}, fixture.Row{"author_id": 9, "name": "B", "role": "writer"}),
			kind:  runtime.DuplicateKey,
		},
		{
			name:  "duplicate identifier in storage",
			batch: fixture.NewBatch("authors", fixture.Row{"author_id": 1, "name": "A", "role": "writer"}),
			kind:  runtime.DuplicateKey,
		},
		{
			name:  "enumeration domain",
			batch: fixture.NewBatch("authors", fixture.Row{"name": "A", "role": "admin"}),
			kind:  runtime.EnumDomain,
		},
		{
			name:  "missing parent",
			batch: fixture.NewBatch("posts", fixture.Row{"author_id": 42, "title": "Lost"}),
			kind:  runtime.ForeignKey,
		},
		{
			name:  "unknown column",
			batch: fixture.NewBatch("posts", fixture.Row{"title": "x", "body": "y"}),
			kind:  runtime.UnknownColumn,
		},
		{
			name:  "type mismatch",
			batch: fixture.NewBatch("posts", fixture.Row{"author_id": "one", "title": "x"}),
			kind:  runtime.TypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := newStorage(t)
			require.NoError(t, s.LoadFixtures(ctx, authors()))

			before, err := s.Count(ctx, tt.batch.Table)
			require.NoError(t, err)

			err = s.LoadFixtures(ctx, tt.batch)
			var cv *runtime.ConstraintViolation
			require.True(t, errors.As(err, &cv), "got %v", err)
			assert.Equal(t, tt.kind, cv.Kind)
			assert.ErrorIs(t, err, runtime.ErrConstraint)

			after, err := s.Count(ctx, tt.batch.Table)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestLoadFixtures_UndeclaredTable(t *testing.T) {
	s, _ := newStorage(t)
	err := s.LoadFixtures(context.Background(), fixture.NewBatch("comments"))
	assert.ErrorIs(t, err, runtime.ErrSchema)
}

func TestLoadFixtures_SkipPopulated(t *testing.T) {
	ctx := context.Background()
	var progress []Progress
	s, _ := newStorage(t, SkipPopulated(), WithObserver(func(p Progress) { progress = append(progress, p) }))

	require.NoError(t, s.LoadFixtures(ctx, authors(), posts()))
	require.NoError(t, s.LoadFixtures(ctx, authors(), posts()))

	n, err := s.Count(ctx, "authors")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	assert.Equal(t, []Progress{
		{Index: 0, Total: 2, Table: "authors", Rows: 3},
		{Index: 1, Total: 2, Table: "posts", Rows: 2},
		{Index: 0, Total: 2, Table: "authors", Skipped: true},
		{Index: 1, Total: 2, Table: "posts", Skipped: true},
	}, progress)
}

func TestLoadFixtures_AssignedIdentifiers(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t)

	require.NoError(t, s.LoadFixtures(ctx, authors()))
	require.NoError(t, s.LoadFixtures(ctx, fixture.NewBatch("authors", fixture.Row{"name": "Dana", "role": "editor"})))

	all, err := Find[Author](ctx, s)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 4, all[3].ID)
	assert.Equal(t, seededAt, all[3].CreatedAt)
}

func TestMutate(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t, WithClock(func() time.Time { return mutateAt }))
	require.NoError(t, s.LoadFixtures(ctx, authors()))

	t.Run("no match", func(t *testing.T) {
		got, err := Mutate(ctx, s, "author_id", 99, func(a *Author) { a.Name = "Nobody" })
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := Find[Author](ctx, s)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("rename", func(t *testing.T) {
		got, err := Mutate(ctx, s, "author_id", 1, func(a *Author) { a.Name = "Alicia" })
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, mutateAt, got.UpdatedAt)
	})

	t.Run("match by other column", func(t *testing.T) {
		got, err := Mutate(ctx, s, "name", "Bob", func(a *Author) { a.Role = "writer" })
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.ID)
		assert.Equal(t, "writer", got.Role)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Mutate(ctx, s, "author_id", 2, func(a *Author) { a.Role = "admin" })
		assert.ErrorIs(t, err, runtime.ErrConstraint)
	})

	t.Run("identifier is immutable", func(t *testing.T) {
		_, err := Mutate(ctx, s, "author_id", 2, func(a *Author) { a.ID = 20 })
		assert.ErrorIs(t, err, runtime.ErrSchema)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t)
	require.NoError(t, s.LoadFixtures(ctx, authors(), posts()))

	removed, err := Remove[Author](ctx, s, "author_id", 99)
	require.NoError(t, err)
	assert.False(t, removed)

	n, err := s.Count(ctx, "authors")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	removed, err = Remove[Author](ctx, s, "author_id", 3)
	require.NoError(t, err)
	assert.True(t, removed)

	all, err := Find[Author](ctx, s)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, a := range all {
		assert.NotEqual(t, 3, a.ID)
	}

	ps, err := Find[Post](ctx, s)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Nil(t, ps[1].AuthorID, "reference is cleared when the parent goes")
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.LoadFixtures(ctx, authors()), runtime.ErrClosed)
	_, err := s.Count(ctx, "authors")
	assert.ErrorIs(t, err, runtime.ErrClosed)
	_, err = Mutate[Author](ctx, s, "author_id", 1, nil)
	assert.ErrorIs(t, err, runtime.ErrClosed)
	_, err = Remove[Author](ctx, s, "author_id", 1)
	assert.ErrorIs(t, err, runtime.ErrClosed)
}

func TestClose_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStorage(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Close()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	_, err := s.Status(ctx)
	assert.ErrorIs(t, err, runtime.ErrClosed)
	_, err = Find[Author](ctx, s)
	assert.ErrorIs(t, err, runtime.ErrClosed)
}

func TestWith(t *testing.T) {
	ctx := context.Background()
	reg := testSchema(t)
	location := filepath.Join(t.TempDir(), "with.db")

	var held *Storage
	boom := errors.New("boom")
	err := With(ctx, reg, location, func(s *Storage) error {
		held = s
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, held.LoadFixtures(ctx), runtime.ErrClosed)

	assert.Panics(t, func() {
		_ = With(ctx, reg, location, func(s *Storage) error {
			held = s
			panic("boom")
		})
	})
	assert.ErrorIs(t, held.LoadFixtures(ctx), runtime.ErrClosed)

	err = With(ctx, reg, location, func(s *Storage) error {
		return s.LoadFixtures(ctx, authors())
	})
	require.NoError(t, err)
}
