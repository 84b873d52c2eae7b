package loader

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	writeFile(t, path, "batches:\n  - table: users\n    rows:\n      - {user_id: 1}\n")

	f, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if len(f.Batches) != 1 || f.Batches[0].Table != "users" || len(f.Batches[0].Rows) != 1 {
		t.Errorf("unexpected batches: %+v", f.Batches)
	}
}

func TestLoadFromPath_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "02_orders.yml"), "batches:\n  - table: orders\n")
	writeFile(t, filepath.Join(dir, "01_users.yaml"), "batches:\n  - table: users\n")
	writeFile(t, filepath.Join(dir, "nested", "03_reviews.yaml"), "batches:\n  - table: reviews\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a fixture")

	f, err := LoadFromPath(dir)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	want := []string{"users", "orders", "reviews"}
	got := f.Tables()
	if len(got) != len(want) {
		t.Fatalf("tables = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tables[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "bad", "broken.yaml"), "batches: [\n")

	tests := []struct {
		name string
		path string
	}{
		{"missing path", filepath.Join(dir, "missing.yaml")},
		{"wrong extension", filepath.Join(dir, "notes.txt")},
		{"empty directory", t.TempDir()},
		{"malformed file", filepath.Join(dir, "bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromPath(tt.path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"fixtures.yaml": {Data: []byte("batches:\n  - table: users\n")},
	}

	f, err := LoadFS(fsys, "fixtures.yaml")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if len(f.Batches) != 1 {
		t.Errorf("expected 1 batch, got %d", len(f.Batches))
	}

	if _, err := LoadFS(fsys, "missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
