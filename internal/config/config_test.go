package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadSuccess(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pebble-seed.toml", `
data_dir = "seeds"
verbose = true

[locations]
quiz = "quiz/custom.db"
travel = "postgres://localhost:5432/travel"
`)

	res, err := Load(path, LoadOptions{EnvFile: noEnvFile(t), Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	cfg := res.Config
	if !cfg.Verbose {
		t.Fatal("expected verbose")
	}

	tests := []struct {
		variant string
		want    string
	}{
		{"quiz", filepath.Join(dir, "quiz", "custom.db")},
		{"travel", "postgres://localhost:5432/travel"},
		{"ecommerce", filepath.Join(dir, "seeds", "ecommerce.db")},
	}
	for _, tt := range tests {
		if got := cfg.Location(tt.variant, tt.variant+".db"); got != tt.want {
			t.Errorf("Location(%q) = %q, want %q", tt.variant, got, tt.want)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	res, err := Load("", LoadOptions{EnvFile: noEnvFile(t), Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res.Path != "" {
		t.Fatalf("expected no config path, got %q", res.Path)
	}
	if got, want := res.Config.Location("events", "events.db"), filepath.Join("data", "events.db"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), LoadOptions{EnvFile: noEnvFile(t)})
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pebble-seed.toml", `
data_dir = "data"
colour = "blue"
`)

	res, err := Load(path, LoadOptions{EnvFile: noEnvFile(t), Getenv: env(nil)})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "colour") {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}

	if _, err := Load(path, LoadOptions{Strict: true, EnvFile: noEnvFile(t)}); err == nil {
		t.Fatal("expected strict mode to reject unknown keys")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"syntax", `data_dir = `},
		{"empty data dir", `data_dir = ""`},
		{"empty location", "[locations]\nquiz = \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "pebble-seed.toml", tt.contents)
			if _, err := Load(path, LoadOptions{EnvFile: noEnvFile(t), Getenv: env(nil)}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pebble-seed.toml", `
[locations]
quiz = "quiz.db"
`)

	res, err := Load(path, LoadOptions{
		EnvFile: noEnvFile(t),
		Getenv: env(map[string]string{
			"PEBBLE_SEED_DATA_DIR":      "/srv/seeds",
			"PEBBLE_SEED_VERBOSE":       "true",
			"PEBBLE_SEED_QUIZ_LOCATION": "postgres://db/quiz",
		}),
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg := res.Config
	if !cfg.Verbose {
		t.Error("expected PEBBLE_SEED_VERBOSE to enable verbose")
	}
	if got := cfg.Location("quiz", "quiz.db"); got != "postgres://db/quiz" {
		t.Errorf("quiz location = %q", got)
	}
	if got, want := cfg.Location("travel", "travel.db"), filepath.Join("/srv/seeds", "travel.db"); got != want {
		t.Errorf("travel location = %q, want %q", got, want)
	}
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", `PEBBLE_SEED_JOBBOARD_LOCATION=/tmp/jobs.db`)
	t.Setenv("PEBBLE_SEED_JOBBOARD_LOCATION", "")
	os.Unsetenv("PEBBLE_SEED_JOBBOARD_LOCATION")

	t.Chdir(dir)
	res, err := Load("", LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := res.Config.Location("jobboard", "jobboard.db"); got != "/tmp/jobs.db" {
		t.Fatalf("Location = %q", got)
	}
}

func TestEnvLocation(t *testing.T) {
	if got := EnvLocation("ecommerce"); got != "PEBBLE_SEED_ECOMMERCE_LOCATION" {
		t.Fatalf("EnvLocation = %q", got)
	}
}
