// Package config loads pebble-seed settings from a TOML file, an optional
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	// DefaultFile is read when no config path is given.
	DefaultFile = "pebble-seed.toml"
	// DefaultDataDir holds the SQLite files of variants without a location.
	DefaultDataDir = "data"

	envPrefix  = "PEBBLE_SEED_"
	envDataDir = envPrefix + "DATA_DIR"
	envVerbose = envPrefix + "VERBOSE"
)

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Config mirrors the pebble-seed TOML schema.
type Config struct {
	DataDir   string            `toml:"data_dir"`
	Verbose   bool              `toml:"verbose"`
	Locations map[string]string `toml:"locations"`

	getenv func(string) string
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	// Strict rejects unknown keys instead of reporting them as warnings.
	Strict bool
	// EnvFile is loaded into the process environment when it exists.
	// Defaults to ".env".
	EnvFile string
	// Getenv replaces os.Getenv.
	Getenv func(string) string
}

// Result wraps a loaded config alongside any non-fatal warnings.
type Result struct {
	Config   Config
	Path     string
	Warnings []string
}

// Load reads the config at path. An empty path means DefaultFile in the
// working directory, which may be absent. Relative paths inside the file
// resolve against the file's directory.
func Load(path string, opts LoadOptions) (Result, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	res := Result{Config: Config{DataDir: DefaultDataDir}}

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		res.Path = path
		if err := decode(path, data, opts.Strict, &res); err != nil {
			return Result{}, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return Result{}, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
	default:
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	if dir := getenv(envDataDir); dir != "" {
		res.Config.DataDir = dir
	}
	if v := strings.ToLower(getenv(envVerbose)); v == "1" || v == "true" {
		res.Config.Verbose = true
	}
	res.Config.getenv = getenv

	return res, nil
}

func decode(path string, data []byte, strict bool, res *Result) error {
	cfg := Config{DataDir: DefaultDataDir}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	unknown, err := collectUnknownKeys(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(unknown) > 0 {
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknown, ", "))
		if strict {
			return errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("%s: data_dir must not be empty", path)
	}

	baseDir := filepath.Dir(path)
	cfg.DataDir = resolve(baseDir, cfg.DataDir)
	for name, loc := range cfg.Locations {
		if strings.TrimSpace(loc) == "" {
			return fmt.Errorf("%s: locations.%s must not be empty", path, name)
		}
		cfg.Locations[name] = resolve(baseDir, loc)
	}

	res.Config = cfg
	return nil
}

func collectUnknownKeys(data []byte) ([]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	known := map[string]struct{}{
		"data_dir":  {},
		"verbose":   {},
		"locations": {},
	}

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown, nil
}

// resolve anchors a relative file location at baseDir. URLs and absolute
// paths are returned unchanged.
func resolve(baseDir, loc string) string {
	if strings.Contains(loc, "://") || loc == ":memory:" || filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(baseDir, loc)
}

// Location returns where variant is stored: PEBBLE_SEED_<VARIANT>_LOCATION,
// then the [locations] table, then defaultFile inside the data directory.
func (c Config) Location(variant, defaultFile string) string {
	if c.getenv != nil {
		if loc := c.getenv(EnvLocation(variant)); loc != "" {
			return loc
		}
	}
	if loc, ok := c.Locations[variant]; ok {
		return loc
	}
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir
	}
	return filepath.Join(dir, defaultFile)
}

// EnvLocation names the environment variable overriding a variant's location.
func EnvLocation(variant string) string {
	return envPrefix + strings.ToUpper(variant) + "_LOCATION"
}
