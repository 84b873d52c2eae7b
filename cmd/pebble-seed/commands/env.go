package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/marshallshelly/pebble-seed/internal/config"
	"github.com/marshallshelly/pebble-seed/internal/logging"
	"github.com/marshallshelly/pebble-seed/pkg/domains"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

// env is the per-invocation state shared by commands.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	runID  string
}

func loadEnv(logOutput io.Writer) (*env, error) {
	res, err := config.Load(configPath, config.LoadOptions{})
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := logging.New(logging.Options{
		Verbose: verbose || res.Config.Verbose,
		JSON:    jsonOutput,
		Writer:  logOutput,
	}).With("run", runID)

	for _, warning := range res.Warnings {
		logger.Warn(warning)
	}
	if res.Path != "" {
		logger.Debug("loaded config", "path", res.Path)
	}

	return &env{cfg: res.Config, logger: logger, runID: runID}, nil
}

func (e *env) location(v seed.Variant) string {
	return e.cfg.Location(v.Name, v.DefaultFile)
}

// lookupVariants resolves variant names, or every variant when all is set.
func lookupVariants(names []string, all bool) ([]seed.Variant, error) {
	if all {
		if len(names) > 0 {
			return nil, fmt.Errorf("--all cannot be combined with variant names")
		}
		return domains.All(), nil
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("name a variant (%s) or pass --all", strings.Join(domains.Names(), ", "))
	}

	variants := make([]seed.Variant, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		v, ok := domains.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown variant %q (available: %s)", name, strings.Join(domains.Names(), ", "))
		}
		if !seen[name] {
			seen[name] = true
			variants = append(variants, v)
		}
	}
	return variants, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
