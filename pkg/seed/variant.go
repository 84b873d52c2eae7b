package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/provision"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// Variant is a ready-made schema: its table mappings, its seed rows and an
// optional scenario run after seeding.
type Variant struct {
	Name        string
	Description string
	// DefaultFile is the file name used when no location is configured.
	DefaultFile string
	Models      []any
	Fixtures    func() (*fixture.File, error)
	Scenario    func(ctx context.Context, s *Storage, logger *slog.Logger) error
}

// RunConfig adjusts a single Variant.Run.
type RunConfig struct {
	// Fixtures replaces the variant's own seed rows when set.
	Fixtures *fixture.File
	// NoScenario skips the scenario.
	NoScenario bool
	Logger     *slog.Logger
	Options    []Option
}

// Result summarises a run.
type Result struct {
	Variant  string     `json:"variant"`
	Location string     `json:"location"`
	Created  []string   `json:"created"`
	Existing []string   `json:"existing"`
	Batches  []Progress `json:"batches"`
}

// Schema defines the variant's schema.
func (v Variant) Schema() (*registry.Registry, error) {
	reg, err := DefineSchema(v.Models...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name, err)
	}
	return reg, nil
}

// Run performs the whole lifecycle against location: define the schema,
// create storage, load the fixtures, run the scenario and close.
func (v Variant) Run(ctx context.Context, location string, cfg RunConfig) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("variant", v.Name)

	reg, err := v.Schema()
	if err != nil {
		return nil, err
	}

	file := cfg.Fixtures
	if file == nil {
		if v.Fixtures == nil {
			return nil, fmt.Errorf("%s: no fixtures", v.Name)
		}
		if file, err = v.Fixtures(); err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
	}

	result := &Result{Variant: v.Name, Location: location}

	opts := append([]Option{WithLogger(logger)}, cfg.Options...)
	opts = append(opts, func(o *options) {
		forward := o.observer
		o.observer = func(p Progress) {
			result.Batches = append(result.Batches, p)
			if forward != nil {
				forward(p)
			}
		}
	})

	err = With(ctx, reg, location, func(s *Storage) error {
		report := s.Report()
		result.Created = report.Created
		result.Existing = report.Existing

		if err := s.LoadFixtures(ctx, file.Batches...); err != nil {
			return err
		}

		if v.Scenario == nil || cfg.NoScenario {
			return nil
		}
		if err := v.Scenario(ctx, s, logger); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		return nil
	}, opts...)
	if err != nil {
		return result, fmt.Errorf("%s: %w", v.Name, err)
	}

	return result, nil
}

// Tables returns the variant's table names, parents first.
func (v Variant) Tables() ([]string, error) {
	reg, err := v.Schema()
	if err != nil {
		return nil, err
	}
	tables, err := reg.Order()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names, nil
}

// Status reports each of the variant's tables with its row count. Storage
// that does not exist yet is not created: every table is reported missing.
func (v Variant) Status(ctx context.Context, location string) ([]provision.TableStatus, error) {
	reg, err := v.Schema()
	if err != nil {
		return nil, err
	}

	provisioned, err := runtime.Provisioned(location)
	if err != nil {
		return nil, err
	}
	if !provisioned {
		tables, err := v.Tables()
		if err != nil {
			return nil, err
		}
		status := make([]provision.TableStatus, len(tables))
		for i, name := range tables {
			status[i] = provision.TableStatus{Name: name}
		}
		return status, nil
	}

	db, err := runtime.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return provision.NewIntrospector(db).Status(ctx, reg)
}
