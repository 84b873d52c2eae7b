package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-seed/cmd/pebble-seed/output"
	"github.com/marshallshelly/pebble-seed/cmd/pebble-seed/tui"
	"github.com/marshallshelly/pebble-seed/internal/logging"
	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/loader"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

var (
	// Seed flags
	seedAll       bool
	fixturesPath  string
	skipPopulated bool
	noScenario    bool
	interactive   bool
)

// seedCmd creates variant storage and loads the seed rows
var seedCmd = &cobra.Command{
	Use:   "seed [variant...]",
	Short: "Create tables and load seed rows",
	Long: `Create the tables of one or more variants and load their seed rows.

Each batch of rows is inserted in its own transaction; the first failing
batch stops the run and earlier batches stay committed.

Examples:
  pebble-seed seed quiz                          # Seed the quiz variant
  pebble-seed seed --all                         # Seed every variant
  pebble-seed seed --all --skip-populated        # Re-run without duplicating rows
  pebble-seed seed travel --fixtures ./rows.yaml # Load rows from a file instead
  pebble-seed seed --all -i                      # Show a progress screen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedAll, "all", false, "Seed every variant")
	seedCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML file or directory replacing the built-in rows (single variant only)")
	seedCmd.Flags().BoolVar(&skipPopulated, "skip-populated", false, "Skip tables that already hold rows")
	seedCmd.Flags().BoolVar(&noScenario, "no-scenario", false, "Skip the variant's scenario")
	seedCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Show an interactive progress screen")
}

func runSeed(cmd *cobra.Command, args []string) error {
	variants, err := lookupVariants(args, seedAll)
	if err != nil {
		return err
	}
	if fixturesPath != "" && len(variants) != 1 {
		return fmt.Errorf("--fixtures needs exactly one variant")
	}
	if interactive && (jsonOutput || !output.IsTerminal()) {
		return fmt.Errorf("--interactive needs a terminal and no --json")
	}

	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if interactive && !verbose {
		e.logger = logging.Discard()
	}

	jobs := make([]tui.Job, 0, len(variants))
	for _, v := range variants {
		file, err := fixturesFor(v)
		if err != nil {
			return err
		}

		var opts []seed.Option
		if skipPopulated {
			opts = append(opts, seed.SkipPopulated())
		}

		jobs = append(jobs, tui.Job{
			Variant:  v,
			Location: e.location(v),
			Config: seed.RunConfig{
				Fixtures:   file,
				NoScenario: noScenario,
				Logger:     e.logger,
				Options:    opts,
			},
		})
	}

	var results []*seed.Result
	if interactive {
		results, err = tui.RunSeedUI(cmd.Context(), jobs)
	} else {
		results, err = seedPlain(cmd.Context(), jobs)
	}

	if jsonOutput {
		if encErr := writeJSON(cmd.OutOrStdout(), results); encErr != nil && err == nil {
			err = encErr
		}
		return err
	}

	if interactive {
		for _, r := range results {
			output.Success("%s seeded at %s", r.Variant, r.Location)
		}
	}
	return err
}

func fixturesFor(v seed.Variant) (*fixture.File, error) {
	if fixturesPath != "" {
		return loader.LoadFromPath(fixturesPath)
	}
	if v.Fixtures == nil {
		return nil, fmt.Errorf("%s: no fixtures", v.Name)
	}
	file, err := v.Fixtures()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name, err)
	}
	return file, nil
}

func seedPlain(ctx context.Context, jobs []tui.Job) ([]*seed.Result, error) {
	results := make([]*seed.Result, 0, len(jobs))

	for _, job := range jobs {
		cfg := job.Config
		if !jsonOutput {
			output.Section(fmt.Sprintf("%s → %s", job.Variant.Name, job.Location))
			cfg.Options = append(append([]seed.Option(nil), cfg.Options...), seed.WithObserver(func(p seed.Progress) {
				if p.Skipped {
					output.Warning("%-16s %s", p.Table, "skipped (already populated)")
					return
				}
				output.Success("%-16s %d rows", p.Table, p.Rows)
			}))
		}

		result, err := job.Variant.Run(ctx, job.Location, cfg)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}

		if !jsonOutput && len(result.Created) > 0 {
			output.Muted("created %d tables", len(result.Created))
		}
	}

	return results, nil
}
