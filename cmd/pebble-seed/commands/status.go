package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-seed/cmd/pebble-seed/output"
	"github.com/marshallshelly/pebble-seed/pkg/domains"
	"github.com/marshallshelly/pebble-seed/pkg/provision"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

// variantStatus is the JSON form of a variant's storage state
type variantStatus struct {
	Variant     string                  `json:"variant"`
	Location    string                  `json:"location"`
	Provisioned bool                    `json:"provisioned"`
	Tables      []provision.TableStatus `json:"tables"`
}

// statusCmd shows table presence and row counts
var statusCmd = &cobra.Command{
	Use:   "status [variant...]",
	Short: "Show which tables exist and how many rows they hold",
	Long: `Show, for each table of a variant, whether it exists at the configured
location and how many rows it holds. Nothing is created or changed: a
variant with no tables yet is reported as not provisioned.

Examples:
  pebble-seed status quiz         # Show the quiz tables
  pebble-seed status              # Show every variant
  pebble-seed status --json       # Output in JSON format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var variants []seed.Variant
	var err error
	if len(args) == 0 {
		variants = domains.All()
	} else if variants, err = lookupVariants(args, false); err != nil {
		return err
	}

	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	statuses := make([]variantStatus, 0, len(variants))
	for _, v := range variants {
		location := e.location(v)
		tables, err := v.Status(cmd.Context(), location)
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		provisioned := false
		for _, t := range tables {
			provisioned = provisioned || t.Exists
		}
		statuses = append(statuses, variantStatus{Variant: v.Name, Location: location, Provisioned: provisioned, Tables: tables})
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), statuses)
	}

	out := cmd.OutOrStdout()
	for _, st := range statuses {
		_, _ = fmt.Fprintf(out, "%s (%s)\n", st.Variant, st.Location)
		if !st.Provisioned {
			_, _ = fmt.Fprintf(out, "  %s not provisioned\n\n", output.StatusIcon("skipped"))
			continue
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, t := range st.Tables {
			state := "missing"
			rows := "-"
			if t.Exists {
				state = "present"
				rows = fmt.Sprintf("%d rows", t.Rows)
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", output.StatusIcon(state), t.Name, rows)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}
