package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-seed/cmd/pebble-seed/output"
	"github.com/marshallshelly/pebble-seed/pkg/dialect"
	"github.com/marshallshelly/pebble-seed/pkg/domains"
	"github.com/marshallshelly/pebble-seed/pkg/provision"
)

var (
	// DDL flags
	ddlDialect string
	ddlOut     string
)

// ddlCmd prints the CREATE TABLE script of a variant
var ddlCmd = &cobra.Command{
	Use:   "ddl VARIANT",
	Short: "Print the CREATE TABLE script of a variant",
	Long: `Print the statements that create a variant's tables, parents first.

The dialect defaults to the one matching the variant's configured location.

Examples:
  pebble-seed ddl quiz                              # Print the quiz tables
  pebble-seed ddl travel --dialect postgres         # Print for PostgreSQL
  pebble-seed ddl events --out ./sql/events.sql     # Write to a file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDDL(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(ddlCmd)

	ddlCmd.Flags().StringVar(&ddlDialect, "dialect", "", "SQL dialect: sqlite or postgres")
	ddlCmd.Flags().StringVarP(&ddlOut, "out", "o", "", "Write the script to a file")
}

func runDDL(cmd *cobra.Command, name string) error {
	v, ok := domains.ByName(name)
	if !ok {
		_, err := lookupVariants([]string{name}, false)
		return err
	}

	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	d := dialect.ForLocation(e.location(v))
	if ddlDialect != "" {
		if d, err = dialect.ByName(ddlDialect); err != nil {
			return err
		}
	}

	reg, err := v.Schema()
	if err != nil {
		return err
	}
	script, err := provision.Script(reg, d)
	if err != nil {
		return err
	}

	if ddlOut == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), script)
		return err
	}

	if err := provision.WriteScript(ddlOut, script); err != nil {
		return err
	}
	e.logger.Debug("wrote script", "path", ddlOut, "dialect", d.Name())
	if !jsonOutput {
		output.Success("Wrote %s script for %s to %s", d.Name(), v.Name, ddlOut)
	}
	return nil
}
