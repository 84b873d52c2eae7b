package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-seed/pkg/domains"
)

// variantInfo is the JSON form of a listed variant
type variantInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Tables      []string `json:"tables"`
}

// listCmd lists the built-in variants
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in variants",
	Long: `List the built-in variants with their tables and configured locations.

Examples:
  pebble-seed list           # Show all variants
  pebble-seed list --json    # Output in JSON format`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var infos []variantInfo
	for _, v := range domains.All() {
		tables, err := v.Tables()
		if err != nil {
			return err
		}
		infos = append(infos, variantInfo{
			Name:        v.Name,
			Description: v.Description,
			Location:    e.location(v),
			Tables:      tables,
		})
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTABLES\tLOCATION\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t------\t--------\t-----------")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Name, len(info.Tables), info.Location, info.Description)
	}
	return w.Flush()
}
