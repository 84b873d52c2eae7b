package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/pebble-seed/cmd/pebble-seed/output"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pebble-seed",
	Short: "Create sample databases from declarative table mappings",
	Long: `pebble-seed creates small sample databases from struct-tag table mappings
and loads a fixed set of seed rows into them.

Built-in variants:
  ecommerce  users, products, reviews, order items and orders
  events     admins, users, events, agendas and invitations
  jobboard   accounts, postings, applications and messages
  quiz       teachers, students, questions and results
  travel     tours, bookings, payments and reviews

Locations are SQLite file paths or postgres:// URLs.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./pebble-seed.toml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
