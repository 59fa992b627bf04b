// Package cli implements the kyogre command tree: persistent flags on the
// root, one NewXxxCommand constructor per command group, and an Execute()
// wrapper for main.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domorch "github.com/orcalabs/kyogre/internal/domain/orchestrator"
	"github.com/orcalabs/kyogre/internal/application/orchestrator"
)

var (
	configPath string
	verbose    bool
)

// Bootstrap builds the orchestrator runner and its shared state from a
// config file path, and returns a cleanup func to release adapter
// connections (DB, gRPC, Redis). Supplied by cmd/kyogre at startup so
// this package stays free of infrastructure wiring.
type Bootstrap func(configPath string) (*orchestrator.Runner, domorch.SharedState, func(), error)

// NewRootCommand creates the root command for the CLI.
func NewRootCommand(boot Bootstrap) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kyogre",
		Short: "Kyogre CLI - drive the fisheries data pipeline orchestrator",
		Long: `Kyogre CLI operates the fisheries data pipeline: scraping upstream
registries, assembling trips, distributing hauls, refreshing the matrix
cache, training/predicting with the ML service, and reconciling the
search-index mirror.

Examples:
  kyogre run --continuous
  kyogre run --state TRIPS
  kyogre config show
  kyogre config set-vessel 2006009001`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRunCommand(boot))
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(boot Bootstrap) {
	rootCmd := NewRootCommand(boot)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
