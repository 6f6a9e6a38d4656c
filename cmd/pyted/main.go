package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyted/internal/version"
)

// NewRootCmd creates the pyted command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyted",
		Short: "Structural distance between Python sources",
		Long: `pyted measures how far two Python sources are apart structurally.

Both sources are parsed into Python syntax trees and compared with the
Zhang-Shasha tree edit distance. Formatting and comments do not count.

Metrics:
  ted   number of node insertions, deletions and renames
  sim   1 - ted / (size1 + size2)
  rps   relative patch size, ted / size of the buggy tree`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewMetricCmd(metricTED))
	rootCmd.AddCommand(NewMetricCmd(metricSim))
	rootCmd.AddCommand(NewMetricCmd(metricRPS))
	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewTreeCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
