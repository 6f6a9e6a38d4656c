package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/service"
)

// GetExplicitFlags extracts which flags were explicitly set from a cobra command
func GetExplicitFlags(cmd *cobra.Command) map[string]bool {
	explicitFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicitFlags[f.Name] = true
		})
	}
	return explicitFlags
}

// tedFlags are the cost and rounding flags shared by every comparing command
type tedFlags struct {
	costModel      string
	insertCost     float64
	deleteCost     float64
	renameCost     float64
	skipDocstrings bool
	precision      int
}

func (f *tedFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.costModel, config.FlagCostModel, config.DefaultCostModel, "Cost model (unit|weighted|structural)")
	flags.Float64Var(&f.insertCost, config.FlagInsertCost, config.DefaultOperationCost, "Insert cost for the weighted model")
	flags.Float64Var(&f.deleteCost, config.FlagDeleteCost, config.DefaultOperationCost, "Delete cost for the weighted model")
	flags.Float64Var(&f.renameCost, config.FlagRenameCost, config.DefaultOperationCost, "Rename cost for the weighted model")
	flags.BoolVar(&f.skipDocstrings, config.FlagSkipDocstrings, false, "Ignore leading docstrings")
	flags.IntVar(&f.precision, config.FlagPrecision, config.DefaultPrecision, "Decimal places of the relative patch size")
}

func (f *tedFlags) overrides() config.Overrides {
	return config.Overrides{
		CostModel:      f.costModel,
		InsertCost:     f.insertCost,
		DeleteCost:     f.deleteCost,
		RenameCost:     f.renameCost,
		SkipDocstrings: f.skipDocstrings,
		Precision:      f.precision,
	}
}

// loadConfig resolves the configuration for targetPath and applies the flags the user set
func loadConfig(cmd *cobra.Command, targetPath string, overrides config.Overrides) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return service.NewConfigurationLoader().LoadWithOverrides(configPath, targetPath, overrides, GetExplicitFlags(cmd))
}

// newLogger returns a stderr logger under --verbose and a silent one otherwise
func newLogger(cmd *cobra.Command) *log.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return log.New(cmd.ErrOrStderr(), "pyted: ", 0)
	}
	return log.New(io.Discard, "", 0)
}
