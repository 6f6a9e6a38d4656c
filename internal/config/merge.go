package config

// Flag names that may override configuration values
const (
	FlagCostModel      = "cost-model"
	FlagInsertCost     = "insert-cost"
	FlagDeleteCost     = "delete-cost"
	FlagRenameCost     = "rename-cost"
	FlagSkipDocstrings = "skip-docstrings"
	FlagPrecision      = "precision"
	FlagInclude        = "include"
	FlagExclude        = "exclude"
	FlagFailFast       = "fail-fast"
)

// Overrides holds values given on the command line
type Overrides struct {
	CostModel      string
	InsertCost     float64
	DeleteCost     float64
	RenameCost     float64
	SkipDocstrings bool
	Precision      int

	IncludePatterns []string
	ExcludePatterns []string
	FailFast        bool
}

// WasExplicitlySet checks if a flag was explicitly set by the user
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// mergeValue uses override only if its flag was explicitly set
func mergeValue[T any](base, override T, flagName string, flags map[string]bool) T {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// ApplyOverrides merges explicitly set command-line values into the configuration
func (c *Config) ApplyOverrides(o Overrides, flags map[string]bool) {
	c.TED.CostModel = mergeValue(c.TED.CostModel, o.CostModel, FlagCostModel, flags)
	c.TED.InsertCost = mergeValue(c.TED.InsertCost, o.InsertCost, FlagInsertCost, flags)
	c.TED.DeleteCost = mergeValue(c.TED.DeleteCost, o.DeleteCost, FlagDeleteCost, flags)
	c.TED.RenameCost = mergeValue(c.TED.RenameCost, o.RenameCost, FlagRenameCost, flags)
	c.TED.SkipDocstrings = mergeValue(c.TED.SkipDocstrings, o.SkipDocstrings, FlagSkipDocstrings, flags)
	c.TED.Precision = mergeValue(c.TED.Precision, o.Precision, FlagPrecision, flags)

	if len(o.IncludePatterns) > 0 {
		c.Batch.IncludePatterns = mergeValue(c.Batch.IncludePatterns, o.IncludePatterns, FlagInclude, flags)
	}
	if len(o.ExcludePatterns) > 0 {
		c.Batch.ExcludePatterns = mergeValue(c.Batch.ExcludePatterns, o.ExcludePatterns, FlagExclude, flags)
	}
	c.Batch.FailFast = mergeValue(c.Batch.FailFast, o.FailFast, FlagFailFast, flags)
}
