package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/pyted/internal/analyzer"
)

// Default tree edit distance settings
const (
	// DefaultCostModel prices every insert, delete and rename at 1
	DefaultCostModel = analyzer.CostModelUnit

	// DefaultOperationCost is the weight of each edit operation in the weighted model
	DefaultOperationCost = 1.0

	// DefaultPrecision is the number of decimals of the relative patch size
	DefaultPrecision = analyzer.DefaultPrecision

	// MaxPrecision bounds the configurable precision
	MaxPrecision = 10
)

// Default output settings
const (
	DefaultOutputFormat = "text"

	// DefaultConfigFileName is the dedicated configuration file
	DefaultConfigFileName = ".pyted.toml"
)

// Config represents the main configuration structure
type Config struct {
	// TED holds tree edit distance settings
	TED TEDConfig `mapstructure:"ted" yaml:"ted" toml:"ted"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// Batch holds directory comparison settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" toml:"batch"`
}

// TEDConfig holds configuration for the tree edit distance computation
type TEDConfig struct {
	// CostModel is one of unit, weighted, structural
	CostModel string `mapstructure:"cost_model" yaml:"cost_model" toml:"cost_model"`

	// Operation weights, used by the weighted cost model
	InsertCost float64 `mapstructure:"insert_cost" yaml:"insert_cost" toml:"insert_cost"`
	DeleteCost float64 `mapstructure:"delete_cost" yaml:"delete_cost" toml:"delete_cost"`
	RenameCost float64 `mapstructure:"rename_cost" yaml:"rename_cost" toml:"rename_cost"`

	// SkipDocstrings drops leading docstrings before comparing
	SkipDocstrings bool `mapstructure:"skip_docstrings" yaml:"skip_docstrings" toml:"skip_docstrings"`

	// Precision is the number of decimals of the relative patch size
	Precision int `mapstructure:"precision" yaml:"precision" toml:"precision"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// Directory is where report files are written; empty means .pyted/reports
	Directory string `mapstructure:"directory" yaml:"directory" toml:"directory"`
}

// BatchConfig holds configuration for comparing two directories
type BatchConfig struct {
	// IncludePatterns are doublestar globs of files to pair
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns are doublestar globs of files to skip
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// FailFast stops at the first pair that cannot be compared
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast" toml:"fail_fast"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TED: TEDConfig{
			CostModel:      DefaultCostModel,
			InsertCost:     DefaultOperationCost,
			DeleteCost:     DefaultOperationCost,
			RenameCost:     DefaultOperationCost,
			SkipDocstrings: false,
			Precision:      DefaultPrecision,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Batch: BatchConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{},
			FailFast:        false,
		},
	}
}

// LoadConfig loads configuration from an explicit file of any type viper
// understands. An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with priority:
// explicit file > .pyted.toml > pyproject.toml [tool.pyted] > defaults.
// Discovery walks up from targetPath (or the current directory).
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	startDir := targetPath
	if startDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return DefaultConfig(), nil
		}
		startDir = cwd
	}
	if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	return NewTomlConfigLoader().LoadConfig(startDir)
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := c.TED.NewCostModel(); err != nil {
		return fmt.Errorf("invalid ted.cost_model: %w", err)
	}

	if c.TED.InsertCost < 0 || c.TED.DeleteCost < 0 || c.TED.RenameCost < 0 {
		return fmt.Errorf("ted costs must be >= 0, got insert=%g delete=%g rename=%g",
			c.TED.InsertCost, c.TED.DeleteCost, c.TED.RenameCost)
	}

	if c.TED.Precision < 0 || c.TED.Precision > MaxPrecision {
		return fmt.Errorf("ted.precision must be between 0 and %d, got %d", MaxPrecision, c.TED.Precision)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	if len(c.Batch.IncludePatterns) == 0 {
		return fmt.Errorf("batch.include_patterns cannot be empty")
	}

	return nil
}

// NewCostModel builds the configured cost model
func (c *TEDConfig) NewCostModel() (analyzer.CostModel, error) {
	return analyzer.NewCostModel(c.CostModel, c.InsertCost, c.DeleteCost, c.RenameCost)
}
