package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PyprojectToml represents the structure of pyproject.toml
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Pyted *PytedTomlConfig `toml:"pyted"`
}

// PytedTomlConfig represents the [tool.pyted] section. Pointers detect unset values.
type PytedTomlConfig struct {
	TED    TEDTomlSection    `toml:"ted"`
	Output OutputTomlSection `toml:"output"`
	Batch  BatchTomlSection  `toml:"batch"`
}

type TEDTomlSection struct {
	CostModel      string   `toml:"cost_model"`
	InsertCost     *float64 `toml:"insert_cost"`
	DeleteCost     *float64 `toml:"delete_cost"`
	RenameCost     *float64 `toml:"rename_cost"`
	SkipDocstrings *bool    `toml:"skip_docstrings"`
	Precision      *int     `toml:"precision"`
}

type OutputTomlSection struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory"`
}

type BatchTomlSection struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	FailFast        *bool    `toml:"fail_fast"`
}

// LoadPyprojectConfig loads configuration from the nearest pyproject.toml.
// Defaults are returned when there is no file or no [tool.pyted] section.
func LoadPyprojectConfig(startDir string) (*Config, error) {
	config := DefaultConfig()

	configPath, err := findPyprojectToml(startDir)
	if err != nil {
		return config, nil
	}

	pyproject, err := readPyproject(configPath)
	if err != nil {
		return nil, err
	}
	if pyproject.Tool.Pyted == nil {
		return config, nil
	}

	mergeTomlConfig(config, pyproject.Tool.Pyted)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

func readPyproject(path string) (*PyprojectToml, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &pyproject, nil
}

func hasToolSection(path string) (bool, error) {
	pyproject, err := readPyproject(path)
	if err != nil {
		return false, err
	}
	return pyproject.Tool.Pyted != nil, nil
}

// findPyprojectToml walks up the directory tree to find pyproject.toml
func findPyprojectToml(startDir string) (string, error) {
	return findUp(startDir, "pyproject.toml")
}

// mergeTomlConfig merges [tool.pyted] values into the defaults
func mergeTomlConfig(defaults *Config, section *PytedTomlConfig) {
	if section.TED.CostModel != "" {
		defaults.TED.CostModel = section.TED.CostModel
	}
	if section.TED.InsertCost != nil {
		defaults.TED.InsertCost = *section.TED.InsertCost
	}
	if section.TED.DeleteCost != nil {
		defaults.TED.DeleteCost = *section.TED.DeleteCost
	}
	if section.TED.RenameCost != nil {
		defaults.TED.RenameCost = *section.TED.RenameCost
	}
	if section.TED.SkipDocstrings != nil {
		defaults.TED.SkipDocstrings = *section.TED.SkipDocstrings
	}
	if section.TED.Precision != nil {
		defaults.TED.Precision = *section.TED.Precision
	}

	if section.Output.Format != "" {
		defaults.Output.Format = section.Output.Format
	}
	if section.Output.Directory != "" {
		defaults.Output.Directory = section.Output.Directory
	}

	if len(section.Batch.IncludePatterns) > 0 {
		defaults.Batch.IncludePatterns = section.Batch.IncludePatterns
	}
	if len(section.Batch.ExcludePatterns) > 0 {
		defaults.Batch.ExcludePatterns = section.Batch.ExcludePatterns
	}
	if section.Batch.FailFast != nil {
		defaults.Batch.FailFast = *section.Batch.FailFast
	}
}
