package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPyprojectConfig(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `[project]
name = "demo"

[tool.pyted.ted]
cost_model = "weighted"
rename_cost = 0.5
skip_docstrings = true
precision = 0

[tool.pyted.output]
format = "json"
directory = "out"

[tool.pyted.batch]
include_patterns = ["src/**/*.py"]
fail_fast = true
`
	configPath := filepath.Join(tempDir, "pyproject.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadPyprojectConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.TED.CostModel != "weighted" {
		t.Errorf("Expected cost model 'weighted', got %s", config.TED.CostModel)
	}
	if config.TED.RenameCost != 0.5 {
		t.Errorf("Expected rename cost 0.5, got %g", config.TED.RenameCost)
	}
	if config.TED.InsertCost != 1.0 {
		t.Errorf("Expected default insert cost 1.0, got %g", config.TED.InsertCost)
	}
	if !config.TED.SkipDocstrings {
		t.Error("Expected skip_docstrings true")
	}
	if config.TED.Precision != 0 {
		t.Errorf("Expected explicit precision 0, got %d", config.TED.Precision)
	}
	if config.Output.Format != "json" || config.Output.Directory != "out" {
		t.Errorf("Unexpected output config: %+v", config.Output)
	}
	if len(config.Batch.IncludePatterns) != 1 || config.Batch.IncludePatterns[0] != "src/**/*.py" {
		t.Errorf("Unexpected include patterns: %v", config.Batch.IncludePatterns)
	}
	if !config.Batch.FailFast {
		t.Error("Expected fail_fast true")
	}
}

func TestLoadPyprojectConfig_NoToolSection(t *testing.T) {
	tempDir := t.TempDir()
	content := "[project]\nname = \"demo\"\n\n[tool.ruff]\nline-length = 100\n"
	if err := os.WriteFile(filepath.Join(tempDir, "pyproject.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadPyprojectConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.TED.CostModel != DefaultCostModel {
		t.Errorf("Expected defaults, got cost model %s", config.TED.CostModel)
	}

	if path := NewTomlConfigLoader().FindConfigFile(tempDir); path != "" {
		t.Errorf("Expected no config file for pyproject.toml without [tool.pyted], got %s", path)
	}
}

func TestLoadPyprojectConfig_Invalid(t *testing.T) {
	tempDir := t.TempDir()

	content := "[tool.pyted.ted]\ncost_model = \"fuzzy\"\n"
	if err := os.WriteFile(filepath.Join(tempDir, "pyproject.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadPyprojectConfig(tempDir); err == nil {
		t.Error("Expected error for unknown cost model")
	}

	if err := os.WriteFile(filepath.Join(tempDir, "pyproject.toml"), []byte("[tool.pyted\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadPyprojectConfig(tempDir); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
