package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/pyted/internal/analyzer"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.TED.CostModel != "unit" {
		t.Errorf("Expected cost model 'unit', got %s", config.TED.CostModel)
	}
	if config.TED.Precision != 2 {
		t.Errorf("Expected precision 2, got %d", config.TED.Precision)
	}
	if config.TED.SkipDocstrings {
		t.Error("Expected skip_docstrings to be false by default")
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected format 'text', got %s", config.Output.Format)
	}
	if len(config.Batch.IncludePatterns) != 1 || config.Batch.IncludePatterns[0] != "**/*.py" {
		t.Errorf("Expected include patterns ['**/*.py'], got %v", config.Batch.IncludePatterns)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name          string
		modifyConfig  func(*Config)
		expectError   bool
		errorContains string
	}{
		{
			name:         "ValidConfig",
			modifyConfig: func(c *Config) {},
		},
		{
			name: "UnknownCostModel",
			modifyConfig: func(c *Config) {
				c.TED.CostModel = "apted"
			},
			expectError:   true,
			errorContains: "ted.cost_model",
		},
		{
			name: "NegativeCost",
			modifyConfig: func(c *Config) {
				c.TED.DeleteCost = -1
			},
			expectError:   true,
			errorContains: "must be >= 0",
		},
		{
			name: "PrecisionTooLarge",
			modifyConfig: func(c *Config) {
				c.TED.Precision = 11
			},
			expectError:   true,
			errorContains: "ted.precision",
		},
		{
			name: "InvalidFormat",
			modifyConfig: func(c *Config) {
				c.Output.Format = "html"
			},
			expectError:   true,
			errorContains: "invalid output.format",
		},
		{
			name: "EmptyIncludePatterns",
			modifyConfig: func(c *Config) {
				c.Batch.IncludePatterns = nil
			},
			expectError:   true,
			errorContains: "include_patterns cannot be empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modifyConfig(config)

			err := config.Validate()
			if tc.expectError {
				if err == nil {
					t.Fatal("Expected validation error but got none")
				}
				if !strings.Contains(err.Error(), tc.errorContains) {
					t.Errorf("Expected error containing %q, got %q", tc.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "custom.toml",
			content: `[ted]
cost_model = "weighted"
insert_cost = 2.0
precision = 3
`,
		},
		{
			name: "yaml",
			file: "custom.yaml",
			content: `ted:
  cost_model: weighted
  insert_cost: 2.0
  precision: 3
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if config.TED.CostModel != "weighted" {
				t.Errorf("Expected cost model 'weighted', got %s", config.TED.CostModel)
			}
			if config.TED.InsertCost != 2.0 {
				t.Errorf("Expected insert cost 2.0, got %g", config.TED.InsertCost)
			}
			if config.TED.DeleteCost != 1.0 {
				t.Errorf("Expected default delete cost 1.0, got %g", config.TED.DeleteCost)
			}
			if config.TED.Precision != 3 {
				t.Errorf("Expected precision 3, got %d", config.TED.Precision)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing config file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[ted]\nprecision = 42\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for precision 42")
	}
}

func TestLoadConfigWithTarget_Priority(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	// defaults when nothing is found above the target
	config, err := LoadConfigWithTarget("", sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.TED.Precision != DefaultPrecision {
		t.Errorf("Expected default precision, got %d", config.TED.Precision)
	}

	pyproject := "[project]\nname = \"demo\"\n\n[tool.pyted.ted]\nprecision = 4\n"
	if err := os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(pyproject), 0644); err != nil {
		t.Fatal(err)
	}
	config, err = LoadConfigWithTarget("", sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.TED.Precision != 4 {
		t.Errorf("Expected precision 4 from pyproject.toml, got %d", config.TED.Precision)
	}

	dedicated := "[ted]\nprecision = 5\n"
	if err := os.WriteFile(filepath.Join(root, "src", ".pyted.toml"), []byte(dedicated), 0644); err != nil {
		t.Fatal(err)
	}
	config, err = LoadConfigWithTarget("", sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.TED.Precision != 5 {
		t.Errorf("Expected precision 5 from .pyted.toml, got %d", config.TED.Precision)
	}

	// a target file resolves to its directory
	file := filepath.Join(sub, "a.py")
	if err := os.WriteFile(file, []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config, err = LoadConfigWithTarget("", file)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.TED.Precision != 5 {
		t.Errorf("Expected precision 5 for a file target, got %d", config.TED.Precision)
	}
}

func TestApplyOverrides(t *testing.T) {
	config := DefaultConfig()
	overrides := Overrides{
		CostModel:       "structural",
		Precision:       6,
		InsertCost:      9,
		IncludePatterns: []string{"*.py"},
		FailFast:        true,
	}
	flags := map[string]bool{
		FlagCostModel: true,
		FlagPrecision: true,
		FlagFailFast:  true,
	}

	config.ApplyOverrides(overrides, flags)

	if config.TED.CostModel != "structural" {
		t.Errorf("Expected cost model override, got %s", config.TED.CostModel)
	}
	if config.TED.Precision != 6 {
		t.Errorf("Expected precision override, got %d", config.TED.Precision)
	}
	if config.TED.InsertCost != 1.0 {
		t.Errorf("Insert cost flag was not set, expected 1.0, got %g", config.TED.InsertCost)
	}
	if config.Batch.IncludePatterns[0] != "**/*.py" {
		t.Errorf("Include flag was not set, got %v", config.Batch.IncludePatterns)
	}
	if !config.Batch.FailFast {
		t.Error("Expected fail_fast override")
	}
}

func TestTEDConfig_NewCostModel(t *testing.T) {
	config := DefaultConfig()
	config.TED.CostModel = "structural"

	cm, err := config.TED.NewCostModel()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := cm.(*analyzer.StructuralCostModel); !ok {
		t.Errorf("Expected *StructuralCostModel, got %T", cm)
	}

	config.TED.CostModel = "fuzzy"
	if _, err := config.TED.NewCostModel(); err == nil {
		t.Error("Expected an error for an unknown cost model")
	}
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("Failed to render default config: %v", err)
	}
	if !strings.Contains(content, `cost_model = "unit"`) {
		t.Errorf("Rendered config missing cost model:\n%s", content)
	}

	config, err := LoadDefaultConfigFromTOML()
	if err != nil {
		t.Fatalf("Failed to parse rendered config: %v", err)
	}
	defaults := DefaultConfig()
	if config.TED != defaults.TED {
		t.Errorf("Rendered TED section %+v differs from defaults %+v", config.TED, defaults.TED)
	}
	if config.Output.Format != defaults.Output.Format {
		t.Errorf("Rendered format %s differs from default %s", config.Output.Format, defaults.Output.Format)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Rendered config should be valid: %v", err)
	}
}
