package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template
type DefaultConfigValues struct {
	CostModel       string
	InsertCost      float64
	DeleteCost      float64
	RenameCost      float64
	Precision       int
	MaxPrecision    int
	OutputFormat    string
	IncludePatterns string
}

func newDefaultConfigValues() DefaultConfigValues {
	defaults := DefaultConfig()
	quoted := make([]string, len(defaults.Batch.IncludePatterns))
	for i, p := range defaults.Batch.IncludePatterns {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return DefaultConfigValues{
		CostModel:       defaults.TED.CostModel,
		InsertCost:      defaults.TED.InsertCost,
		DeleteCost:      defaults.TED.DeleteCost,
		RenameCost:      defaults.TED.RenameCost,
		Precision:       defaults.TED.Precision,
		MaxPrecision:    MaxPrecision,
		OutputFormat:    defaults.Output.Format,
		IncludePatterns: strings.Join(quoted, ", "),
	}
}

// GenerateDefaultConfigTOML renders the commented .pyted.toml written by `pyted init`
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the rendered default config back into a Config
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal([]byte(configTOML), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}
	return cfg, nil
}
