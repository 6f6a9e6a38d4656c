package service

import (
	"os"
	"path/filepath"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
)

// ConfigurationLoaderImpl resolves configuration files and command-line overrides
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads the configuration for a target path.
// An explicit configPath wins over discovery from targetPath.
func (c *ConfigurationLoaderImpl) LoadConfig(configPath, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// LoadWithOverrides loads the configuration and applies explicitly set flags on top
func (c *ConfigurationLoaderImpl) LoadWithOverrides(configPath, targetPath string, overrides config.Overrides, flags map[string]bool) (*config.Config, error) {
	cfg, err := c.LoadConfig(configPath, targetPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(overrides, flags)
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// FindConfigFile names the configuration file that applies to targetPath,
// or returns an empty string when only defaults apply
func (c *ConfigurationLoaderImpl) FindConfigFile(configPath, targetPath string) string {
	if configPath != "" {
		return configPath
	}
	startDir := targetPath
	if startDir == "" {
		startDir = "."
	}
	if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}
	return config.NewTomlConfigLoader().FindConfigFile(startDir)
}

// OptionsFromConfig converts the [ted] section into computation options
func OptionsFromConfig(cfg *config.Config) domain.TEDOptions {
	if cfg == nil {
		return domain.DefaultTEDOptions()
	}
	return domain.TEDOptions{
		CostModel:      cfg.TED.CostModel,
		InsertCost:     cfg.TED.InsertCost,
		DeleteCost:     cfg.TED.DeleteCost,
		RenameCost:     cfg.TED.RenameCost,
		SkipDocstrings: cfg.TED.SkipDocstrings,
		Precision:      cfg.TED.Precision,
	}
}
