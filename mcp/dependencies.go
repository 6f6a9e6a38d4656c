package mcp

import (
	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	service    domain.TEDService
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	return NewDependenciesWithService(service.NewTEDService(), cfg, configPath)
}

// NewDependenciesWithService constructs the dependency set around a given TED service.
func NewDependenciesWithService(tedService domain.TEDService, cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		service:    tedService,
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty when defaults apply).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Service returns the TED service shared by every handler.
func (d *Dependencies) Service() domain.TEDService {
	return d.service
}

// Options returns the computation options of the loaded configuration.
func (d *Dependencies) Options() domain.TEDOptions {
	return service.OptionsFromConfig(d.config)
}
