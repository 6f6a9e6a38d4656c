package config

import (
	"os"
	"path/filepath"
)

// TomlConfigLoader discovers configuration files around a target directory
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with ruff-like priority:
// 1. .pyted.toml (dedicated config file)
// 2. pyproject.toml (with [tool.pyted] section)
// 3. defaults
//
// A file that exists but cannot be read or is invalid is an error.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	if configPath, err := l.findPytedToml(startDir); err == nil {
		return LoadConfig(configPath)
	}

	if _, err := findPyprojectToml(startDir); err == nil {
		return LoadPyprojectConfig(startDir)
	}

	return DefaultConfig(), nil
}

// findPytedToml walks up the directory tree to find .pyted.toml
func (l *TomlConfigLoader) findPytedToml(startDir string) (string, error) {
	return findUp(startDir, DefaultConfigFileName)
}

// FindConfigFile returns the path of the configuration file that applies to
// startDir, or an empty string when only defaults apply
func (l *TomlConfigLoader) FindConfigFile(startDir string) string {
	if path, err := l.findPytedToml(startDir); err == nil {
		return path
	}
	if path, err := findPyprojectToml(startDir); err == nil {
		if ok, _ := hasToolSection(path); ok {
			return path
		}
	}
	return ""
}

func findUp(startDir, name string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		dir = startDir
	}
	for {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
