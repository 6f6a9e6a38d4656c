package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
)

func TestConfigurationLoader_LoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := createTestFile(t, dir, ".pyted.toml", `
[ted]
cost_model = "weighted"
insert_cost = 2.0
precision = 3
`)
	loader := NewConfigurationLoader()

	cfg, err := loader.LoadWithOverrides(configPath, "", config.Overrides{Precision: 4, InsertCost: 9}, map[string]bool{
		config.FlagPrecision: true,
	})
	require.NoError(t, err)

	options := OptionsFromConfig(cfg)
	assert.Equal(t, "weighted", options.CostModel)
	assert.Equal(t, 2.0, options.InsertCost)
	assert.Equal(t, 4, options.Precision)
}

func TestConfigurationLoader_InvalidOverride(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadWithOverrides("", t.TempDir(), config.Overrides{CostModel: "fancy"}, map[string]bool{
		config.FlagCostModel: true,
	})
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))

	_, err = loader.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.True(t, domain.HasCode(err, domain.ErrCodeConfigError))
}

func TestConfigurationLoader_FindConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := createTestFile(t, dir, ".pyted.toml", "[ted]\n")
	source := createTestFile(t, dir, "pkg/a.py", "x = 1\n")
	loader := NewConfigurationLoader()

	assert.Equal(t, "explicit.toml", loader.FindConfigFile("explicit.toml", source))
	found := loader.FindConfigFile("", source)
	assert.Equal(t, filepath.Base(configPath), filepath.Base(found))
	assert.Equal(t, filepath.Dir(configPath), filepath.Dir(found))
}

func TestOptionsFromConfig_Defaults(t *testing.T) {
	assert.Equal(t, domain.DefaultTEDOptions(), OptionsFromConfig(nil))
	assert.Equal(t, domain.DefaultTEDOptions(), OptionsFromConfig(config.DefaultConfig()))
}

func TestFileOutputWriter(t *testing.T) {
	var status bytes.Buffer
	writer := NewFileOutputWriter(&status)
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "report")
		return err
	}

	var out bytes.Buffer
	require.NoError(t, writer.Write(&out, "", domain.OutputFormatText, write))
	assert.Equal(t, "report", out.String())
	assert.Empty(t, status.String())

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, writer.Write(nil, path, domain.OutputFormatJSON, write))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))
	assert.Contains(t, status.String(), "JSON report generated")

	err = writer.Write(nil, "", domain.OutputFormatText, write)
	assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))
}
