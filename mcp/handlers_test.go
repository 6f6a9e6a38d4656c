package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/internal/config"
	"github.com/ludo-technologies/pyted/mcp"
)

type handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

func callTool(t *testing.T, h *mcp.HandlerSet, handler handlerFunc, arguments interface{}) *mcplib.CallToolResult {
	t.Helper()
	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}
	res, err := handler(h, t.Context(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decodeResult(t *testing.T, res *mcplib.CallToolResult) map[string]interface{} {
	t.Helper()
	require.Greater(t, len(res.Content), 0)
	require.False(t, res.IsError, res.Content[0].(mcplib.TextContent).Text)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcplib.TextContent).Text), &result))
	return result
}

func TestHandleMetrics(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	tests := map[string]struct {
		handler   handlerFunc
		arguments map[string]interface{}
		metric    string
		value     float64
	}{
		"ted": {
			handler:   (*mcp.HandlerSet).HandleComputeTED,
			arguments: map[string]interface{}{"code1": "x = 1", "code2": "y = 2"},
			metric:    "ted",
			value:     2,
		},
		"sim_identical": {
			handler:   (*mcp.HandlerSet).HandleComputeSim,
			arguments: map[string]interface{}{"code1": "x = 1", "code2": "x = 1  # same"},
			metric:    "sim",
			value:     1,
		},
		"rps": {
			handler:   (*mcp.HandlerSet).HandleRelativePatchSize,
			arguments: map[string]interface{}{"buggy": "x = 1", "patch": "x = 2"},
			metric:    "rps",
			value:     0.11,
		},
		"rps_precision": {
			handler:   (*mcp.HandlerSet).HandleRelativePatchSize,
			arguments: map[string]interface{}{"buggy": "x = 1", "patch": "x = 2", "precision": float64(3)},
			metric:    "rps",
			value:     0.111,
		},
		"weighted": {
			handler: (*mcp.HandlerSet).HandleComputeTED,
			arguments: map[string]interface{}{
				"code1": "x = 1", "code2": "x = 1\ny = 2",
				"cost_model": "weighted", "insert_cost": float64(2),
			},
			metric: "ted",
			value:  16,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := decodeResult(t, callTool(t, h, tt.handler, tt.arguments))
			assert.Equal(t, tt.metric, result["metric"])
			assert.Equal(t, tt.value, result["value"])
		})
	}
}

func TestHandleMetrics_Errors(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	tests := map[string]struct {
		handler      handlerFunc
		arguments    interface{}
		expectPrefix string
	}{
		"invalid_arguments_format": {
			handler:      (*mcp.HandlerSet).HandleComputeTED,
			arguments:    "not-a-map",
			expectPrefix: "invalid arguments format",
		},
		"code2_missing": {
			handler:      (*mcp.HandlerSet).HandleComputeSim,
			arguments:    map[string]interface{}{"code1": "x = 1"},
			expectPrefix: "code2 parameter is required",
		},
		"buggy_wrong_type": {
			handler:      (*mcp.HandlerSet).HandleCompareCode,
			arguments:    map[string]interface{}{"buggy": 1, "patch": "x = 1"},
			expectPrefix: "buggy parameter is required",
		},
		"syntax_error": {
			handler:      (*mcp.HandlerSet).HandleComputeTED,
			arguments:    map[string]interface{}{"code1": "def f(:", "code2": "x = 1"},
			expectPrefix: "ted failed",
		},
		"unknown_cost_model": {
			handler:      (*mcp.HandlerSet).HandleComputeTED,
			arguments:    map[string]interface{}{"code1": "x = 1", "code2": "x = 1", "cost_model": "fancy"},
			expectPrefix: "ted failed",
		},
		"precision_too_large": {
			handler:      (*mcp.HandlerSet).HandleRelativePatchSize,
			arguments:    map[string]interface{}{"buggy": "x = 1", "patch": "x = 2", "precision": 200000000.0},
			expectPrefix: "precision must be an integer between 0 and 10",
		},
		"bad_precision": {
			handler:      (*mcp.HandlerSet).HandleRelativePatchSize,
			arguments:    map[string]interface{}{"buggy": "x = 1", "patch": "x = 1", "precision": 1.5},
			expectPrefix: "precision must be",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := callTool(t, h, tt.handler, tt.arguments)
			assert.True(t, res.IsError)
			require.Greater(t, len(res.Content), 0)
			assert.Contains(t, res.Content[0].(mcplib.TextContent).Text, tt.expectPrefix)
		})
	}
}

func TestHandleCompareCode(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	result := decodeResult(t, callTool(t, h, (*mcp.HandlerSet).HandleCompareCode, map[string]interface{}{
		"buggy": "def f():\n    pass\n",
		"patch": "def f():\n    return 1\n",
	}))
	assert.Equal(t, 4.0, result["ted"])
	assert.Contains(t, result, "similarity")
	assert.Contains(t, result, "relative_patch_size")
	assert.Contains(t, result, "buggy_size")
	assert.Contains(t, result, "options")
}

func TestHandlers_UseConfiguration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".pyted.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[ted]\ncost_model = \"structural\"\n"), 0o644))
	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	h := mcp.NewHandlerSet(mcp.NewDependencies(cfg, configPath))
	result := decodeResult(t, callTool(t, h, (*mcp.HandlerSet).HandleComputeTED, map[string]interface{}{
		"code1": "x = 1", "code2": "y = 2",
	}))
	assert.Equal(t, 0.0, result["value"])

	// arguments beat the configuration
	result = decodeResult(t, callTool(t, h, (*mcp.HandlerSet).HandleComputeTED, map[string]interface{}{
		"code1": "x = 1", "code2": "y = 2", "cost_model": "unit",
	}))
	assert.Equal(t, 2.0, result["value"])
}
