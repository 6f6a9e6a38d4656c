package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/pyted/domain"
	"github.com/ludo-technologies/pyted/internal/config"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// metricResult is the JSON body of the single-metric tools
type metricResult struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// HandleComputeTED handles the compute_ted tool
func (h *HandlerSet) HandleComputeTED(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleMetric(ctx, request, domain.MetricTED, "code1", "code2")
}

// HandleComputeSim handles the compute_sim tool
func (h *HandlerSet) HandleComputeSim(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleMetric(ctx, request, domain.MetricSimilarity, "code1", "code2")
}

// HandleRelativePatchSize handles the relative_patch_size tool
func (h *HandlerSet) HandleRelativePatchSize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.handleMetric(ctx, request, domain.MetricRelativePatchSize, "buggy", "patch")
}

// HandleCompareCode handles the compare_code tool
func (h *HandlerSet) HandleCompareCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	buggy, patch, errResult := sourcePair(args, "buggy", "patch")
	if errResult != nil {
		return errResult, nil
	}
	options, err := h.options(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.deps.Service().Compare(ctx, buggy, patch, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"ted":                 result.Distance,
		"similarity":          result.Similarity,
		"relative_patch_size": result.RelativePatchSize,
		"buggy_size":          result.BuggySize,
		"patch_size":          result.PatchSize,
		"options":             options,
	})
}

func (h *HandlerSet) handleMetric(ctx context.Context, request mcp.CallToolRequest, metric domain.MetricKind, first, second string) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	code1, code2, errResult := sourcePair(args, first, second)
	if errResult != nil {
		return errResult, nil
	}
	options, err := h.options(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, err := h.deps.Service().ComputeMetric(ctx, metric, code1, code2, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", metric, err)), nil
	}
	return jsonResult(metricResult{Metric: string(metric), Value: value})
}

// options overlays tool arguments on the configured options
func (h *HandlerSet) options(args map[string]interface{}) (domain.TEDOptions, error) {
	options := h.deps.Options()

	if v, ok := args["cost_model"]; ok {
		s, ok := v.(string)
		if !ok {
			return options, fmt.Errorf("cost_model must be a string")
		}
		options.CostModel = s
	}
	for name, target := range map[string]*float64{
		"insert_cost": &options.InsertCost,
		"delete_cost": &options.DeleteCost,
		"rename_cost": &options.RenameCost,
	} {
		if v, ok := args[name]; ok {
			f, ok := v.(float64)
			if !ok {
				return options, fmt.Errorf("%s must be a number", name)
			}
			*target = f
		}
	}
	if v, ok := args["skip_docstrings"]; ok {
		b, ok := v.(bool)
		if !ok {
			return options, fmt.Errorf("skip_docstrings must be a boolean")
		}
		options.SkipDocstrings = b
	}
	if v, ok := args["precision"]; ok {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) || f < 0 || f > config.MaxPrecision {
			return options, fmt.Errorf("precision must be an integer between 0 and %d", config.MaxPrecision)
		}
		options.Precision = int(f)
	}
	return options, nil
}

func sourcePair(args map[string]interface{}, first, second string) (string, string, *mcp.CallToolResult) {
	code1, ok := args[first].(string)
	if !ok {
		return "", "", mcp.NewToolResultError(fmt.Sprintf("%s parameter is required and must be a string", first))
	}
	code2, ok := args[second].(string)
	if !ok {
		return "", "", mcp.NewToolResultError(fmt.Sprintf("%s parameter is required and must be a string", second))
	}
	return code1, code2, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
