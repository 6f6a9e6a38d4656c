package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolNames lists the registered tools in registration order
var ToolNames = []string{"compute_ted", "compute_sim", "relative_patch_size", "compare_code"}

// optionArguments are accepted by every tool and override the server configuration
func optionArguments() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("cost_model",
			mcp.Enum("unit", "weighted", "structural"),
			mcp.Description("Edit cost model (default: unit)")),
		mcp.WithNumber("insert_cost",
			mcp.Description("Insert cost for the weighted model (default: 1)")),
		mcp.WithNumber("delete_cost",
			mcp.Description("Delete cost for the weighted model (default: 1)")),
		mcp.WithNumber("rename_cost",
			mcp.Description("Rename cost for the weighted model (default: 1)")),
		mcp.WithBoolean("skip_docstrings",
			mcp.Description("Ignore leading docstrings (default: false)")),
	}
}

func newTool(name, description string, options ...mcp.ToolOption) mcp.Tool {
	options = append([]mcp.ToolOption{mcp.WithDescription(description)}, options...)
	return mcp.NewTool(name, append(options, optionArguments()...)...)
}

// RegisterTools registers all pyted MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	s.AddTool(newTool("compute_ted",
		"Tree edit distance between the Python syntax trees of two sources (Zhang-Shasha)",
		mcp.WithString("code1", mcp.Required(), mcp.Description("First Python source")),
		mcp.WithString("code2", mcp.Required(), mcp.Description("Second Python source")),
	), h.HandleComputeTED)

	s.AddTool(newTool("compute_sim",
		"Structural similarity 1 - ted / (size1 + size2) of two Python sources",
		mcp.WithString("code1", mcp.Required(), mcp.Description("First Python source")),
		mcp.WithString("code2", mcp.Required(), mcp.Description("Second Python source")),
	), h.HandleComputeSim)

	s.AddTool(newTool("relative_patch_size",
		"Tree edit distance divided by the size of the buggy tree, rounded half to even",
		mcp.WithString("buggy", mcp.Required(), mcp.Description("Buggy Python source")),
		mcp.WithString("patch", mcp.Required(), mcp.Description("Patched Python source")),
		mcp.WithNumber("precision", mcp.Description("Decimal places, 0 to 10 (default: 2)")),
	), h.HandleRelativePatchSize)

	s.AddTool(newTool("compare_code",
		"All metrics and tree sizes of a buggy Python source and its patch",
		mcp.WithString("buggy", mcp.Required(), mcp.Description("Buggy Python source")),
		mcp.WithString("patch", mcp.Required(), mcp.Description("Patched Python source")),
		mcp.WithNumber("precision", mcp.Description("Decimal places of the relative patch size, 0 to 10 (default: 2)")),
	), h.HandleCompareCode)
}
