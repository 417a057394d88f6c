package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JaimeStill/tolerance/internal/pipeline"
)

// AnalyzeTool handles the analyze_feature tool.
type AnalyzeTool struct {
	analyzer Analyzer
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(analyzer Analyzer) *AnalyzeTool {
	return &AnalyzeTool{analyzer: analyzer}
}

// Definition returns the tool schema for analyze_feature.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_feature",
		mcp.WithDescription(
			"Recommend GD&T callouts for a part feature. Runs extraction, classification, "+
				"datum selection, standards lookup and callout generation on the local model, "+
				"and returns the completed analysis.",
		),
		mcp.WithString("description",
			mcp.Description("Plain-language description of the feature"),
		),
		mcp.WithString("image_base64",
			mcp.Description("JPEG or PNG drawing crop, raw base64 or a data URI"),
		),
		mcp.WithString("manufacturing_process",
			mcp.Description("Manufacturing process; overrides the extracted value"),
		),
		mcp.WithString("material",
			mcp.Description("Material; overrides the extracted value"),
		),
		mcp.WithBoolean("compare",
			mcp.Description("Also classify with the baseline model and report agreement"),
		),
	)
}

// Handle runs the analysis to completion.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := pipeline.Request{
		Description:          strings.TrimSpace(req.GetString("description", "")),
		ImageBase64:          req.GetString("image_base64", ""),
		ManufacturingProcess: req.GetString("manufacturing_process", ""),
		Material:             req.GetString("material", ""),
		Compare:              boolArg(req, "compare", false),
	}

	if err := r.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	completion, err := t.analyzer.Execute(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(completion)
}
