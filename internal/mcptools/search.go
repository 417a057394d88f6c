package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JaimeStill/tolerance/internal/standards"
)

// SearchTool handles the search_standards tool.
type SearchTool struct {
	searcher Searcher
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(searcher Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

// Definition returns the tool schema for search_standards.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_standards",
		mcp.WithDescription("Search the ASME Y14.5 characteristic reference for entries relevant to a query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Keywords, e.g. \"hole location mating pin\""),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Max results (default: 5, max: 20)"),
		),
	)
}

// Handle runs the search.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	topK := min(max(intArg(req, "top_k", 5), 1), standards.MaxTopK)

	matches, err := t.searcher.Search(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText("No standards entries matched the query."), nil
	}

	return jsonResult(matches)
}
