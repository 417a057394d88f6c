// Package mcptools exposes the analysis pipeline and its supporting lookups
// as MCP tools. Each tool carries its dependencies, returns its schema from
// Definition, and serves calls from Handle.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/pipeline"
)

// Analyzer runs a complete analysis.
type Analyzer interface {
	Execute(ctx context.Context, req pipeline.Request) (*pipeline.Completion, error)
}

// Searcher ranks standards entries against a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]gdt.StandardMatch, error)
}

// Register adds every tool to the server.
func Register(s *server.MCPServer, analyzer Analyzer, searcher Searcher) {
	analyze := NewAnalyzeTool(analyzer)
	s.AddTool(analyze.Definition(), analyze.Handle)

	frame := NewFrameTool()
	s.AddTool(frame.Definition(), frame.Handle)

	search := NewSearchTool(searcher)
	s.AddTool(search.Definition(), search.Handle)
}

func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
