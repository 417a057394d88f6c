package mcptools_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/mcptools"
	"github.com/JaimeStill/tolerance/internal/pipeline"
)

type analyzer struct {
	got        pipeline.Request
	completion *pipeline.Completion
	err        error
}

func (a *analyzer) Execute(ctx context.Context, req pipeline.Request) (*pipeline.Completion, error) {
	a.got = req
	return a.completion, a.err
}

type searcher struct {
	topK    int
	matches []gdt.StandardMatch
	err     error
}

func (s *searcher) Search(ctx context.Context, query string, topK int) ([]gdt.StandardMatch, error) {
	s.topK = topK
	return s.matches, s.err
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestFrameTool(t *testing.T) {
	tool := mcptools.NewFrameTool()

	tests := []struct {
		name    string
		args    map[string]any
		want    string
		warning string
		wantErr bool
	}{
		{
			name: "position at mmc",
			args: map[string]any{"characteristic": "position", "tolerance": "0.25", "modifier": "MMC", "datums": "A,B"},
			want: "|⊕| ⌀0.25Ⓜ | A | B |",
		},
		{
			name:    "form control drops datums",
			args:    map[string]any{"characteristic": "flatness", "tolerance": "0.05", "datums": "A"},
			want:    "|▱| 0.05 |",
			warning: "removed from form control flatness",
		},
		{
			name: "cylindrical override",
			args: map[string]any{"characteristic": "position", "tolerance": "0.1", "datums": "A", "cylindrical": false},
			want: "|⊕| 0.1 | A |",
		},
		{
			name:    "excess labels truncated",
			args:    map[string]any{"characteristic": "position", "tolerance": "0.1", "datums": "A,B,C,D"},
			want:    "|⊕| ⌀0.1 | A | B | C |",
			warning: "truncated to 3",
		},
		{
			name:    "duplicate labels removed",
			args:    map[string]any{"characteristic": "position", "tolerance": "0.1", "datums": "B,A,A"},
			want:    "|⊕| ⌀0.1 | B | A |",
			warning: "duplicate reference label A",
		},
		{
			name:    "embedded modifier stripped from form control",
			args:    map[string]any{"characteristic": "flatness", "tolerance": "0.05Ⓜ"},
			want:    "|▱| 0.05 |",
			warning: "MMC not applicable to flatness",
		},
		{
			name:    "diameter stripped from form control",
			args:    map[string]any{"characteristic": "flatness", "tolerance": "⌀0.05"},
			want:    "|▱| 0.05 |",
			warning: "diameter zone not applicable",
		},
		{
			name:    "orientation control without datums",
			args:    map[string]any{"characteristic": "perpendicularity", "tolerance": "0.05"},
			wantErr: true,
		},
		{
			name:    "label with separator",
			args:    map[string]any{"characteristic": "position", "tolerance": "0.1", "datums": "A|B"},
			wantErr: true,
		},
		{
			name:    "non-numeric tolerance",
			args:    map[string]any{"characteristic": "position", "tolerance": "tight", "datums": "A"},
			wantErr: true,
		},
		{
			name:    "unknown characteristic",
			args:    map[string]any{"characteristic": "roundness-ish", "tolerance": "0.1"},
			wantErr: true,
		},
		{
			name:    "missing tolerance",
			args:    map[string]any{"characteristic": "flatness"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("handle: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v (%s)", result.IsError, tt.wantErr, resultText(result))
			}
			if tt.wantErr {
				return
			}

			var got mcptools.FrameResult
			if err := json.Unmarshal([]byte(resultText(result)), &got); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if got.Frame != tt.want {
				t.Errorf("frame = %q, want %q", got.Frame, tt.want)
			}

			if tt.warning == "" {
				if len(got.Warnings) != 0 {
					t.Errorf("warnings = %v, want none", got.Warnings)
				}
				return
			}
			found := false
			for _, w := range got.Warnings {
				if strings.HasPrefix(w, gdt.WarnValidation) && strings.Contains(w, tt.warning) {
					found = true
				}
			}
			if !found {
				t.Errorf("warnings = %v, want one containing %q", got.Warnings, tt.warning)
			}
		})
	}
}

func TestFrameToolDefinition(t *testing.T) {
	def := mcptools.NewFrameTool().Definition()
	if def.Name != "format_frame" {
		t.Errorf("name = %q", def.Name)
	}

	required := strings.Join(def.InputSchema.Required, ",")
	if !strings.Contains(required, "characteristic") || !strings.Contains(required, "tolerance") {
		t.Errorf("required = %v", def.InputSchema.Required)
	}
}

func TestAnalyzeTool(t *testing.T) {
	t.Run("runs the pipeline", func(t *testing.T) {
		a := &analyzer{completion: &pipeline.Completion{
			Metadata: pipeline.Metadata{InferenceDevice: pipeline.InferenceDevice},
		}}
		tool := mcptools.NewAnalyzeTool(a)

		result, err := tool.Handle(context.Background(), makeReq(map[string]any{
			"description": "  12 mm boss on the mounting face  ",
			"material":    "AL6061-T6",
			"compare":     true,
		}))
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected error result: %s", resultText(result))
		}
		if a.got.Description != "12 mm boss on the mounting face" || a.got.Material != "AL6061-T6" || !a.got.Compare {
			t.Errorf("request = %+v", a.got)
		}

		var decoded struct {
			Metadata pipeline.Metadata `json:"metadata"`
		}
		if err := json.Unmarshal([]byte(resultText(result)), &decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Metadata.InferenceDevice != "local" {
			t.Errorf("inference_device = %q", decoded.Metadata.InferenceDevice)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		a := &analyzer{}
		result, err := mcptools.NewAnalyzeTool(a).Handle(context.Background(), makeReq(map[string]any{}))
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if !result.IsError {
			t.Error("expected error result")
		}
	})

	t.Run("reports failure", func(t *testing.T) {
		a := &analyzer{err: pipeline.ErrTransportUnavailable}
		result, err := mcptools.NewAnalyzeTool(a).Handle(context.Background(), makeReq(map[string]any{
			"description": "slot",
		}))
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		if !result.IsError || !strings.Contains(resultText(result), "analysis failed") {
			t.Errorf("result = %s", resultText(result))
		}
	})
}

func TestSearchTool(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		searcher *searcher
		wantTopK int
		wantErr  bool
		contains string
	}{
		{
			name:     "default top_k",
			args:     map[string]any{"query": "hole location"},
			searcher: &searcher{matches: []gdt.StandardMatch{{Key: "position", Score: 0.8}}},
			wantTopK: 5,
			contains: `"key": "position"`,
		},
		{
			name:     "top_k clamped",
			args:     map[string]any{"query": "hole", "top_k": float64(100)},
			searcher: &searcher{},
			wantTopK: 20,
			contains: "No standards entries",
		},
		{
			name:     "missing query",
			args:     map[string]any{},
			searcher: &searcher{},
			wantErr:  true,
		},
		{
			name:     "search error",
			args:     map[string]any{"query": "hole"},
			searcher: &searcher{err: errors.New("store offline")},
			wantTopK: 5,
			wantErr:  true,
			contains: "store offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := mcptools.NewSearchTool(tt.searcher).Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("handle: %v", err)
			}
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v", result.IsError, tt.wantErr)
			}
			if tt.searcher.topK != tt.wantTopK {
				t.Errorf("topK = %d, want %d", tt.searcher.topK, tt.wantTopK)
			}
			if !strings.Contains(resultText(result), tt.contains) {
				t.Errorf("result %q does not contain %q", resultText(result), tt.contains)
			}
		})
	}
}
