package mcptools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

// FrameTool handles the format_frame tool.
type FrameTool struct{}

// NewFrameTool creates a FrameTool.
func NewFrameTool() *FrameTool {
	return &FrameTool{}
}

// Definition returns the tool schema for format_frame.
func (t *FrameTool) Definition() mcp.Tool {
	return mcp.NewTool("format_frame",
		mcp.WithDescription("Validate and render a feature control frame such as |⊕| ⌀0.25Ⓜ | A | B |. Returns the frame and any corrections made."),
		mcp.WithString("characteristic",
			mcp.Required(),
			mcp.Description("Characteristic name or symbol, e.g. position, flatness, ⊥"),
		),
		mcp.WithString("tolerance",
			mcp.Required(),
			mcp.Description("Tolerance value, e.g. 0.25"),
		),
		mcp.WithString("modifier",
			mcp.Description("Material condition: MMC, LMC, RFS or none"),
		),
		mcp.WithString("datums",
			mcp.Description("Comma-separated datum labels in precedence order, e.g. A,B,C"),
		),
		mcp.WithBoolean("cylindrical",
			mcp.Description("Prefix the tolerance with the diameter symbol; defaults to the characteristic's zone shape"),
		),
	)
}

// FrameResult is the format_frame reply. Warnings list every correction
// made to the arguments before rendering.
type FrameResult struct {
	Frame    string   `json:"frame"`
	Warnings []string `json:"warnings"`
}

// Handle validates the arguments the way generated callouts are validated and
// formats the frame.
func (t *FrameTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("characteristic", "")
	ch, ok := gdt.LookupCharacteristic(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown characteristic %q", name)), nil
	}

	raw := req.GetString("tolerance", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("'tolerance' is required"), nil
	}

	tol := gdt.ParseTolerance(raw)
	if v, err := strconv.ParseFloat(tol.Value, 64); err != nil || v <= 0 || math.IsInf(v, 0) {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", gdt.ErrInvalidTolerance, raw)), nil
	}

	warnings := []string{}

	modifier := gdt.ParseModifier(req.GetString("modifier", ""))
	if modifier == gdt.ModifierNone && tol.ModifierSymbol != "" {
		modifier = gdt.ParseModifier(tol.ModifierSymbol)
	}
	_, symbol, mw := gdt.CheckModifier(ch, modifier, tol.ModifierSymbol)
	warnings = append(warnings, mw...)

	var refs []string
	for _, label := range strings.Split(req.GetString("datums", ""), ",") {
		label = strings.TrimSpace(label)
		if strings.ContainsAny(label, "| \t\n") {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %q", gdt.ErrInvalidLabel, label)), nil
		}
		refs = append(refs, label)
	}
	labels, lw := gdt.BoundReferenceLabels(ch, refs)
	warnings = append(warnings, lw...)

	if ch.Datums == gdt.DatumAlways && len(labels) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", gdt.ErrMissingDatums, ch.Name)), nil
	}

	cylindrical := boolArg(req, "cylindrical", ch.DiametralZone || tol.Diameter)
	if cylindrical && !ch.DiametralZone {
		warnings = append(warnings, gdt.Warning(gdt.WarnValidation, "diameter zone not applicable to %s, removed", ch.Name))
		cylindrical = false
	}

	return jsonResult(FrameResult{
		Frame: gdt.FormatFrame(gdt.Frame{
			Symbol:         ch.Symbol,
			Tolerance:      tol.Value,
			ModifierSymbol: symbol,
			Labels:         labels,
			Cylindrical:    cylindrical,
		}),
		Warnings: warnings,
	})
}
