package gdt

import "strings"

var diameterMarkers = []string{SymbolDiameter, "Ø", "ø", "∅"}

var modifierMarkers = map[string]string{
	SymbolMMC: SymbolMMC,
	SymbolLMC: SymbolLMC,
	"(M)":     SymbolMMC,
	"(L)":     SymbolLMC,
}

// Frame is the input to FormatFrame.
type Frame struct {
	Symbol         string
	Tolerance      string
	Unit           string // implied by the drawing; not rendered
	ModifierSymbol string
	Labels         []string
	Cylindrical    bool
}

// Tolerance is a tolerance value with its markers separated out.
type Tolerance struct {
	Value          string
	Diameter       bool
	ModifierSymbol string
}

// ParseTolerance separates a leading diameter marker and a trailing modifier
// symbol from a tolerance value. Spaced and unspaced forms are both accepted.
func ParseTolerance(raw string) Tolerance {
	var t Tolerance
	s := strings.TrimSpace(raw)

	for _, m := range diameterMarkers {
		if rest, ok := strings.CutPrefix(s, m); ok {
			t.Diameter = true
			s = strings.TrimSpace(rest)
			break
		}
	}

	for marker, symbol := range modifierMarkers {
		if rest, ok := strings.CutSuffix(s, marker); ok {
			t.ModifierSymbol = symbol
			s = strings.TrimSpace(rest)
			break
		}
	}

	t.Value = s
	return t
}

// FormatFrame renders a feature control frame such as |⊕| ⌀0.25Ⓜ | A | B |.
//
// The diameter marker is applied only when the zone is cylindrical, the modifier
// follows the tolerance unspaced, and labels keep the order they are given in.
// Blank cells are omitted, so the output never contains an empty cell.
func FormatFrame(f Frame) string {
	tol := ParseTolerance(f.Tolerance)

	modifier := strings.TrimSpace(f.ModifierSymbol)
	if modifier == "" {
		modifier = tol.ModifierSymbol
	}

	value := tol.Value
	if f.Cylindrical && value != "" {
		value = SymbolDiameter + value
	}
	value += modifier

	var b strings.Builder
	b.WriteString("|")

	if symbol := strings.TrimSpace(f.Symbol); symbol != "" {
		b.WriteString(symbol)
		b.WriteString("|")
	}

	cells := make([]string, 0, len(f.Labels)+1)
	if value != "" {
		cells = append(cells, value)
	}
	for _, label := range f.Labels {
		if label = strings.TrimSpace(label); label != "" {
			cells = append(cells, label)
		}
	}

	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}

	return b.String()
}
