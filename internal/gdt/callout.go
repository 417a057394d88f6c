package gdt

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CalloutDraft is a callout as proposed by the generation stage, before validation.
type CalloutDraft struct {
	Feature             string   `json:"feature"`
	Symbol              string   `json:"symbol"`
	SymbolName          string   `json:"symbol_name"`
	ToleranceValue      string   `json:"tolerance_value"`
	Unit                string   `json:"unit"`
	Modifier            Modifier `json:"modifier"`
	ModifierSymbol      string   `json:"modifier_symbol"`
	DatumReferences     []string `json:"datum_references"`
	FeatureControlFrame string   `json:"feature_control_frame,omitempty"`
	Reasoning           string   `json:"reasoning"`
}

// Generation is the raw output of the generation stage.
type Generation struct {
	Callouts            []CalloutDraft `json:"callouts"`
	Summary             string         `json:"summary"`
	ManufacturingNotes  string         `json:"manufacturing_notes"`
	StandardsReferences []string       `json:"standards_references"`
	Warnings            []string       `json:"warnings"`
	TertiaryDatum       *DatumLevel    `json:"tertiary_datum,omitempty"`
}

// Callout is a validated annotation with its formatted feature control frame.
type Callout struct {
	Feature         string   `json:"feature"`
	Symbol          string   `json:"symbol"`
	SymbolName      string   `json:"symbol_name"`
	ToleranceValue  string   `json:"tolerance_value"`
	Unit            string   `json:"unit"`
	Modifier        Modifier `json:"modifier,omitempty"`
	ModifierSymbol  string   `json:"modifier_symbol,omitempty"`
	ReferenceLabels []string `json:"reference_labels"`
	FormattedFrame  string   `json:"formatted_frame"`
	Reasoning       string   `json:"reasoning"`
}

// BuildCallout validates a draft against the feature and reference frame and
// formats its frame. Correctable problems produce warnings; an error means the
// draft cannot be rendered and should be dropped.
func BuildCallout(d CalloutDraft, f FeatureRecord, scheme DatumScheme) (Callout, []string, error) {
	var warnings []string

	ch, ok := LookupCharacteristic(d.SymbolName)
	if !ok {
		ch, ok = LookupCharacteristic(d.Symbol)
	}
	if !ok {
		return Callout{}, nil, fmt.Errorf("%w: %q", ErrUnknownCharacteristic, firstNonEmpty(d.SymbolName, d.Symbol))
	}

	tol := ParseTolerance(d.ToleranceValue)
	v, err := strconv.ParseFloat(tol.Value, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return Callout{}, nil, fmt.Errorf("%w: %q", ErrInvalidTolerance, d.ToleranceValue)
	}

	modifier := d.Modifier
	symbol := firstNonEmpty(d.ModifierSymbol, tol.ModifierSymbol)
	if (modifier == "" || modifier == ModifierNone) && symbol != "" {
		modifier = ParseModifier(symbol)
	}
	modifier, symbol, mw := checkModifier(ch, f, modifier, symbol)
	warnings = append(warnings, mw...)

	labels, err := alignLabels(ch, d.DatumReferences, scheme, &warnings)
	if err != nil {
		return Callout{}, nil, err
	}

	cylindrical := Cylindrical(ch, f, tol.Diameter)
	value := tol.Value
	if cylindrical {
		value = SymbolDiameter + value
	}

	unit := firstNonEmpty(d.Unit, f.Geometry.Unit, "mm")

	c := Callout{
		Feature:         firstNonEmpty(d.Feature, string(f.FeatureType)),
		Symbol:          ch.Symbol,
		SymbolName:      ch.Name,
		ToleranceValue:  value,
		Unit:            unit,
		ModifierSymbol:  symbol,
		ReferenceLabels: labels,
		Reasoning:       d.Reasoning,
		FormattedFrame: FormatFrame(Frame{
			Symbol:         ch.Symbol,
			Tolerance:      tol.Value,
			Unit:           unit,
			ModifierSymbol: symbol,
			Labels:         labels,
			Cylindrical:    cylindrical,
		}),
	}
	if modifier.Material() {
		c.Modifier = modifier
	}

	return c, warnings, nil
}

// alignLabels bounds the draft's labels, orders them by datum precedence, and
// drops labels the scheme does not establish. A control that requires datums
// and is left without labels inherits the scheme's labels.
func alignLabels(ch Characteristic, refs []string, scheme DatumScheme, warnings *[]string) ([]string, error) {
	for _, label := range refs {
		if strings.ContainsAny(strings.TrimSpace(label), "| \t\n") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
	}

	labels, bw := BoundReferenceLabels(ch, refs)
	*warnings = append(*warnings, bw...)
	if ch.Datums == DatumNever {
		return []string{}, nil
	}

	established := scheme.Labels()
	aligned := make([]string, 0, len(labels))
	for _, label := range established {
		if slices.Contains(labels, label) {
			aligned = append(aligned, label)
		}
	}

	for _, label := range labels {
		if !slices.Contains(established, label) {
			*warnings = append(*warnings, Warning(WarnValidation, "reference label %s not established by the datum scheme, removed", label))
		}
	}

	kept := slices.DeleteFunc(slices.Clone(labels), func(l string) bool {
		return !slices.Contains(established, l)
	})
	if !slices.Equal(kept, aligned) {
		*warnings = append(*warnings, Warning(WarnValidation, "reference labels %v reordered to %v", kept, aligned))
	}

	if len(aligned) == 0 && ch.Datums == DatumAlways {
		if scheme.Empty() {
			return nil, fmt.Errorf("%w: %s", ErrMissingDatums, ch.Name)
		}
		aligned = established
		*warnings = append(*warnings, Warning(WarnValidation, "%s control given datum scheme labels %v", ch.Name, aligned))
	}

	return aligned, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
