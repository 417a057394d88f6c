package gdt

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validation errors.
var (
	ErrUnknownFeatureType    = errors.New("unknown feature type")
	ErrInvalidDimension      = errors.New("invalid dimension")
	ErrUnknownCharacteristic = errors.New("unknown geometric characteristic")
	ErrDatumInconsistent     = errors.New("datum requirement inconsistent with characteristic")
	ErrInvalidTolerance      = errors.New("invalid tolerance value")
	ErrInvalidLabel          = errors.New("invalid reference label")
	ErrMissingDatums         = errors.New("control requires datums but none are established")
)

// Warning kinds.
const (
	WarnValidation = "validation_corrected"
	WarnDegraded   = "degraded_lookup"
	WarnDropped    = "callout_dropped"
)

// MaxReferenceLabels bounds the labels in one frame.
const MaxReferenceLabels = 3

// Warning formats a warning of the given kind.
func Warning(kind, format string, args ...any) string {
	return kind + ": " + fmt.Sprintf(format, args...)
}

// NormalizeFeature fills defaults for unit, material, and process.
func NormalizeFeature(f FeatureRecord) FeatureRecord {
	f.FeatureType = FeatureType(strings.ToLower(strings.TrimSpace(string(f.FeatureType))))
	if strings.TrimSpace(f.Geometry.Unit) == "" {
		f.Geometry.Unit = "mm"
	}
	if !specified(f.Material) {
		f.Material = "unspecified"
	}
	if !specified(f.ManufacturingProcess) {
		f.ManufacturingProcess = "unspecified"
	}
	if !specified(f.MatingCondition) {
		f.MatingCondition = ""
	}
	if !specified(f.ParentSurface) {
		f.ParentSurface = ""
	}
	return f
}

// ValidateFeature checks the feature type against the closed set and rejects
// negative or non-finite dimensions.
func ValidateFeature(f FeatureRecord) error {
	if !f.FeatureType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFeatureType, f.FeatureType)
	}

	g := f.Geometry
	dims := map[string]*float64{
		"diameter": g.Diameter,
		"length":   g.Length,
		"width":    g.Width,
		"height":   g.Height,
		"depth":    g.Depth,
		"angle":    g.Angle,
		"pcd":      g.PCD,
	}
	for name, v := range dims {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidDimension, name, *v)
		}
	}
	if g.Count != nil && *g.Count < 0 {
		return fmt.Errorf("%w: count = %d", ErrInvalidDimension, *g.Count)
	}

	return nil
}

// CheckDatumConsistency reports whether the classification's datum requirement
// agrees with its characteristic's category.
func CheckDatumConsistency(c Classification) error {
	ch, ok := c.Characteristic()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacteristic, c.PrimaryControl)
	}
	if !ch.Admits(c.DatumRequired) {
		return fmt.Errorf(
			"%w: %s (%s) with datum_required=%t",
			ErrDatumInconsistent, ch.Name, ch.Category, c.DatumRequired,
		)
	}
	return nil
}

// NormalizeClassification corrects a classification against the characteristic
// table and the feature it describes, returning a warning for every correction.
func NormalizeClassification(c Classification, f FeatureRecord) (Classification, []string) {
	var warnings []string

	ch, ok := c.Characteristic()
	if !ok {
		return c, []string{Warning(WarnValidation, "unrecognized control %q left uncorrected", c.PrimaryControl)}
	}

	if c.Symbol != "" && c.Symbol != ch.Symbol {
		warnings = append(warnings, Warning(WarnValidation, "symbol %q replaced with %q for %s", c.Symbol, ch.Symbol, ch.Name))
	}
	c.PrimaryControl = ch.Name
	c.Symbol = ch.Symbol
	c.SymbolName = ch.Name

	if !ch.Admits(c.DatumRequired) {
		c.DatumRequired = ch.Datums == DatumAlways
		warnings = append(warnings, Warning(
			WarnValidation, "datum_required set to %t for %s control %s",
			c.DatumRequired, ch.Category, ch.Name,
		))
	}

	if !c.ToleranceClass.Valid() {
		warnings = append(warnings, Warning(WarnValidation, "tolerance class %q replaced with %s", c.ToleranceClass, ToleranceMedium))
		c.ToleranceClass = ToleranceMedium
	}

	var mw []string
	c.Modifier, c.ModifierSymbol, mw = checkModifier(ch, f, c.Modifier, c.ModifierSymbol)
	warnings = append(warnings, mw...)

	if c.Confidence < 0 || c.Confidence > 1 || math.IsNaN(c.Confidence) {
		clamped := math.Min(math.Max(c.Confidence, 0), 1)
		if math.IsNaN(c.Confidence) {
			clamped = 0
		}
		warnings = append(warnings, Warning(WarnValidation, "confidence %v clamped to %v", c.Confidence, clamped))
		c.Confidence = clamped
	}

	return c, warnings
}

// BoundReferenceLabels enforces the label count for a characteristic: none for
// form controls and at most three otherwise. Blank and repeated labels are removed.
func BoundReferenceLabels(ch Characteristic, labels []string) ([]string, []string) {
	var warnings []string

	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.ToUpper(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		if slices.Contains(out, label) {
			warnings = append(warnings, Warning(WarnValidation, "duplicate reference label %s removed", label))
			continue
		}
		out = append(out, label)
	}

	if ch.Datums == DatumNever {
		if len(out) > 0 {
			warnings = append(warnings, Warning(
				WarnValidation, "reference labels %v removed from %s control %s",
				out, ch.Category, ch.Name,
			))
		}
		return nil, warnings
	}

	if len(out) > MaxReferenceLabels {
		warnings = append(warnings, Warning(
			WarnValidation, "reference labels %v truncated to %d",
			out, MaxReferenceLabels,
		))
		out = out[:MaxReferenceLabels]
	}

	return out, warnings
}

// Cylindrical decides whether a tolerance zone takes the diameter marker: the
// characteristic must admit a diametral zone, the feature must be cylindrical,
// and the zone must be marked as diametral or be a position control.
func Cylindrical(ch Characteristic, f FeatureRecord, marked bool) bool {
	return ch.DiametralZone && f.Cylindrical() && (marked || ch.Name == Position)
}

// CheckModifier normalizes a material condition modifier against the
// characteristic alone. A modifier the characteristic does not admit falls
// back to RFS, and a symbol without a material condition is dropped.
func CheckModifier(ch Characteristic, m Modifier, symbol string) (Modifier, string, []string) {
	var warnings []string

	if m == "" {
		m = ModifierNone
	}
	symbol = strings.TrimSpace(symbol)

	if !m.Material() {
		if symbol != "" {
			warnings = append(warnings, Warning(WarnValidation, "modifier symbol %q dropped for %s", symbol, m))
		}
		return m, "", warnings
	}

	if !ch.Modifiers {
		warnings = append(warnings, Warning(WarnValidation, "%s not applicable to %s, using RFS", m, ch.Name))
		return ModifierRFS, "", warnings
	}

	return m, m.Symbol(), warnings
}

// checkModifier applies CheckModifier and then requires a feature of size
// with a stated fit intent for MMC and LMC.
func checkModifier(ch Characteristic, f FeatureRecord, m Modifier, symbol string) (Modifier, string, []string) {
	m, symbol, warnings := CheckModifier(ch, m, symbol)
	if !m.Material() {
		return m, symbol, warnings
	}

	switch {
	case !f.FeatureType.SizeBounded():
		warnings = append(warnings, Warning(WarnValidation, "%s requires a feature of size, %s is not; using RFS", m, f.FeatureType))
		return ModifierRFS, "", warnings
	case !f.FitIntent():
		warnings = append(warnings, Warning(WarnValidation, "%s requires a stated fit intent, using RFS", m))
		return ModifierRFS, "", warnings
	}

	return m, symbol, warnings
}
