// Package knowledge serves the reference data behind an analysis: standards
// entries, process tolerance ranges, material properties, and datum patterns.
package knowledge

import (
	"strings"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

// Standard is one ASME Y14.5 characteristic entry with its usage guidance.
type Standard struct {
	ID             string `json:"id"`
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	ASMESection    string `json:"asme_section"`
	DatumRequired  bool   `json:"datum_required"`
	Rule           string `json:"rule"`
	WhenToUse      string `json:"when_to_use"`
	WhenNotToUse   string `json:"when_not_to_use"`
	ToleranceZone  string `json:"tolerance_zone"`
	ExampleCallout string `json:"example_callout"`
}

// DatumPattern is a common reference-frame arrangement for a family of parts.
type DatumPattern struct {
	ID                 string   `json:"id"`
	Description        string   `json:"description"`
	PrimaryType        string   `json:"primary_type"`
	PrimaryReasoning   string   `json:"primary_reasoning"`
	SecondaryType      string   `json:"secondary_type,omitempty"`
	SecondaryReasoning string   `json:"secondary_reasoning,omitempty"`
	ApplicableFeatures []string `json:"applicable_features"`
}

// RangeQuery keys a tolerance range lookup. Characteristic is a preference:
// a row for it wins when present, otherwise the tightest range for the
// process, material, and feature type is returned.
type RangeQuery struct {
	Process        string
	Material       string
	FeatureType    string
	Characteristic string
}

// Filters narrows a tolerance range listing. Nil fields are ignored.
type Filters struct {
	Process        *string `json:"process,omitempty"`
	Material       *string `json:"material,omitempty"`
	FeatureType    *string `json:"feature_type,omitempty"`
	Characteristic *string `json:"characteristic,omitempty"`
}

// Key normalizes free-form process and feature names to stored keys:
// lowercase with spaces and hyphens folded to underscores.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func rangeQueryFor(f gdt.FeatureRecord, material, control string) RangeQuery {
	return RangeQuery{
		Process:        Key(f.ManufacturingProcess),
		Material:       material,
		FeatureType:    Key(string(f.FeatureType)),
		Characteristic: Key(control),
	}
}
