// Package gdt holds the geometric dimensioning and tolerancing domain model:
// feature records, classifications, reference-frame schemes, callouts, and the
// pure functions that validate, correct, and format them.
package gdt

import (
	"encoding/json"
	"slices"
	"strings"
)

// FeatureType is the closed set of manufactured-part features the pipeline recognizes.
type FeatureType string

const (
	FeatureHole    FeatureType = "hole"
	FeatureBoss    FeatureType = "boss"
	FeatureSurface FeatureType = "surface"
	FeatureSlot    FeatureType = "slot"
	FeatureGroove  FeatureType = "groove"
	FeatureShaft   FeatureType = "shaft"
	FeaturePattern FeatureType = "pattern"
	FeatureBend    FeatureType = "bend"
)

var featureTypes = []FeatureType{
	FeatureHole,
	FeatureBoss,
	FeatureSurface,
	FeatureSlot,
	FeatureGroove,
	FeatureShaft,
	FeaturePattern,
	FeatureBend,
}

// FeatureTypes returns the recognized feature types.
func FeatureTypes() []FeatureType {
	return slices.Clone(featureTypes)
}

// ParseFeatureType normalizes s and reports whether it names a known feature type.
func ParseFeatureType(s string) (FeatureType, bool) {
	v := FeatureType(strings.ToLower(strings.TrimSpace(s)))
	return v, slices.Contains(featureTypes, v)
}

// Valid reports whether t is one of the recognized feature types.
func (t FeatureType) Valid() bool {
	return slices.Contains(featureTypes, t)
}

// SizeBounded reports whether the feature has opposed elements that define a size,
// the precondition for material-condition modifiers.
func (t FeatureType) SizeBounded() bool {
	switch t {
	case FeatureHole, FeatureBoss, FeatureSlot, FeatureGroove, FeatureShaft, FeaturePattern:
		return true
	}
	return false
}

// Locating reports whether the feature warrants a secondary datum.
func (t FeatureType) Locating() bool {
	switch t {
	case FeatureHole, FeaturePattern, FeatureBoss, FeatureSlot:
		return true
	}
	return false
}

// Geometry carries the optional nominal dimensions of a feature.
type Geometry struct {
	Diameter *float64 `json:"diameter,omitempty"`
	Length   *float64 `json:"length,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Depth    *float64 `json:"depth,omitempty"`
	Angle    *float64 `json:"angle,omitempty"`
	Count    *int     `json:"count,omitempty"`
	PCD      *float64 `json:"pcd,omitempty"`
	Unit     string   `json:"unit"`
}

// FeatureRecord is the structured description of one part feature produced by extraction.
type FeatureRecord struct {
	FeatureType          FeatureType `json:"feature_type"`
	Geometry             Geometry    `json:"geometry"`
	Material             string      `json:"material"`
	ManufacturingProcess string      `json:"manufacturing_process"`
	MatingCondition      string      `json:"mating_condition,omitempty"`
	ParentSurface        string      `json:"parent_surface,omitempty"`
}

// Cylindrical reports whether the feature is a cylinder or carries a diameter.
func (f FeatureRecord) Cylindrical() bool {
	switch f.FeatureType {
	case FeatureHole, FeatureBoss, FeatureShaft, FeaturePattern:
		return true
	}
	return f.Geometry.Diameter != nil
}

// FitIntent reports whether the feature states how it mates with another part.
func (f FeatureRecord) FitIntent() bool {
	return specified(f.MatingCondition)
}

// ToleranceClass grades how tight a control must be.
type ToleranceClass string

const (
	ToleranceTight  ToleranceClass = "tight"
	ToleranceMedium ToleranceClass = "medium"
	ToleranceLoose  ToleranceClass = "loose"
)

// Valid reports whether c is a known tolerance class.
func (c ToleranceClass) Valid() bool {
	switch c {
	case ToleranceTight, ToleranceMedium, ToleranceLoose:
		return true
	}
	return false
}

// Modifier is a material-condition modifier.
type Modifier string

const (
	ModifierMMC  Modifier = "MMC"
	ModifierLMC  Modifier = "LMC"
	ModifierRFS  Modifier = "RFS"
	ModifierNone Modifier = "none"
)

// Modifier, diameter, and unspecified markers used in frames and model output.
const (
	SymbolMMC      = "Ⓜ"
	SymbolLMC      = "Ⓛ"
	SymbolDiameter = "⌀"
)

// ParseModifier normalizes free-form modifier text. Unknown values map to ModifierNone.
func ParseModifier(s string) Modifier {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MMC", SymbolMMC, "(M)":
		return ModifierMMC
	case "LMC", SymbolLMC, "(L)":
		return ModifierLMC
	case "RFS":
		return ModifierRFS
	}
	return ModifierNone
}

// UnmarshalJSON accepts null, free-form text, and symbols.
func (m *Modifier) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = ModifierNone
		return nil
	}
	*m = ParseModifier(*raw)
	return nil
}

// Material reports whether m requests bonus tolerance from a material condition.
func (m Modifier) Material() bool {
	return m == ModifierMMC || m == ModifierLMC
}

// Symbol returns the frame symbol for m. RFS and none carry no symbol.
func (m Modifier) Symbol() string {
	switch m {
	case ModifierMMC:
		return SymbolMMC
	case ModifierLMC:
		return SymbolLMC
	}
	return ""
}

// Classification is the geometric control chosen for a feature.
type Classification struct {
	PrimaryControl string         `json:"primary_control"`
	Symbol         string         `json:"symbol"`
	SymbolName     string         `json:"symbol_name"`
	ToleranceClass ToleranceClass `json:"tolerance_class"`
	DatumRequired  bool           `json:"datum_required"`
	Modifier       Modifier       `json:"modifier"`
	ModifierSymbol string         `json:"modifier_symbol,omitempty"`
	ReasoningKey   string         `json:"reasoning_key"`
	Confidence     float64        `json:"confidence"`
}

// Characteristic resolves the classification's control against the characteristic table.
func (c Classification) Characteristic() (Characteristic, bool) {
	if ch, ok := LookupCharacteristic(c.PrimaryControl); ok {
		return ch, true
	}
	if ch, ok := LookupCharacteristic(c.SymbolName); ok {
		return ch, true
	}
	return LookupCharacteristic(c.Symbol)
}

func specified(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s != "" && s != "unspecified" && s != "null" && s != "none"
}
