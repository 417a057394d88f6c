package gdt

import (
	"slices"
	"strings"
)

// Category groups characteristics by what they control.
type Category string

const (
	CategoryForm        Category = "form"
	CategoryProfile     Category = "profile"
	CategoryOrientation Category = "orientation"
	CategoryLocation    Category = "location"
	CategoryRunout      Category = "runout"
)

// DatumRequirement states whether a characteristic references datums.
type DatumRequirement int

const (
	DatumNever DatumRequirement = iota
	DatumAlways
	DatumOptional
)

// MarshalText renders the requirement as never, always, or optional.
func (d DatumRequirement) MarshalText() ([]byte, error) {
	switch d {
	case DatumAlways:
		return []byte("always"), nil
	case DatumOptional:
		return []byte("optional"), nil
	}
	return []byte("never"), nil
}

// Characteristic is one of the fourteen ASME Y14.5-2018 geometric characteristics.
type Characteristic struct {
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	Category      Category         `json:"category"`
	ASMESection   string           `json:"asme_section"`
	Datums        DatumRequirement `json:"datums"`
	Modifiers     bool             `json:"accepts_modifiers"`
	DiametralZone bool             `json:"diametral_zone"`
}

// Admits reports whether a datum_required value is consistent with the characteristic.
func (c Characteristic) Admits(datumRequired bool) bool {
	switch c.Datums {
	case DatumNever:
		return !datumRequired
	case DatumAlways:
		return datumRequired
	}
	return true
}

// Characteristic names.
const (
	Straightness      = "straightness"
	Flatness          = "flatness"
	Circularity       = "circularity"
	Cylindricity      = "cylindricity"
	ProfileOfALine    = "profile_of_a_line"
	ProfileOfASurface = "profile_of_a_surface"
	Angularity        = "angularity"
	Parallelism       = "parallelism"
	Perpendicularity  = "perpendicularity"
	Position          = "position"
	Concentricity     = "concentricity"
	Symmetry          = "symmetry"
	CircularRunout    = "circular_runout"
	TotalRunout       = "total_runout"
)

var characteristics = []Characteristic{
	{Name: Straightness, Symbol: "-", Category: CategoryForm, ASMESection: "6.4.1", Datums: DatumNever, Modifiers: true, DiametralZone: true},
	{Name: Flatness, Symbol: "▱", Category: CategoryForm, ASMESection: "6.4.2", Datums: DatumNever},
	{Name: Circularity, Symbol: "○", Category: CategoryForm, ASMESection: "6.4.3", Datums: DatumNever},
	{Name: Cylindricity, Symbol: "⌭", Category: CategoryForm, ASMESection: "6.4.4", Datums: DatumNever},
	{Name: ProfileOfALine, Symbol: "⌒", Category: CategoryProfile, ASMESection: "6.5.2(b)", Datums: DatumOptional},
	{Name: ProfileOfASurface, Symbol: "⌓", Category: CategoryProfile, ASMESection: "6.5.2(b)", Datums: DatumOptional},
	{Name: Angularity, Symbol: "∠", Category: CategoryOrientation, ASMESection: "6.6.2", Datums: DatumAlways, Modifiers: true, DiametralZone: true},
	{Name: Parallelism, Symbol: "//", Category: CategoryOrientation, ASMESection: "6.6.3", Datums: DatumAlways, Modifiers: true, DiametralZone: true},
	{Name: Perpendicularity, Symbol: "⊥", Category: CategoryOrientation, ASMESection: "6.6.4", Datums: DatumAlways, Modifiers: true, DiametralZone: true},
	{Name: Position, Symbol: "⊕", Category: CategoryLocation, ASMESection: "5.2", Datums: DatumAlways, Modifiers: true, DiametralZone: true},
	{Name: Concentricity, Symbol: "◎", Category: CategoryLocation, ASMESection: "5.11.3", Datums: DatumAlways, DiametralZone: true},
	{Name: Symmetry, Symbol: "≡", Category: CategoryLocation, ASMESection: "5.11.3", Datums: DatumAlways},
	{Name: CircularRunout, Symbol: "↗", Category: CategoryRunout, ASMESection: "6.7.1.2.1", Datums: DatumAlways},
	{Name: TotalRunout, Symbol: "↗↗", Category: CategoryRunout, ASMESection: "6.7.1.2.2", Datums: DatumAlways},
}

var aliases = map[string]string{
	"roundness":          Circularity,
	"true_position":      Position,
	"line_profile":       ProfileOfALine,
	"profile_line":       ProfileOfALine,
	"profile_of_line":    ProfileOfALine,
	"surface_profile":    ProfileOfASurface,
	"profile_surface":    ProfileOfASurface,
	"profile_of_surface": ProfileOfASurface,
	"runout":             CircularRunout,
	"coaxiality":         Concentricity,
	"⌖":                  Position,
	"⏥":                  Flatness,
	"⏤":                  Straightness,
	"∥":                  Parallelism,
	"⌰":                  TotalRunout,
}

// Characteristics returns the static characteristic table.
func Characteristics() []Characteristic {
	return slices.Clone(characteristics)
}

// LookupCharacteristic resolves a characteristic by name, alias, or symbol.
// Matching is case-insensitive and treats spaces and hyphens in names as underscores.
func LookupCharacteristic(key string) (Characteristic, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Characteristic{}, false
	}

	for _, c := range characteristics {
		if c.Symbol == key {
			return c, true
		}
	}

	name := normalizeName(key)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	for _, c := range characteristics {
		if c.Name == name {
			return c, true
		}
	}

	return Characteristic{}, false
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '_' }), "_")
}
