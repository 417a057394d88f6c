package gdt

import "errors"

// Datum labels in precedence order.
const (
	LabelPrimary   = "A"
	LabelSecondary = "B"
	LabelTertiary  = "C"
)

// Default surfaces and rationales for derived reference frames.
const (
	DefaultPrimarySurface   = "primary mounting surface"
	DefaultSecondarySurface = "locating feature"
	PrimaryRationale        = "largest stable contact surface, establishes primary constraint"
	SecondaryRationale      = "perpendicular to primary, constrains remaining degrees of freedom"
)

// ErrTertiaryWithoutPair is returned when a tertiary datum is offered without
// an established primary and secondary.
var ErrTertiaryWithoutPair = errors.New("tertiary datum requires primary and secondary datums")

// DatumLevel is one level of a reference frame.
type DatumLevel struct {
	Label     string `json:"label"`
	Surface   string `json:"surface"`
	Rationale string `json:"rationale"`
}

// DatumScheme is the ordered reference frame against which controls are measured.
type DatumScheme struct {
	Primary   *DatumLevel `json:"primary"`
	Secondary *DatumLevel `json:"secondary"`
	Tertiary  *DatumLevel `json:"tertiary"`
}

// Empty reports whether the scheme establishes no datums.
func (s DatumScheme) Empty() bool {
	return s.Primary == nil
}

// Labels returns the scheme's labels in precedence order.
func (s DatumScheme) Labels() []string {
	labels := make([]string, 0, 3)
	for _, level := range []*DatumLevel{s.Primary, s.Secondary, s.Tertiary} {
		if level == nil {
			break
		}
		labels = append(labels, level.Label)
	}
	return labels
}

// WithTertiary returns the scheme extended by a tertiary level.
// The label defaults to C.
func (s DatumScheme) WithTertiary(level DatumLevel) (DatumScheme, error) {
	if s.Primary == nil || s.Secondary == nil {
		return s, ErrTertiaryWithoutPair
	}
	if level.Label == "" {
		level.Label = LabelTertiary
	}
	s.Tertiary = &level
	return s, nil
}

// DeriveDatumScheme builds the reference frame for a classified feature.
// No datums are derived when the classification does not require them, a secondary
// is derived only for locating features, and a tertiary is never derived.
func DeriveDatumScheme(c Classification, f FeatureRecord) DatumScheme {
	if !c.DatumRequired {
		return DatumScheme{}
	}

	surface := f.ParentSurface
	if !specified(surface) {
		surface = DefaultPrimarySurface
	}

	scheme := DatumScheme{
		Primary: &DatumLevel{
			Label:     LabelPrimary,
			Surface:   surface,
			Rationale: PrimaryRationale,
		},
	}

	if f.FeatureType.Locating() {
		scheme.Secondary = &DatumLevel{
			Label:     LabelSecondary,
			Surface:   DefaultSecondarySurface,
			Rationale: SecondaryRationale,
		}
	}

	return scheme
}
