package gdt_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

func hasWarning(warnings []string, kind, fragment string) bool {
	return slices.ContainsFunc(warnings, func(w string) bool {
		return strings.HasPrefix(w, kind+": ") && strings.Contains(w, fragment)
	})
}

func TestValidateFeature(t *testing.T) {
	negative := -1.0

	tests := []struct {
		name    string
		feature gdt.FeatureRecord
		wantErr error
	}{
		{"valid hole", gdt.FeatureRecord{FeatureType: gdt.FeatureHole}, nil},
		{"unknown type", gdt.FeatureRecord{FeatureType: "flange"}, gdt.ErrUnknownFeatureType},
		{"empty type", gdt.FeatureRecord{}, gdt.ErrUnknownFeatureType},
		{
			"negative dimension",
			gdt.FeatureRecord{FeatureType: gdt.FeatureBoss, Geometry: gdt.Geometry{Height: &negative}},
			gdt.ErrInvalidDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gdt.ValidateFeature(tt.feature)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeFeature(t *testing.T) {
	f := gdt.NormalizeFeature(gdt.FeatureRecord{
		FeatureType:     " Hole ",
		MatingCondition: "null",
	})

	if f.FeatureType != gdt.FeatureHole {
		t.Errorf("FeatureType = %q, want hole", f.FeatureType)
	}
	if f.Geometry.Unit != "mm" {
		t.Errorf("Unit = %q, want mm", f.Geometry.Unit)
	}
	if f.Material != "unspecified" || f.ManufacturingProcess != "unspecified" {
		t.Errorf("material/process = %q/%q, want unspecified", f.Material, f.ManufacturingProcess)
	}
	if f.MatingCondition != "" {
		t.Errorf("MatingCondition = %q, want empty", f.MatingCondition)
	}
}

func TestCheckDatumConsistency(t *testing.T) {
	tests := []struct {
		control  string
		required bool
		wantErr  error
	}{
		{gdt.Flatness, false, nil},
		{gdt.Flatness, true, gdt.ErrDatumInconsistent},
		{gdt.Perpendicularity, true, nil},
		{gdt.Perpendicularity, false, gdt.ErrDatumInconsistent},
		{gdt.CircularRunout, false, gdt.ErrDatumInconsistent},
		{gdt.ProfileOfASurface, true, nil},
		{gdt.ProfileOfASurface, false, nil},
		{"wobble", false, gdt.ErrUnknownCharacteristic},
	}

	for _, tt := range tests {
		t.Run(tt.control, func(t *testing.T) {
			err := gdt.CheckDatumConsistency(gdt.Classification{
				PrimaryControl: tt.control,
				DatumRequired:  tt.required,
			})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeClassification(t *testing.T) {
	hole := gdt.FeatureRecord{FeatureType: gdt.FeatureHole, MatingCondition: "clearance_fit_bolt"}

	t.Run("form control clamped to no datums", func(t *testing.T) {
		c, warnings := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "Flatness",
			ToleranceClass: gdt.ToleranceMedium,
			DatumRequired:  true,
			Confidence:     0.9,
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureSurface})

		if c.DatumRequired {
			t.Error("DatumRequired = true, want false")
		}
		if c.PrimaryControl != gdt.Flatness || c.Symbol != "▱" {
			t.Errorf("control = %q %q, want canonical flatness", c.PrimaryControl, c.Symbol)
		}
		if !hasWarning(warnings, gdt.WarnValidation, "datum_required") {
			t.Errorf("warnings = %v, want datum correction", warnings)
		}
	})

	t.Run("runout clamped to datums", func(t *testing.T) {
		c, _ := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "circular runout",
			ToleranceClass: gdt.ToleranceTight,
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureShaft})

		if !c.DatumRequired {
			t.Error("DatumRequired = false, want true")
		}
	})

	t.Run("legal MMC keeps symbol", func(t *testing.T) {
		c, warnings := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "position",
			ToleranceClass: gdt.ToleranceMedium,
			DatumRequired:  true,
			Modifier:       gdt.ModifierMMC,
		}, hole)

		if c.Modifier != gdt.ModifierMMC || c.ModifierSymbol != gdt.SymbolMMC {
			t.Errorf("modifier = %q %q, want MMC Ⓜ", c.Modifier, c.ModifierSymbol)
		}
		if len(warnings) != 0 {
			t.Errorf("warnings = %v, want none", warnings)
		}
	})

	t.Run("RFS with symbol drops symbol", func(t *testing.T) {
		c, warnings := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "position",
			ToleranceClass: gdt.ToleranceMedium,
			DatumRequired:  true,
			Modifier:       gdt.ModifierRFS,
			ModifierSymbol: gdt.SymbolMMC,
		}, hole)

		if c.ModifierSymbol != "" {
			t.Errorf("ModifierSymbol = %q, want empty", c.ModifierSymbol)
		}
		if !hasWarning(warnings, gdt.WarnValidation, "modifier symbol") {
			t.Errorf("warnings = %v, want symbol drop", warnings)
		}
	})

	t.Run("MMC without fit intent falls back to RFS", func(t *testing.T) {
		c, warnings := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "position",
			ToleranceClass: gdt.ToleranceMedium,
			DatumRequired:  true,
			Modifier:       gdt.ModifierMMC,
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureHole})

		if c.Modifier != gdt.ModifierRFS || c.ModifierSymbol != "" {
			t.Errorf("modifier = %q %q, want RFS", c.Modifier, c.ModifierSymbol)
		}
		if !hasWarning(warnings, gdt.WarnValidation, "fit intent") {
			t.Errorf("warnings = %v, want fit intent correction", warnings)
		}
	})

	t.Run("MMC on a surface falls back to RFS", func(t *testing.T) {
		c, _ := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "perpendicularity",
			ToleranceClass: gdt.ToleranceMedium,
			DatumRequired:  true,
			Modifier:       gdt.ModifierMMC,
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureSurface, MatingCondition: "bolted"})

		if c.Modifier != gdt.ModifierRFS {
			t.Errorf("Modifier = %q, want RFS", c.Modifier)
		}
	})

	t.Run("confidence and tolerance class corrected", func(t *testing.T) {
		c, warnings := gdt.NormalizeClassification(gdt.Classification{
			PrimaryControl: "flatness",
			ToleranceClass: "extreme",
			Confidence:     1.4,
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureSurface})

		if c.Confidence != 1 {
			t.Errorf("Confidence = %v, want 1", c.Confidence)
		}
		if c.ToleranceClass != gdt.ToleranceMedium {
			t.Errorf("ToleranceClass = %q, want medium", c.ToleranceClass)
		}
		if len(warnings) != 2 {
			t.Errorf("warnings = %v, want 2", warnings)
		}
	})
}

func TestBoundReferenceLabels(t *testing.T) {
	flatness, _ := gdt.LookupCharacteristic(gdt.Flatness)
	position, _ := gdt.LookupCharacteristic(gdt.Position)

	t.Run("form controls carry no labels", func(t *testing.T) {
		labels, warnings := gdt.BoundReferenceLabels(flatness, []string{"A"})
		if len(labels) != 0 {
			t.Errorf("labels = %v, want none", labels)
		}
		if len(warnings) != 1 {
			t.Errorf("warnings = %v, want 1", warnings)
		}
	})

	t.Run("excess labels truncated", func(t *testing.T) {
		labels, warnings := gdt.BoundReferenceLabels(position, []string{"A", "B", "C", "D"})
		if !slices.Equal(labels, []string{"A", "B", "C"}) {
			t.Errorf("labels = %v, want [A B C]", labels)
		}
		if !hasWarning(warnings, gdt.WarnValidation, "truncated") {
			t.Errorf("warnings = %v, want truncation", warnings)
		}
	})

	t.Run("duplicates and blanks removed", func(t *testing.T) {
		labels, _ := gdt.BoundReferenceLabels(position, []string{"a", " ", "A", "b"})
		if !slices.Equal(labels, []string{"A", "B"}) {
			t.Errorf("labels = %v, want [A B]", labels)
		}
	})
}

func TestCheckModifier(t *testing.T) {
	flatness, _ := gdt.LookupCharacteristic(gdt.Flatness)
	position, _ := gdt.LookupCharacteristic(gdt.Position)

	tests := []struct {
		name       string
		ch         gdt.Characteristic
		modifier   gdt.Modifier
		symbol     string
		want       gdt.Modifier
		wantSymbol string
		warned     bool
	}{
		{"mmc on position", position, gdt.ModifierMMC, "", gdt.ModifierMMC, gdt.SymbolMMC, false},
		{"mmc on form control", flatness, gdt.ModifierMMC, gdt.SymbolMMC, gdt.ModifierRFS, "", true},
		{"stray symbol without condition", position, gdt.ModifierNone, gdt.SymbolLMC, gdt.ModifierNone, "", true},
		{"empty modifier", position, "", "", gdt.ModifierNone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, symbol, warnings := gdt.CheckModifier(tt.ch, tt.modifier, tt.symbol)
			if m != tt.want || symbol != tt.wantSymbol {
				t.Errorf("CheckModifier() = %s %q, want %s %q", m, symbol, tt.want, tt.wantSymbol)
			}
			if got := len(warnings) > 0; got != tt.warned {
				t.Errorf("warnings = %v, want warned %v", warnings, tt.warned)
			}
		})
	}
}
