package gdt_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

func schemeFor(ft gdt.FeatureType) gdt.DatumScheme {
	return gdt.DeriveDatumScheme(
		gdt.Classification{DatumRequired: true},
		gdt.FeatureRecord{FeatureType: ft},
	)
}

func TestBuildCallout(t *testing.T) {
	boss := gdt.FeatureRecord{
		FeatureType:     gdt.FeatureBoss,
		MatingCondition: "bearing_bore_concentric",
		Geometry:        gdt.Geometry{Unit: "mm"},
	}
	surface := gdt.FeatureRecord{FeatureType: gdt.FeatureSurface, Geometry: gdt.Geometry{Unit: "mm"}}
	hole := gdt.FeatureRecord{FeatureType: gdt.FeatureHole, MatingCondition: "clearance_fit_bolt"}

	tests := []struct {
		name       string
		draft      gdt.CalloutDraft
		feature    gdt.FeatureRecord
		scheme     gdt.DatumScheme
		wantFrame  string
		wantLabels []string
		wantWarn   bool
	}{
		{
			name: "perpendicular boss",
			draft: gdt.CalloutDraft{
				Symbol:          "⊥",
				SymbolName:      "perpendicularity",
				ToleranceValue:  "⌀0.02",
				DatumReferences: []string{"A", "B"},
			},
			feature:    boss,
			scheme:     schemeFor(gdt.FeatureBoss),
			wantFrame:  "|⊥| ⌀0.02 | A | B |",
			wantLabels: []string{"A", "B"},
		},
		{
			name: "flatness strips labels",
			draft: gdt.CalloutDraft{
				SymbolName:      "flatness",
				ToleranceValue:  "0.1",
				DatumReferences: []string{"A"},
			},
			feature:    surface,
			scheme:     gdt.DatumScheme{},
			wantFrame:  "|▱| 0.1 |",
			wantLabels: []string{},
			wantWarn:   true,
		},
		{
			name: "position of hole with MMC",
			draft: gdt.CalloutDraft{
				Symbol:          "⊕",
				SymbolName:      "position",
				ToleranceValue:  "0.25",
				Modifier:        gdt.ModifierMMC,
				ModifierSymbol:  gdt.SymbolMMC,
				DatumReferences: []string{"A", "B"},
			},
			feature:    hole,
			scheme:     schemeFor(gdt.FeatureHole),
			wantFrame:  "|⊕| ⌀0.25Ⓜ | A | B |",
			wantLabels: []string{"A", "B"},
		},
		{
			name: "labels reordered to datum precedence",
			draft: gdt.CalloutDraft{
				SymbolName:      "position",
				ToleranceValue:  "0.1",
				DatumReferences: []string{"B", "A"},
			},
			feature:    hole,
			scheme:     schemeFor(gdt.FeatureHole),
			wantFrame:  "|⊕| ⌀0.1 | A | B |",
			wantLabels: []string{"A", "B"},
			wantWarn:   true,
		},
		{
			name: "unestablished label removed",
			draft: gdt.CalloutDraft{
				SymbolName:      "perpendicularity",
				ToleranceValue:  "0.05",
				DatumReferences: []string{"A", "C"},
			},
			feature:    gdt.FeatureRecord{FeatureType: gdt.FeatureShaft},
			scheme:     schemeFor(gdt.FeatureShaft),
			wantFrame:  "|⊥| 0.05 | A |",
			wantLabels: []string{"A"},
			wantWarn:   true,
		},
		{
			name: "missing labels inherit scheme",
			draft: gdt.CalloutDraft{
				SymbolName:     "circular_runout",
				ToleranceValue: "0.03",
			},
			feature:    gdt.FeatureRecord{FeatureType: gdt.FeatureShaft},
			scheme:     schemeFor(gdt.FeatureShaft),
			wantFrame:  "|↗| 0.03 | A |",
			wantLabels: []string{"A"},
			wantWarn:   true,
		},
		{
			name: "diameter marker removed from surface",
			draft: gdt.CalloutDraft{
				SymbolName:      "parallelism",
				ToleranceValue:  "⌀0.05",
				DatumReferences: []string{"A"},
			},
			feature:    surface,
			scheme:     schemeFor(gdt.FeatureSurface),
			wantFrame:  "|//| 0.05 | A |",
			wantLabels: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, warnings, err := gdt.BuildCallout(tt.draft, tt.feature, tt.scheme)
			if err != nil {
				t.Fatalf("BuildCallout error: %v", err)
			}
			if c.FormattedFrame != tt.wantFrame {
				t.Errorf("FormattedFrame = %q, want %q", c.FormattedFrame, tt.wantFrame)
			}
			if !slices.Equal(c.ReferenceLabels, tt.wantLabels) {
				t.Errorf("ReferenceLabels = %v, want %v", c.ReferenceLabels, tt.wantLabels)
			}
			if (len(warnings) > 0) != tt.wantWarn {
				t.Errorf("warnings = %v, want present=%t", warnings, tt.wantWarn)
			}
		})
	}
}

func TestBuildCalloutRejects(t *testing.T) {
	hole := gdt.FeatureRecord{FeatureType: gdt.FeatureHole}

	tests := []struct {
		name    string
		draft   gdt.CalloutDraft
		scheme  gdt.DatumScheme
		wantErr error
	}{
		{
			name:    "unknown characteristic",
			draft:   gdt.CalloutDraft{SymbolName: "wobble", ToleranceValue: "0.1"},
			scheme:  schemeFor(gdt.FeatureHole),
			wantErr: gdt.ErrUnknownCharacteristic,
		},
		{
			name:    "non-numeric tolerance",
			draft:   gdt.CalloutDraft{SymbolName: "position", ToleranceValue: "tight"},
			scheme:  schemeFor(gdt.FeatureHole),
			wantErr: gdt.ErrInvalidTolerance,
		},
		{
			name:    "zero tolerance",
			draft:   gdt.CalloutDraft{SymbolName: "position", ToleranceValue: "0"},
			scheme:  schemeFor(gdt.FeatureHole),
			wantErr: gdt.ErrInvalidTolerance,
		},
		{
			name:    "label containing a cell delimiter",
			draft:   gdt.CalloutDraft{SymbolName: "position", ToleranceValue: "0.1", DatumReferences: []string{"A|B"}},
			scheme:  schemeFor(gdt.FeatureHole),
			wantErr: gdt.ErrInvalidLabel,
		},
		{
			name:    "related control without any datums",
			draft:   gdt.CalloutDraft{SymbolName: "position", ToleranceValue: "0.1"},
			scheme:  gdt.DatumScheme{},
			wantErr: gdt.ErrMissingDatums,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := gdt.BuildCallout(tt.draft, hole, tt.scheme)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildCalloutModifierLegality(t *testing.T) {
	t.Run("RFS with symbol drops symbol", func(t *testing.T) {
		c, warnings, err := gdt.BuildCallout(gdt.CalloutDraft{
			SymbolName:      "position",
			ToleranceValue:  "0.25",
			Modifier:        gdt.ModifierRFS,
			ModifierSymbol:  gdt.SymbolMMC,
			DatumReferences: []string{"A", "B"},
		}, gdt.FeatureRecord{FeatureType: gdt.FeatureHole, MatingCondition: "clearance"}, schemeFor(gdt.FeatureHole))
		if err != nil {
			t.Fatalf("BuildCallout error: %v", err)
		}
		if c.ModifierSymbol != "" || c.Modifier != "" {
			t.Errorf("modifier = %q %q, want none", c.Modifier, c.ModifierSymbol)
		}
		if c.FormattedFrame != "|⊕| ⌀0.25 | A | B |" {
			t.Errorf("FormattedFrame = %q", c.FormattedFrame)
		}
		if !hasWarning(warnings, gdt.WarnValidation, "modifier symbol") {
			t.Errorf("warnings = %v, want symbol drop", warnings)
		}
	})

	t.Run("embedded symbol implies modifier", func(t *testing.T) {
		c, _, err := gdt.BuildCallout(gdt.CalloutDraft{
			SymbolName:      "position",
			ToleranceValue:  "⌀0.25 Ⓜ",
			DatumReferences: []string{"A"},
		}, gdt.FeatureRecord{FeatureType: gdt.FeaturePattern, MatingCondition: "bolt_pattern"}, schemeFor(gdt.FeaturePattern))
		if err != nil {
			t.Fatalf("BuildCallout error: %v", err)
		}
		if c.Modifier != gdt.ModifierMMC {
			t.Errorf("Modifier = %q, want MMC", c.Modifier)
		}
		if c.FormattedFrame != "|⊕| ⌀0.25Ⓜ | A |" {
			t.Errorf("FormattedFrame = %q", c.FormattedFrame)
		}
	})
}
