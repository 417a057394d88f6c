package gdt_test

import (
	"encoding/json"
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

func TestCharacteristicsTable(t *testing.T) {
	chars := gdt.Characteristics()
	if len(chars) != 14 {
		t.Fatalf("len = %d, want 14", len(chars))
	}

	for _, c := range chars {
		switch c.Category {
		case gdt.CategoryForm:
			if c.Datums != gdt.DatumNever {
				t.Errorf("%s: form control must never take datums", c.Name)
			}
		case gdt.CategoryOrientation, gdt.CategoryLocation, gdt.CategoryRunout:
			if c.Datums != gdt.DatumAlways {
				t.Errorf("%s: related control must always take datums", c.Name)
			}
		case gdt.CategoryProfile:
			if c.Datums != gdt.DatumOptional {
				t.Errorf("%s: profile datums must be optional", c.Name)
			}
		default:
			t.Errorf("%s: unknown category %q", c.Name, c.Category)
		}

		if c.Symbol == "" || c.ASMESection == "" {
			t.Errorf("%s: missing symbol or section", c.Name)
		}
	}
}

func TestLookupCharacteristic(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"position", gdt.Position},
		{"Position", gdt.Position},
		{"⊕", gdt.Position},
		{"true position", gdt.Position},
		{"Profile of a Surface", gdt.ProfileOfASurface},
		{"profile-of-a-line", gdt.ProfileOfALine},
		{"roundness", gdt.Circularity},
		{"//", gdt.Parallelism},
		{"-", gdt.Straightness},
		{"↗↗", gdt.TotalRunout},
		{"runout", gdt.CircularRunout},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := gdt.LookupCharacteristic(tt.key)
			if !ok {
				t.Fatalf("LookupCharacteristic(%q) not found", tt.key)
			}
			if got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}

	for _, key := range []string{"", "wobble", "  "} {
		if _, ok := gdt.LookupCharacteristic(key); ok {
			t.Errorf("LookupCharacteristic(%q) found, want miss", key)
		}
	}
}

func TestModifierUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  gdt.Modifier
	}{
		{`null`, gdt.ModifierNone},
		{`"MMC"`, gdt.ModifierMMC},
		{`"lmc"`, gdt.ModifierLMC},
		{`"RFS"`, gdt.ModifierRFS},
		{`"Ⓜ"`, gdt.ModifierMMC},
		{`"anything"`, gdt.ModifierNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c gdt.Classification
			if err := json.Unmarshal([]byte(`{"modifier":`+tt.input+`}`), &c); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if c.Modifier != tt.want {
				t.Errorf("Modifier = %q, want %q", c.Modifier, tt.want)
			}
		})
	}
}
