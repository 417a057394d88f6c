package gdt_test

import (
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

func TestMergeCAD(t *testing.T) {
	vision := 11.5
	base := gdt.FeatureRecord{
		FeatureType: gdt.FeatureBoss,
		Geometry:    gdt.Geometry{Diameter: &vision, Unit: "mm"},
		Material:    "aluminum",
	}

	t.Run("nil context leaves record unchanged", func(t *testing.T) {
		got := gdt.MergeCAD(base, nil)
		if *got.Geometry.Diameter != vision || got.Material != "aluminum" {
			t.Errorf("MergeCAD(nil) = %+v", got)
		}
	})

	t.Run("CAD values take precedence", func(t *testing.T) {
		got := gdt.MergeCAD(base, &gdt.CADContext{
			Objects: []gdt.CADObject{
				{Name: "Sketch"},
				{Name: "Boss", Parent: "base plate top", Dimensions: map[string]float64{"diameter": 12, "height": 8}},
				{Name: "Other", Parent: "ignored", Dimensions: map[string]float64{"diameter": 99}},
			},
			Materials: []gdt.CADMaterial{{Object: "Boss", Material: "AL6061-T6"}},
		})

		if got.Geometry.Diameter == nil || *got.Geometry.Diameter != 12 {
			t.Errorf("Diameter = %v, want 12", got.Geometry.Diameter)
		}
		if got.Geometry.Height == nil || *got.Geometry.Height != 8 {
			t.Errorf("Height = %v, want 8", got.Geometry.Height)
		}
		if got.ParentSurface != "base plate top" {
			t.Errorf("ParentSurface = %q, want base plate top", got.ParentSurface)
		}
		if got.Material != "AL6061-T6" {
			t.Errorf("Material = %q, want AL6061-T6", got.Material)
		}
		if *base.Geometry.Diameter != vision {
			t.Error("MergeCAD mutated the input record's geometry")
		}
	})

	t.Run("radius converts to diameter", func(t *testing.T) {
		got := gdt.MergeCAD(gdt.FeatureRecord{FeatureType: gdt.FeatureHole}, &gdt.CADContext{
			Objects: []gdt.CADObject{{Name: "Hole", Dimensions: map[string]float64{"radius": 3}}},
		})
		if got.Geometry.Diameter == nil || *got.Geometry.Diameter != 6 {
			t.Errorf("Diameter = %v, want 6", got.Geometry.Diameter)
		}
	})
}
