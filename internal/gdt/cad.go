package gdt

// CADContext carries exact data pre-extracted from a CAD model.
type CADContext struct {
	Objects   []CADObject   `json:"objects,omitempty"`
	Materials []CADMaterial `json:"materials,omitempty"`
}

// CADObject is one modelled body or feature with its measured dimensions.
type CADObject struct {
	Name       string             `json:"name"`
	Type       string             `json:"type,omitempty"`
	Parent     string             `json:"parent,omitempty"`
	Dimensions map[string]float64 `json:"dimensions,omitempty"`
}

// CADMaterial is a material assignment on a CAD object.
type CADMaterial struct {
	Object   string `json:"object,omitempty"`
	Material string `json:"material"`
}

// MergeCAD overlays exact CAD values onto an inferred feature record.
// The first object carrying dimensions supplies geometry and, when the record has
// none, the parent surface. The first material assignment replaces the material.
func MergeCAD(f FeatureRecord, cad *CADContext) FeatureRecord {
	if cad == nil {
		return f
	}

	for _, obj := range cad.Objects {
		if len(obj.Dimensions) == 0 {
			continue
		}

		g := &f.Geometry
		for key, v := range obj.Dimensions {
			switch key {
			case "diameter":
				g.Diameter = ptr(v)
			case "radius":
				if _, ok := obj.Dimensions["diameter"]; !ok {
					g.Diameter = ptr(2 * v)
				}
			case "length":
				g.Length = ptr(v)
			case "width":
				g.Width = ptr(v)
			case "height":
				g.Height = ptr(v)
			case "depth":
				g.Depth = ptr(v)
			case "angle":
				g.Angle = ptr(v)
			case "pcd":
				g.PCD = ptr(v)
			}
		}

		if obj.Parent != "" && !specified(f.ParentSurface) {
			f.ParentSurface = obj.Parent
		}
		break
	}

	for _, m := range cad.Materials {
		if m.Material != "" {
			f.Material = m.Material
			break
		}
	}

	return f
}

func ptr[T any](v T) *T {
	return &v
}
