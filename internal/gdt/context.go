package gdt

// StandardMatch is a standards entry ranked by similarity to an analysis query.
type StandardMatch struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// ToleranceRange is the achievable tolerance band for a process, material, and feature.
type ToleranceRange struct {
	Process        string  `json:"process"`
	Material       string  `json:"material"`
	FeatureType    string  `json:"feature_type"`
	Characteristic string  `json:"characteristic,omitempty"`
	MinMM          float64 `json:"min_mm"`
	MaxMM          float64 `json:"max_mm"`
	Notes          string  `json:"notes,omitempty"`
}

// MaterialProperties are the material attributes relevant to tolerancing.
type MaterialProperties struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Category             string   `json:"category"`
	CommonProcesses      []string `json:"common_processes"`
	Machinability        string   `json:"machinability,omitempty"`
	ThermalExpansionPPMC *float64 `json:"thermal_expansion_ppm_c,omitempty"`
	DensityGCM3          *float64 `json:"density_g_cm3,omitempty"`
	YieldStrengthMPa     *float64 `json:"yield_strength_mpa,omitempty"`
	Hardness             string   `json:"hardness,omitempty"`
	CostTier             string   `json:"cost_tier,omitempty"`
	Notes                string   `json:"notes,omitempty"`
}

// ToleranceData joins the knowledge-store lookups for one analysis.
// A nil member means the lookup found nothing or the store was unavailable.
type ToleranceData struct {
	ToleranceRange     *ToleranceRange     `json:"tolerance_range"`
	MaterialProperties *MaterialProperties `json:"material_properties"`
}
