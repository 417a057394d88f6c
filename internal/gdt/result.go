package gdt

// Latency records elapsed milliseconds per pipeline stage.
// Matching covers the concurrent standards match and knowledge lookups.
type Latency struct {
	ExtractionMS     int64 `json:"extraction_ms"`
	ClassificationMS int64 `json:"classification_ms"`
	ComparisonMS     int64 `json:"comparison_ms,omitempty"`
	MatchingMS       int64 `json:"matching_ms"`
	GenerationMS     int64 `json:"generation_ms"`
	TotalMS          int64 `json:"total_ms"`
}

// AnalysisResult is the complete annotation set for one analyzed feature.
type AnalysisResult struct {
	Feature             FeatureRecord  `json:"feature"`
	Classification      Classification `json:"classification"`
	DatumScheme         DatumScheme    `json:"datum_scheme"`
	Callouts            []Callout      `json:"callouts"`
	Summary             string         `json:"summary"`
	ManufacturingNotes  string         `json:"manufacturing_notes"`
	StandardsReferences []string       `json:"standards_references"`
	Warnings            []string       `json:"warnings"`
	Latency             Latency        `json:"latency"`
}
