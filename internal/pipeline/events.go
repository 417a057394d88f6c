package pipeline

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

// Event names in emission order.
const (
	EventProgress          = "progress"
	EventFeatureExtraction = "feature_extraction"
	EventCADContext        = "cad_context"
	EventClassification    = "classification"
	EventComparison        = "classification_comparison"
	EventDatums            = "datum_recommendation"
	EventStandardsContext  = "standards_context"
	EventCallouts          = "gdt_callouts"
	EventReasoning         = "reasoning"
	EventWarnings          = "warnings"
	EventComplete          = "analysis_complete"
	EventError             = "error"
)

// InferenceDevice is reported in completion metadata. Every model call in a
// run is served by locally hosted backends.
const InferenceDevice = "local"

// Event is one named, sequenced step of a run.
type Event struct {
	Name string `json:"event"`
	Seq  int    `json:"seq"`
	Data any    `json:"data"`
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool {
	return e.Name == EventComplete || e.Name == EventError
}

// ProgressData announces that a reported step has started. Steps count from
// 1 to Total in a fixed order.
type ProgressData struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
}

// CADContextData echoes the CAD data that was merged into the feature record.
type CADContextData struct {
	Source    string            `json:"source"`
	Objects   []gdt.CADObject   `json:"objects"`
	Materials []gdt.CADMaterial `json:"materials"`
}

type ExtractionData struct {
	Feature   gdt.FeatureRecord `json:"feature"`
	LatencyMS int64             `json:"latency_ms"`
}

type ClassificationData struct {
	Classification gdt.Classification `json:"classification"`
	LatencyMS      int64              `json:"latency_ms"`
}

// ComparisonData reports the baseline classifier alongside the primary one.
// Error is set instead of Baseline when the baseline call failed.
type ComparisonData struct {
	Primary   gdt.Classification  `json:"primary"`
	Baseline  *gdt.Classification `json:"baseline,omitempty"`
	Agrees    bool                `json:"agrees"`
	Error     string              `json:"error,omitempty"`
	LatencyMS int64               `json:"latency_ms"`
}

type DatumData struct {
	DatumScheme gdt.DatumScheme `json:"datum_scheme"`
}

type StandardsContextData struct {
	Query     string              `json:"query"`
	Matches   []gdt.StandardMatch `json:"matches"`
	Tolerance gdt.ToleranceData   `json:"tolerance"`
	LatencyMS int64               `json:"latency_ms"`
}

type CalloutsData struct {
	Callouts []gdt.Callout `json:"callouts"`
}

type ReasoningData struct {
	Summary             string   `json:"summary"`
	ManufacturingNotes  string   `json:"manufacturing_notes"`
	StandardsReferences []string `json:"standards_references"`
}

type WarningsData struct {
	Warnings []string `json:"warnings"`
}

type ErrorData struct {
	Error string `json:"error"`
	Stage string `json:"stage"`
}

// Completion is the payload of the terminal success event.
type Completion struct {
	AnalysisID uuid.UUID          `json:"analysis_id"`
	Result     gdt.AnalysisResult `json:"result"`
	Metadata   Metadata           `json:"metadata"`
}

// Metadata describes how a run was served. ExternalNetworkCalls and
// ConnectivityRequired are always zero and false.
type Metadata struct {
	InferenceDevice      string      `json:"inference_device"`
	TotalLatencyMS       int64       `json:"total_latency_ms"`
	StageLatency         gdt.Latency `json:"stage_latency"`
	ExternalNetworkCalls int         `json:"external_network_calls"`
	ConnectivityRequired bool        `json:"connectivity_required"`
}
