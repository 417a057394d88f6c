package pipeline

import (
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

// State bag keys.
const (
	KeyAnalysis = "analysis"
	KeyCompare  = "compare"
)

// Stage names. Each is also the name of its graph node and is reported in
// error events.
const (
	StageRequest  = "request"
	StageExtract  = "extract"
	StageClassify = "classify"
	StageCompare  = "compare"
	StageDatums   = "datums"
	StageLookup   = "lookup"
	StageGenerate = "generate"
	StageComplete = "complete"
)

// Analysis accumulates stage results as a run advances.
type Analysis struct {
	Feature        gdt.FeatureRecord
	Classification gdt.Classification
	DatumScheme    gdt.DatumScheme
	Query          string
	Matches        []gdt.StandardMatch
	Tolerance      gdt.ToleranceData
	Generation     gdt.Generation
	Callouts       []gdt.Callout
	Warnings       []string
	Latency        gdt.Latency
}

// Result assembles the terminal aggregate.
func (a Analysis) Result() gdt.AnalysisResult {
	return gdt.AnalysisResult{
		Feature:             a.Feature,
		Classification:      a.Classification,
		DatumScheme:         a.DatumScheme,
		Callouts:            nonNil(a.Callouts),
		Summary:             a.Generation.Summary,
		ManufacturingNotes:  a.Generation.ManufacturingNotes,
		StandardsReferences: nonNil(a.Generation.StandardsReferences),
		Warnings:            nonNil(a.Warnings),
		Latency:             a.Latency,
	}
}

func extractAnalysis(s state.State) (Analysis, error) {
	val, ok := s.Get(KeyAnalysis)
	if !ok {
		return Analysis{}, fmt.Errorf("missing %s in state", KeyAnalysis)
	}

	a, ok := val.(Analysis)
	if !ok {
		return Analysis{}, fmt.Errorf("%s is not Analysis", KeyAnalysis)
	}

	return a, nil
}

func comparing(s state.State) bool {
	val, ok := s.Get(KeyCompare)
	if !ok {
		return false
	}

	compare, ok := val.(bool)
	return ok && compare
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func since(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
