package pipeline

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
)

// Extractor produces a feature record from a description or drawing.
type Extractor interface {
	Extract(ctx context.Context, in inference.ExtractInput, corrective bool) inference.Outcome[gdt.FeatureRecord]
}

// Classifier selects the primary control for a feature.
type Classifier interface {
	Classify(ctx context.Context, f gdt.FeatureRecord, corrective bool) inference.Outcome[gdt.Classification]
}

// Generator drafts callouts and narrative from the accumulated context.
type Generator interface {
	Generate(ctx context.Context, in inference.GenerateInput, corrective bool) inference.Outcome[gdt.Generation]
}

// Matcher ranks standards entries against a query. It never fails.
type Matcher interface {
	Match(ctx context.Context, query string, topK int) []gdt.StandardMatch
}

// Knowledge resolves tolerance data for a feature. It never fails; missing
// rows are left nil.
type Knowledge interface {
	ToleranceData(ctx context.Context, f gdt.FeatureRecord, control string) gdt.ToleranceData
}

// Runtime bundles the collaborators shared by every run. They are read-only
// from the pipeline's side and safe for concurrent runs.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Extractor  Extractor
	Classifier Classifier
	Baseline   Classifier
	Generator  Generator
	Matcher    Matcher
	Knowledge  Knowledge
	Config     Config
	Logger     *slog.Logger
}

func (rt *Runtime) compares(req Request) bool {
	return req.Compare && rt.Baseline != nil && !rt.Config.CompareDisabled()
}
