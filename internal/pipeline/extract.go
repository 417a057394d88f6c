package pipeline

import (
	"context"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
)

// extractNode returns a state node that extracts the feature record, overlays
// CAD data and request hints, and emits feature_extraction followed by
// cad_context when the request carried CAD data.
func extractNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageExtract, err)
		}
		if err := r.progress(StageExtract); err != nil {
			return s, err
		}

		start := time.Now()
		policy := recovery[gdt.FeatureRecord]{
			stage:   StageExtract,
			timeout: r.timeouts.Extract,
			logger:  r.logger,
		}

		out, err := policy.run(ctx, func(ctx context.Context, corrective bool) inference.Outcome[gdt.FeatureRecord] {
			return r.rt.Extractor.Extract(ctx, r.input, corrective)
		})
		if err != nil {
			return s, r.fail(StageExtract, err)
		}

		a.Feature = r.req.applyHints(out.Value)
		a.Latency.ExtractionMS = since(start)

		r.logger.InfoContext(
			ctx, "extract node complete",
			"feature_type", a.Feature.FeatureType,
			"attempts", out.Attempts,
			"duration_ms", a.Latency.ExtractionMS,
		)

		if err := r.emit(StageExtract, EventFeatureExtraction, ExtractionData{
			Feature:   a.Feature,
			LatencyMS: a.Latency.ExtractionMS,
		}); err != nil {
			return s, err
		}

		if cad := r.req.CADContext; cad != nil {
			if err := r.emit(StageExtract, EventCADContext, CADContextData{
				Source:    "request",
				Objects:   nonNil(cad.Objects),
				Materials: nonNil(cad.Materials),
			}); err != nil {
				return s, err
			}
		}

		return s.Set(KeyAnalysis, a), nil
	})
}
