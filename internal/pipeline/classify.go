package pipeline

import (
	"context"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
)

// classifyNode returns a state node that classifies the extracted feature.
// A classification that breaks the datum requirement of its category is
// retried once; if the retry breaks it too, the value is corrected against
// the characteristic table and the correction recorded as a warning.
func classifyNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageClassify, err)
		}
		if err := r.progress(StageClassify); err != nil {
			return s, err
		}

		start := time.Now()
		policy := recovery[gdt.Classification]{
			stage:   StageClassify,
			timeout: r.timeouts.Classify,
			reject:  gdt.CheckDatumConsistency,
			logger:  r.logger,
		}

		out, err := policy.run(ctx, func(ctx context.Context, corrective bool) inference.Outcome[gdt.Classification] {
			return r.rt.Classifier.Classify(ctx, a.Feature, corrective)
		})
		if err != nil {
			return s, r.fail(StageClassify, err)
		}

		if out.Rejection != nil {
			r.logger.WarnContext(
				ctx, "accepting corrected classification",
				"stage", StageClassify,
				"reason", out.Rejection,
			)
		}

		c, warnings := gdt.NormalizeClassification(out.Value, a.Feature)
		a.Classification = c
		a.Warnings = append(a.Warnings, warnings...)
		a.Latency.ClassificationMS = since(start)

		r.logger.InfoContext(
			ctx, "classify node complete",
			"primary_control", c.PrimaryControl,
			"datum_required", c.DatumRequired,
			"attempts", out.Attempts,
			"duration_ms", a.Latency.ClassificationMS,
		)

		if err := r.emit(StageClassify, EventClassification, ClassificationData{
			Classification: c,
			LatencyMS:      a.Latency.ClassificationMS,
		}); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}

// compareNode returns a state node that classifies the feature again with the
// baseline classifier for side-by-side display. It makes one call without
// retries and reports a failure inside the event instead of failing the run.
func compareNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageCompare, err)
		}

		start := time.Now()
		callCtx, cancel := withTimeout(ctx, r.timeouts.Classify)
		out := r.rt.Baseline.Classify(callCtx, a.Feature, false)
		cancel()

		if ctx.Err() != nil {
			return s, r.fail(StageCompare, ErrClientCancelled)
		}

		a.Latency.ComparisonMS = since(start)
		data := ComparisonData{
			Primary:   a.Classification,
			LatencyMS: a.Latency.ComparisonMS,
		}

		if out.OK() {
			baseline, _ := gdt.NormalizeClassification(out.Value, a.Feature)
			data.Baseline = &baseline
			data.Agrees = baseline.PrimaryControl == a.Classification.PrimaryControl
		} else {
			data.Error = out.Err.Error()
			r.logger.WarnContext(
				ctx, "baseline classification failed",
				"stage", StageCompare,
				"kind", out.Kind,
				"error", out.Err,
			)
		}

		r.logger.InfoContext(
			ctx, "compare node complete",
			"agrees", data.Agrees,
			"duration_ms", a.Latency.ComparisonMS,
		)

		if err := r.emit(StageCompare, EventComparison, data); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}
