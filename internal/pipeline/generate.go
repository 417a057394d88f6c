package pipeline

import (
	"context"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
)

// generateNode returns a state node that drafts callouts from the accumulated
// context, builds and formats each draft, and emits the final progress step
// followed by gdt_callouts, reasoning, and warnings. Drafts that cannot be
// built are dropped with a warning.
func generateNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageGenerate, err)
		}
		if err := r.progress(StageGenerate); err != nil {
			return s, err
		}

		start := time.Now()
		in := inference.GenerateInput{
			Feature:        a.Feature,
			Classification: a.Classification,
			DatumScheme:    a.DatumScheme,
			Matches:        a.Matches,
			Tolerance:      a.Tolerance,
		}
		policy := recovery[gdt.Generation]{
			stage:   StageGenerate,
			timeout: r.timeouts.Generate,
			logger:  r.logger,
		}

		out, err := policy.run(ctx, func(ctx context.Context, corrective bool) inference.Outcome[gdt.Generation] {
			return r.rt.Generator.Generate(ctx, in, corrective)
		})
		if err != nil {
			return s, r.fail(StageGenerate, err)
		}

		gen := out.Value
		a.Generation = gen

		if gen.TertiaryDatum != nil {
			scheme, err := a.DatumScheme.WithTertiary(*gen.TertiaryDatum)
			if err != nil {
				a.Warnings = append(a.Warnings, gdt.Warning(gdt.WarnValidation, "tertiary datum on %q ignored: %v", gen.TertiaryDatum.Surface, err))
			} else {
				a.DatumScheme = scheme
			}
		}

		a.Callouts = make([]gdt.Callout, 0, len(gen.Callouts))
		for i, draft := range gen.Callouts {
			c, warnings, err := gdt.BuildCallout(draft, a.Feature, a.DatumScheme)
			if err != nil {
				a.Warnings = append(a.Warnings, gdt.Warning(gdt.WarnDropped, "callout %d dropped: %v", i+1, err))
				continue
			}
			a.Warnings = append(a.Warnings, warnings...)
			a.Callouts = append(a.Callouts, c)
		}
		if len(gen.Callouts) == 0 {
			a.Warnings = append(a.Warnings, gdt.Warning(gdt.WarnDropped, "generation proposed no callouts"))
		}
		a.Warnings = append(a.Warnings, gen.Warnings...)
		a.Latency.GenerationMS = since(start)

		r.logger.InfoContext(
			ctx, "generate node complete",
			"drafts", len(gen.Callouts),
			"callouts", len(a.Callouts),
			"attempts", out.Attempts,
			"duration_ms", a.Latency.GenerationMS,
		)

		if err := r.progress(StageComplete); err != nil {
			return s, err
		}

		result := a.Result()
		if err := r.emit(StageGenerate, EventCallouts, CalloutsData{Callouts: result.Callouts}); err != nil {
			return s, err
		}
		if err := r.emit(StageGenerate, EventReasoning, ReasoningData{
			Summary:             result.Summary,
			ManufacturingNotes:  result.ManufacturingNotes,
			StandardsReferences: result.StandardsReferences,
		}); err != nil {
			return s, err
		}
		if err := r.emit(StageGenerate, EventWarnings, WarningsData{Warnings: result.Warnings}); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}

// completeNode returns a state node that emits analysis_complete with the
// full result and run metadata.
func completeNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageComplete, err)
		}

		a.Latency.TotalMS = since(r.started)
		completion := &Completion{
			AnalysisID: uuid.New(),
			Result:     a.Result(),
			Metadata: Metadata{
				InferenceDevice: InferenceDevice,
				TotalLatencyMS:  a.Latency.TotalMS,
				StageLatency:    a.Latency,
			},
		}

		r.logger.InfoContext(
			ctx, "analysis complete",
			"analysis_id", completion.AnalysisID,
			"callouts", len(completion.Result.Callouts),
			"warnings", len(completion.Result.Warnings),
			"total_ms", a.Latency.TotalMS,
		)

		if err := r.emit(StageComplete, EventComplete, completion); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}
