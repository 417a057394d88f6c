package pipeline

import (
	"context"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/standards"
)

// datumsNode returns a state node that derives the reference frame from the
// classification and emits datum_recommendation.
func datumsNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageDatums, err)
		}

		a.DatumScheme = gdt.DeriveDatumScheme(a.Classification, a.Feature)

		r.logger.InfoContext(
			ctx, "datums node complete",
			"labels", a.DatumScheme.Labels(),
		)

		if err := r.emit(StageDatums, EventDatums, DatumData{DatumScheme: a.DatumScheme}); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}

// lookupNode returns a state node that runs the standards match and the
// knowledge lookups concurrently and emits their joined standards_context.
// Neither lookup fails the run; empty results are recorded as warnings.
func lookupNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		a, err := extractAnalysis(s)
		if err != nil {
			return s, r.fail(StageLookup, err)
		}
		if err := r.progress(StageLookup); err != nil {
			return s, err
		}

		start := time.Now()
		a.Query = standards.QueryFor(a.Feature, a.Classification)

		var (
			matches   []gdt.StandardMatch
			tolerance gdt.ToleranceData
		)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			matchCtx, cancel := withTimeout(gctx, r.timeouts.Match)
			defer cancel()
			matches = r.rt.Matcher.Match(matchCtx, a.Query, r.rt.Config.MatchTopK)
			return nil
		})

		g.Go(func() error {
			lookupCtx, cancel := withTimeout(gctx, r.timeouts.Lookup)
			defer cancel()
			tolerance = r.rt.Knowledge.ToleranceData(lookupCtx, a.Feature, a.Classification.PrimaryControl)
			return nil
		})

		if err := g.Wait(); err != nil {
			return s, r.fail(StageLookup, err)
		}
		if ctx.Err() != nil {
			return s, r.fail(StageLookup, ErrClientCancelled)
		}

		a.Matches = nonNil(matches)
		a.Tolerance = tolerance
		a.Warnings = append(a.Warnings, degraded(a)...)
		a.Latency.MatchingMS = since(start)

		r.logger.InfoContext(
			ctx, "lookup node complete",
			"matches", len(a.Matches),
			"range_found", a.Tolerance.ToleranceRange != nil,
			"material_found", a.Tolerance.MaterialProperties != nil,
			"duration_ms", a.Latency.MatchingMS,
		)

		if err := r.emit(StageLookup, EventStandardsContext, StandardsContextData{
			Query:     a.Query,
			Matches:   a.Matches,
			Tolerance: a.Tolerance,
			LatencyMS: a.Latency.MatchingMS,
		}); err != nil {
			return s, err
		}

		return s.Set(KeyAnalysis, a), nil
	})
}

func degraded(a Analysis) []string {
	var warnings []string

	if len(a.Matches) == 0 {
		warnings = append(warnings, gdt.Warning(gdt.WarnDegraded, "no standards matched %q", a.Query))
	}
	if a.Tolerance.ToleranceRange == nil {
		warnings = append(warnings, gdt.Warning(
			gdt.WarnDegraded, "no tolerance range for process %q, material %q, feature %s",
			a.Feature.ManufacturingProcess, a.Feature.Material, a.Feature.FeatureType,
		))
	}
	if a.Tolerance.MaterialProperties == nil {
		warnings = append(warnings, gdt.Warning(gdt.WarnDegraded, "no material properties for %q", a.Feature.Material))
	}

	return warnings
}
