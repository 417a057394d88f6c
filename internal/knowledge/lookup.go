package knowledge

import (
	"context"
	"errors"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/database"
)

func (r *repo) ToleranceData(ctx context.Context, f gdt.FeatureRecord, control string) gdt.ToleranceData {
	var data gdt.ToleranceData

	material := f.Material
	if props, err := r.FindMaterial(ctx, f.Material); err == nil {
		data.MaterialProperties = props
		material = props.ID
	} else {
		r.logMiss(ctx, "material properties", err, "material", f.Material)
	}

	q := rangeQueryFor(f, material, control)
	if rng, err := r.FindRange(ctx, q); err == nil {
		data.ToleranceRange = rng
	} else {
		r.logMiss(ctx, "tolerance range", err,
			"process", q.Process,
			"material", q.Material,
			"feature_type", q.FeatureType,
		)
	}

	return data
}

func (r *repo) logMiss(ctx context.Context, lookup string, err error, args ...any) {
	args = append(args, "lookup", lookup, "error", err)
	switch {
	case errors.Is(err, ErrMaterialNotFound), errors.Is(err, ErrRangeNotFound):
		r.logger.DebugContext(ctx, "knowledge lookup found nothing", args...)
	case errors.Is(err, database.ErrNotReady):
		r.logger.WarnContext(ctx, "knowledge store unavailable", args...)
	default:
		r.logger.WarnContext(ctx, "knowledge lookup failed", args...)
	}
}
