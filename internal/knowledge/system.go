package knowledge

import (
	"context"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/pagination"
)

// System defines the public contract for knowledge-store lookups.
type System interface {
	Handler() *Handler

	// Ready reports whether the backing store is reachable.
	Ready() bool

	FindStandard(ctx context.Context, code string) (*Standard, error)
	FindMaterial(ctx context.Context, material string) (*gdt.MaterialProperties, error)
	FindRange(ctx context.Context, q RangeQuery) (*gdt.ToleranceRange, error)
	FindDatumPattern(ctx context.Context, featureType string) (*DatumPattern, error)

	// ProcessCapability returns every tolerance range recorded for a process.
	ProcessCapability(ctx context.Context, process string) ([]gdt.ToleranceRange, error)

	SearchRanges(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[gdt.ToleranceRange], error)

	// ToleranceData joins the material and range lookups for an analyzed
	// feature. It never fails: missing rows or an unavailable store leave
	// the corresponding member nil.
	ToleranceData(ctx context.Context, f gdt.FeatureRecord, control string) gdt.ToleranceData
}
