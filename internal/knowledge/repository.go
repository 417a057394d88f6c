package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/cache"
	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/pagination"
	"github.com/JaimeStill/tolerance/pkg/query"
	"github.com/JaimeStill/tolerance/pkg/repository"
)

type repo struct {
	db         database.System
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a knowledge repository implementing the System interface.
// Lookups read through the cache; a disabled cache passes straight through.
func New(
	db database.System,
	c cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		cache:      c,
		logger:     logger.With("system", "knowledge"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Ready() bool {
	return r.db.Ready()
}

func (r *repo) FindStandard(ctx context.Context, code string) (*Standard, error) {
	code = strings.TrimSpace(code)
	id := code
	if ch, ok := gdt.LookupCharacteristic(code); ok {
		id = ch.Name
	}

	return fetch(ctx, r, cache.Key("standard", id), func(ctx context.Context) (*Standard, error) {
		return find(ctx, r, findStandardQuery, []any{id, code, code}, scanStandard, ErrStandardNotFound)
	})
}

func (r *repo) FindMaterial(ctx context.Context, material string) (*gdt.MaterialProperties, error) {
	lower := strings.ToLower(strings.TrimSpace(material))
	if lower == "" {
		return nil, ErrMaterialNotFound
	}

	return fetch(ctx, r, cache.Key("material", lower), func(ctx context.Context) (*gdt.MaterialProperties, error) {
		args := []any{lower, "%" + lower + "%", lower, lower}
		return find(ctx, r, findMaterialQuery, args, scanMaterial, ErrMaterialNotFound)
	})
}

func (r *repo) FindRange(ctx context.Context, q RangeQuery) (*gdt.ToleranceRange, error) {
	key := cache.Key("range", q.Process, q.Material, q.FeatureType, q.Characteristic)

	return fetch(ctx, r, key, func(ctx context.Context) (*gdt.ToleranceRange, error) {
		args := []any{q.Process, q.Material, q.FeatureType, q.Characteristic}
		return find(ctx, r, findRangeQuery(), args, scanRange, ErrRangeNotFound)
	})
}

func (r *repo) FindDatumPattern(ctx context.Context, featureType string) (*DatumPattern, error) {
	ft := Key(featureType)
	if ft == "" {
		return nil, ErrPatternNotFound
	}

	return fetch(ctx, r, cache.Key("pattern", ft), func(ctx context.Context) (*DatumPattern, error) {
		return find(ctx, r, findPatternQuery, []any{`%"` + ft + `"%`}, scanPattern, ErrPatternNotFound)
	})
}

func (r *repo) ProcessCapability(ctx context.Context, process string) ([]gdt.ToleranceRange, error) {
	process = Key(process)
	if process == "" {
		return nil, ErrMissingProcess
	}
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	sql, args := query.
		NewBuilder(rangeProjection, defaultRangeSort...).
		WhereEquals("process", process).
		Build()

	ranges, err := repository.QueryMany(ctx, r.db.Connection(), r.db.Dialect(), sql, args, scanRange)
	if err != nil {
		return nil, fmt.Errorf("process capability %s: %w", process, err)
	}
	return ranges, nil
}

func (r *repo) SearchRanges(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[gdt.ToleranceRange], error) {
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(rangeProjection, defaultRangeSort...).
		WhereSearch(page.Search, "material", "notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	conn := r.db.Connection()
	dialect := r.db.Dialect()

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := conn.QueryRowContext(ctx, dialect.Rebind(countSQL), countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tolerance ranges: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	ranges, err := repository.QueryMany(ctx, conn, dialect, pageSQL, pageArgs, scanRange)
	if err != nil {
		return nil, fmt.Errorf("query tolerance ranges: %w", err)
	}

	result := pagination.NewPageResult(ranges, total, page.Page, page.PageSize)
	return &result, nil
}

func find[T any](
	ctx context.Context,
	r *repo,
	q string,
	args []any,
	scan repository.ScanFunc[T],
	notFound error,
) (*T, error) {
	if !r.db.Ready() {
		return nil, database.ErrNotReady
	}

	v, err := repository.QueryOne(ctx, r.db.Connection(), r.db.Dialect(), q, args, scan)
	if err != nil {
		return nil, repository.MapError(err, notFound)
	}
	return &v, nil
}

func fetch[T any](ctx context.Context, r *repo, key string, load func(context.Context) (*T, error)) (*T, error) {
	return cache.Fetch(ctx, r.cache, r.logger, key, load)
}
