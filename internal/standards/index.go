package standards

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/cache"
	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/repository"
)

// MaxTopK bounds the number of matches returned by a single query.
const MaxTopK = 20

// The name column dominates the bm25 weighting.
const sqliteMatch = `SELECT s.id, -bm25(standards_fts, 10.0, 2.0, 2.0, 1.0, 1.0) AS relevance
	FROM standards_fts
	JOIN standards s ON s.rowid = standards_fts.rowid
	WHERE standards_fts MATCH ?
	ORDER BY relevance DESC, s.id
	LIMIT ?`

const postgresMatch = `SELECT s.id, ts_rank(s.search, q) AS relevance
	FROM standards s, to_tsquery('english', ?) q
	WHERE s.search @@ q
	ORDER BY relevance DESC, s.id
	LIMIT ?`

// Index matches free text against the knowledge store's standards entries.
type Index struct {
	db     database.System
	cache  cache.System
	logger *slog.Logger
}

// New creates an Index over the knowledge database.
func New(db database.System, c cache.System, logger *slog.Logger) *Index {
	return &Index{
		db:     db,
		cache:  c,
		logger: logger.With("system", "standards"),
	}
}

// Handler returns the HTTP handler for standards search.
func (x *Index) Handler() *Handler {
	return NewHandler(x, x.logger)
}

// Match returns up to topK entries ordered by descending score. It never
// fails: any error is logged and yields an empty result.
func (x *Index) Match(ctx context.Context, query string, topK int) []gdt.StandardMatch {
	matches, err := x.Search(ctx, query, topK)
	if err != nil {
		x.logger.WarnContext(ctx, "standards match failed", "query", query, "error", err)
		return []gdt.StandardMatch{}
	}
	return matches
}

// Search returns up to topK entries ordered by descending score.
func (x *Index) Search(ctx context.Context, query string, topK int) ([]gdt.StandardMatch, error) {
	tokens := terms(query)
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}
	topK = min(max(topK, 1), MaxTopK)

	if !x.db.Ready() {
		return nil, database.ErrNotReady
	}

	key := cache.Key("match", strings.Join(tokens, " "), strconv.Itoa(topK))
	return cache.Fetch(ctx, x.cache, x.logger, key, func(ctx context.Context) ([]gdt.StandardMatch, error) {
		return x.search(ctx, tokens, topK)
	})
}

func (x *Index) search(ctx context.Context, tokens []string, topK int) ([]gdt.StandardMatch, error) {
	dialect := x.db.Dialect()

	q, expr := sqliteMatch, sqliteExpr(tokens)
	if dialect.Postgres() {
		q, expr = postgresMatch, strings.Join(tokens, " | ")
	}

	rows, err := repository.QueryMany(
		ctx, x.db.Connection(), dialect, q, []any{expr, topK},
		func(s repository.Scanner) (gdt.StandardMatch, error) {
			var (
				m         gdt.StandardMatch
				relevance float64
			)
			err := s.Scan(&m.Key, &relevance)
			m.Score = score(relevance)
			return m, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("match standards: %w", err)
	}

	matches := make([]gdt.StandardMatch, 0, len(rows))
	for _, m := range rows {
		if m.Score > 0 {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// sqliteExpr renders tokens as an FTS5 OR of quoted prefix terms.
func sqliteExpr(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"*`
	}
	return strings.Join(quoted, " OR ")
}
