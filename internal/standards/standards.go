// Package standards ranks standards entries by textual similarity to an
// analysis. SQLite uses the FTS5 bm25 ranking and PostgreSQL uses ts_rank.
package standards

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"unicode"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/database"
)

// DefaultQuery is matched when a feature and classification offer no terms.
const DefaultQuery = "geometric dimensioning and tolerancing"

// ErrEmptyQuery is returned when a query has no searchable terms.
var ErrEmptyQuery = errors.New("query has no searchable terms")

// MapHTTPStatus maps standards errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotReady):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// QueryFor builds the match query for a classified feature from its type,
// mating condition, primary control, and symbol name.
func QueryFor(f gdt.FeatureRecord, c gdt.Classification) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{string(f.FeatureType), f.MatingCondition, c.PrimaryControl, c.SymbolName} {
		p = strings.TrimSpace(strings.ReplaceAll(p, "_", " "))
		if p != "" && !slices.Contains(parts, p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return DefaultQuery
	}
	return strings.Join(parts, " ")
}

// terms splits a query into lowercase alphanumeric tokens of three or more
// characters, dropping repeats.
func terms(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// score maps a positive relevance value to (0, 1).
func score(relevance float64) float64 {
	return relevance / (1 + relevance)
}
