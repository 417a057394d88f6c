package knowledge

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/tolerance/pkg/database"
)

// Domain errors for knowledge lookups.
var (
	ErrStandardNotFound = errors.New("standard not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrRangeNotFound    = errors.New("tolerance range not found")
	ErrPatternNotFound  = errors.New("datum pattern not found")
	ErrMissingProcess   = errors.New("process is required")
)

// MapHTTPStatus maps knowledge domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrStandardNotFound),
		errors.Is(err, ErrMaterialNotFound),
		errors.Is(err, ErrRangeNotFound),
		errors.Is(err, ErrPatternNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingProcess):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotReady):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
