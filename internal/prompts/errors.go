package prompts

import (
	"errors"
	"net/http"
)

// ErrInvalidStage indicates a stage name outside extract, classify, and generate.
var ErrInvalidStage = errors.New("stage must be extract, classify, or generate")

// MapHTTPStatus maps prompt errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidStage) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
