package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/tolerance/internal/inference"
)

var (
	ErrTransportUnavailable = inference.ErrTransport
	ErrMalformedResponse    = inference.ErrMalformed
	ErrClientCancelled      = errors.New("client cancelled")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrMissingInput         = errors.New("description or image required")
)

// StageError names the stage that ended a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// tagged returns err marked with kind, wrapping only when err does not
// already carry it.
func tagged(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransportUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, ErrClientCancelled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}
