// Package inference adapts the language-model stages of the pipeline.
// Every adapter call returns an Outcome tagged with how it ended, so callers
// decide on retries without inspecting error strings.
package inference

import (
	"errors"
	"fmt"
)

// Kind tags how an adapter call ended.
type Kind int

const (
	KindSuccess Kind = iota
	KindMalformed
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindMalformed:
		return "malformed"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

var (
	// ErrMalformed marks a response that could not be used.
	ErrMalformed = errors.New("malformed model response")
	// ErrTransport marks a model backend that could not be reached.
	ErrTransport = errors.New("model backend unavailable")
)

// Outcome is the result of one adapter call.
// Value is meaningful only when Kind is KindSuccess.
type Outcome[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Success wraps a usable value.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: KindSuccess, Value: v}
}

// Malformed wraps a response that responded but could not be used.
func Malformed[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: KindMalformed, Err: tag(ErrMalformed, err)}
}

// Transport wraps a failure to reach the backend.
func Transport[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: KindTransport, Err: tag(ErrTransport, err)}
}

func tag(kind, err error) error {
	if err == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// OK reports whether the call produced a usable value.
func (o Outcome[T]) OK() bool {
	return o.Kind == KindSuccess
}
