package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/tolerance/internal/inference"
)

// maxAttempts bounds the calls one stage may make.
const maxAttempts = 2

// attempt performs one adapter call. corrective is set on the retry.
type attempt[T any] func(ctx context.Context, corrective bool) inference.Outcome[T]

// recovery applies the retry policy to one stage.
//
// A transport failure ends the stage without a retry. A malformed response is
// retried once with the corrective instruction and a second one ends the
// stage. When reject is set, a value it refuses is retried the same way; if
// the retry is refused too, or is malformed, the refused value is returned
// with its rejection so the caller can correct it.
type recovery[T any] struct {
	stage   string
	timeout time.Duration
	reject  func(T) error
	logger  *slog.Logger
}

type recovered[T any] struct {
	Value     T
	Rejection error
	Attempts  int
}

func (p recovery[T]) run(ctx context.Context, call attempt[T]) (recovered[T], error) {
	var (
		held     *recovered[T]
		previous error
	)

	for n := 1; n <= maxAttempts; n++ {
		if n > 1 {
			p.logger.WarnContext(
				ctx, "retrying stage",
				"stage", p.stage,
				"attempt", n,
				"reason", previous,
			)
		}

		out := p.call(ctx, call, n > 1)
		if ctx.Err() != nil {
			return recovered[T]{}, ErrClientCancelled
		}

		switch out.Kind {
		case inference.KindTransport:
			return recovered[T]{}, tagged(ErrTransportUnavailable, out.Err)

		case inference.KindMalformed:
			previous = out.Err
			if n == maxAttempts {
				if held != nil {
					held.Attempts = n
					return *held, nil
				}
				return recovered[T]{}, tagged(ErrMalformedResponse, out.Err)
			}

		case inference.KindSuccess:
			result := recovered[T]{Value: out.Value, Attempts: n}
			if p.reject == nil {
				return result, nil
			}
			result.Rejection = p.reject(out.Value)
			if result.Rejection == nil || n == maxAttempts {
				return result, nil
			}
			held = &result
			previous = result.Rejection
		}
	}

	return recovered[T]{}, fmt.Errorf("%w: attempts exhausted", ErrMalformedResponse)
}

func (p recovery[T]) call(ctx context.Context, call attempt[T], corrective bool) inference.Outcome[T] {
	callCtx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	return call(callCtx, corrective)
}

// withTimeout bounds ctx by d. A non-positive d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
