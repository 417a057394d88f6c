package inference

import (
	"context"

	"github.com/JaimeStill/tolerance/pkg/formatting"
)

// call sends one prompt and parses the reply into T. A backend error is a
// transport failure; a reply that does not parse or fails check is malformed.
func call[T any](
	ctx context.Context,
	a Agent,
	prompt string,
	images []string,
	check func(T) (T, error),
) Outcome[T] {
	var (
		content string
		err     error
	)
	if len(images) > 0 {
		content, err = a.Vision(ctx, prompt, images)
	} else {
		content, err = a.Chat(ctx, prompt)
	}
	if err != nil {
		return Transport[T](err)
	}

	parsed, err := formatting.Parse[T](content)
	if err != nil {
		return Malformed[T](err)
	}

	if check != nil {
		if parsed, err = check(parsed); err != nil {
			return Malformed[T](err)
		}
	}

	return Success(parsed)
}
