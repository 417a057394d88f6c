package inference

import (
	"context"
	"fmt"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/prompts"
)

// Classifier selects the primary geometric control for a feature.
// The pipeline runs one for the primary classification and, in comparison
// mode, a second over the baseline model.
type Classifier struct {
	agent Agent
}

// NewClassifier creates a Classifier over the given agent.
func NewClassifier(a Agent) *Classifier {
	return &Classifier{agent: a}
}

// Classify runs one classification call. A control that does not resolve to
// a known characteristic is a malformed response.
func (c *Classifier) Classify(ctx context.Context, f gdt.FeatureRecord, corrective bool) Outcome[gdt.Classification] {
	prompt, err := prompts.Compose(
		prompts.StageClassify, corrective,
		prompts.Section{Title: "Feature", Body: f},
	)
	if err != nil {
		return Malformed[gdt.Classification](fmt.Errorf("compose prompt: %w", err))
	}

	return call(ctx, c.agent, prompt, nil, checkClassification)
}

func checkClassification(c gdt.Classification) (gdt.Classification, error) {
	if _, ok := c.Characteristic(); !ok {
		return c, fmt.Errorf("%w: %q", gdt.ErrUnknownCharacteristic, c.PrimaryControl)
	}
	return c, nil
}
