package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/prompts"
)

// ErrNoCallouts is returned when a generation response has no callouts field.
// An empty list is a valid answer.
var ErrNoCallouts = errors.New("generation response has no callouts field")

// GenerateInput is the accumulated context handed to the generation stage.
type GenerateInput struct {
	Feature        gdt.FeatureRecord
	Classification gdt.Classification
	DatumScheme    gdt.DatumScheme
	Matches        []gdt.StandardMatch
	Tolerance      gdt.ToleranceData
}

// Generator drafts callouts and narrative for a classified feature.
type Generator struct {
	agent Agent
}

// NewGenerator creates a Generator over the given agent.
func NewGenerator(a Agent) *Generator {
	return &Generator{agent: a}
}

// Generate runs one generation call. Drafts are returned unvalidated; the
// pipeline builds and formats each one.
func (g *Generator) Generate(ctx context.Context, in GenerateInput, corrective bool) Outcome[gdt.Generation] {
	matches := in.Matches
	if matches == nil {
		matches = []gdt.StandardMatch{}
	}

	prompt, err := prompts.Compose(
		prompts.StageGenerate, corrective,
		prompts.Section{Title: "Feature", Body: in.Feature},
		prompts.Section{Title: "Classification", Body: in.Classification},
		prompts.Section{Title: "Datum Scheme", Body: in.DatumScheme},
		prompts.Section{Title: "Matched Standards", Body: matches},
		prompts.Section{Title: "Tolerance Data", Body: in.Tolerance},
	)
	if err != nil {
		return Malformed[gdt.Generation](fmt.Errorf("compose prompt: %w", err))
	}

	return call(ctx, g.agent, prompt, nil, checkGeneration)
}

func checkGeneration(g gdt.Generation) (gdt.Generation, error) {
	if g.Callouts == nil {
		return g, ErrNoCallouts
	}
	return g, nil
}
