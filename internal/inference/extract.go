package inference

import (
	"context"
	"fmt"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/prompts"
)

// ExtractInput is the raw feature description submitted by a client.
type ExtractInput struct {
	Description string
	Image       []byte
	CAD         *gdt.CADContext
}

// Extractor turns a description or drawing image into a FeatureRecord.
type Extractor struct {
	agent Agent
}

// NewExtractor creates an Extractor over the given agent.
func NewExtractor(a Agent) *Extractor {
	return &Extractor{agent: a}
}

// Extract runs one extraction call. The vision endpoint is used when the
// input carries an image. The returned record is normalized and its feature
// type checked against the closed set.
func (e *Extractor) Extract(ctx context.Context, in ExtractInput, corrective bool) Outcome[gdt.FeatureRecord] {
	prompt, err := prompts.Compose(prompts.StageExtract, corrective, extractSections(in)...)
	if err != nil {
		return Malformed[gdt.FeatureRecord](fmt.Errorf("compose prompt: %w", err))
	}

	var images []string
	if len(in.Image) > 0 {
		uri, err := EncodeImage(in.Image)
		if err != nil {
			return Malformed[gdt.FeatureRecord](err)
		}
		images = []string{uri}
	}

	return call(ctx, e.agent, prompt, images, checkFeature)
}

func extractSections(in ExtractInput) []prompts.Section {
	description := in.Description
	if description == "" {
		description = "No description provided. Extract the feature from the attached drawing."
	}

	sections := []prompts.Section{{Title: "Feature Description", Body: description}}
	if in.CAD != nil {
		sections = append(sections, prompts.Section{Title: "CAD Context", Body: in.CAD})
	}
	return sections
}

func checkFeature(f gdt.FeatureRecord) (gdt.FeatureRecord, error) {
	f = gdt.NormalizeFeature(f)
	if err := gdt.ValidateFeature(f); err != nil {
		return f, err
	}
	return f, nil
}
