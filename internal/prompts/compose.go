package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CorrectiveInstruction is appended to a prompt when the previous response
// could not be parsed or violated a domain rule.
const CorrectiveInstruction = `Your previous response could not be used. Return only valid structured output: a single JSON object that matches the structure above exactly, with no prose, comments, or markdown fencing.`

// Section is a titled block of input appended to a composed prompt.
// String bodies are written as-is; anything else is rendered as indented JSON.
type Section struct {
	Title string
	Body  any
}

// Compose builds the prompt for a stage from its instructions, its output
// spec, and the given input sections. When corrective is true the
// CorrectiveInstruction is appended last.
func Compose(stage Stage, corrective bool, sections ...Section) (string, error) {
	inst, err := Instructions(stage)
	if err != nil {
		return "", err
	}

	spec, err := Spec(stage)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(inst)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	for _, s := range sections {
		body, err := render(s.Body)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", s.Title, err)
		}
		sb.WriteString("\n\n## ")
		sb.WriteString(s.Title)
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	if corrective {
		sb.WriteString("\n\n")
		sb.WriteString(CorrectiveInstruction)
	}

	return sb.String(), nil
}

func render(body any) (string, error) {
	if s, ok := body.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
