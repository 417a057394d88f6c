package pipeline

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
)

// Request is one analysis submission. ManufacturingProcess and Material are
// hints that override extracted values.
type Request struct {
	Description          string          `json:"description"`
	ImageBase64          string          `json:"image_base64,omitempty"`
	ManufacturingProcess string          `json:"manufacturing_process,omitempty"`
	Material             string          `json:"material,omitempty"`
	Compare              bool            `json:"compare,omitempty"`
	CADContext           *gdt.CADContext `json:"cad_context,omitempty"`
}

// Validate checks that the request carries something to extract from and
// that any image decodes.
func (r Request) Validate() error {
	_, err := r.extractInput()
	return err
}

func (r Request) extractInput() (inference.ExtractInput, error) {
	in := inference.ExtractInput{
		Description: strings.TrimSpace(r.Description),
		CAD:         r.CADContext,
	}

	if r.ImageBase64 != "" {
		image, err := inference.DecodeImage(r.ImageBase64)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		in.Image = image
	}

	if in.Description == "" && len(in.Image) == 0 {
		return in, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrMissingInput)
	}

	return in, nil
}

// applyHints overlays CAD data and then the request's hints onto an
// extracted record.
func (r Request) applyHints(f gdt.FeatureRecord) gdt.FeatureRecord {
	f = gdt.MergeCAD(f, r.CADContext)
	if v := strings.TrimSpace(r.Material); v != "" {
		f.Material = v
	}
	if v := strings.TrimSpace(r.ManufacturingProcess); v != "" {
		f.ManufacturingProcess = v
	}
	return f
}
