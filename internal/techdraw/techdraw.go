// Package techdraw renders FreeCAD scripts that lay out validated callouts
// and datum labels on a TechDraw page. Scripts are filled from a fixed
// template; no model output is executed as code.
package techdraw

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/JaimeStill/tolerance/internal/gdt"
)

// PageName is the drawing page every script creates.
const PageName = "GDT_Drawing"

// DefaultDocument is used when a request names no document.
const DefaultDocument = "Unnamed"

// ErrMissingFrame is returned for a callout without a formatted frame.
var ErrMissingFrame = errors.New("callout has no formatted frame")

// Page layout in millimetres on an A4 landscape sheet.
const (
	calloutX    = 120.0
	calloutY    = 60.0
	calloutStep = 30.0
	datumX      = 50.0
	datumY      = 200.0
	datumStep   = 25.0
)

//go:embed script.py.tmpl
var source string

var script = template.Must(template.New("techdraw").Funcs(template.FuncMap{
	"py":    strconv.Quote,
	"coord": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}).Parse(source))

// Request carries an analysis result to draw. Callouts and DatumScheme use
// the same field names as the analysis result, so a result can be posted
// as-is with a document name added.
type Request struct {
	DocumentName string          `json:"document_name"`
	Callouts     []gdt.Callout   `json:"callouts"`
	DatumScheme  gdt.DatumScheme `json:"datum_scheme"`
}

// Drawing is a rendered script with the objects it will create.
type Drawing struct {
	DocumentName string       `json:"document_name"`
	PageName     string       `json:"page_name"`
	Annotations  []Annotation `json:"annotations"`
	Script       string       `json:"script"`
}

// Annotation is one rich annotation placed on the page.
type Annotation struct {
	Name string  `json:"name"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Render builds the script for req. Callouts are stacked in the order given
// and datums follow the scheme's precedence.
func Render(req Request) (Drawing, error) {
	doc := strings.TrimSpace(req.DocumentName)
	if doc == "" {
		doc = DefaultDocument
	}

	used := map[string]int{}

	callouts := make([]Annotation, 0, len(req.Callouts))
	for i, c := range req.Callouts {
		frame := strings.TrimSpace(c.FormattedFrame)
		if frame == "" {
			return Drawing{}, fmt.Errorf("%w: callout %d", ErrMissingFrame, i+1)
		}

		feature := c.Feature
		if strings.TrimSpace(feature) == "" {
			feature = fmt.Sprintf("Feature_%d", i+1)
		}

		callouts = append(callouts, Annotation{
			Name: objectName("GDT_", feature, used),
			Text: frame,
			X:    calloutX,
			Y:    calloutY + float64(i)*calloutStep,
		})
	}

	var datums []Annotation
	for i, label := range req.DatumScheme.Labels() {
		datums = append(datums, Annotation{
			Name: objectName("Datum_", label, used),
			Text: "[" + label + "]",
			X:    datumX,
			Y:    datumY + float64(i)*datumStep,
		})
	}

	var b strings.Builder
	err := script.Execute(&b, struct {
		Document string
		Page     string
		Callouts []Annotation
		Datums   []Annotation
	}{doc, PageName, callouts, datums})
	if err != nil {
		return Drawing{}, fmt.Errorf("render script: %w", err)
	}

	return Drawing{
		DocumentName: doc,
		PageName:     PageName,
		Annotations:  append(callouts, datums...),
		Script:       b.String(),
	}, nil
}

// objectName builds a FreeCAD object name from ASCII letters, digits, and
// underscores. Repeated names get a numeric suffix.
func objectName(prefix, s string, used map[string]int) string {
	name := prefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(s))

	used[name]++
	if n := used[name]; n > 1 {
		return fmt.Sprintf("%s_%d", name, n)
	}
	return name
}
