package inference_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/inference"
	"github.com/JaimeStill/tolerance/internal/prompts"
)

type fakeAgent struct {
	reply   string
	err     error
	prompts []string
	images  [][]string
}

func (f *fakeAgent) Chat(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeAgent) Vision(ctx context.Context, prompt string, images []string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.images = append(f.images, images)
	return f.reply, f.err
}

var jpeg = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		wantKind inference.Kind
		wantType gdt.FeatureType
	}{
		{
			name:     "success",
			reply:    `{"feature_type":"Hole","geometry":{"diameter":10},"material":"6061-T6","manufacturing_process":"drilling"}`,
			wantKind: inference.KindSuccess,
			wantType: gdt.FeatureHole,
		},
		{
			name:     "fenced json",
			reply:    "Here it is:\n```json\n{\"feature_type\":\"surface\",\"geometry\":{}}\n```",
			wantKind: inference.KindSuccess,
			wantType: gdt.FeatureSurface,
		},
		{
			name:     "unknown feature type",
			reply:    `{"feature_type":"sprocket","geometry":{}}`,
			wantKind: inference.KindMalformed,
		},
		{
			name:     "unparseable",
			reply:    "I cannot help with that.",
			wantKind: inference.KindMalformed,
		},
		{
			name:     "backend down",
			err:      errors.New("connection refused"),
			wantKind: inference.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAgent{reply: tt.reply, err: tt.err}
			out := inference.NewExtractor(a).Extract(
				context.Background(),
				inference.ExtractInput{Description: "10mm through hole"},
				false,
			)

			if out.Kind != tt.wantKind {
				t.Fatalf("kind: got %s, want %s (err %v)", out.Kind, tt.wantKind, out.Err)
			}
			if out.OK() && out.Value.FeatureType != tt.wantType {
				t.Errorf("feature_type: got %s, want %s", out.Value.FeatureType, tt.wantType)
			}
			if !out.OK() && out.Err == nil {
				t.Error("failed outcome carries no error")
			}
		})
	}
}

func TestExtractNormalizes(t *testing.T) {
	a := &fakeAgent{reply: `{"feature_type":"boss","geometry":{"diameter":8},"material":null}`}
	out := inference.NewExtractor(a).Extract(context.Background(), inference.ExtractInput{Description: "boss"}, false)

	if !out.OK() {
		t.Fatalf("extract failed: %v", out.Err)
	}
	if out.Value.Geometry.Unit != "mm" {
		t.Errorf("unit: got %q, want mm", out.Value.Geometry.Unit)
	}
	if out.Value.Material != "unspecified" {
		t.Errorf("material: got %q, want unspecified", out.Value.Material)
	}
}

func TestExtractUsesVisionForImages(t *testing.T) {
	a := &fakeAgent{reply: `{"feature_type":"slot","geometry":{}}`}
	out := inference.NewExtractor(a).Extract(
		context.Background(),
		inference.ExtractInput{Image: jpeg},
		false,
	)

	if !out.OK() {
		t.Fatalf("extract failed: %v", out.Err)
	}
	if len(a.images) != 1 || len(a.images[0]) != 1 {
		t.Fatalf("vision calls: got %v", a.images)
	}
	if !strings.HasPrefix(a.images[0][0], "data:image/jpeg;base64,") {
		t.Errorf("image uri: got %q", a.images[0][0])
	}
}

func TestCorrectiveInstruction(t *testing.T) {
	a := &fakeAgent{reply: `{"feature_type":"hole","geometry":{}}`}
	ex := inference.NewExtractor(a)

	ex.Extract(context.Background(), inference.ExtractInput{Description: "hole"}, false)
	ex.Extract(context.Background(), inference.ExtractInput{Description: "hole"}, true)

	if strings.Contains(a.prompts[0], prompts.CorrectiveInstruction) {
		t.Error("first attempt carries the corrective instruction")
	}
	if !strings.HasSuffix(a.prompts[1], prompts.CorrectiveInstruction) {
		t.Error("retry does not end with the corrective instruction")
	}
}

func TestClassify(t *testing.T) {
	feature := gdt.FeatureRecord{FeatureType: gdt.FeatureHole}

	tests := []struct {
		name     string
		reply    string
		wantKind inference.Kind
	}{
		{"known control", `{"primary_control":"position","datum_required":true,"confidence":0.9}`, inference.KindSuccess},
		{"alias", `{"primary_control":"true position","datum_required":true}`, inference.KindSuccess},
		{"symbol only", `{"primary_control":"","symbol":"⊥","datum_required":true}`, inference.KindSuccess},
		{"unknown control", `{"primary_control":"wobble"}`, inference.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := inference.NewClassifier(&fakeAgent{reply: tt.reply}).Classify(context.Background(), feature, false)
			if out.Kind != tt.wantKind {
				t.Errorf("kind: got %s, want %s (err %v)", out.Kind, tt.wantKind, out.Err)
			}
		})
	}
}

func TestClassifyPromptCarriesFeature(t *testing.T) {
	a := &fakeAgent{reply: `{"primary_control":"flatness"}`}
	feature := gdt.FeatureRecord{FeatureType: gdt.FeatureSurface, ParentSurface: "planar_mounting_face"}

	inference.NewClassifier(a).Classify(context.Background(), feature, false)

	if !strings.Contains(a.prompts[0], "planar_mounting_face") {
		t.Error("prompt does not include the feature record")
	}
}

func TestGenerate(t *testing.T) {
	in := inference.GenerateInput{
		Feature:        gdt.FeatureRecord{FeatureType: gdt.FeatureSurface},
		Classification: gdt.Classification{PrimaryControl: gdt.Flatness},
	}

	t.Run("callouts", func(t *testing.T) {
		a := &fakeAgent{reply: `{"callouts":[{"symbol":"▱","tolerance_value":"0.05"}],"summary":"flat"}`}
		out := inference.NewGenerator(a).Generate(context.Background(), in, false)
		if !out.OK() {
			t.Fatalf("generate failed: %v", out.Err)
		}
		if len(out.Value.Callouts) != 1 || out.Value.Summary != "flat" {
			t.Errorf("generation: got %+v", out.Value)
		}
		if !strings.Contains(a.prompts[0], "## Matched Standards\n\n[]") {
			t.Error("absent matches not rendered as an empty list")
		}
	})

	t.Run("empty callouts", func(t *testing.T) {
		out := inference.NewGenerator(&fakeAgent{reply: `{"callouts":[],"summary":"none"}`}).Generate(context.Background(), in, false)
		if !out.OK() {
			t.Fatalf("generate failed: %v", out.Err)
		}
		if out.Value.Callouts == nil || len(out.Value.Callouts) != 0 {
			t.Errorf("callouts: got %#v, want empty list", out.Value.Callouts)
		}
	})

	t.Run("missing callouts", func(t *testing.T) {
		out := inference.NewGenerator(&fakeAgent{reply: `{"summary":"none"}`}).Generate(context.Background(), in, false)
		if out.Kind != inference.KindMalformed {
			t.Fatalf("kind: got %s, want malformed", out.Kind)
		}
		if !errors.Is(out.Err, inference.ErrNoCallouts) || !errors.Is(out.Err, inference.ErrMalformed) {
			t.Errorf("err: got %v", out.Err)
		}
		if strings.Contains(out.Err.Error(), "\n") {
			t.Errorf("err spans lines: %q", out.Err)
		}
	})
}

func TestDecodeImage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(jpeg)

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"raw base64", encoded, false},
		{"data uri", "data:image/jpeg;base64," + encoded, false},
		{"not base64", "%%%", true},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("plain text")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inference.DecodeImage(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("err: got %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
