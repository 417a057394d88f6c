package knowledge_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/internal/knowledge"
	"github.com/JaimeStill/tolerance/internal/knowledge/knowledgetest"
	"github.com/JaimeStill/tolerance/pkg/cache"
	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/lifecycle"
	"github.com/JaimeStill/tolerance/pkg/pagination"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

func newSystem(t *testing.T, db database.System) knowledge.System {
	t.Helper()
	c := cache.New(&cache.Config{}, knowledgetest.Logger())
	return knowledge.New(db, c, knowledgetest.Logger(), pagination.Config{DefaultPageSize: 10, MaxPageSize: 50})
}

type unavailable struct{}

func (unavailable) Connection() *sql.DB                   { return nil }
func (unavailable) Dialect() database.Dialect             { return database.Dialect{Driver: database.DriverSQLite} }
func (unavailable) Ready() bool                           { return false }
func (unavailable) Start(lc *lifecycle.Coordinator) error { return nil }

func TestFindStandard(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	tests := []struct {
		code   string
		wantID string
	}{
		{"flatness", gdt.Flatness},
		{"⊥", gdt.Perpendicularity},
		{"Position", gdt.Position},
		{"true position", gdt.Position},
		{"Total Runout", gdt.TotalRunout},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, err := sys.FindStandard(context.Background(), tt.code)
			if err != nil {
				t.Fatalf("FindStandard: %v", err)
			}
			if s.ID != tt.wantID {
				t.Errorf("id = %s, want %s", s.ID, tt.wantID)
			}
		})
	}

	if _, err := sys.FindStandard(context.Background(), "wobble"); !errors.Is(err, knowledge.ErrStandardNotFound) {
		t.Errorf("unknown code: err = %v, want ErrStandardNotFound", err)
	}
}

func TestFindStandardDatumRequirement(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	for _, ch := range gdt.Characteristics() {
		s, err := sys.FindStandard(context.Background(), ch.Name)
		if err != nil {
			t.Fatalf("%s: %v", ch.Name, err)
		}
		if s.DatumRequired != (ch.Datums == gdt.DatumAlways) {
			t.Errorf("%s: datum_required = %t, disagrees with characteristic table", ch.Name, s.DatumRequired)
		}
	}
}

func TestFindMaterial(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	tests := []struct {
		material string
		wantID   string
	}{
		{"AL6061-T6", "AL6061-T6"},
		{"al6061-t6", "AL6061-T6"},
		{"Aluminum 7075", "AL7075-T6"},
		{"SS304 stainless", "SS304"},
	}

	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			m, err := sys.FindMaterial(context.Background(), tt.material)
			if err != nil {
				t.Fatalf("FindMaterial: %v", err)
			}
			if m.ID != tt.wantID {
				t.Errorf("id = %s, want %s", m.ID, tt.wantID)
			}
			if len(m.CommonProcesses) == 0 {
				t.Error("common processes not decoded")
			}
		})
	}

	if _, err := sys.FindMaterial(context.Background(), "unobtainium"); !errors.Is(err, knowledge.ErrMaterialNotFound) {
		t.Errorf("unknown material: err = %v", err)
	}
}

func TestFindRange(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	t.Run("preferred characteristic", func(t *testing.T) {
		r, err := sys.FindRange(context.Background(), knowledge.RangeQuery{
			Process: "drilling", Material: "AL6061-T6", FeatureType: "hole", Characteristic: "perpendicularity",
		})
		if err != nil {
			t.Fatalf("FindRange: %v", err)
		}
		if r.Characteristic != "perpendicularity" {
			t.Errorf("characteristic = %s", r.Characteristic)
		}
		if r.MinMM > r.MaxMM {
			t.Errorf("min %v exceeds max %v", r.MinMM, r.MaxMM)
		}
	})

	t.Run("falls back to tightest", func(t *testing.T) {
		r, err := sys.FindRange(context.Background(), knowledge.RangeQuery{
			Process: "drilling", Material: "AL6061-T6", FeatureType: "hole", Characteristic: "flatness",
		})
		if err != nil {
			t.Fatalf("FindRange: %v", err)
		}
		if r.Characteristic != "perpendicularity" || r.MaxMM != 0.15 {
			t.Errorf("got %+v, want perpendicularity up to 0.15", r)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := sys.FindRange(context.Background(), knowledge.RangeQuery{Process: "laser", Material: "ABS", FeatureType: "hole"})
		if !errors.Is(err, knowledge.ErrRangeNotFound) {
			t.Errorf("err = %v, want ErrRangeNotFound", err)
		}
	})
}

func TestProcessCapability(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	ranges, err := sys.ProcessCapability(context.Background(), "Surface Grinding")
	if err != nil {
		t.Fatalf("ProcessCapability: %v", err)
	}
	if len(ranges) != 4 {
		t.Fatalf("rows = %d, want 4", len(ranges))
	}
	for _, r := range ranges {
		if r.Process != "surface_grinding" {
			t.Errorf("process = %s", r.Process)
		}
	}

	if _, err := sys.ProcessCapability(context.Background(), " "); !errors.Is(err, knowledge.ErrMissingProcess) {
		t.Errorf("blank process: err = %v", err)
	}
}

func TestSearchRanges(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	process := "drilling"
	result, err := sys.SearchRanges(
		context.Background(),
		pagination.PageRequest{Page: 2, PageSize: 5},
		knowledge.Filters{Process: &process},
	)
	if err != nil {
		t.Fatalf("SearchRanges: %v", err)
	}

	if result.Total != 21 {
		t.Errorf("total = %d, want 21", result.Total)
	}
	if len(result.Data) != 5 || result.TotalPages != 5 {
		t.Errorf("page: %d rows of %d pages", len(result.Data), result.TotalPages)
	}
}

func TestFindDatumPattern(t *testing.T) {
	sys := newSystem(t, knowledgetest.Open(t))

	p, err := sys.FindDatumPattern(context.Background(), "Boss")
	if err != nil {
		t.Fatalf("FindDatumPattern: %v", err)
	}
	if p.ID != "boss_on_face" {
		t.Errorf("id = %s, want boss_on_face", p.ID)
	}

	if _, err := sys.FindDatumPattern(context.Background(), "sprocket"); !errors.Is(err, knowledge.ErrPatternNotFound) {
		t.Errorf("unknown feature: err = %v", err)
	}
}

func TestToleranceData(t *testing.T) {
	feature := gdt.FeatureRecord{
		FeatureType:          gdt.FeatureHole,
		Material:             "Aluminum 6061-T6",
		ManufacturingProcess: "CNC milling",
	}

	t.Run("found", func(t *testing.T) {
		data := newSystem(t, knowledgetest.Open(t)).ToleranceData(context.Background(), feature, gdt.Position)
		if data.MaterialProperties == nil || data.MaterialProperties.ID != "AL6061-T6" {
			t.Fatalf("material = %+v", data.MaterialProperties)
		}
		if data.ToleranceRange == nil || data.ToleranceRange.Characteristic != gdt.Position {
			t.Fatalf("range = %+v", data.ToleranceRange)
		}
	})

	t.Run("unknown material", func(t *testing.T) {
		f := feature
		f.Material = "unspecified"
		data := newSystem(t, knowledgetest.Open(t)).ToleranceData(context.Background(), f, gdt.Position)
		if data.MaterialProperties != nil || data.ToleranceRange != nil {
			t.Errorf("got %+v, want empty", data)
		}
	})

	t.Run("store unavailable", func(t *testing.T) {
		data := newSystem(t, unavailable{}).ToleranceData(context.Background(), feature, gdt.Position)
		if data.MaterialProperties != nil || data.ToleranceRange != nil {
			t.Errorf("got %+v, want empty", data)
		}
	})
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         func(t *testing.T) database.System
		path       string
		wantStatus int
	}{
		{"standard", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/standards/flatness", http.StatusOK},
		{"standard missing", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/standards/wobble", http.StatusNotFound},
		{"store unavailable", func(t *testing.T) database.System { return unavailable{} }, "/standards/flatness", http.StatusServiceUnavailable},
		{"characteristics without store", func(t *testing.T) database.System { return unavailable{} }, "/characteristics", http.StatusOK},
		{"tolerances", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/tolerances?process=drilling&sort=-min_mm", http.StatusOK},
		{"capability", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/tolerances/cnc_turning", http.StatusOK},
		{"material", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/materials/ABS", http.StatusOK},
		{"datum pattern", func(t *testing.T) database.System { return knowledgetest.Open(t) }, "/datum-patterns/shaft", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			routes.Register(mux, newSystem(t, tt.db(t)).Handler().Routes())

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
