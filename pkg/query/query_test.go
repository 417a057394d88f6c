package query_test

import (
	"testing"

	"github.com/JaimeStill/tolerance/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("tolerance_ranges", "t").
		Project("process", "process").
		Project("material", "material").
		Project("min_mm", "min_mm")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.Table(); got != "tolerance_ranges t" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Columns(); got != "t.process, t.material, t.min_mm" {
		t.Errorf("Columns() = %q", got)
	}
	if col, ok := p.Column("min_mm"); !ok || col != "t.min_mm" {
		t.Errorf("Column(min_mm) = %q, %t", col, ok)
	}
	if _, ok := p.Column("password"); ok {
		t.Error("unprojected column resolved")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"process", []query.SortField{{Field: "process"}}},
		{"-min_mm", []query.SortField{{Field: "min_mm", Descending: true}}},
		{"process, -min_mm,,", []query.SortField{{Field: "process"}, {Field: "min_mm", Descending: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	defaultSort := query.SortField{Field: "process"}

	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs int
	}{
		{
			name: "build",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), defaultSort).Build()
			},
			wantSQL: "SELECT t.process, t.material, t.min_mm FROM tolerance_ranges t ORDER BY t.process ASC",
		},
		{
			name: "count ignores ordering",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), defaultSort).
					WhereEquals("process", ptr("drilling")).
					BuildCount()
			},
			wantSQL:  "SELECT COUNT(*) FROM tolerance_ranges t WHERE t.process = ?",
			wantArgs: 1,
		},
		{
			name: "page",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), defaultSort).BuildPage(3, 10)
			},
			wantSQL: "SELECT t.process, t.material, t.min_mm FROM tolerance_ranges t ORDER BY t.process ASC LIMIT 10 OFFSET 20",
		},
		{
			name: "nil equality skipped",
			build: func() (string, []any) {
				var material *string
				return query.NewBuilder(testProjection()).WhereEquals("material", material).BuildCount()
			},
			wantSQL: "SELECT COUNT(*) FROM tolerance_ranges t",
		},
		{
			name: "search and equality",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection()).
					WhereEquals("process", "drilling").
					WhereSearch(ptr("AL"), "material", "unknown").
					BuildCount()
			},
			wantSQL:  "SELECT COUNT(*) FROM tolerance_ranges t WHERE t.process = ? AND (LOWER(t.material) LIKE ?)",
			wantArgs: 2,
		},
		{
			name: "unknown sort field dropped",
			build: func() (string, []any) {
				return query.NewBuilder(testProjection(), defaultSort).
					OrderByFields([]query.SortField{{Field: "1; DROP TABLE t"}, {Field: "min_mm", Descending: true}}).
					Build()
			},
			wantSQL: "SELECT t.process, t.material, t.min_mm FROM tolerance_ranges t ORDER BY t.min_mm DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\ngot  %s\nwant %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

func TestWhereSearchLowercasesPattern(t *testing.T) {
	_, args := query.NewBuilder(testProjection()).WhereSearch(ptr("Steel"), "material").Build()
	if len(args) != 1 || args[0] != "%steel%" {
		t.Errorf("args = %v, want [%%steel%%]", args)
	}
}
