package knowledge

import (
	"database/sql"
	"encoding/json"
	"net/url"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/query"
	"github.com/JaimeStill/tolerance/pkg/repository"
)

var rangeProjection = query.
	NewProjectionMap("tolerance_ranges", "t").
	Project("process", "process").
	Project("material", "material").
	Project("feature_type", "feature_type").
	Project("characteristic", "characteristic").
	Project("min_mm", "min_mm").
	Project("max_mm", "max_mm").
	Project("notes", "notes")

var defaultRangeSort = []query.SortField{
	{Field: "process"},
	{Field: "material"},
	{Field: "feature_type"},
	{Field: "characteristic"},
}

const standardColumns = `s.id, s.symbol, s.name, s.category, s.asme_section, s.datum_required,
	s.rule, s.when_to_use, s.when_not_to_use, s.tolerance_zone, s.example_callout`

const findStandardQuery = `SELECT ` + standardColumns + `
	FROM standards s
	WHERE s.id = ? OR s.symbol = ? OR LOWER(s.name) = LOWER(?)
	LIMIT 1`

const findMaterialQuery = `SELECT m.id, m.name, m.category, m.common_processes, m.machinability,
	m.thermal_expansion_ppm_c, m.density_g_cm3, m.yield_strength_mpa, m.hardness, m.cost_tier, m.notes
	FROM materials m
	WHERE LOWER(m.id) = LOWER(?) OR LOWER(m.name) LIKE ? OR ? LIKE '%' || LOWER(m.id) || '%'
	ORDER BY CASE WHEN LOWER(m.id) = LOWER(?) THEN 0 ELSE 1 END, m.id
	LIMIT 1`

const findPatternQuery = `SELECT p.id, p.description, p.primary_type, p.primary_reasoning,
	p.secondary_type, p.secondary_reasoning, p.applicable_features
	FROM datum_patterns p
	WHERE p.applicable_features LIKE ?
	ORDER BY p.id
	LIMIT 1`

func findRangeQuery() string {
	return `SELECT ` + rangeProjection.Columns() + `
	FROM ` + rangeProjection.Table() + `
	WHERE t.process = ? AND LOWER(t.material) = LOWER(?) AND t.feature_type = ?
	ORDER BY CASE WHEN t.characteristic = ? THEN 0 ELSE 1 END, t.min_mm, t.max_mm
	LIMIT 1`
}

func scanStandard(s repository.Scanner) (Standard, error) {
	var st Standard
	err := s.Scan(
		&st.ID, &st.Symbol, &st.Name, &st.Category, &st.ASMESection, &st.DatumRequired,
		&st.Rule, &st.WhenToUse, &st.WhenNotToUse, &st.ToleranceZone, &st.ExampleCallout,
	)
	return st, err
}

func scanRange(s repository.Scanner) (gdt.ToleranceRange, error) {
	var (
		r     gdt.ToleranceRange
		notes sql.NullString
	)
	err := s.Scan(&r.Process, &r.Material, &r.FeatureType, &r.Characteristic, &r.MinMM, &r.MaxMM, &notes)
	r.Notes = notes.String
	return r, err
}

func scanMaterial(s repository.Scanner) (gdt.MaterialProperties, error) {
	var (
		m         gdt.MaterialProperties
		processes string
		machin    sql.NullString
		expansion sql.NullFloat64
		density   sql.NullFloat64
		yield     sql.NullFloat64
		hardness  sql.NullString
		cost      sql.NullString
		notes     sql.NullString
	)

	err := s.Scan(
		&m.ID, &m.Name, &m.Category, &processes, &machin,
		&expansion, &density, &yield, &hardness, &cost, &notes,
	)
	if err != nil {
		return m, err
	}

	if err := json.Unmarshal([]byte(processes), &m.CommonProcesses); err != nil {
		m.CommonProcesses = []string{}
	}
	m.Machinability = machin.String
	m.ThermalExpansionPPMC = nullFloat(expansion)
	m.DensityGCM3 = nullFloat(density)
	m.YieldStrengthMPa = nullFloat(yield)
	m.Hardness = hardness.String
	m.CostTier = cost.String
	m.Notes = notes.String
	return m, nil
}

func scanPattern(s repository.Scanner) (DatumPattern, error) {
	var (
		p         DatumPattern
		secondary sql.NullString
		reasoning sql.NullString
		features  string
	)

	err := s.Scan(
		&p.ID, &p.Description, &p.PrimaryType, &p.PrimaryReasoning,
		&secondary, &reasoning, &features,
	)
	if err != nil {
		return p, err
	}

	p.SecondaryType = secondary.String
	p.SecondaryReasoning = reasoning.String
	if err := json.Unmarshal([]byte(features), &p.ApplicableFeatures); err != nil {
		p.ApplicableFeatures = []string{}
	}
	return p, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("process", f.Process).
		WhereEquals("material", f.Material).
		WhereEquals("feature_type", f.FeatureType).
		WhereEquals("characteristic", f.Characteristic)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Process, feature type, and characteristic values are normalized with Key.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	keyed := func(name string) *string {
		if v := values.Get(name); v != "" {
			k := Key(v)
			return &k
		}
		return nil
	}

	f.Process = keyed("process")
	f.FeatureType = keyed("feature_type")
	f.Characteristic = keyed("characteristic")
	if v := values.Get("material"); v != "" {
		f.Material = &v
	}

	return f
}
