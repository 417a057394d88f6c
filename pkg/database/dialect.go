package database

import (
	"strconv"
	"strings"
)

// Dialect captures the placeholder differences between supported drivers.
// Queries are written with ? placeholders and rebound per driver.
type Dialect struct {
	Driver string
}

// Postgres reports whether the dialect targets PostgreSQL.
func (d Dialect) Postgres() bool {
	return d.Driver == DriverPostgres
}

// Rebind rewrites ? placeholders to $n for PostgreSQL. Placeholders inside
// single-quoted literals are left untouched.
func (d Dialect) Rebind(query string) string {
	if !d.Postgres() {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
