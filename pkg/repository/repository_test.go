package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/repository"
)

var errNotFound = errors.New("not found")

type row struct {
	ID   int
	Name string
}

func scanRow(s repository.Scanner) (row, error) {
	var r row
	err := s.Scan(&r.ID, &r.Name)
	return r, err
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		"INSERT INTO items (id, name) VALUES (1, 'flatness'), (2, 'position'), (3, 'parallelism')",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return db
}

func TestQueryOne(t *testing.T) {
	db := openDB(t)
	d := database.Dialect{Driver: database.DriverSQLite}
	ctx := context.Background()

	got, err := repository.QueryOne(ctx, db, d, "SELECT id, name FROM items WHERE id = ?", []any{2}, scanRow)
	if err != nil {
		t.Fatalf("QueryOne error: %v", err)
	}
	if got.Name != "position" {
		t.Errorf("Name = %q, want position", got.Name)
	}

	_, err = repository.QueryOne(ctx, db, d, "SELECT id, name FROM items WHERE id = ?", []any{99}, scanRow)
	if !errors.Is(repository.MapError(err, errNotFound), errNotFound) {
		t.Errorf("missing row error = %v, want not found", err)
	}
}

func TestQueryMany(t *testing.T) {
	db := openDB(t)
	d := database.Dialect{Driver: database.DriverSQLite}
	ctx := context.Background()

	got, err := repository.QueryMany(ctx, db, d, "SELECT id, name FROM items WHERE id >= ? ORDER BY id", []any{2}, scanRow)
	if err != nil {
		t.Fatalf("QueryMany error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "position" || got[1].Name != "parallelism" {
		t.Errorf("QueryMany = %+v", got)
	}

	empty, err := repository.QueryMany(ctx, db, d, "SELECT id, name FROM items WHERE id > ?", []any{10}, scanRow)
	if err != nil {
		t.Fatalf("QueryMany error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("QueryMany = %v, want empty non-nil slice", empty)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	if got := repository.MapError(original, errNotFound); got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
	if got := repository.MapError(nil, errNotFound); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}
