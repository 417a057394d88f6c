// Package knowledgetest opens migrated, seeded knowledge stores for tests.
package knowledgetest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/JaimeStill/tolerance/internal/knowledge"
	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/lifecycle"
)

// Open migrates a temporary SQLite knowledge store and returns a started
// database system over it. The system is shut down when the test ends.
func Open(t testing.TB) database.System {
	t.Helper()

	path := filepath.Join(t.TempDir(), "knowledge.db")

	m, err := knowledge.NewMigrator(database.DriverSQLite, "sqlite://"+path)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("migrate up: %v", err)
	}
	m.Close()

	cfg := &database.Config{Path: path}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("database config: %v", err)
	}

	sys, err := database.New(cfg, Logger())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("start database: %v", err)
	}
	lc.WaitForStartup()

	if !sys.Ready() {
		t.Fatal("knowledge store not ready after startup")
	}

	t.Cleanup(func() {
		lc.Shutdown(5 * time.Second)
	})

	return sys
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
