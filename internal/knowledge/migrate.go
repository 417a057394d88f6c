package knowledge

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/JaimeStill/tolerance/pkg/database"
)

//go:embed migrations
var migrations embed.FS

// NewMigrator creates a migrator for the schema and seed data of the given
// driver. url uses the golang-migrate scheme for that driver
// (sqlite:// or pgx5://); database.Config.MigrateURL builds one.
func NewMigrator(driver, url string) (*migrate.Migrate, error) {
	var dir string
	switch driver {
	case database.DriverSQLite:
		dir = "migrations/sqlite"
	case database.DriverPostgres:
		dir = "migrations/postgres"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	source, err := iofs.New(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
