// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, knowledge store, cache) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/pkg/cache"
	"github.com/JaimeStill/tolerance/pkg/database"
	"github.com/JaimeStill/tolerance/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Knowledge database.System
	Cache     cache.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Knowledge, logger)
	if err != nil {
		return nil, fmt.Errorf("knowledge store init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Knowledge: db,
		Cache:     cache.New(&cfg.Cache, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Knowledge.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("knowledge store start failed: %w", err)
	}
	if err := i.Cache.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("cache start failed: %w", err)
	}
	return nil
}
