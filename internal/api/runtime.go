package api

import (
	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/internal/infrastructure"
	"github.com/JaimeStill/tolerance/internal/pipeline"
	"github.com/JaimeStill/tolerance/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agents     config.AgentsConfig
	Pipeline   pipeline.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Knowledge: infra.Knowledge,
			Cache:     infra.Cache,
		},
		Agents:     cfg.Agents,
		Pipeline:   cfg.Pipeline,
		Pagination: cfg.API.Pagination,
	}
}
