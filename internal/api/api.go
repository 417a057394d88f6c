// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/internal/infrastructure"
	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/middleware"
	"github.com/JaimeStill/tolerance/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	endpoints := registerRoutes(mux, domain, cfg, runtime)

	mux.HandleFunc("GET /routes", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, endpoints)
	})

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, nil
}
