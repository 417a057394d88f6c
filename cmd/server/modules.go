package main

import (
	"net/http"

	"github.com/JaimeStill/tolerance/internal/api"
	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/internal/infrastructure"
	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/module"
)

// Modules holds the prefixed modules mounted on the root router.
type Modules struct {
	API *module.Module
}

// NewModules builds every module from the shared infrastructure.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers each module with the router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "not ready",
				"systems": infra.Lifecycle.Status(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"status":  "ready",
			"systems": infra.Lifecycle.Status(),
		})
	})

	return router
}
