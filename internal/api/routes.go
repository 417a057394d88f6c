package api

import (
	"net/http"

	"github.com/JaimeStill/tolerance/internal/analysis"
	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/internal/prompts"
	"github.com/JaimeStill/tolerance/internal/techdraw"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) []routes.Endpoint {
	analyze := analysis.NewHandler(
		domain.Pipeline,
		analysis.Config{
			MaxRequestSize: cfg.API.MaxRequestSizeBytes(),
			Heartbeat:      cfg.Pipeline.HeartbeatDuration(),
			Origins:        cfg.API.CORS.Origins,
		},
		runtime.Logger,
	)

	return routes.Register(
		mux,
		analyze.Routes(),
		domain.Knowledge.Handler().Routes(),
		domain.Standards.Handler().Routes(),
		prompts.NewHandler(runtime.Logger).Routes(),
		techdraw.NewHandler(cfg.API.MaxRequestSizeBytes(), runtime.Logger).Routes(),
	)
}
