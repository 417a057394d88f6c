// Package analysis exposes the pipeline over HTTP as a server-sent event
// stream and as a websocket.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/tolerance/internal/pipeline"
	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

// Starter begins a pipeline run.
type Starter interface {
	Start(ctx context.Context, req pipeline.Request) *pipeline.Stream
}

// Config holds transport settings for streamed analyses.
type Config struct {
	MaxRequestSize int64
	Heartbeat      time.Duration
	Origins        []string
}

// Handler streams analysis runs to clients.
type Handler struct {
	runs   Starter
	cfg    Config
	logger *slog.Logger
}

// NewHandler creates a Handler over the given pipeline.
func NewHandler(runs Starter, cfg Config, logger *slog.Logger) *Handler {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 15 * time.Second
	}
	return &Handler{
		runs:   runs,
		cfg:    cfg,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group for analysis streaming.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyze",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Summary: "analyze a feature, streamed as server-sent events", Handler: h.Stream},
			{Method: "GET", Pattern: "/ws", Summary: "analyze a feature over a websocket", Handler: h.Socket},
		},
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	var req pipeline.Request
	if err := handlers.DecodeJSON(w, r, h.cfg.MaxRequestSize, &req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, handlers.ErrRequestTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		handlers.RespondError(w, h.logger, status, err)
		return req, false
	}

	if err := req.Validate(); err != nil {
		handlers.RespondError(w, h.logger, pipeline.MapHTTPStatus(err), err)
		return req, false
	}

	return req, true
}
