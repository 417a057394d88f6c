package techdraw

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

// Handler serves TechDraw scripts over HTTP.
type Handler struct {
	maxRequestSize int64
	logger         *slog.Logger
}

// NewHandler creates a Handler. Request bodies above maxRequestSize are rejected.
func NewHandler(maxRequestSize int64, logger *slog.Logger) *Handler {
	return &Handler{
		maxRequestSize: maxRequestSize,
		logger:         logger.With("handler", "techdraw"),
	}
}

// Routes returns the route group for drawing scripts.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/techdraw",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/script", Summary: "render a TechDraw annotation script for an analysis result", Handler: h.Script},
		},
	}
}

// Script renders the script for the posted result.
func (h *Handler) Script(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(w, r, h.maxRequestSize, &req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, handlers.ErrRequestTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	drawing, err := Render(req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.logger.Info(
		"script rendered",
		"document", drawing.DocumentName,
		"annotations", len(drawing.Annotations),
	)
	handlers.RespondJSON(w, http.StatusOK, drawing)
}

// MapHTTPStatus maps drawing errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingFrame) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
