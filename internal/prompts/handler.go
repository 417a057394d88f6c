package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

// Handler exposes the stage prompts for inspection.
type Handler struct {
	logger *slog.Logger
}

// StageContent is the response type for stage-scoped content endpoints.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

// NewHandler creates a prompts Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("handler", "prompts")}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stages", Summary: "list inference stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/{stage}/instructions", Summary: "stage instructions", Handler: h.Instructions},
			{Method: "GET", Pattern: "/{stage}/spec", Summary: "stage output spec", Handler: h.Spec},
		},
	}
}

// Stages returns the list of inference stages.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// Instructions returns the instructions for the stage in the path.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, Instructions)
}

// Spec returns the output spec for the stage in the path.
func (h *Handler) Spec(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, Spec)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, lookup func(Stage) (string, error)) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	content, err := lookup(stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: content})
}
