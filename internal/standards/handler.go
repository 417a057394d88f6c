package standards

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

// DefaultTopK is the number of matches returned when top_k is not given.
const DefaultTopK = 5

// Handler provides the standards search endpoint.
type Handler struct {
	index  *Index
	logger *slog.Logger
}

// NewHandler creates a Handler over the given index.
func NewHandler(index *Index, logger *slog.Logger) *Handler {
	return &Handler{
		index:  index,
		logger: logger.With("handler", "standards"),
	}
}

// Routes returns the route group for standards search.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/standards",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/search", Summary: "ranked standards search (q, top_k)", Handler: h.Search},
		},
	}
}

// Search ranks standards entries against the q parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	topK, err := strconv.Atoi(r.URL.Query().Get("top_k"))
	if err != nil || topK < 1 {
		topK = DefaultTopK
	}

	matches, err := h.index.Search(r.Context(), r.URL.Query().Get("q"), topK)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, matches)
}
