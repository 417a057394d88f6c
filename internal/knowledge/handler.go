package knowledge

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/tolerance/internal/gdt"
	"github.com/JaimeStill/tolerance/pkg/handlers"
	"github.com/JaimeStill/tolerance/pkg/pagination"
	"github.com/JaimeStill/tolerance/pkg/routes"
)

// Handler provides HTTP endpoints for knowledge-store lookups.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "knowledge"),
		pagination: pagination,
	}
}

// Routes returns the route groups for knowledge endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/characteristics",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "geometric characteristic table", Handler: h.Characteristics},
				},
			},
			{
				Prefix: "/standards",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{code}", Summary: "standard entry by symbol or name", Handler: h.Standard},
				},
			},
			{
				Prefix: "/materials",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{material}", Summary: "material properties", Handler: h.Material},
				},
			},
			{
				Prefix: "/tolerances",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "paginated tolerance ranges", Handler: h.Tolerances},
					{Method: "GET", Pattern: "/{process}", Summary: "process capability", Handler: h.Capability},
				},
			},
			{
				Prefix: "/datum-patterns",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{featureType}", Summary: "datum pattern for a feature type", Handler: h.DatumPattern},
				},
			},
		},
	}
}

// Characteristics returns the static characteristic table. It does not touch the store.
func (h *Handler) Characteristics(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, gdt.Characteristics())
}

// Standard returns the standards entry for a symbol, name, or alias.
func (h *Handler) Standard(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.FindStandard(r.Context(), r.PathValue("code"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s)
}

// Material returns material properties by id or partial name.
func (h *Handler) Material(w http.ResponseWriter, r *http.Request) {
	m, err := h.sys.FindMaterial(r.Context(), r.PathValue("material"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, m)
}

// Tolerances returns a page of tolerance ranges filtered by query parameters.
func (h *Handler) Tolerances(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.SearchRanges(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Capability returns every tolerance range recorded for a process.
func (h *Handler) Capability(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.sys.ProcessCapability(r.Context(), r.PathValue("process"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, ranges)
}

// DatumPattern returns the common datum arrangement for a feature type.
func (h *Handler) DatumPattern(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.FindDatumPattern(r.Context(), r.PathValue("featureType"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
}
