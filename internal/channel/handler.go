package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler serves the static channel catalog.
type Handler struct {
	catalog *Catalog
}

// NewHandler constructs the channel handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// MountRoutes registers channel routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	shared.RespondJSON(w, http.StatusOK, h.catalog.List())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		shared.RespondError(w, http.StatusNotFound, "unknown channel")
		return
	}
	shared.RespondJSON(w, http.StatusOK, ch)
}
