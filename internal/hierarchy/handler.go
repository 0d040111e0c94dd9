package hierarchy

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the category tree.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the hierarchy handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers hierarchy routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listElements)
	r.Get("/products", h.listElementProducts)
	r.Get("/products/{id}/category", h.productCategory)
	r.Get("/products/{id}/path", h.productPath)
}

func (h *Handler) listElements(w http.ResponseWriter, r *http.Request) {
	elements, err := h.service.GetHierarchyElements(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, elements)
}

func (h *Handler) listElementProducts(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.GetHierarchyElementProducts(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, grouped)
}

func (h *Handler) productCategory(w http.ResponseWriter, r *http.Request) {
	element, err := h.service.GetProductCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "product has no category")
			return
		}
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, element)
}

func (h *Handler) productPath(w http.ResponseWriter, r *http.Request) {
	path := h.service.GetProductCategoryPath(r.Context(), chi.URLParam(r, "id"))
	shared.RespondJSON(w, http.StatusOK, map[string]string{"path": path})
}
