package product

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the product store.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the product handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Get("/warehouses", h.listFacts)
	r.Get("/{id}", h.getProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, products)
}

func (h *Handler) listFacts(w http.ResponseWriter, r *http.Request) {
	facts, err := h.service.GetProductWarehouses(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, facts)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	shared.RespondJSON(w, http.StatusOK, p)
}
