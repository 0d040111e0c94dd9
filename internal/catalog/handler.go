package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the catalog module.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/integration", h.createIntegration)
	r.Get("/integration", h.getIntegration)
	r.Get("/warehouses", h.listWarehouses)
}

type createIntegrationRequest struct {
	Provider          string                   `json:"provider" validate:"required,oneof=square shopify"`
	ExternalAccountID string                   `json:"external_account_id" validate:"required"`
	Warehouses        []createWarehouseRequest `json:"warehouses" validate:"required,min=1,dive"`
}

type createWarehouseRequest struct {
	ID                 string `json:"id"`
	Name               string `json:"name" validate:"required"`
	ExternalLocationID string `json:"external_location_id" validate:"required"`
}

type createIntegrationResponse struct {
	Integration CatalogIntegration `json:"integration"`
	Warehouses  []Warehouse        `json:"warehouses"`
}

func (h *Handler) createIntegration(w http.ResponseWriter, r *http.Request) {
	var req createIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := CreateIntegrationInput{
		Provider:          Provider(req.Provider),
		ExternalAccountID: req.ExternalAccountID,
	}
	for _, wh := range req.Warehouses {
		input.Warehouses = append(input.Warehouses, WarehouseInput{
			ID:                 wh.ID,
			Name:               wh.Name,
			ExternalLocationID: wh.ExternalLocationID,
		})
	}
	integration, warehouses, err := h.service.CreateIntegration(r.Context(), input)
	if err != nil {
		h.logger.Error("create integration failed", slog.Any("error", err))
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusCreated, createIntegrationResponse{Integration: integration, Warehouses: warehouses})
}

func (h *Handler) getIntegration(w http.ResponseWriter, r *http.Request) {
	integration, err := h.service.GetIntegration(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "integration not created yet")
		return
	}
	shared.RespondJSON(w, http.StatusOK, integration)
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.GetWarehouses(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, warehouses)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrIntegrationExists):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownProvider), errors.Is(err, ErrWarehousesRequired), errors.Is(err, ErrDuplicateWarehouse):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
