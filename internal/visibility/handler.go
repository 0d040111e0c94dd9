package visibility

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the visibility engine.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the visibility handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers visibility routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listOverrides)
	r.Get("/resolve", h.resolve)
	r.Put("/", h.setVisibility)
	r.Put("/bulk", h.bulkSetVisibility)
}

type setVisibilityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	ChannelID string `json:"channel_id" validate:"required"`
	RoutingID string `json:"routing_id" validate:"required"`
	Visible   *bool  `json:"visible" validate:"required"`
}

type bulkSetVisibilityRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
	ChannelIDs []string `json:"channel_ids" validate:"required,min=1"`
	RoutingID  string   `json:"routing_id" validate:"required"`
	Visible    *bool    `json:"visible" validate:"required"`
}

func (h *Handler) listOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.service.GetOverrides(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, overrides)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, channelID, routingID := q.Get("product_id"), q.Get("channel_id"), q.Get("routing_id")
	if productID == "" || channelID == "" || routingID == "" {
		shared.RespondError(w, http.StatusBadRequest, "product_id, channel_id and routing_id are required")
		return
	}
	visible, err := h.service.IsVisible(r.Context(), productID, channelID, routingID)
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"visible": visible})
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request) {
	var req setVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.SetVisibility(r.Context(), req.ProductID, req.ChannelID, req.RoutingID, *req.Visible); err != nil {
		h.logger.Error("set visibility failed", slog.Any("error", err))
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) bulkSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req bulkSetVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.BulkSetVisibility(r.Context(), req.ProductIDs, req.ChannelIDs, req.RoutingID, *req.Visible); err != nil {
		h.logger.Error("bulk set visibility failed", slog.Any("error", err))
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRouting),
		errors.Is(err, ErrUnknownChannel),
		errors.Is(err, ErrUnknownProduct),
		errors.Is(err, ErrEmptySelection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
