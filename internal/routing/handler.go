package routing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the routing engine.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the routing handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers routing lifecycle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createRouting)
	r.Get("/", h.listRoutings)
	r.Get("/{id}", h.getRouting)
	r.Patch("/{id}", h.updateRouting)
	r.Delete("/{id}", h.deleteRouting)
}

// MountQueryRoutes registers publication projection routes.
func (h *Handler) MountQueryRoutes(r chi.Router) {
	r.Get("/", h.listPublications)
	r.Get("/products/{id}", h.isPublished)
	r.Get("/products/{id}/reason", h.unpublishedReason)
}

type createRoutingRequest struct {
	EventID                   string            `json:"event_id" validate:"required"`
	Type                      string            `json:"type" validate:"required,oneof=onsite online"`
	ChannelIDs                []string          `json:"channel_ids" validate:"required,min=1"`
	WarehouseIDs              []string          `json:"warehouse_ids"`
	ChannelWarehouseMapping   map[string]string `json:"channel_warehouse_mapping"`
	PriceReferenceWarehouseID string            `json:"price_reference_warehouse_id"`
	ChannelDefaultVisibility  map[string]string `json:"channel_default_visibility" validate:"dive,oneof=all none"`
	Status                    string            `json:"status"`
}

type updateRoutingRequest struct {
	Status                    *string           `json:"status"`
	AddChannelIDs             []string          `json:"add_channel_ids"`
	AddWarehouseIDs           []string          `json:"add_warehouse_ids"`
	ChannelWarehouseMapping   map[string]string `json:"channel_warehouse_mapping"`
	PriceReferenceWarehouseID *string           `json:"price_reference_warehouse_id"`
	ChannelDefaultVisibility  map[string]string `json:"channel_default_visibility" validate:"dive,oneof=all none"`
}

func (h *Handler) createRouting(w http.ResponseWriter, r *http.Request) {
	var req createRoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := CreateRoutingInput{
		EventID:                   req.EventID,
		Type:                      RoutingType(req.Type),
		ChannelIDs:                req.ChannelIDs,
		WarehouseIDs:              req.WarehouseIDs,
		ChannelWarehouseMapping:   req.ChannelWarehouseMapping,
		PriceReferenceWarehouseID: req.PriceReferenceWarehouseID,
		ChannelDefaultVisibility:  toVisibilityModes(req.ChannelDefaultVisibility),
		Status:                    req.Status,
	}
	routing, err := h.service.CreateRouting(r.Context(), input)
	if err != nil {
		h.logger.Error("create routing failed", slog.Any("error", err), slog.String("event_id", req.EventID))
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusCreated, routing)
}

func (h *Handler) listRoutings(w http.ResponseWriter, r *http.Request) {
	routings, err := h.service.GetSalesRoutings(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, routings)
}

func (h *Handler) getRouting(w http.ResponseWriter, r *http.Request) {
	routing, err := h.service.GetRouting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusOK, routing)
}

func (h *Handler) updateRouting(w http.ResponseWriter, r *http.Request) {
	var req updateRoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch := RoutingPatch{
		Status:                    req.Status,
		AddChannelIDs:             req.AddChannelIDs,
		AddWarehouseIDs:           req.AddWarehouseIDs,
		ChannelWarehouseMapping:   req.ChannelWarehouseMapping,
		PriceReferenceWarehouseID: req.PriceReferenceWarehouseID,
		ChannelDefaultVisibility:  toVisibilityModes(req.ChannelDefaultVisibility),
	}
	routing, err := h.service.UpdateRouting(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.logger.Error("update routing failed", slog.Any("error", err))
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusOK, routing)
}

func (h *Handler) deleteRouting(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRouting(r.Context(), chi.URLParam(r, "id")); err != nil {
		shared.RespondError(w, statusFor(err), err.Error())
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listPublications(w http.ResponseWriter, r *http.Request) {
	publications, err := h.service.GetProductPublications(r.Context())
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, publications)
}

func (h *Handler) isPublished(w http.ResponseWriter, r *http.Request) {
	published, err := h.service.IsProductPublished(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"published": published})
}

func (h *Handler) unpublishedReason(w http.ResponseWriter, r *http.Request) {
	reason, err := h.service.GetUnpublishedReason(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]string{"reason": string(reason)})
}

func toVisibilityModes(in map[string]string) map[string]VisibilityMode {
	if in == nil {
		return nil
	}
	out := make(map[string]VisibilityMode, len(in))
	for k, v := range in {
		out[k] = VisibilityMode(v)
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateRouting):
		return http.StatusConflict
	case errors.Is(err, ErrRoutingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownWarehouse),
		errors.Is(err, ErrUnknownChannel),
		errors.Is(err, ErrInvalidMapping),
		errors.Is(err, ErrInvalidRouting):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
