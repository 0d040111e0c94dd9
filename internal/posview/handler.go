package posview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
)

var viewBuildGroup singleflight.Group

func singleflightBuild(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error, bool) {
	resultChan := viewBuildGroup.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

// Handler wires HTTP endpoints for the POS view projection.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the POS view handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers POS view routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{routingID}/{channelID}", h.getView)
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	routingID := chi.URLParam(r, "routingID")
	channelID := chi.URLParam(r, "channelID")

	key := keyView(routingID, channelID)
	result, err, _ := singleflightBuild(r.Context(), key, func(ctx context.Context) (interface{}, error) {
		return h.service.GetView(ctx, routingID, channelID)
	})
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrRoutingNotFound):
			shared.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrChannelNotInRouting):
			shared.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("pos view build failed", slog.Any("error", err))
			shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		}
		return
	}
	shared.RespondJSON(w, http.StatusOK, result)
}
