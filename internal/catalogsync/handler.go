package catalogsync

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venuecast/venuecast/internal/shared"
)

// Handler wires HTTP endpoints for the sync engine.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the sync handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers sync routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.sync)
	r.Get("/status", h.status)
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncProducts(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoWarehouses) {
			shared.RespondError(w, http.StatusPreconditionFailed, err.Error())
			return
		}
		h.logger.Error("sync failed", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, shared.UserSafeMessage(err))
		return
	}
	h.logger.Info("sync batch processed",
		slog.String("batch", result.BatchLabel),
		slog.Int("added", result.Added),
		slog.Int("publications", result.Publications))
	shared.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	remaining := h.service.Remaining(r.Context())
	shared.RespondJSON(w, http.StatusOK, map[string]int{"batches_remaining": remaining})
}
