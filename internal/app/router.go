package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/venuecast/venuecast/internal/catalog"
	"github.com/venuecast/venuecast/internal/catalogsync"
	"github.com/venuecast/venuecast/internal/channel"
	"github.com/venuecast/venuecast/internal/hierarchy"
	"github.com/venuecast/venuecast/internal/observability"
	"github.com/venuecast/venuecast/internal/posview"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/visibility"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CatalogHandler    *catalog.Handler
	ProductHandler    *product.Handler
	HierarchyHandler  *hierarchy.Handler
	ChannelHandler    *channel.Handler
	SyncHandler       *catalogsync.Handler
	RoutingHandler    *routing.Handler
	VisibilityHandler *visibility.Handler
	POSViewHandler    *posview.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Get("/metrics", params.Metrics.Handler().ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/catalog", params.CatalogHandler.MountRoutes)
		api.Route("/products", params.ProductHandler.MountRoutes)
		api.Route("/hierarchy", params.HierarchyHandler.MountRoutes)
		api.Route("/channels", params.ChannelHandler.MountRoutes)
		api.Route("/sync", params.SyncHandler.MountRoutes)
		api.Route("/routings", params.RoutingHandler.MountRoutes)
		api.Route("/publications", params.RoutingHandler.MountQueryRoutes)
		api.Route("/visibility", params.VisibilityHandler.MountRoutes)
		api.Route("/pos", params.POSViewHandler.MountRoutes)
	})

	return r
}
