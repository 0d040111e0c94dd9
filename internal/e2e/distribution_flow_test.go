package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/venuecast/venuecast/internal/catalog"
	"github.com/venuecast/venuecast/internal/catalogsync"
	"github.com/venuecast/venuecast/internal/channel"
	"github.com/venuecast/venuecast/internal/hierarchy"
	"github.com/venuecast/venuecast/internal/posview"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
	"github.com/venuecast/venuecast/internal/visibility"
)

type stack struct {
	catalog    *catalog.Service
	sync       *catalogsync.Service
	routing    *routing.Service
	visibility *visibility.Service
	pos        *posview.Service
	products   *product.Service
}

func newStack(t *testing.T, cache *posview.Cache) *stack {
	t.Helper()
	lock := shared.NewTenantLock()
	channels := channel.DefaultCatalog()
	catalogRepo := catalog.NewRepository()
	productRepo := product.NewRepository()
	hierarchyRepo := hierarchy.NewRepository(hierarchy.DefaultTree())
	routingRepo := routing.NewRepository()
	visibilityRepo := visibility.NewRepository()

	hierarchyService := hierarchy.NewService(hierarchyRepo, lock)
	routingService := routing.NewService(routing.ServiceParams{
		Repo:       routingRepo,
		Lock:       lock,
		Channels:   channels,
		Warehouses: catalogRepo,
		Products:   productRepo,
		Visibility: visibilityRepo,
		Cache:      cache,
	})
	visibilityService := visibility.NewService(visibility.ServiceParams{
		Repo:     visibilityRepo,
		Lock:     lock,
		Routings: routingRepo,
		Channels: channels,
		Products: productRepo,
		Cache:    cache,
	})
	syncService := catalogsync.NewService(catalogsync.ServiceParams{
		Lock:       lock,
		Warehouses: catalogRepo,
		Products:   productRepo,
		Categories: hierarchyRepo,
		Routings:   routingRepo,
		Channels:   channels,
		Cache:      cache,
	})
	posService := posview.NewService(posview.ServiceParams{
		Lock:       lock,
		Routings:   routingRepo,
		Products:   productRepo,
		Visibility: visibilityService,
		Categories: hierarchyService,
		Channels:   channels,
		Cache:      cache,
	})

	return &stack{
		catalog:    catalog.NewService(catalogRepo, lock, nil),
		sync:       syncService,
		routing:    routingService,
		visibility: visibilityService,
		pos:        posService,
		products:   product.NewService(productRepo, lock),
	}
}

// TestVenueDistributionFlow walks the demo lifecycle end to end: connect the
// catalog, import the first batch, open an online routing for an event, hide
// one product, then import the second batch and check that everything stays
// consistent.
func TestVenueDistributionFlow(t *testing.T) {
	s := newStack(t, nil)
	ctx := context.Background()

	_, warehouses, err := s.catalog.CreateIntegration(ctx, catalog.CreateIntegrationInput{
		Provider:          catalog.ProviderSquare,
		ExternalAccountID: "sq-acct-demo",
		Warehouses: []catalog.WarehouseInput{
			{ID: "W1", Name: "Main Bar", ExternalLocationID: catalogsync.LocationMain},
			{ID: "W2", Name: "Annex", ExternalLocationID: catalogsync.LocationAnnex},
		},
	})
	require.NoError(t, err)
	require.Len(t, warehouses, 2)

	first, err := s.sync.SyncProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 20, first.Added)
	require.Zero(t, first.Publications) // no routing exists yet

	r, err := s.routing.CreateRouting(ctx, routing.CreateRoutingInput{
		EventID:                 "E1",
		Type:                    routing.TypeOnline,
		ChannelIDs:              []string{channel.MarketplaceID},
		ChannelWarehouseMapping: map[string]string{channel.MarketplaceID: "W1"},
	})
	require.NoError(t, err)

	// Fourteen of the twenty demo products stock the main location.
	pubs, err := s.routing.GetProductPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 14)

	published, err := s.routing.IsProductPublished(ctx, "prod-015")
	require.NoError(t, err)
	require.False(t, published)

	reason, err := s.routing.GetUnpublishedReason(ctx, "prod-015")
	require.NoError(t, err)
	require.Equal(t, routing.ReasonNoRouting, reason)

	require.NoError(t, s.visibility.SetVisibility(ctx, "prod-007", channel.MarketplaceID, r.ID, false))

	view, err := s.pos.GetView(ctx, r.ID, channel.MarketplaceID)
	require.NoError(t, err)
	require.Len(t, view.Items, 13)
	for _, item := range view.Items {
		require.NotEqual(t, "prod-007", item.ProductID)
		require.Equal(t, "W1", item.WarehouseID)
		require.NotEmpty(t, item.CategoryPath)
	}

	second, err := s.sync.SyncProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, second.Added)
	// Four second-drop products stock the main location, so they publish
	// into the existing routing without any routing command.
	require.Equal(t, 4, second.Publications)

	pubs, err = s.routing.GetProductPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 18)

	mismatches, err := s.routing.AuditPublications(ctx)
	require.NoError(t, err)
	require.Zero(t, mismatches)

	view, err = s.pos.GetView(ctx, r.ID, channel.MarketplaceID)
	require.NoError(t, err)
	require.Len(t, view.Items, 17)

	exhaust, err := s.sync.SyncProducts(ctx)
	require.NoError(t, err)
	require.True(t, exhaust.Exhausted)
}

// TestSyncRefreshesCachedStorefront covers the third publication writer:
// a sync batch that publishes into an existing routing must invalidate the
// cached POS view, exactly like routing and visibility mutations do.
func TestSyncRefreshesCachedStorefront(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := posview.NewCache(client, time.Minute)

	s := newStack(t, cache)
	ctx := context.Background()

	_, _, err := s.catalog.CreateIntegration(ctx, catalog.CreateIntegrationInput{
		Provider:          catalog.ProviderSquare,
		ExternalAccountID: "sq-acct-demo",
		Warehouses: []catalog.WarehouseInput{
			{ID: "W1", Name: "Main Bar", ExternalLocationID: catalogsync.LocationMain},
			{ID: "W2", Name: "Annex", ExternalLocationID: catalogsync.LocationAnnex},
		},
	})
	require.NoError(t, err)

	_, err = s.sync.SyncProducts(ctx)
	require.NoError(t, err)

	r, err := s.routing.CreateRouting(ctx, routing.CreateRoutingInput{
		EventID:                 "E1",
		Type:                    routing.TypeOnline,
		ChannelIDs:              []string{channel.MarketplaceID},
		ChannelWarehouseMapping: map[string]string{channel.MarketplaceID: "W1"},
	})
	require.NoError(t, err)

	// Prime the cache with the 14-item projection.
	view, err := s.pos.GetView(ctx, r.ID, channel.MarketplaceID)
	require.NoError(t, err)
	require.Len(t, view.Items, 14)

	second, err := s.sync.SyncProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, second.Publications)

	view, err = s.pos.GetView(ctx, r.ID, channel.MarketplaceID)
	require.NoError(t, err)
	require.Len(t, view.Items, 18)
}
