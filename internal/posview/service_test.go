package posview

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/venuecast/venuecast/internal/hierarchy"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
	"github.com/venuecast/venuecast/internal/visibility"
)

type stubChannels struct{}

func (stubChannels) IsBoxOffice(id string) bool { return id == "ch-boxoffice" }

type posFixture struct {
	svc        *Service
	routings   routing.Repository
	products   product.Repository
	visibility visibility.Repository
	cache      *Cache
}

func newPOSFixture(t *testing.T, cache *Cache) *posFixture {
	t.Helper()
	lock := shared.NewTenantLock()
	f := &posFixture{
		routings:   routing.NewRepository(),
		products:   product.NewRepository(),
		visibility: visibility.NewRepository(),
		cache:      cache,
	}
	visibilityService := visibility.NewService(visibility.ServiceParams{
		Repo:     f.visibility,
		Lock:     lock,
		Routings: f.routings,
		Channels: allowAll{},
		Products: f.products,
	})
	hierarchyService := hierarchy.NewService(hierarchy.NewRepository(hierarchy.DefaultTree()), lock)
	f.svc = NewService(ServiceParams{
		Lock:       lock,
		Routings:   f.routings,
		Products:   f.products,
		Visibility: visibilityService,
		Categories: hierarchyService,
		Channels:   stubChannels{},
		Cache:      cache,
	})
	return f
}

type allowAll struct{}

func (allowAll) Exists(string) bool { return true }

func (f *posFixture) seed() {
	f.routings.InsertRouting(routing.SalesRouting{
		ID:                      "R1",
		EventID:                 "E1",
		Type:                    routing.TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1"},
	})
	f.products.InsertProduct(product.Product{ID: "p1", Name: "Tee", SKU: "S1"})
	f.products.InsertProduct(product.Product{ID: "p2", Name: "Cap", SKU: "S2"})
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p1", WarehouseID: "W1", Price: 20, Currency: "USD", Stock: 10})
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p2", WarehouseID: "W1", Price: 15, Currency: "USD", Stock: 4})
	f.routings.InsertPublication(routing.ProductPublication{ID: "pub1", ProductID: "p1", RoutingID: "R1", SessionTypeID: "st1"})
	f.routings.InsertPublication(routing.ProductPublication{ID: "pub2", ProductID: "p2", RoutingID: "R1", SessionTypeID: "st2"})
}

func TestGetViewListsPublishedVisibleItems(t *testing.T) {
	f := newPOSFixture(t, nil)
	f.seed()
	ctx := context.Background()

	view, err := f.svc.GetView(ctx, "R1", "ch-mkt")
	require.NoError(t, err)
	require.Equal(t, "R1", view.RoutingID)
	require.Len(t, view.Items, 2)
	require.Equal(t, "p2", view.Items[0].ProductID) // Cap sorts before Tee
	require.Equal(t, 15.0, view.Items[0].Price)
	require.Equal(t, "W1", view.Items[0].WarehouseID)
	require.Equal(t, hierarchy.Uncategorized, view.Items[0].CategoryPath)
}

func TestGetViewFiltersHiddenProducts(t *testing.T) {
	f := newPOSFixture(t, nil)
	f.seed()
	ctx := context.Background()

	f.visibility.SetRecord("p1", "ch-mkt", "R1", false)

	view, err := f.svc.GetView(ctx, "R1", "ch-mkt")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, "p2", view.Items[0].ProductID)
}

func TestGetViewValidatesRoutingAndChannel(t *testing.T) {
	f := newPOSFixture(t, nil)
	f.seed()
	ctx := context.Background()

	_, err := f.svc.GetView(ctx, "R9", "ch-mkt")
	require.ErrorIs(t, err, routing.ErrRoutingNotFound)

	_, err = f.svc.GetView(ctx, "R1", "ch-ota")
	require.ErrorIs(t, err, ErrChannelNotInRouting)
}

func TestGetViewPriceFallsBackToReferenceWarehouse(t *testing.T) {
	f := newPOSFixture(t, nil)
	f.routings.InsertRouting(routing.SalesRouting{
		ID:                        "R1",
		EventID:                   "E1",
		Type:                      routing.TypeOnline,
		ChannelIDs:                []string{"ch-mkt"},
		ChannelWarehouseMapping:   map[string]string{"ch-mkt": "W1"},
		PriceReferenceWarehouseID: "W2",
	})
	f.products.InsertProduct(product.Product{ID: "p1", Name: "Tee", SKU: "S1"})
	// Stocked only at W2; the mapped warehouse has no fact for it.
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p1", WarehouseID: "W2", Price: 22, Currency: "USD", Stock: 7})
	f.routings.InsertPublication(routing.ProductPublication{ID: "pub1", ProductID: "p1", RoutingID: "R1", SessionTypeID: "st1"})

	view, err := f.svc.GetView(context.Background(), "R1", "ch-mkt")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 22.0, view.Items[0].Price)
	require.Equal(t, "W2", view.Items[0].WarehouseID)
}

func TestGetViewCachesUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	f := newPOSFixture(t, cache)
	f.seed()
	ctx := context.Background()

	view, err := f.svc.GetView(ctx, "R1", "ch-mkt")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	// A snapshot change without a bump serves the stale projection.
	f.visibility.SetRecord("p1", "ch-mkt", "R1", false)

	view, err = f.svc.GetView(ctx, "R1", "ch-mkt")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	require.NoError(t, cache.Bump(ctx))

	view, err = f.svc.GetView(ctx, "R1", "ch-mkt")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
}
