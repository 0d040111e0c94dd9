package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/shared"
)

type stubChannels struct {
	known     map[string]bool
	boxOffice string
}

func (s stubChannels) Exists(id string) bool      { return s.known[id] }
func (s stubChannels) IsBoxOffice(id string) bool { return id == s.boxOffice }

type stubWarehouses map[string]bool

func (s stubWarehouses) WarehouseExists(id string) bool { return s[id] }

type stubVisibility struct {
	records map[string]bool
}

func newStubVisibility() *stubVisibility {
	return &stubVisibility{records: make(map[string]bool)}
}

func (s *stubVisibility) SetRecord(productID, channelID, routingID string, visible bool) {
	s.records[productID+"/"+channelID+"/"+routingID] = visible
}

func (s *stubVisibility) RemoveForRouting(routingID string) {
	for key := range s.records {
		if len(key) >= len(routingID) && key[len(key)-len(routingID):] == routingID {
			delete(s.records, key)
		}
	}
}

type routingFixture struct {
	svc        *Service
	repo       Repository
	products   product.Repository
	visibility *stubVisibility
}

func newRoutingFixture(t *testing.T) *routingFixture {
	t.Helper()
	repo := NewRepository()
	products := product.NewRepository()
	vis := newStubVisibility()
	svc := NewService(ServiceParams{
		Repo: repo,
		Lock: shared.NewTenantLock(),
		Channels: stubChannels{
			known:     map[string]bool{"ch-boxoffice": true, "ch-mkt": true, "ch-ota": true},
			boxOffice: "ch-boxoffice",
		},
		Warehouses: stubWarehouses{"W1": true, "W2": true},
		Products:   products,
		Visibility: vis,
	})
	return &routingFixture{svc: svc, repo: repo, products: products, visibility: vis}
}

func (f *routingFixture) seedFacts() {
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p1", WarehouseID: "W1", Price: 10, Currency: "USD", Stock: 5})
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p2", WarehouseID: "W2", Price: 12, Currency: "USD", Stock: 3})
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p3", WarehouseID: "W1", Price: 8, Currency: "USD", Stock: 9})
	f.products.UpsertFact(product.ProductWarehouse{ProductID: "p3", WarehouseID: "W2", Price: 8, Currency: "USD", Stock: 2})
}

func TestCreateRoutingDerivesPublications(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	r, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                  "E1",
		Type:                     TypeOnline,
		ChannelIDs:               []string{"ch-mkt"},
		ChannelWarehouseMapping:  map[string]string{"ch-mkt": "W1"},
		ChannelDefaultVisibility: map[string]VisibilityMode{"ch-mkt": VisibilityNone},
	})
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)
	require.Equal(t, "active", r.Status)

	pubs, err := f.svc.GetProductPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	for _, p := range pubs {
		require.Equal(t, r.ID, p.RoutingID)
		require.NotEmpty(t, p.SessionTypeID)
		require.Contains(t, []string{"p1", "p3"}, p.ProductID)
	}

	// VisibilityNone seeds hidden records for every published product.
	require.Equal(t, false, f.visibility.records["p1/ch-mkt/"+r.ID])
	require.Equal(t, false, f.visibility.records["p3/ch-mkt/"+r.ID])

	published, err := f.svc.IsProductPublished(ctx, "p1")
	require.NoError(t, err)
	require.True(t, published)

	published, err = f.svc.IsProductPublished(ctx, "p2")
	require.NoError(t, err)
	require.False(t, published)
}

func TestCreateRoutingBoxOfficeUsesWholeWarehouseSet(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	r, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:      "E1",
		Type:         TypeOnsite,
		ChannelIDs:   []string{"ch-boxoffice"},
		WarehouseIDs: []string{"W1", "W2"},
	})
	require.NoError(t, err)

	pubs := f.repo.PublicationsForRouting(r.ID)
	require.Len(t, pubs, 3)
}

func TestCreateRoutingOnePerEvent(t *testing.T) {
	f := newRoutingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1"},
	})
	require.NoError(t, err)

	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-ota"},
		ChannelWarehouseMapping: map[string]string{"ch-ota": "W2"},
	})
	require.ErrorIs(t, err, ErrDuplicateRouting)
}

func TestCreateRoutingValidation(t *testing.T) {
	f := newRoutingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRouting(ctx, CreateRoutingInput{EventID: "E1", Type: "hybrid", ChannelIDs: []string{"ch-mkt"}})
	require.ErrorIs(t, err, ErrInvalidRouting)

	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:    "E1",
		Type:       TypeOnline,
		ChannelIDs: []string{"ch-unknown"},
	})
	require.ErrorIs(t, err, ErrUnknownChannel)

	// Online routings require a mapped warehouse per non-box-office channel.
	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:    "E1",
		Type:       TypeOnline,
		ChannelIDs: []string{"ch-mkt"},
	})
	require.ErrorIs(t, err, ErrInvalidMapping)

	// Mapping keys must stay within the channel set.
	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1", "ch-ota": "W2"},
	})
	require.ErrorIs(t, err, ErrInvalidMapping)

	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W9"},
	})
	require.ErrorIs(t, err, ErrUnknownWarehouse)

	// Nothing was stored by the failed commands.
	routings, err := f.svc.GetSalesRoutings(ctx)
	require.NoError(t, err)
	require.Empty(t, routings)
}

func TestUpdateRoutingIsAppendOnlyAndDoesNotRederive(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	r, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:      "E1",
		Type:         TypeOnsite,
		ChannelIDs:   []string{"ch-boxoffice"},
		WarehouseIDs: []string{"W1"},
	})
	require.NoError(t, err)
	require.Len(t, f.repo.PublicationsForRouting(r.ID), 2)

	updated, err := f.svc.UpdateRouting(ctx, r.ID, RoutingPatch{
		AddWarehouseIDs: []string{"W2"},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"W1", "W2"}, updated.WarehouseIDs)

	// Stored publications stay as they were; recomputation now disagrees
	// until the next sync, and the audit surfaces exactly that gap.
	require.Len(t, f.repo.PublicationsForRouting(r.ID), 2)

	published, err := f.svc.IsProductPublished(ctx, "p2")
	require.NoError(t, err)
	require.True(t, published)

	mismatches, err := f.svc.AuditPublications(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, mismatches)
}

func TestUpdateRoutingRejectsUnknownReferences(t *testing.T) {
	f := newRoutingFixture(t)
	ctx := context.Background()

	r, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1"},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateRouting(ctx, r.ID, RoutingPatch{AddChannelIDs: []string{"ch-nope"}})
	require.ErrorIs(t, err, ErrUnknownChannel)

	_, err = f.svc.UpdateRouting(ctx, r.ID, RoutingPatch{AddWarehouseIDs: []string{"W9"}})
	require.ErrorIs(t, err, ErrUnknownWarehouse)

	// Adding an online channel without mapping it violates the mapping rule.
	_, err = f.svc.UpdateRouting(ctx, r.ID, RoutingPatch{AddChannelIDs: []string{"ch-ota"}})
	require.ErrorIs(t, err, ErrInvalidMapping)

	_, err = f.svc.UpdateRouting(ctx, r.ID, RoutingPatch{
		AddChannelIDs:           []string{"ch-ota"},
		ChannelWarehouseMapping: map[string]string{"ch-ota": "W2"},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateRouting(ctx, "missing", RoutingPatch{})
	require.ErrorIs(t, err, ErrRoutingNotFound)
}

func TestDeleteRoutingCascades(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	r, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                  "E1",
		Type:                     TypeOnline,
		ChannelIDs:               []string{"ch-mkt"},
		ChannelWarehouseMapping:  map[string]string{"ch-mkt": "W1"},
		ChannelDefaultVisibility: map[string]VisibilityMode{"ch-mkt": VisibilityAll},
	})
	require.NoError(t, err)
	require.NotEmpty(t, f.visibility.records)

	require.NoError(t, f.svc.DeleteRouting(ctx, r.ID))

	pubs, err := f.svc.GetProductPublications(ctx)
	require.NoError(t, err)
	require.Empty(t, pubs)
	require.Empty(t, f.visibility.records)

	require.ErrorIs(t, f.svc.DeleteRouting(ctx, r.ID), ErrRoutingNotFound)
}

func TestGetUnpublishedReason(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	reason, err := f.svc.GetUnpublishedReason(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, ReasonNoRouting, reason)

	_, err = f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1"},
	})
	require.NoError(t, err)

	reason, err = f.svc.GetUnpublishedReason(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, reason)

	// p2 only stocks W2, which no routing draws from.
	reason, err = f.svc.GetUnpublishedReason(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, ReasonNoRouting, reason)
}

func TestAuditPublicationsCleanAfterCreate(t *testing.T) {
	f := newRoutingFixture(t)
	f.seedFacts()
	ctx := context.Background()

	_, err := f.svc.CreateRouting(ctx, CreateRoutingInput{
		EventID:                 "E1",
		Type:                    TypeOnline,
		ChannelIDs:              []string{"ch-mkt"},
		ChannelWarehouseMapping: map[string]string{"ch-mkt": "W1"},
	})
	require.NoError(t, err)

	mismatches, err := f.svc.AuditPublications(ctx)
	require.NoError(t, err)
	require.Zero(t, mismatches)
}
