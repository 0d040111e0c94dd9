package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venuecast/venuecast/internal/shared"
)

func newTestService() *Service {
	return NewService(NewRepository(), shared.NewTenantLock(), nil)
}

func TestCreateIntegrationInstallsWarehousesAtomically(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	integration, warehouses, err := svc.CreateIntegration(ctx, CreateIntegrationInput{
		Provider:          ProviderSquare,
		ExternalAccountID: "sq-acct-1",
		Warehouses: []WarehouseInput{
			{ID: "W1", Name: "Main Bar", ExternalLocationID: "sq-loc-main"},
			{Name: "Annex", ExternalLocationID: "sq-loc-annex"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, integration.ID)
	require.Len(t, warehouses, 2)
	require.Equal(t, "W1", warehouses[0].ID)
	require.NotEmpty(t, warehouses[1].ID)
	require.Equal(t, integration.ID, warehouses[0].CatalogID)
	require.Equal(t, ProviderSquare, warehouses[1].Provider)

	got, err := svc.GetIntegration(ctx)
	require.NoError(t, err)
	require.Equal(t, integration.ID, got.ID)

	listed, err := svc.GetWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestCreateIntegrationIsSingleUse(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.CreateIntegration(ctx, CreateIntegrationInput{
		Provider:          ProviderShopify,
		ExternalAccountID: "shop-1",
		Warehouses:        []WarehouseInput{{Name: "Shop Floor", ExternalLocationID: "loc-1"}},
	})
	require.NoError(t, err)

	_, _, err = svc.CreateIntegration(ctx, CreateIntegrationInput{
		Provider:          ProviderShopify,
		ExternalAccountID: "shop-2",
		Warehouses:        []WarehouseInput{{Name: "Other", ExternalLocationID: "loc-2"}},
	})
	require.ErrorIs(t, err, ErrIntegrationExists)
}

func TestCreateIntegrationValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.CreateIntegration(ctx, CreateIntegrationInput{Provider: "etsy"})
	require.ErrorIs(t, err, ErrUnknownProvider)

	_, _, err = svc.CreateIntegration(ctx, CreateIntegrationInput{Provider: ProviderSquare})
	require.ErrorIs(t, err, ErrWarehousesRequired)

	_, _, err = svc.CreateIntegration(ctx, CreateIntegrationInput{
		Provider: ProviderSquare,
		Warehouses: []WarehouseInput{
			{ID: "W1", Name: "A", ExternalLocationID: "l1"},
			{ID: "W1", Name: "B", ExternalLocationID: "l2"},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateWarehouse)

	// Failed commands leave the snapshot untouched.
	_, err = svc.GetIntegration(ctx)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
