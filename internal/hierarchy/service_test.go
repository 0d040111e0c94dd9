package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venuecast/venuecast/internal/shared"
)

func newTestService() *Service {
	return NewService(NewRepository(DefaultTree()), shared.NewTenantLock())
}

func TestDefaultTreeElements(t *testing.T) {
	svc := newTestService()

	elements, err := svc.GetHierarchyElements(context.Background())
	require.NoError(t, err)
	require.Len(t, elements, 7)
}

func TestProductCategoryPath(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.repo.AssignProduct("p1", "cat-tshirts")
	svc.repo.AssignProduct("p2", "cat-souvenirs")

	require.Equal(t, "Apparel > T-Shirts", svc.GetProductCategoryPath(ctx, "p1"))

	// Root-level categories render without a parent prefix.
	require.Equal(t, "Souvenirs", svc.GetProductCategoryPath(ctx, "p2"))

	// Unassigned products fall back to the catch-all bucket.
	require.Equal(t, Uncategorized, svc.GetProductCategoryPath(ctx, "p3"))
}

func TestGetProductCategory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.repo.AssignProduct("p1", "cat-drinks")

	element, err := svc.GetProductCategory(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "cat-drinks", element.ID)

	_, err = svc.GetProductCategory(ctx, "p9")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestHierarchyElementProductsGrouping(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.repo.AssignProduct("p2", "cat-snacks")
	svc.repo.AssignProduct("p1", "cat-snacks")
	svc.repo.AssignProduct("p3", "cat-drinks")

	grouped, err := svc.GetHierarchyElementProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"p1", "p2"}, grouped["cat-snacks"])
	require.Equal(t, []string{"p3"}, grouped["cat-drinks"])
}
