package product

import (
	"context"

	"github.com/venuecast/venuecast/internal/shared"
)

// Service exposes read projections over the product store. All writes come
// from the sync engine, which owns the batching semantics.
type Service struct {
	repo Repository
	lock *shared.TenantLock
}

// NewService builds Service.
func NewService(repo Repository, lock *shared.TenantLock) *Service {
	return &Service{repo: repo, lock: lock}
}

// GetProducts lists all imported products.
func (s *Service) GetProducts(ctx context.Context) ([]Product, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListProducts(), nil
}

// GetProductWarehouses lists all stock/price facts.
func (s *Service) GetProductWarehouses(ctx context.Context) ([]ProductWarehouse, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListFacts(), nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	p, ok := s.repo.GetProduct(id)
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}
