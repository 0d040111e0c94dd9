package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/venuecast/venuecast/internal/shared"
)

// AuditPort abstracts audit logging for catalog commands.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the integration lifecycle.
type Service struct {
	repo  Repository
	lock  *shared.TenantLock
	audit AuditPort
	now   func() time.Time
}

// NewService builds Service.
func NewService(repo Repository, lock *shared.TenantLock, audit AuditPort) *Service {
	return &Service{repo: repo, lock: lock, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

// CreateIntegration installs the tenant's single integration and its initial
// warehouse list as one atomic write. Warehouses cannot be added later.
func (s *Service) CreateIntegration(ctx context.Context, input CreateIntegrationInput) (CatalogIntegration, []Warehouse, error) {
	if !input.Provider.Valid() {
		return CatalogIntegration{}, nil, ErrUnknownProvider
	}
	if len(input.Warehouses) == 0 {
		return CatalogIntegration{}, nil, ErrWarehousesRequired
	}
	seen := make(map[string]struct{}, len(input.Warehouses))
	for _, w := range input.Warehouses {
		if w.ID == "" {
			continue
		}
		if _, dup := seen[w.ID]; dup {
			return CatalogIntegration{}, nil, ErrDuplicateWarehouse
		}
		seen[w.ID] = struct{}{}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.repo.GetIntegration(); exists {
		return CatalogIntegration{}, nil, ErrIntegrationExists
	}

	now := s.now()
	integration := CatalogIntegration{
		ID:                uuid.NewString(),
		Provider:          input.Provider,
		ExternalAccountID: strings.TrimSpace(input.ExternalAccountID),
		CreatedAt:         now,
	}
	warehouses := make([]Warehouse, 0, len(input.Warehouses))
	for _, w := range input.Warehouses {
		id := w.ID
		if id == "" {
			id = uuid.NewString()
		}
		warehouses = append(warehouses, Warehouse{
			ID:                 id,
			Name:               w.Name,
			Provider:           input.Provider,
			ExternalLocationID: w.ExternalLocationID,
			CatalogID:          integration.ID,
			CreatedAt:          now,
		})
	}

	s.repo.InsertIntegration(integration)
	for _, w := range warehouses {
		s.repo.InsertWarehouse(w)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "catalog:create-integration",
			Entity:   "catalog_integration",
			EntityID: integration.ID,
			Meta: map[string]any{
				"provider":   string(integration.Provider),
				"warehouses": len(warehouses),
			},
		})
	}
	return integration, warehouses, nil
}

// GetIntegration returns the installed integration.
func (s *Service) GetIntegration(ctx context.Context) (CatalogIntegration, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	integration, ok := s.repo.GetIntegration()
	if !ok {
		return CatalogIntegration{}, shared.ErrNotFound
	}
	return integration, nil
}

// GetWarehouses lists all warehouses.
func (s *Service) GetWarehouses(ctx context.Context) ([]Warehouse, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListWarehouses(), nil
}
