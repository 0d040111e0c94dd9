package visibility

import (
	"context"

	"github.com/venuecast/venuecast/internal/observability"
	"github.com/venuecast/venuecast/internal/shared"
)

// RoutingDirectory checks routing references against the snapshot.
type RoutingDirectory interface {
	RoutingExists(id string) bool
}

// ChannelDirectory resolves channel reference data.
type ChannelDirectory interface {
	Exists(id string) bool
}

// ProductDirectory checks product references against the snapshot.
type ProductDirectory interface {
	ProductExists(id string) bool
}

// AuditPort abstracts audit logging for visibility commands.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates derived read models after a mutation.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service resolves and mutates per-product, per-channel, per-routing
// visibility with the default-true fallback.
type Service struct {
	repo     Repository
	lock     *shared.TenantLock
	routings RoutingDirectory
	channels ChannelDirectory
	products ProductDirectory
	audit    AuditPort
	metrics  *observability.Metrics
	cache    CacheBumper
}

// ServiceParams groups the dependencies of the visibility engine.
type ServiceParams struct {
	Repo     Repository
	Lock     *shared.TenantLock
	Routings RoutingDirectory
	Channels ChannelDirectory
	Products ProductDirectory
	Audit    AuditPort
	Metrics  *observability.Metrics
	Cache    CacheBumper
}

// NewService builds Service.
func NewService(params ServiceParams) *Service {
	return &Service{
		repo:     params.Repo,
		lock:     params.Lock,
		routings: params.Routings,
		channels: params.Channels,
		products: params.Products,
		audit:    params.Audit,
		metrics:  params.Metrics,
		cache:    params.Cache,
	}
}

// IsVisible resolves the effective visibility of a triple: the override
// record wins when present, otherwise the product is visible.
func (s *Service) IsVisible(ctx context.Context, productID, channelID, routingID string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.isVisibleLocked(productID, channelID, routingID), nil
}

// IsVisibleLocked is the lock-free variant for callers already holding the
// tenant lock (the POS view projection).
func (s *Service) IsVisibleLocked(productID, channelID, routingID string) bool {
	return s.isVisibleLocked(productID, channelID, routingID)
}

func (s *Service) isVisibleLocked(productID, channelID, routingID string) bool {
	if record, ok := s.repo.GetRecord(productID, channelID, routingID); ok {
		return record.Visible
	}
	return true
}

// SetVisibility upserts the single override record for the triple.
// Calling it twice with the same value is a no-op beyond the write itself.
func (s *Service) SetVisibility(ctx context.Context, productID, channelID, routingID string, visible bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.validateRefs([]string{productID}, []string{channelID}, routingID); err != nil {
		return err
	}
	s.repo.SetRecord(productID, channelID, routingID, visible)
	s.metrics.AddVisibilityWrites(1)

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "visibility:set",
			Entity:   "product_channel_visibility",
			EntityID: productID,
			Meta: map[string]any{
				"channel_id": channelID,
				"routing_id": routingID,
				"visible":    visible,
			},
		})
	}
	s.bump(ctx)
	return nil
}

// BulkSetVisibility applies the override to the full cross product of
// products × channels under one routing. Validation happens before the
// first write, so a failed call leaves the snapshot unchanged; the whole
// cross product is applied under the single-writer lock.
func (s *Service) BulkSetVisibility(ctx context.Context, productIDs, channelIDs []string, routingID string, visible bool) error {
	if len(productIDs) == 0 || len(channelIDs) == 0 {
		return ErrEmptySelection
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.validateRefs(productIDs, channelIDs, routingID); err != nil {
		return err
	}
	for _, productID := range productIDs {
		for _, channelID := range channelIDs {
			s.repo.SetRecord(productID, channelID, routingID, visible)
		}
	}
	s.metrics.AddVisibilityWrites(len(productIDs) * len(channelIDs))

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "visibility:bulk-set",
			Entity:   "product_channel_visibility",
			EntityID: routingID,
			Meta: map[string]any{
				"products": len(productIDs),
				"channels": len(channelIDs),
				"visible":  visible,
			},
		})
	}
	s.bump(ctx)
	return nil
}

// GetOverrides lists all explicit override records.
func (s *Service) GetOverrides(ctx context.Context) ([]ProductChannelVisibility, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListRecords(), nil
}

func (s *Service) validateRefs(productIDs, channelIDs []string, routingID string) error {
	if !s.routings.RoutingExists(routingID) {
		return ErrUnknownRouting
	}
	for _, channelID := range channelIDs {
		if !s.channels.Exists(channelID) {
			return ErrUnknownChannel
		}
	}
	for _, productID := range productIDs {
		if !s.products.ProductExists(productID) {
			return ErrUnknownProduct
		}
	}
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}
