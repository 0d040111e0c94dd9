package routing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venuecast/venuecast/internal/observability"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/shared"
)

// ChannelDirectory resolves channel reference data.
type ChannelDirectory interface {
	Exists(id string) bool
	IsBoxOffice(id string) bool
}

// WarehouseDirectory checks warehouse references against the snapshot.
type WarehouseDirectory interface {
	WarehouseExists(id string) bool
}

// ProductFacts reads the product store's stock facts.
type ProductFacts interface {
	ListFacts() []product.ProductWarehouse
	WarehouseIDsForProduct(productID string) []string
}

// VisibilityStore seeds and cascades visibility override records. Calls are
// made under the tenant lock held by this service.
type VisibilityStore interface {
	SetRecord(productID, channelID, routingID string, visible bool)
	RemoveForRouting(routingID string)
}

// AuditPort abstracts audit logging for routing commands.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates derived read models after a mutation.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// ServiceParams groups the dependencies of the routing engine.
type ServiceParams struct {
	Repo       Repository
	Lock       *shared.TenantLock
	Channels   ChannelDirectory
	Warehouses WarehouseDirectory
	Products   ProductFacts
	Visibility VisibilityStore
	Audit      AuditPort
	Metrics    *observability.Metrics
	Cache      CacheBumper
}

// Service owns the routing lifecycle and the publication derivation.
type Service struct {
	repo       Repository
	lock       *shared.TenantLock
	channels   ChannelDirectory
	warehouses WarehouseDirectory
	products   ProductFacts
	visibility VisibilityStore
	audit      AuditPort
	metrics    *observability.Metrics
	cache      CacheBumper
	now        func() time.Time
}

// NewService builds Service.
func NewService(params ServiceParams) *Service {
	return &Service{
		repo:       params.Repo,
		lock:       params.Lock,
		channels:   params.Channels,
		warehouses: params.Warehouses,
		products:   params.Products,
		visibility: params.Visibility,
		audit:      params.Audit,
		metrics:    params.Metrics,
		cache:      params.Cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRouting validates the input, stores the routing and derives its
// publications and default visibility records in one atomic command.
func (s *Service) CreateRouting(ctx context.Context, input CreateRoutingInput) (SalesRouting, error) {
	if input.EventID == "" || !input.Type.Valid() || len(input.ChannelIDs) == 0 {
		return SalesRouting{}, ErrInvalidRouting
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.repo.RoutingForEvent(input.EventID); exists {
		return SalesRouting{}, ErrDuplicateRouting
	}
	if err := s.validateReferences(input.ChannelIDs, input.WarehouseIDs, input.ChannelWarehouseMapping, input.ChannelDefaultVisibility, input.PriceReferenceWarehouseID); err != nil {
		return SalesRouting{}, err
	}
	if err := s.validateMapping(input.Type, input.ChannelIDs, input.ChannelWarehouseMapping); err != nil {
		return SalesRouting{}, err
	}

	now := s.now()
	status := input.Status
	if status == "" {
		status = "active"
	}
	routing := SalesRouting{
		ID:                        uuid.NewString(),
		EventID:                   input.EventID,
		Type:                      input.Type,
		ChannelIDs:                append([]string(nil), input.ChannelIDs...),
		WarehouseIDs:              append([]string(nil), input.WarehouseIDs...),
		ChannelWarehouseMapping:   copyMap(input.ChannelWarehouseMapping),
		PriceReferenceWarehouseID: input.PriceReferenceWarehouseID,
		ChannelDefaultVisibility:  copyVisibilityMap(input.ChannelDefaultVisibility),
		Status:                    status,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	s.repo.InsertRouting(routing)

	published := s.derivePublications(routing)
	for channelID, mode := range routing.ChannelDefaultVisibility {
		visible := mode == VisibilityAll
		for _, productID := range published {
			s.visibility.SetRecord(productID, channelID, routing.ID, visible)
		}
	}

	s.metrics.AddPublicationsDerived(len(published))
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "routing:create",
			Entity:   "sales_routing",
			EntityID: routing.ID,
			Meta: map[string]any{
				"event_id":     routing.EventID,
				"publications": len(published),
			},
		})
	}
	s.bump(ctx)
	return routing, nil
}

// UpdateRouting merges the patch into an existing routing. Channels and
// warehouses are append-only, and publications are deliberately not
// re-derived here: incremental sync is the only retroactive publisher.
func (s *Service) UpdateRouting(ctx context.Context, id string, patch RoutingPatch) (SalesRouting, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	routing, ok := s.repo.GetRouting(id)
	if !ok {
		return SalesRouting{}, ErrRoutingNotFound
	}

	merged := routing
	merged.ChannelIDs = append([]string(nil), routing.ChannelIDs...)
	merged.WarehouseIDs = append([]string(nil), routing.WarehouseIDs...)
	merged.ChannelWarehouseMapping = copyMap(routing.ChannelWarehouseMapping)
	merged.ChannelDefaultVisibility = copyVisibilityMap(routing.ChannelDefaultVisibility)

	for _, channelID := range patch.AddChannelIDs {
		if !s.channels.Exists(channelID) {
			return SalesRouting{}, ErrUnknownChannel
		}
		if !merged.HasChannel(channelID) {
			merged.ChannelIDs = append(merged.ChannelIDs, channelID)
		}
	}
	for _, warehouseID := range patch.AddWarehouseIDs {
		if !s.warehouses.WarehouseExists(warehouseID) {
			return SalesRouting{}, ErrUnknownWarehouse
		}
		if !merged.HasWarehouse(warehouseID) {
			merged.WarehouseIDs = append(merged.WarehouseIDs, warehouseID)
		}
	}
	for channelID, warehouseID := range patch.ChannelWarehouseMapping {
		if !merged.HasChannel(channelID) {
			return SalesRouting{}, ErrInvalidMapping
		}
		if warehouseID != "" && !s.warehouses.WarehouseExists(warehouseID) {
			return SalesRouting{}, ErrUnknownWarehouse
		}
		merged.ChannelWarehouseMapping[channelID] = warehouseID
	}
	for channelID, mode := range patch.ChannelDefaultVisibility {
		if !merged.HasChannel(channelID) {
			return SalesRouting{}, ErrUnknownChannel
		}
		merged.ChannelDefaultVisibility[channelID] = mode
	}
	if patch.PriceReferenceWarehouseID != nil {
		if *patch.PriceReferenceWarehouseID != "" && !s.warehouses.WarehouseExists(*patch.PriceReferenceWarehouseID) {
			return SalesRouting{}, ErrUnknownWarehouse
		}
		merged.PriceReferenceWarehouseID = *patch.PriceReferenceWarehouseID
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if err := s.validateMapping(merged.Type, merged.ChannelIDs, merged.ChannelWarehouseMapping); err != nil {
		return SalesRouting{}, err
	}

	merged.UpdatedAt = s.now()
	s.repo.ReplaceRouting(merged)

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "routing:update",
			Entity:   "sales_routing",
			EntityID: merged.ID,
		})
	}
	s.bump(ctx)
	return merged, nil
}

// DeleteRouting removes the routing, its publications and its visibility
// overrides. Leaving the overrides behind would dangle forever, since
// routing ids are never reused.
func (s *Service) DeleteRouting(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.repo.GetRouting(id); !ok {
		return ErrRoutingNotFound
	}
	s.repo.RemovePublicationsForRouting(id)
	s.visibility.RemoveForRouting(id)
	s.repo.RemoveRouting(id)

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "routing:delete",
			Entity:   "sales_routing",
			EntityID: id,
		})
	}
	s.bump(ctx)
	return nil
}

// GetSalesRoutings lists all routings.
func (s *Service) GetSalesRoutings(ctx context.Context) ([]SalesRouting, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListRoutings(), nil
}

// GetRouting returns one routing.
func (s *Service) GetRouting(ctx context.Context, id string) (SalesRouting, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	routing, ok := s.repo.GetRouting(id)
	if !ok {
		return SalesRouting{}, ErrRoutingNotFound
	}
	return routing, nil
}

// GetProductPublications lists all derived publications.
func (s *Service) GetProductPublications(ctx context.Context) ([]ProductPublication, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.repo.ListPublications(), nil
}

// IsProductPublished recomputes from first principles whether any routing
// sells the product. It deliberately does not consult the publication
// cache; the two derivations must agree and the audit checks that they do.
func (s *Service) IsProductPublished(ctx context.Context, productID string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.isPublishedLocked(productID), nil
}

// GetUnpublishedReason returns the reason code for an unpublished product,
// or the empty reason when the product is published. The taxonomy is
// deliberately minimal today.
func (s *Service) GetUnpublishedReason(ctx context.Context, productID string) (UnpublishedReason, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.isPublishedLocked(productID) {
		return "", nil
	}
	return ReasonNoRouting, nil
}

// AuditPublications compares the publication cache against recomputation
// for every (product, routing) pair and returns the number of mismatches.
func (s *Service) AuditPublications(ctx context.Context) (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	productWarehouses := make(map[string]map[string]struct{})
	for _, fact := range s.products.ListFacts() {
		set, ok := productWarehouses[fact.ProductID]
		if !ok {
			set = make(map[string]struct{})
			productWarehouses[fact.ProductID] = set
		}
		set[fact.WarehouseID] = struct{}{}
	}

	expected := make(map[[2]string]struct{})
	for _, routing := range s.repo.ListRoutings() {
		relevant := RelevantWarehouseIDs(routing, s.channels.IsBoxOffice)
		for productID, warehouses := range productWarehouses {
			for warehouseID := range warehouses {
				if _, ok := relevant[warehouseID]; ok {
					expected[[2]string{productID, routing.ID}] = struct{}{}
					break
				}
			}
		}
	}

	actual := make(map[[2]string]struct{})
	for _, p := range s.repo.ListPublications() {
		actual[[2]string{p.ProductID, p.RoutingID}] = struct{}{}
	}

	mismatches := 0
	for pair := range expected {
		if _, ok := actual[pair]; !ok {
			mismatches++
		}
	}
	for pair := range actual {
		if _, ok := expected[pair]; !ok {
			mismatches++
		}
	}
	s.metrics.AddAuditMismatches(mismatches)
	return mismatches, nil
}

func (s *Service) isPublishedLocked(productID string) bool {
	warehouseIDs := s.products.WarehouseIDsForProduct(productID)
	if len(warehouseIDs) == 0 {
		return false
	}
	for _, routing := range s.repo.ListRoutings() {
		relevant := RelevantWarehouseIDs(routing, s.channels.IsBoxOffice)
		for _, warehouseID := range warehouseIDs {
			if _, ok := relevant[warehouseID]; ok {
				return true
			}
		}
	}
	return false
}

// derivePublications creates one publication per product with a stock fact
// in any relevant warehouse, deduplicated per product. Caller holds the
// write lock.
func (s *Service) derivePublications(routing SalesRouting) []string {
	relevant := RelevantWarehouseIDs(routing, s.channels.IsBoxOffice)
	if len(relevant) == 0 {
		return nil
	}
	var published []string
	seen := make(map[string]struct{})
	for _, fact := range s.products.ListFacts() {
		if _, ok := relevant[fact.WarehouseID]; !ok {
			continue
		}
		if _, dup := seen[fact.ProductID]; dup {
			continue
		}
		seen[fact.ProductID] = struct{}{}
		s.repo.InsertPublication(ProductPublication{
			ID:            uuid.NewString(),
			ProductID:     fact.ProductID,
			RoutingID:     routing.ID,
			SessionTypeID: uuid.NewString(),
		})
		published = append(published, fact.ProductID)
	}
	return published
}

func (s *Service) validateReferences(channelIDs, warehouseIDs []string, mapping map[string]string, defaults map[string]VisibilityMode, priceRef string) error {
	for _, channelID := range channelIDs {
		if !s.channels.Exists(channelID) {
			return ErrUnknownChannel
		}
	}
	for channelID := range defaults {
		if !s.channels.Exists(channelID) {
			return ErrUnknownChannel
		}
	}
	for _, warehouseID := range warehouseIDs {
		if !s.warehouses.WarehouseExists(warehouseID) {
			return ErrUnknownWarehouse
		}
	}
	for _, warehouseID := range mapping {
		if warehouseID != "" && !s.warehouses.WarehouseExists(warehouseID) {
			return ErrUnknownWarehouse
		}
	}
	if priceRef != "" && !s.warehouses.WarehouseExists(priceRef) {
		return ErrUnknownWarehouse
	}
	return nil
}

// validateMapping enforces the online-mapping rule: every non-box-office
// channel of an online routing maps to exactly one warehouse, and mapping
// keys stay within the routing's channel set.
func (s *Service) validateMapping(routingType RoutingType, channelIDs []string, mapping map[string]string) error {
	inSet := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		inSet[id] = struct{}{}
	}
	for channelID := range mapping {
		if _, ok := inSet[channelID]; !ok {
			return ErrInvalidMapping
		}
		if !s.channels.Exists(channelID) {
			return ErrUnknownChannel
		}
	}
	if routingType != TypeOnline {
		return nil
	}
	for _, channelID := range channelIDs {
		if s.channels.IsBoxOffice(channelID) {
			continue
		}
		if mapping[channelID] == "" {
			return ErrInvalidMapping
		}
	}
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyVisibilityMap(in map[string]VisibilityMode) map[string]VisibilityMode {
	out := make(map[string]VisibilityMode, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
