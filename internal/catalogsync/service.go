package catalogsync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venuecast/venuecast/internal/catalog"
	"github.com/venuecast/venuecast/internal/observability"
	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
)

// WarehouseSource resolves warehouses for incoming stock facts.
type WarehouseSource interface {
	GetIntegration() (catalog.CatalogIntegration, bool)
	ListWarehouses() []catalog.Warehouse
	FindWarehouseByLocation(externalLocationID string) (catalog.Warehouse, bool)
}

// ProductSink receives imported products and facts.
type ProductSink interface {
	InsertProduct(p product.Product)
	ProductExists(id string) bool
	UpsertFact(fact product.ProductWarehouse)
}

// CategorySink records product-to-category assignments.
type CategorySink interface {
	AssignProduct(productID, elementID string)
}

// RoutingSink lets the sync engine publish new products into routings that
// already qualify for them.
type RoutingSink interface {
	ListRoutings() []routing.SalesRouting
	HasPublication(productID, routingID string) bool
	InsertPublication(p routing.ProductPublication)
}

// ChannelDirectory resolves the box-office predicate for derivation.
type ChannelDirectory interface {
	IsBoxOffice(id string) bool
}

// AuditPort abstracts audit logging for sync commands.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates derived read models after a mutation.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// Batches overrides the demo import queue.
	Batches []Batch
}

// ServiceParams groups the dependencies of the sync engine.
type ServiceParams struct {
	Lock       *shared.TenantLock
	Warehouses WarehouseSource
	Products   ProductSink
	Categories CategorySink
	Routings   RoutingSink
	Channels   ChannelDirectory
	Audit      AuditPort
	Metrics    *observability.Metrics
	Cache      CacheBumper
	Config     ServiceConfig
}

// Service simulates discrete import batches from the external catalog. The
// queue is ordered and finite: each batch is consumed exactly once, and an
// exhausted queue makes further syncs zero-count no-ops.
type Service struct {
	lock       *shared.TenantLock
	warehouses WarehouseSource
	products   ProductSink
	categories CategorySink
	routings   RoutingSink
	channels   ChannelDirectory
	audit      AuditPort
	metrics    *observability.Metrics
	cache      CacheBumper
	batches    []Batch
	cursor     int
	now        func() time.Time
}

// NewService builds Service.
func NewService(params ServiceParams) *Service {
	batches := params.Config.Batches
	if batches == nil {
		batches = DemoBatches()
	}
	return &Service{
		lock:       params.Lock,
		warehouses: params.Warehouses,
		products:   params.Products,
		categories: params.Categories,
		routings:   params.Routings,
		channels:   params.Channels,
		audit:      params.Audit,
		metrics:    params.Metrics,
		cache:      params.Cache,
		batches:    batches,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SyncProducts imports the next batch: products and resolvable stock facts
// are inserted, category links recorded, and every existing routing is
// evaluated so that qualifying new products publish immediately. Facts for
// locations without a warehouse are dropped.
func (s *Service) SyncProducts(ctx context.Context) (SyncResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.warehouses.GetIntegration(); !ok {
		return SyncResult{}, ErrNoWarehouses
	}
	if len(s.warehouses.ListWarehouses()) == 0 {
		return SyncResult{}, ErrNoWarehouses
	}
	if s.cursor >= len(s.batches) {
		return SyncResult{Exhausted: true}, nil
	}

	batch := s.batches[s.cursor]
	s.cursor++
	now := s.now()

	result := SyncResult{BatchLabel: batch.Label}
	newFacts := make(map[string][]string)
	for _, item := range batch.Items {
		productID := item.ProductID
		if productID == "" {
			productID = uuid.NewString()
		}
		if s.products.ProductExists(productID) {
			continue
		}
		syncedAt := now
		s.products.InsertProduct(product.Product{
			ID:       productID,
			Name:     item.Name,
			SKU:      item.SKU,
			SyncedAt: &syncedAt,
		})
		if item.CategoryID != "" {
			s.categories.AssignProduct(productID, item.CategoryID)
		}
		for _, fact := range item.Facts {
			warehouse, ok := s.warehouses.FindWarehouseByLocation(fact.ExternalLocationID)
			if !ok {
				continue
			}
			s.products.UpsertFact(product.ProductWarehouse{
				ProductID:   productID,
				WarehouseID: warehouse.ID,
				Price:       fact.Price,
				Currency:    fact.Currency,
				Stock:       fact.Stock,
			})
			newFacts[productID] = append(newFacts[productID], warehouse.ID)
		}
		result.Added++
		result.ProductIDs = append(result.ProductIDs, productID)
	}

	result.Publications = s.publishInto(newFacts)

	s.metrics.AddProductsSynced(result.Added)
	s.metrics.AddPublicationsDerived(result.Publications)
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "catalogsync:sync",
			Entity:   "import_batch",
			EntityID: batch.Label,
			Meta: map[string]any{
				"added":        result.Added,
				"publications": result.Publications,
			},
		})
	}
	if result.Added > 0 || result.Publications > 0 {
		s.bump(ctx)
	}
	return result, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}

// Remaining reports how many batches the queue still holds.
func (s *Service) Remaining(ctx context.Context) int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.batches) - s.cursor
}

// publishInto creates publications for new products whose warehouses are
// relevant to an existing routing. Caller holds the write lock.
func (s *Service) publishInto(newFacts map[string][]string) int {
	if len(newFacts) == 0 {
		return 0
	}
	created := 0
	for _, r := range s.routings.ListRoutings() {
		relevant := routing.RelevantWarehouseIDs(r, s.channels.IsBoxOffice)
		if len(relevant) == 0 {
			continue
		}
		for productID, warehouseIDs := range newFacts {
			if s.routings.HasPublication(productID, r.ID) {
				continue
			}
			for _, warehouseID := range warehouseIDs {
				if _, ok := relevant[warehouseID]; !ok {
					continue
				}
				s.routings.InsertPublication(routing.ProductPublication{
					ID:            uuid.NewString(),
					ProductID:     productID,
					RoutingID:     r.ID,
					SessionTypeID: uuid.NewString(),
				})
				created++
				break
			}
		}
	}
	return created
}
