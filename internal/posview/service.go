package posview

import (
	"context"
	"errors"
	"sort"

	"github.com/venuecast/venuecast/internal/product"
	"github.com/venuecast/venuecast/internal/routing"
	"github.com/venuecast/venuecast/internal/shared"
)

// Item is one sellable line on a point-of-sale screen: a published, visible
// product with its resolved price and stock for the channel.
type Item struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	CategoryPath string  `json:"category_path"`
	WarehouseID  string  `json:"warehouse_id"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Stock        int     `json:"stock"`
}

// View is the full projection for one routing and channel.
type View struct {
	RoutingID string `json:"routing_id"`
	ChannelID string `json:"channel_id"`
	Items     []Item `json:"items"`
}

// ErrChannelNotInRouting signals a view request for a channel the routing
// does not sell through.
var ErrChannelNotInRouting = errors.New("posview: channel not part of routing")

// RoutingSource reads routings and their derived publications.
type RoutingSource interface {
	GetRouting(id string) (routing.SalesRouting, bool)
	PublicationsForRouting(routingID string) []routing.ProductPublication
}

// ProductSource reads products and their warehouse facts.
type ProductSource interface {
	GetProduct(id string) (product.Product, bool)
	FactsForProduct(productID string) []product.ProductWarehouse
}

// VisibilityResolver resolves effective visibility without taking the lock.
type VisibilityResolver interface {
	IsVisibleLocked(productID, channelID, routingID string) bool
}

// CategoryResolver resolves display paths without taking the lock.
type CategoryResolver interface {
	PathForProduct(productID string) string
}

// ChannelDirectory resolves the box-office predicate.
type ChannelDirectory interface {
	IsBoxOffice(id string) bool
}

// Service projects the sellable item list for a routing and channel. The
// projection is recomputed from the snapshot on every cache miss.
type Service struct {
	lock       *shared.TenantLock
	routings   RoutingSource
	products   ProductSource
	visibility VisibilityResolver
	categories CategoryResolver
	channels   ChannelDirectory
	cache      *Cache
}

// ServiceParams groups the dependencies of the POS view.
type ServiceParams struct {
	Lock       *shared.TenantLock
	Routings   RoutingSource
	Products   ProductSource
	Visibility VisibilityResolver
	Categories CategoryResolver
	Channels   ChannelDirectory
	Cache      *Cache
}

// NewService builds Service.
func NewService(params ServiceParams) *Service {
	return &Service{
		lock:       params.Lock,
		routings:   params.Routings,
		products:   params.Products,
		visibility: params.Visibility,
		categories: params.Categories,
		channels:   params.Channels,
		cache:      params.Cache,
	}
}

// GetView returns the cached projection, rebuilding it when the cache misses
// or is disabled.
func (s *Service) GetView(ctx context.Context, routingID, channelID string) (View, error) {
	key, err := s.cache.BuildKey(ctx, keyView(routingID, channelID))
	if err != nil {
		return s.buildView(ctx, routingID, channelID)
	}
	var view View
	err = s.cache.FetchJSON(ctx, key, &view, func(ctx context.Context) (interface{}, error) {
		return s.buildView(ctx, routingID, channelID)
	})
	return view, err
}

func (s *Service) buildView(ctx context.Context, routingID, channelID string) (View, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	r, ok := s.routings.GetRouting(routingID)
	if !ok {
		return View{}, routing.ErrRoutingNotFound
	}
	if !r.HasChannel(channelID) {
		return View{}, ErrChannelNotInRouting
	}

	view := View{RoutingID: routingID, ChannelID: channelID, Items: []Item{}}
	for _, pub := range s.routings.PublicationsForRouting(routingID) {
		if !s.visibility.IsVisibleLocked(pub.ProductID, channelID, routingID) {
			continue
		}
		p, ok := s.products.GetProduct(pub.ProductID)
		if !ok {
			continue
		}
		fact, ok := s.resolveFact(r, channelID, pub.ProductID)
		if !ok {
			continue
		}
		view.Items = append(view.Items, Item{
			ProductID:    p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			CategoryPath: s.categories.PathForProduct(p.ID),
			WarehouseID:  fact.WarehouseID,
			Price:        fact.Price,
			Currency:     fact.Currency,
			Stock:        fact.Stock,
		})
	}
	sort.Slice(view.Items, func(i, j int) bool {
		a, b := view.Items[i], view.Items[j]
		if a.CategoryPath != b.CategoryPath {
			return a.CategoryPath < b.CategoryPath
		}
		return a.Name < b.Name
	})
	return view, nil
}

// resolveFact picks the price/stock fact for a product on a channel. The
// channel's own warehouse wins, then the routing's price reference
// warehouse, then any warehouse the routing draws from.
func (s *Service) resolveFact(r routing.SalesRouting, channelID, productID string) (product.ProductWarehouse, bool) {
	facts := s.products.FactsForProduct(productID)
	if len(facts) == 0 {
		return product.ProductWarehouse{}, false
	}
	byWarehouse := make(map[string]product.ProductWarehouse, len(facts))
	for _, f := range facts {
		byWarehouse[f.WarehouseID] = f
	}

	if mapped, ok := r.ChannelWarehouseMapping[channelID]; ok && mapped != "" {
		if f, ok := byWarehouse[mapped]; ok {
			return f, true
		}
	}
	if r.PriceReferenceWarehouseID != "" {
		if f, ok := byWarehouse[r.PriceReferenceWarehouseID]; ok {
			return f, true
		}
	}
	relevant := routing.RelevantWarehouseIDs(r, s.channels.IsBoxOffice)
	for _, f := range facts {
		if _, ok := relevant[f.WarehouseID]; ok {
			return f, true
		}
	}
	return product.ProductWarehouse{}, false
}
