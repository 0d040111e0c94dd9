package product

// Repository stores products and their warehouse facts. The in-memory
// implementation assumes the tenant lock is held by the calling service.
type Repository interface {
	InsertProduct(p Product)
	GetProduct(id string) (Product, bool)
	ProductExists(id string) bool
	ListProducts() []Product
	UpsertFact(fact ProductWarehouse)
	ListFacts() []ProductWarehouse
	FactsForProduct(productID string) []ProductWarehouse
	WarehouseIDsForProduct(productID string) []string
}

type memoryRepository struct {
	products []Product
	byID     map[string]int
	facts    []ProductWarehouse
	factIdx  map[string]int
}

// NewRepository constructs the in-memory store.
func NewRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]int),
		factIdx: make(map[string]int),
	}
}

func factKey(productID, warehouseID string) string {
	return productID + "\x00" + warehouseID
}

func (r *memoryRepository) InsertProduct(p Product) {
	if _, ok := r.byID[p.ID]; ok {
		return
	}
	r.byID[p.ID] = len(r.products)
	r.products = append(r.products, p)
}

func (r *memoryRepository) GetProduct(id string) (Product, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Product{}, false
	}
	return r.products[idx], true
}

func (r *memoryRepository) ProductExists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *memoryRepository) ListProducts() []Product {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

func (r *memoryRepository) UpsertFact(fact ProductWarehouse) {
	key := factKey(fact.ProductID, fact.WarehouseID)
	if idx, ok := r.factIdx[key]; ok {
		r.facts[idx] = fact
		return
	}
	r.factIdx[key] = len(r.facts)
	r.facts = append(r.facts, fact)
}

func (r *memoryRepository) ListFacts() []ProductWarehouse {
	out := make([]ProductWarehouse, len(r.facts))
	copy(out, r.facts)
	return out
}

func (r *memoryRepository) FactsForProduct(productID string) []ProductWarehouse {
	var out []ProductWarehouse
	for _, f := range r.facts {
		if f.ProductID == productID {
			out = append(out, f)
		}
	}
	return out
}

func (r *memoryRepository) WarehouseIDsForProduct(productID string) []string {
	var out []string
	for _, f := range r.facts {
		if f.ProductID == productID {
			out = append(out, f.WarehouseID)
		}
	}
	return out
}
