package catalog

// Repository stores the integration record and its warehouses. The in-memory
// implementation assumes the tenant lock is held by the calling service.
type Repository interface {
	GetIntegration() (CatalogIntegration, bool)
	InsertIntegration(integration CatalogIntegration)
	ListWarehouses() []Warehouse
	GetWarehouse(id string) (Warehouse, bool)
	WarehouseExists(id string) bool
	FindWarehouseByLocation(externalLocationID string) (Warehouse, bool)
	InsertWarehouse(warehouse Warehouse)
}

type memoryRepository struct {
	integration *CatalogIntegration
	warehouses  []Warehouse
	byID        map[string]int
}

// NewRepository constructs the in-memory store.
func NewRepository() Repository {
	return &memoryRepository{byID: make(map[string]int)}
}

func (r *memoryRepository) GetIntegration() (CatalogIntegration, bool) {
	if r.integration == nil {
		return CatalogIntegration{}, false
	}
	return *r.integration, true
}

func (r *memoryRepository) InsertIntegration(integration CatalogIntegration) {
	value := integration
	r.integration = &value
}

func (r *memoryRepository) ListWarehouses() []Warehouse {
	out := make([]Warehouse, len(r.warehouses))
	copy(out, r.warehouses)
	return out
}

func (r *memoryRepository) GetWarehouse(id string) (Warehouse, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Warehouse{}, false
	}
	return r.warehouses[idx], true
}

func (r *memoryRepository) WarehouseExists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *memoryRepository) FindWarehouseByLocation(externalLocationID string) (Warehouse, bool) {
	for _, w := range r.warehouses {
		if w.ExternalLocationID == externalLocationID {
			return w, true
		}
	}
	return Warehouse{}, false
}

func (r *memoryRepository) InsertWarehouse(warehouse Warehouse) {
	r.byID[warehouse.ID] = len(r.warehouses)
	r.warehouses = append(r.warehouses, warehouse)
}
