package product

import "time"

// Product is a sellable item imported from the external catalog. Products
// are created by sync batches and immutable afterwards.
type Product struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	SKU      string     `json:"sku"`
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}

// ProductWarehouse is the stock/price fact for a product in one warehouse.
// The (product id, warehouse id) pair is unique.
type ProductWarehouse struct {
	ProductID   string  `json:"product_id"`
	WarehouseID string  `json:"warehouse_id"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Stock       int     `json:"stock"`
}
