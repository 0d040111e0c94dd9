package catalogsync

import "errors"

// ImportFact is a stock/price fact keyed by the provider's location id.
// Facts whose location has no warehouse in the snapshot are dropped
// silently: the demo catalog is wider than any single venue's setup.
type ImportFact struct {
	ExternalLocationID string
	Price              float64
	Currency           string
	Stock              int
}

// ImportItem is one product of an import batch.
type ImportItem struct {
	ProductID  string
	Name       string
	SKU        string
	CategoryID string
	Facts      []ImportFact
}

// Batch is one discrete import from the external catalog. Batches are
// consumed in order, exactly once each.
type Batch struct {
	Label string
	Items []ImportItem
}

// SyncResult summarises one SyncProducts call.
type SyncResult struct {
	BatchLabel   string   `json:"batch_label,omitempty"`
	Added        int      `json:"added"`
	ProductIDs   []string `json:"product_ids,omitempty"`
	Publications int      `json:"publications"`
	Exhausted    bool     `json:"exhausted"`
}

// ErrNoWarehouses signals a sync attempt before the integration and its
// warehouses exist.
var ErrNoWarehouses = errors.New("catalogsync: no integration or warehouses to sync into")
