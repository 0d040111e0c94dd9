package routing

import (
	"errors"
	"time"
)

// RoutingType distinguishes onsite and online routings.
type RoutingType string

const (
	// TypeOnsite sells through the box office and kiosks at the venue.
	TypeOnsite RoutingType = "onsite"
	// TypeOnline sells through mapped online channels.
	TypeOnline RoutingType = "online"
)

// Valid reports whether the routing type is part of the enum.
func (t RoutingType) Valid() bool {
	return t == TypeOnsite || t == TypeOnline
}

// VisibilityMode is the per-channel default applied at routing creation.
type VisibilityMode string

const (
	// VisibilityAll seeds every published product as visible.
	VisibilityAll VisibilityMode = "all"
	// VisibilityNone seeds every published product as hidden.
	VisibilityNone VisibilityMode = "none"
)

// SalesRouting describes how one event sells products: its channels, the
// warehouses inventory is drawn from, and the channel→warehouse mapping.
// There is exactly one routing per event; channels and warehouses are
// append-only once the routing exists.
type SalesRouting struct {
	ID                        string                    `json:"id"`
	EventID                   string                    `json:"event_id"`
	Type                      RoutingType               `json:"type"`
	ChannelIDs                []string                  `json:"channel_ids"`
	WarehouseIDs              []string                  `json:"warehouse_ids"`
	ChannelWarehouseMapping   map[string]string         `json:"channel_warehouse_mapping"`
	PriceReferenceWarehouseID string                    `json:"price_reference_warehouse_id,omitempty"`
	ChannelDefaultVisibility  map[string]VisibilityMode `json:"channel_default_visibility"`
	Status                    string                    `json:"status"`
	CreatedAt                 time.Time                 `json:"created_at"`
	UpdatedAt                 time.Time                 `json:"updated_at"`
}

// HasChannel reports whether the routing includes the channel.
func (r SalesRouting) HasChannel(channelID string) bool {
	for _, id := range r.ChannelIDs {
		if id == channelID {
			return true
		}
	}
	return false
}

// HasWarehouse reports whether the routing includes the warehouse.
func (r SalesRouting) HasWarehouse(warehouseID string) bool {
	for _, id := range r.WarehouseIDs {
		if id == warehouseID {
			return true
		}
	}
	return false
}

// ProductPublication is the derived fact that a product is sellable under a
// routing. Publications are never written by a UI command; they are derived
// at routing creation and by incremental sync.
type ProductPublication struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	RoutingID     string `json:"routing_id"`
	SessionTypeID string `json:"session_type_id"`
}

// CreateRoutingInput describes the routing-creation command.
type CreateRoutingInput struct {
	EventID                   string
	Type                      RoutingType
	ChannelIDs                []string
	WarehouseIDs              []string
	ChannelWarehouseMapping   map[string]string
	PriceReferenceWarehouseID string
	ChannelDefaultVisibility  map[string]VisibilityMode
	Status                    string
}

// RoutingPatch merges into an existing routing. Channels and warehouses can
// only be added, never removed; mapping and default-visibility entries are
// merged key by key.
type RoutingPatch struct {
	Status                    *string
	AddChannelIDs             []string
	AddWarehouseIDs           []string
	ChannelWarehouseMapping   map[string]string
	PriceReferenceWarehouseID *string
	ChannelDefaultVisibility  map[string]VisibilityMode
}

// UnpublishedReason explains why a product is not sellable anywhere.
type UnpublishedReason string

// ReasonNoRouting is the only reason code today: no routing's relevant
// warehouses intersect the product's stock facts.
const ReasonNoRouting UnpublishedReason = "no-routing"

// ErrDuplicateRouting signals a second routing for an event id.
var ErrDuplicateRouting = errors.New("routing: event already has a routing")

// ErrUnknownWarehouse signals a reference to a warehouse not in the snapshot.
var ErrUnknownWarehouse = errors.New("routing: unknown warehouse")

// ErrUnknownChannel signals a reference to a channel outside the catalog.
var ErrUnknownChannel = errors.New("routing: unknown channel")

// ErrInvalidMapping signals a non-box-office channel without exactly one
// mapped warehouse, or a mapping entry for a channel outside the routing.
var ErrInvalidMapping = errors.New("routing: invalid channel-warehouse mapping")

// ErrRoutingNotFound signals an unknown routing id.
var ErrRoutingNotFound = errors.New("routing: routing not found")

// ErrInvalidRouting signals a structurally invalid creation command.
var ErrInvalidRouting = errors.New("routing: invalid routing spec")
