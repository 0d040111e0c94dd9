package visibility

import "errors"

// ProductChannelVisibility is an explicit override of per-channel,
// per-routing product visibility. Absence of a record means visible: the
// default-true fallback keeps "show everything" the zero-storage steady
// state and covers products published by later sync batches.
type ProductChannelVisibility struct {
	ProductID string `json:"product_id"`
	ChannelID string `json:"channel_id"`
	RoutingID string `json:"routing_id"`
	Visible   bool   `json:"visible"`
}

// ErrUnknownRouting signals a reference to a routing not in the snapshot.
var ErrUnknownRouting = errors.New("visibility: unknown routing")

// ErrUnknownChannel signals a reference to a channel outside the catalog.
var ErrUnknownChannel = errors.New("visibility: unknown channel")

// ErrUnknownProduct signals a reference to a product not in the snapshot.
var ErrUnknownProduct = errors.New("visibility: unknown product")

// ErrEmptySelection signals a bulk command with no products or channels.
var ErrEmptySelection = errors.New("visibility: empty product or channel selection")
