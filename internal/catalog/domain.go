package catalog

import (
	"errors"
	"time"
)

// Provider enumerates supported external catalog providers.
type Provider string

const (
	// ProviderSquare is a Square catalog connection.
	ProviderSquare Provider = "square"
	// ProviderShopify is a Shopify catalog connection.
	ProviderShopify Provider = "shopify"
)

// Valid reports whether the provider is part of the enum.
func (p Provider) Valid() bool {
	return p == ProviderSquare || p == ProviderShopify
}

// CatalogIntegration is the single external catalog connection of a tenant.
// It is created once and immutable afterwards.
type CatalogIntegration struct {
	ID                string    `json:"id"`
	Provider          Provider  `json:"provider"`
	ExternalAccountID string    `json:"external_account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// Warehouse is an inventory location bound to an external system location.
// Warehouses are created together with the integration and never deleted.
type Warehouse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Provider           Provider  `json:"provider"`
	ExternalLocationID string    `json:"external_location_id"`
	CatalogID          string    `json:"catalog_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// WarehouseInput describes a warehouse to install with the integration.
// ID is optional; one is generated when absent.
type WarehouseInput struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ExternalLocationID string `json:"external_location_id"`
}

// CreateIntegrationInput describes the integration-creation command.
type CreateIntegrationInput struct {
	Provider          Provider
	ExternalAccountID string
	Warehouses        []WarehouseInput
}

// ErrIntegrationExists signals that the tenant already has its integration.
var ErrIntegrationExists = errors.New("catalog: integration already exists")

// ErrUnknownProvider signals a provider outside the supported enum.
var ErrUnknownProvider = errors.New("catalog: unknown provider")

// ErrWarehousesRequired signals an integration without any warehouse.
var ErrWarehousesRequired = errors.New("catalog: at least one warehouse required")

// ErrDuplicateWarehouse signals repeated warehouse ids in one command.
var ErrDuplicateWarehouse = errors.New("catalog: duplicate warehouse id")
