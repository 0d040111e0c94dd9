package channel

// Type enumerates sales surfaces a product can be sold through.
type Type string

const (
	// TypeBoxOffice is the onsite box office counter.
	TypeBoxOffice Type = "box-office"
	// TypeMarketplace is an online marketplace listing.
	TypeMarketplace Type = "marketplace"
	// TypeWhitelabel is the venue's own whitelabel storefront.
	TypeWhitelabel Type = "whitelabel"
	// TypeOTA is an online travel agency feed.
	TypeOTA Type = "ota"
	// TypeKiosk is a self-service onsite kiosk.
	TypeKiosk Type = "kiosk"
)

// Channel is a sales surface from the reference catalog.
type Channel struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
	Name string `json:"name"`
}

// IsBoxOffice reports whether the channel behaves as the box office.
// The box office is special-cased by behaviour (it sells from the routing's
// whole warehouse set instead of a single mapped warehouse), so callers ask
// this predicate instead of comparing type strings themselves.
func (c Channel) IsBoxOffice() bool {
	return c.Type == TypeBoxOffice
}
