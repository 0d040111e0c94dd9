package channel

// Well-known channel ids from the reference catalog.
const (
	BoxOfficeID   = "ch-boxoffice"
	MarketplaceID = "ch-mkt"
	WhitelabelID  = "ch-whitelabel"
	OTAID         = "ch-ota"
	KioskID       = "ch-kiosk"
)

// Catalog is the immutable channel reference data. It is seeded once at
// startup and safe for concurrent reads without the tenant lock.
type Catalog struct {
	byID  map[string]Channel
	order []string
}

// NewCatalog builds a catalog from the given channels.
func NewCatalog(channels []Channel) *Catalog {
	c := &Catalog{byID: make(map[string]Channel, len(channels))}
	for _, ch := range channels {
		if _, ok := c.byID[ch.ID]; ok {
			continue
		}
		c.byID[ch.ID] = ch
		c.order = append(c.order, ch.ID)
	}
	return c
}

// DefaultCatalog returns the demo reference channels.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Channel{
		{ID: BoxOfficeID, Type: TypeBoxOffice, Name: "Box Office"},
		{ID: MarketplaceID, Type: TypeMarketplace, Name: "Marketplace"},
		{ID: WhitelabelID, Type: TypeWhitelabel, Name: "Whitelabel Store"},
		{ID: OTAID, Type: TypeOTA, Name: "OTA Feed"},
		{ID: KioskID, Type: TypeKiosk, Name: "Kiosk"},
	})
}

// Get looks up a channel by id.
func (c *Catalog) Get(id string) (Channel, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Exists reports whether the id is in the catalog.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IsBoxOffice reports whether the id names the box office channel.
// Unknown ids are never the box office.
func (c *Catalog) IsBoxOffice(id string) bool {
	ch, ok := c.byID[id]
	return ok && ch.IsBoxOffice()
}

// List returns the channels in seed order.
func (c *Catalog) List() []Channel {
	out := make([]Channel, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
