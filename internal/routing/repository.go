package routing

// Repository stores routings and their derived publications. The in-memory
// implementation assumes the tenant lock is held by the calling service.
type Repository interface {
	InsertRouting(r SalesRouting)
	ReplaceRouting(r SalesRouting)
	RemoveRouting(id string)
	GetRouting(id string) (SalesRouting, bool)
	RoutingExists(id string) bool
	RoutingForEvent(eventID string) (SalesRouting, bool)
	ListRoutings() []SalesRouting

	InsertPublication(p ProductPublication)
	HasPublication(productID, routingID string) bool
	ListPublications() []ProductPublication
	PublicationsForRouting(routingID string) []ProductPublication
	RemovePublicationsForRouting(routingID string)
}

type memoryRepository struct {
	routings     []SalesRouting
	publications []ProductPublication
}

// NewRepository constructs the in-memory store.
func NewRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) InsertRouting(routing SalesRouting) {
	r.routings = append(r.routings, routing)
}

func (r *memoryRepository) ReplaceRouting(routing SalesRouting) {
	for i := range r.routings {
		if r.routings[i].ID == routing.ID {
			r.routings[i] = routing
			return
		}
	}
}

func (r *memoryRepository) RemoveRouting(id string) {
	kept := r.routings[:0]
	for _, routing := range r.routings {
		if routing.ID != id {
			kept = append(kept, routing)
		}
	}
	r.routings = kept
}

func (r *memoryRepository) GetRouting(id string) (SalesRouting, bool) {
	for _, routing := range r.routings {
		if routing.ID == id {
			return routing, true
		}
	}
	return SalesRouting{}, false
}

func (r *memoryRepository) RoutingExists(id string) bool {
	_, ok := r.GetRouting(id)
	return ok
}

func (r *memoryRepository) RoutingForEvent(eventID string) (SalesRouting, bool) {
	for _, routing := range r.routings {
		if routing.EventID == eventID {
			return routing, true
		}
	}
	return SalesRouting{}, false
}

func (r *memoryRepository) ListRoutings() []SalesRouting {
	out := make([]SalesRouting, len(r.routings))
	copy(out, r.routings)
	return out
}

func (r *memoryRepository) InsertPublication(p ProductPublication) {
	r.publications = append(r.publications, p)
}

func (r *memoryRepository) HasPublication(productID, routingID string) bool {
	for _, p := range r.publications {
		if p.ProductID == productID && p.RoutingID == routingID {
			return true
		}
	}
	return false
}

func (r *memoryRepository) ListPublications() []ProductPublication {
	out := make([]ProductPublication, len(r.publications))
	copy(out, r.publications)
	return out
}

func (r *memoryRepository) PublicationsForRouting(routingID string) []ProductPublication {
	var out []ProductPublication
	for _, p := range r.publications {
		if p.RoutingID == routingID {
			out = append(out, p)
		}
	}
	return out
}

func (r *memoryRepository) RemovePublicationsForRouting(routingID string) {
	kept := r.publications[:0]
	for _, p := range r.publications {
		if p.RoutingID != routingID {
			kept = append(kept, p)
		}
	}
	r.publications = kept
}
