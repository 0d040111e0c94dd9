package visibility

// Repository stores visibility override records, unique per
// (product, channel, routing) triple. The in-memory implementation assumes
// the tenant lock is held by the calling service.
type Repository interface {
	SetRecord(productID, channelID, routingID string, visible bool)
	GetRecord(productID, channelID, routingID string) (ProductChannelVisibility, bool)
	ListRecords() []ProductChannelVisibility
	RemoveForRouting(routingID string)
}

type memoryRepository struct {
	records []ProductChannelVisibility
	index   map[string]int
}

// NewRepository constructs the in-memory store.
func NewRepository() Repository {
	return &memoryRepository{index: make(map[string]int)}
}

func recordKey(productID, channelID, routingID string) string {
	return productID + "\x00" + channelID + "\x00" + routingID
}

func (r *memoryRepository) SetRecord(productID, channelID, routingID string, visible bool) {
	key := recordKey(productID, channelID, routingID)
	record := ProductChannelVisibility{
		ProductID: productID,
		ChannelID: channelID,
		RoutingID: routingID,
		Visible:   visible,
	}
	if idx, ok := r.index[key]; ok {
		r.records[idx] = record
		return
	}
	r.index[key] = len(r.records)
	r.records = append(r.records, record)
}

func (r *memoryRepository) GetRecord(productID, channelID, routingID string) (ProductChannelVisibility, bool) {
	idx, ok := r.index[recordKey(productID, channelID, routingID)]
	if !ok {
		return ProductChannelVisibility{}, false
	}
	return r.records[idx], true
}

func (r *memoryRepository) ListRecords() []ProductChannelVisibility {
	out := make([]ProductChannelVisibility, len(r.records))
	copy(out, r.records)
	return out
}

func (r *memoryRepository) RemoveForRouting(routingID string) {
	kept := r.records[:0]
	for _, record := range r.records {
		if record.RoutingID != routingID {
			kept = append(kept, record)
		}
	}
	r.records = kept
	r.index = make(map[string]int, len(r.records))
	for i, record := range r.records {
		r.index[recordKey(record.ProductID, record.ChannelID, record.RoutingID)] = i
	}
}
