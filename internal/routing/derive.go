package routing

// RelevantWarehouseIDs computes the warehouse set a routing actually sells
// from: every distinct non-empty channel-mapping value, plus the routing's
// whole warehouse set when its channels include the box office. A product
// with a stock fact in any of these warehouses is publishable under the
// routing.
func RelevantWarehouseIDs(r SalesRouting, isBoxOffice func(string) bool) map[string]struct{} {
	relevant := make(map[string]struct{})
	for _, warehouseID := range r.ChannelWarehouseMapping {
		if warehouseID != "" {
			relevant[warehouseID] = struct{}{}
		}
	}
	for _, channelID := range r.ChannelIDs {
		if isBoxOffice(channelID) {
			for _, warehouseID := range r.WarehouseIDs {
				relevant[warehouseID] = struct{}{}
			}
			break
		}
	}
	return relevant
}
