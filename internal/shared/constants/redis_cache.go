package constants

import "time"

// Cache key prefixes
const (
	CACHE_KEY_SEAT_MAP    = "seatgrid:seat_map:"    // + event_seating_id
	CACHE_KEY_LAYOUT      = "seatgrid:layout:"      // + layout_id
	CACHE_KEY_PRICE_TIERS = "seatgrid:price_tiers:" // + tenant_id
)

// Cache TTLs
const (
	TTL_SEAT_MAP    = 15 * time.Second
	TTL_LAYOUT      = 10 * time.Minute
	TTL_PRICE_TIERS = 5 * time.Minute
)

// BuildSeatMapKey builds the cache key for a snapshot's seat map
func BuildSeatMapKey(eventSeatingID string) string {
	return CACHE_KEY_SEAT_MAP + eventSeatingID
}

// BuildLayoutKey builds the cache key for a layout template
func BuildLayoutKey(layoutID string) string {
	return CACHE_KEY_LAYOUT + layoutID
}
