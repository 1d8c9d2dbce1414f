package redisx

import "time"

const (
	// Realtime fan-out channel per hostel vendor: orders:vendor:{vendor_id}
	KeyVendorChannel = "orders:vendor:%s"

	// Cached room views per hostel: room_views:{seller_id} -> JSON array
	KeyRoomViews = "room_views:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	// Short on purpose: the cache only smooths bursts, realtime invalidation
	// does the real work.
	TTLRoomViews = 5 * time.Second
	TTLDedup     = 48 * time.Hour
)
