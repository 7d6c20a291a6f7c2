package redisx

import "time"

const (
	// Durable slot per device: market:device:{device_id}:{slot}
	KeyDeviceSlot = "market:device:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)
