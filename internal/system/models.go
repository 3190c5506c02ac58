package system

import "time"

// Stats is a point-in-time snapshot of the marketplace.
//
// ReservedSpots counts spots with an active booking; UnavailableSpots counts
// spots owners have unlisted. A spot is in exactly one of the three buckets.
type Stats struct {
	TotalSpots       int64     `json:"total_spots"`
	AvailableSpots   int64     `json:"available_spots"`
	ReservedSpots    int64     `json:"reserved_spots"`
	UnavailableSpots int64     `json:"unavailable_spots"`
	TotalBookings    int64     `json:"total_bookings"`
	ActiveBookings   int64     `json:"active_bookings"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// RefreshResult reports the outcome of an on-demand expiry sweep
type RefreshResult struct {
	ExpiredBookings int `json:"expired_bookings"`
}
