package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure
type Booking struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID        uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	SpotID        uuid.UUID  `json:"spot_id" gorm:"type:uuid;index;not null"`
	ReservedAt    time.Time  `json:"reserved_at" gorm:"not null"`
	DurationHours int        `json:"duration_hours" gorm:"not null;check:duration_hours > 0"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"not null"`
	TotalPrice    float64    `json:"total_price" gorm:"not null"`
	Status        Status     `json:"status" gorm:"type:varchar(20);not null;default:'active';check:status IN ('active', 'cancelled', 'expired', 'completed')"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// BookingWithSpot joins a booking with the display attributes of its spot
// for the my-reservations listing.
type BookingWithSpot struct {
	Booking         `gorm:"embedded"`
	SpotLatitude    float64 `json:"spot_latitude"`
	SpotLongitude   float64 `json:"spot_longitude"`
	SpotHourlyPrice float64 `json:"spot_hourly_price"`
	SpotType        string  `json:"spot_type"`
}

// Helper methods for booking management

func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsExpired() bool {
	return b.Status == StatusExpired
}

// CancellableUntil returns the last instant at which the booking may still
// be cancelled.
func (b *Booking) CancellableUntil(window time.Duration) time.Time {
	return b.ReservedAt.Add(window)
}

// WithinCancelWindow reports whether now is still inside the cancellation
// window. The boundary is inclusive: a cancel at exactly reserved_at+window
// succeeds.
func (b *Booking) WithinCancelWindow(now time.Time, window time.Duration) bool {
	return !now.After(b.CancellableUntil(window))
}
