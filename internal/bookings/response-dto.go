package bookings

import "time"

// ReserveResponse is returned on a successful reserve
type ReserveResponse struct {
	BookingID     string    `json:"booking_id"`
	SpotID        string    `json:"spot_id"`
	Status        Status    `json:"status"`
	DurationHours int       `json:"duration_hours"`
	TotalPrice    float64   `json:"total_price"`
	ReservedAt    time.Time `json:"reserved_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CancelResponse reports the outcome of a cancel call. CanCancel is false on
// every failure path so the client can disable the action outright.
type CancelResponse struct {
	BookingID   string     `json:"booking_id"`
	Status      Status     `json:"status"`
	CanCancel   bool       `json:"can_cancel"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// ReservationResponse is one row of the my-reservations listing
type ReservationResponse struct {
	BookingID     string     `json:"booking_id"`
	SpotID        string     `json:"spot_id"`
	Status        Status     `json:"status"`
	DurationHours int        `json:"duration_hours"`
	TotalPrice    float64    `json:"total_price"`
	ReservedAt    time.Time  `json:"reserved_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	Spot          SpotInfo   `json:"spot"`
}

// SpotInfo carries the spot display attributes joined into a reservation row
type SpotInfo struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HourlyPrice float64 `json:"hourly_price"`
	SpotType    string  `json:"spot_type"`
}

// ToReservationResponse converts a joined row to its API representation
func (b *BookingWithSpot) ToReservationResponse() ReservationResponse {
	return ReservationResponse{
		BookingID:     b.ID.String(),
		SpotID:        b.SpotID.String(),
		Status:        b.Status,
		DurationHours: b.DurationHours,
		TotalPrice:    b.TotalPrice,
		ReservedAt:    b.ReservedAt,
		ExpiresAt:     b.ExpiresAt,
		CancelledAt:   b.CancelledAt,
		Spot: SpotInfo{
			Latitude:    b.SpotLatitude,
			Longitude:   b.SpotLongitude,
			HourlyPrice: b.SpotHourlyPrice,
			SpotType:    b.SpotType,
		},
	}
}
