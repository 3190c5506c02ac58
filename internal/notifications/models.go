package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a booking lifecycle transition
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
)

// BookingEvent is the message published to the booking-events topic for
// downstream consumers (review subsystem, owner dashboards). The ledger
// never depends on delivery.
type BookingEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	SpotID     uuid.UUID `json:"spot_id"`
	UserID     uuid.UUID `json:"user_id"`
	TotalPrice float64   `json:"total_price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBookingEvent builds an event envelope for a lifecycle transition
func NewBookingEvent(eventType EventType, bookingID, spotID, userID uuid.UUID, totalPrice float64) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		SpotID:     spotID,
		UserID:     userID,
		TotalPrice: totalPrice,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey routes all events of one spot to the same partition so
// consumers observe that spot's transitions in order.
func (e *BookingEvent) GetPartitionKey() string {
	return e.SpotID.String()
}
