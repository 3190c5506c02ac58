package spots

import (
	"time"

	"github.com/google/uuid"
)

// ParkingSpot is a listed spot on the marketplace. IsAvailable is a
// denormalized view of the booking state kept for cheap listing queries; it
// is only ever written inside the same transaction as the booking write it
// mirrors.
type ParkingSpot struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;index;not null"`
	Latitude    float64   `json:"latitude" gorm:"not null;check:latitude >= -90 AND latitude <= 90"`
	Longitude   float64   `json:"longitude" gorm:"not null;check:longitude >= -180 AND longitude <= 180"`
	HourlyPrice float64   `json:"hourly_price" gorm:"not null;check:hourly_price > 0"`
	SpotType    SpotType  `json:"spot_type" gorm:"type:varchar(20);not null;default:'open'"`
	IsListed    bool      `json:"is_listed" gorm:"not null;default:true"`
	IsAvailable bool      `json:"is_available" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AvailabilitySlot backs a spot's availability flag with the booking that
// occupies it. One row per spot, created together with the spot.
type AvailabilitySlot struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SpotID      uuid.UUID  `json:"spot_id" gorm:"type:uuid;uniqueIndex;not null"`
	IsAvailable bool       `json:"is_available" gorm:"not null;default:true"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty" gorm:"type:uuid"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ParkingSpot) TableName() string {
	return "parking_spots"
}

// TableName specifies the table name for GORM
func (AvailabilitySlot) TableName() string {
	return "availability"
}

type CreateSpotRequest struct {
	Latitude    float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" binding:"min=-180,max=180"`
	HourlyPrice float64 `json:"hourly_price" binding:"required,gt=0"`
	SpotType    string  `json:"spot_type" binding:"required,oneof=covered open garage street"`
	IsListed    *bool   `json:"is_listed"`
}

type UpdateSpotRequest struct {
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	HourlyPrice *float64 `json:"hourly_price" binding:"omitempty,gt=0"`
	SpotType    *string  `json:"spot_type" binding:"omitempty,oneof=covered open garage street"`
	IsListed    *bool    `json:"is_listed"`
}

type SpotResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	HourlyPrice float64   `json:"hourly_price"`
	SpotType    SpotType  `json:"spot_type"`
	IsListed    bool      `json:"is_listed"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	SpotID      string `json:"spot_id"`
	IsAvailable bool   `json:"is_available"`
}

// ToResponse converts a ParkingSpot to its API representation
func (s *ParkingSpot) ToResponse() SpotResponse {
	return SpotResponse{
		ID:          s.ID.String(),
		OwnerID:     s.OwnerID.String(),
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		HourlyPrice: s.HourlyPrice,
		SpotType:    s.SpotType,
		IsListed:    s.IsListed,
		IsAvailable: s.IsAvailable,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
