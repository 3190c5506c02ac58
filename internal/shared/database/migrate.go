package database

import (
	"parkly/internal/bookings"
	"parkly/internal/spots"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() defaults on the models need this extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&spots.ParkingSpot{},
		&spots.AvailabilitySlot{},
		&bookings.Booking{},
	)
}
