package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// At most one active booking may exist per spot. The application enforces
	// this inside transactions; the partial unique index is the backstop that
	// makes a violating insert fail outright.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_spot
		ON bookings (spot_id)
		WHERE status = 'active';
	`).Error
	if err != nil {
		return err
	}

	// One availability row per spot.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_availability_spot
		ON availability (spot_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for the sweeper's due-booking scan.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_status_expires_at
		ON bookings (status, expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Index for my-reservations listing, newest first.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_reserved_at
		ON bookings (user_id, reserved_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
