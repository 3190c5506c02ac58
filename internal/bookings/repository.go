package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkly/internal/spots"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// ReserveSpot creates an active booking for the spot as one atomic unit
	// of work: availability check, booking insert and flag flip commit or
	// roll back together.
	ReserveSpot(ctx context.Context, userID, spotID uuid.UUID, durationHours int) (*Booking, error)

	// CancelActive cancels the caller's active booking if the cancellation
	// window, evaluated against store time, has not passed.
	CancelActive(ctx context.Context, bookingID, userID uuid.UUID, window time.Duration) (*Booking, error)

	// ExpireDue transitions every active booking past its expiry to expired
	// and releases the affected spots. Idempotent; returns the bookings
	// transitioned by this call.
	ExpireDue(ctx context.Context) ([]Booking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingWithSpot, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReserveSpot(ctx context.Context, userID, spotID uuid.UUID, durationHours int) (*Booking, error) {
	var booking *Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the spot row so concurrent reserves on the same spot
		// serialize here.
		var spot spots.ParkingSpot
		err := lockForUpdate(tx).
			Where("id = ?", spotID).
			First(&spot).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return fmt.Errorf("failed to lock spot: %w", err)
		}

		if !spot.IsListed {
			return ErrSpotNotListed
		}

		var activeCount int64
		err = tx.Model(&Booking{}).
			Where("spot_id = ? AND status = ?", spotID, StatusActive).
			Count(&activeCount).Error
		if err != nil {
			return fmt.Errorf("failed to count active bookings: %w", err)
		}
		if activeCount > 0 {
			return ErrSpotUnavailable
		}

		now, err := storeNow(tx)
		if err != nil {
			return err
		}

		b := &Booking{
			UserID:        userID,
			SpotID:        spotID,
			ReservedAt:    now,
			DurationHours: durationHours,
			ExpiresAt:     now.Add(time.Duration(durationHours) * time.Hour),
			TotalPrice:    spot.HourlyPrice * float64(durationHours),
			Status:        StatusActive,
		}
		if err := tx.Create(b).Error; err != nil {
			// The partial unique index rejects a second active booking if
			// another transaction committed between our count and this
			// insert; surface that as a conflict, not an internal error.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSpotUnavailable
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// Conditional flip keyed on the prior state. Zero rows affected
		// means the slot was taken despite the lock, so the whole unit
		// rolls back rather than double-booking.
		res := tx.Model(&spots.AvailabilitySlot{}).
			Where("spot_id = ? AND is_available = ?", spotID, true).
			Updates(map[string]interface{}{
				"is_available": false,
				"booking_id":   b.ID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to flip availability: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrSpotUnavailable
		}

		err = tx.Model(&spots.ParkingSpot{}).
			Where("id = ?", spotID).
			Update("is_available", false).Error
		if err != nil {
			return fmt.Errorf("failed to update spot flag: %w", err)
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *repository) CancelActive(ctx context.Context, bookingID, userID uuid.UUID, window time.Duration) (*Booking, error) {
	var cancelled *Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booking
		err := lockForUpdate(tx).
			Where("id = ?", bookingID).
			First(&b).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if b.UserID != userID {
			return ErrNotOwner
		}

		switch b.Status {
		case StatusActive:
			// proceed
		case StatusCancelled:
			return ErrAlreadyCancelled
		default:
			return ErrAlreadyExpired
		}

		// Wall-clock from the store, not the caller.
		now, err := storeNow(tx)
		if err != nil {
			return err
		}
		if !b.WithinCancelWindow(now, window) {
			return ErrWindowExpired
		}

		res := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", bookingID, StatusActive).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to cancel booking: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrAlreadyCancelled
		}

		if err := restoreSpotAvailability(tx, b.SpotID); err != nil {
			return err
		}

		b.Status = StatusCancelled
		b.CancelledAt = &now
		cancelled = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

func (r *repository) ExpireDue(ctx context.Context) ([]Booking, error) {
	var expired []Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []Booking
		err := lockForUpdate(tx).
			Where("status = ? AND expires_at <= NOW()", StatusActive).
			Find(&due).Error
		if err != nil {
			return fmt.Errorf("failed to select due bookings: %w", err)
		}

		for i := range due {
			// Conditional on status so a booking cancelled in the same
			// instant is never resurrected as expired.
			res := tx.Model(&Booking{}).
				Where("id = ? AND status = ?", due[i].ID, StatusActive).
				Update("status", StatusExpired)
			if res.Error != nil {
				return fmt.Errorf("failed to expire booking %s: %w", due[i].ID, res.Error)
			}
			if res.RowsAffected != 1 {
				continue
			}

			if err := restoreSpotAvailability(tx, due[i].SpotID); err != nil {
				return err
			}
			due[i].Status = StatusExpired
			expired = append(expired, due[i])
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingWithSpot, error) {
	var rows []BookingWithSpot
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, " +
			"parking_spots.latitude AS spot_latitude, " +
			"parking_spots.longitude AS spot_longitude, " +
			"parking_spots.hourly_price AS spot_hourly_price, " +
			"parking_spots.spot_type AS spot_type").
		Joins("JOIN parking_spots ON parking_spots.id = bookings.spot_id").
		Where("bookings.user_id = ?", userID).
		Order("bookings.reserved_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return rows, nil
}

// restoreSpotAvailability re-opens a spot after a booking leaves the active
// state, but only when no other active booking still references it (multi
// slot models keep the spot closed until the last one clears).
func restoreSpotAvailability(tx *gorm.DB, spotID uuid.UUID) error {
	var activeCount int64
	err := tx.Model(&Booking{}).
		Where("spot_id = ? AND status = ?", spotID, StatusActive).
		Count(&activeCount).Error
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if activeCount > 0 {
		return nil
	}

	err = tx.Model(&spots.AvailabilitySlot{}).
		Where("spot_id = ?", spotID).
		Updates(map[string]interface{}{
			"is_available": true,
			"booking_id":   nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to restore availability: %w", err)
	}

	err = tx.Model(&spots.ParkingSpot{}).
		Where("id = ?", spotID).
		Update("is_available", true).Error
	if err != nil {
		return fmt.Errorf("failed to restore spot flag: %w", err)
	}

	return nil
}

// lockForUpdate adds SELECT ... FOR UPDATE so concurrent transactions
// touching the same rows serialize on the row lock.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// storeNow reads wall-clock time from the store so the ledger never trusts
// caller clocks.
func storeNow(tx *gorm.DB) (time.Time, error) {
	var now time.Time
	if err := tx.Raw("SELECT NOW()").Scan(&now).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to read store time: %w", err)
	}
	return now.UTC(), nil
}
