package spots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, spot *ParkingSpot) error
	GetByID(ctx context.Context, id uuid.UUID) (*ParkingSpot, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*ParkingSpot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAvailable(ctx context.Context) ([]ParkingSpot, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ParkingSpot, error)
	CountActiveBookings(ctx context.Context, spotID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts the spot together with its availability row so the two can
// never disagree from the start.
func (r *repository) Create(ctx context.Context, spot *ParkingSpot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(spot).Error; err != nil {
			return fmt.Errorf("failed to create spot: %w", err)
		}

		slot := &AvailabilitySlot{
			SpotID:      spot.ID,
			IsAvailable: true,
		}
		if err := tx.Create(slot).Error; err != nil {
			return fmt.Errorf("failed to create availability row: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*ParkingSpot, error) {
	var spot ParkingSpot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return &spot, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*ParkingSpot, error) {
	var spot ParkingSpot

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&spot).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error; err != nil {
		return nil, err
	}

	return &spot, nil
}

// Delete removes a spot and its availability row. It refuses while an active
// booking references the spot; the row lock keeps a concurrent reserve from
// slipping in between the check and the delete.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot ParkingSpot
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&spot).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSpotNotFound
			}
			return fmt.Errorf("failed to lock spot: %w", err)
		}

		var activeCount int64
		err = tx.Table("bookings").
			Where("spot_id = ? AND status = ?", id, "active").
			Count(&activeCount).Error
		if err != nil {
			return fmt.Errorf("failed to count active bookings: %w", err)
		}
		if activeCount > 0 {
			return ErrActiveBookingExists
		}

		if err := tx.Where("spot_id = ?", id).Delete(&AvailabilitySlot{}).Error; err != nil {
			return fmt.Errorf("failed to delete availability row: %w", err)
		}

		if err := tx.Where("id = ?", id).Delete(&ParkingSpot{}).Error; err != nil {
			return fmt.Errorf("failed to delete spot: %w", err)
		}

		return nil
	})
}

func (r *repository) ListAvailable(ctx context.Context) ([]ParkingSpot, error) {
	var results []ParkingSpot
	err := r.db.WithContext(ctx).
		Where("is_available = ? AND is_listed = ?", true, true).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ParkingSpot, error) {
	var results []ParkingSpot
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

// CountActiveBookings is the source of truth for availability: the stored
// flag is a cache of "this count is zero".
func (r *repository) CountActiveBookings(ctx context.Context, spotID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("bookings").
		Where("spot_id = ? AND status = ?", spotID, "active").
		Count(&count).Error
	return count, err
}
