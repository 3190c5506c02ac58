package system

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository defines the system stats repository interface
type Repository interface {
	GetStats(ctx context.Context) (*Stats, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new system repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{GeneratedAt: time.Now().UTC()}
	db := r.db.WithContext(ctx)

	if err := db.Table("parking_spots").Count(&stats.TotalSpots).Error; err != nil {
		return nil, fmt.Errorf("failed to count spots: %w", err)
	}

	if err := db.Table("parking_spots").
		Where("is_listed = ? AND is_available = ?", true, true).
		Count(&stats.AvailableSpots).Error; err != nil {
		return nil, fmt.Errorf("failed to count available spots: %w", err)
	}

	if err := db.Table("bookings").
		Where("status = ?", "active").
		Distinct("spot_id").
		Count(&stats.ReservedSpots).Error; err != nil {
		return nil, fmt.Errorf("failed to count reserved spots: %w", err)
	}

	stats.UnavailableSpots = stats.TotalSpots - stats.AvailableSpots - stats.ReservedSpots
	if stats.UnavailableSpots < 0 {
		stats.UnavailableSpots = 0
	}

	if err := db.Table("bookings").Count(&stats.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	if err := db.Table("bookings").
		Where("status = ?", "active").
		Count(&stats.ActiveBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count active bookings: %w", err)
	}

	return stats, nil
}
