package main

import (
	"fmt"
	"log"
	"time"

	"parkly/internal/bookings"
	"parkly/internal/shared/config"
	"parkly/internal/shared/database"
	"parkly/internal/spots"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Parkly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"availability",
		"parking_spots",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds spots, availability slots, and a handful of bookings in
// representative lifecycle states.
func (s *Seeder) SeedAll() error {
	ownerIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	driverIDs := []uuid.UUID{uuid.New(), uuid.New()}

	spotIDs, err := s.SeedSpots(ownerIDs)
	if err != nil {
		return fmt.Errorf("failed to seed spots: %w", err)
	}

	if err := s.SeedBookings(spotIDs, driverIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	return nil
}

// SeedSpots creates a spread of spots around the city center, each with its
// availability slot.
func (s *Seeder) SeedSpots(ownerIDs []uuid.UUID) ([]uuid.UUID, error) {
	type seedSpot struct {
		lat, lng float64
		price    float64
		spotType spots.SpotType
		listed   bool
	}

	seeds := []seedSpot{
		{40.7580, -73.9855, 12.50, spots.TypeGarage, true},
		{40.7614, -73.9776, 8.00, spots.TypeCovered, true},
		{40.7488, -73.9857, 5.50, spots.TypeStreet, true},
		{40.7527, -73.9772, 15.00, spots.TypeGarage, true},
		{40.7425, -74.0060, 6.75, spots.TypeOpen, true},
		{40.7061, -74.0087, 10.25, spots.TypeCovered, true},
		{40.7306, -73.9866, 4.00, spots.TypeStreet, false},
		{40.7711, -73.9741, 9.50, spots.TypeOpen, true},
	}

	spotIDs := make([]uuid.UUID, 0, len(seeds))

	for i, seed := range seeds {
		spot := &spots.ParkingSpot{
			ID:          uuid.New(),
			OwnerID:     ownerIDs[i%len(ownerIDs)],
			Latitude:    seed.lat,
			Longitude:   seed.lng,
			HourlyPrice: seed.price,
			SpotType:    seed.spotType,
			IsListed:    seed.listed,
			IsAvailable: true,
		}

		if err := s.db.PostgreSQL.Create(spot).Error; err != nil {
			return nil, fmt.Errorf("failed to create spot %d: %w", i, err)
		}

		slot := &spots.AvailabilitySlot{
			ID:          uuid.New(),
			SpotID:      spot.ID,
			IsAvailable: true,
		}
		if err := s.db.PostgreSQL.Create(slot).Error; err != nil {
			return nil, fmt.Errorf("failed to create availability slot %d: %w", i, err)
		}

		fmt.Printf("  Created %s spot at (%.4f, %.4f) $%.2f/hr\n", seed.spotType, seed.lat, seed.lng, seed.price)
		spotIDs = append(spotIDs, spot.ID)
	}

	return spotIDs, nil
}

// SeedBookings creates one active booking, one already past its expiry for
// the sweeper to pick up, and one cancelled.
func (s *Seeder) SeedBookings(spotIDs []uuid.UUID, driverIDs []uuid.UUID) error {
	if len(spotIDs) < 3 || len(driverIDs) < 2 {
		return fmt.Errorf("not enough seed spots or drivers")
	}

	now := time.Now().UTC()

	active := &bookings.Booking{
		ID:            uuid.New(),
		UserID:        driverIDs[0],
		SpotID:        spotIDs[0],
		ReservedAt:    now,
		DurationHours: 3,
		ExpiresAt:     now.Add(3 * time.Hour),
		TotalPrice:    37.50,
		Status:        bookings.StatusActive,
	}
	if err := s.createBooking(active, false); err != nil {
		return err
	}

	staleStart := now.Add(-3 * time.Hour)
	stale := &bookings.Booking{
		ID:            uuid.New(),
		UserID:        driverIDs[1],
		SpotID:        spotIDs[1],
		ReservedAt:    staleStart,
		DurationHours: 2,
		ExpiresAt:     staleStart.Add(2 * time.Hour),
		TotalPrice:    16.00,
		Status:        bookings.StatusActive,
	}
	if err := s.createBooking(stale, false); err != nil {
		return err
	}

	cancelledStart := now.Add(-1 * time.Hour)
	cancelledAt := cancelledStart.Add(2 * time.Minute)
	cancelled := &bookings.Booking{
		ID:            uuid.New(),
		UserID:        driverIDs[0],
		SpotID:        spotIDs[2],
		ReservedAt:    cancelledStart,
		DurationHours: 4,
		ExpiresAt:     cancelledStart.Add(4 * time.Hour),
		TotalPrice:    22.00,
		Status:        bookings.StatusCancelled,
		CancelledAt:   &cancelledAt,
	}
	if err := s.createBooking(cancelled, true); err != nil {
		return err
	}

	fmt.Printf("  Created %d bookings (active, stale, cancelled)\n", 3)
	return nil
}

// createBooking inserts the booking and, for non-terminal states, marks the
// spot occupied the same way the ledger does.
func (s *Seeder) createBooking(b *bookings.Booking, terminal bool) error {
	if err := s.db.PostgreSQL.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if terminal {
		return nil
	}

	if err := s.db.PostgreSQL.Model(&spots.AvailabilitySlot{}).
		Where("spot_id = ?", b.SpotID).
		Updates(map[string]interface{}{
			"is_available": false,
			"booking_id":   b.ID,
		}).Error; err != nil {
		return fmt.Errorf("failed to occupy availability slot: %w", err)
	}

	if err := s.db.PostgreSQL.Model(&spots.ParkingSpot{}).
		Where("id = ?", b.SpotID).
		Update("is_available", false).Error; err != nil {
		return fmt.Errorf("failed to flag spot unavailable: %w", err)
	}

	return nil
}
