package spots

import (
	"context"
	"fmt"
	"time"

	"parkly/pkg/cache"

	"github.com/google/uuid"
)

const (
	availableSpotsCacheKey = "parkly:spots:available"
)

// Service interface defines the contract for spot registry business logic
type Service interface {
	CreateSpot(ctx context.Context, ownerID uuid.UUID, req CreateSpotRequest) (*ParkingSpot, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*ParkingSpot, error)
	UpdateSpot(ctx context.Context, id, ownerID uuid.UUID, req UpdateSpotRequest) (*ParkingSpot, error)
	DeleteSpot(ctx context.Context, id, ownerID uuid.UUID) error
	ListAvailableSpots(ctx context.Context) ([]SpotResponse, error)
	ListOwnerSpots(ctx context.Context, ownerID uuid.UUID) ([]SpotResponse, error)

	// GetAvailability derives availability from booking state rather than
	// trusting the stored flag.
	GetAvailability(ctx context.Context, spotID uuid.UUID) (bool, error)

	// InvalidateListingCache drops the cached available-spot listing. Called
	// by the booking ledger after any transition that changes availability.
	InvalidateListingCache(ctx context.Context)
}

type service struct {
	repo    Repository
	cache   cache.Service
	listTTL time.Duration
}

// NewService creates a new spot registry service instance. cacheService may
// be nil, in which case listings are always read from the store.
func NewService(repo Repository, cacheService cache.Service, listTTL time.Duration) Service {
	if listTTL <= 0 {
		listTTL = 30 * time.Second
	}
	return &service{
		repo:    repo,
		cache:   cacheService,
		listTTL: listTTL,
	}
}

func (s *service) CreateSpot(ctx context.Context, ownerID uuid.UUID, req CreateSpotRequest) (*ParkingSpot, error) {
	spotType := SpotType(req.SpotType)
	if !spotType.IsValid() {
		return nil, fmt.Errorf("invalid spot type: %s", req.SpotType)
	}

	listed := true
	if req.IsListed != nil {
		listed = *req.IsListed
	}

	spot := &ParkingSpot{
		OwnerID:     ownerID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		HourlyPrice: req.HourlyPrice,
		SpotType:    spotType,
		IsListed:    listed,
		IsAvailable: true,
	}

	if err := s.repo.Create(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to create spot: %w", err)
	}

	s.InvalidateListingCache(ctx)
	return spot, nil
}

func (s *service) GetSpot(ctx context.Context, id uuid.UUID) (*ParkingSpot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateSpot(ctx context.Context, id, ownerID uuid.UUID, req UpdateSpotRequest) (*ParkingSpot, error) {
	spot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	updates := make(map[string]interface{})
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.HourlyPrice != nil {
		updates["hourly_price"] = *req.HourlyPrice
	}
	if req.SpotType != nil {
		spotType := SpotType(*req.SpotType)
		if !spotType.IsValid() {
			return nil, fmt.Errorf("invalid spot type: %s", *req.SpotType)
		}
		updates["spot_type"] = spotType
	}
	if req.IsListed != nil {
		updates["is_listed"] = *req.IsListed
	}

	if len(updates) == 0 {
		return spot, nil
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update spot: %w", err)
	}

	s.InvalidateListingCache(ctx)
	return updated, nil
}

func (s *service) DeleteSpot(ctx context.Context, id, ownerID uuid.UUID) error {
	spot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if spot.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.InvalidateListingCache(ctx)
	return nil
}

func (s *service) ListAvailableSpots(ctx context.Context) ([]SpotResponse, error) {
	if s.cache != nil {
		var cached []SpotResponse
		if err := s.cache.Get(ctx, availableSpotsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	spots, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available spots: %w", err)
	}

	responses := make([]SpotResponse, len(spots))
	for i := range spots {
		responses[i] = spots[i].ToResponse()
	}

	if s.cache != nil {
		s.cache.SetAsync(ctx, availableSpotsCacheKey, responses, s.listTTL)
	}

	return responses, nil
}

func (s *service) ListOwnerSpots(ctx context.Context, ownerID uuid.UUID) ([]SpotResponse, error) {
	spots, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner spots: %w", err)
	}

	responses := make([]SpotResponse, len(spots))
	for i := range spots {
		responses[i] = spots[i].ToResponse()
	}
	return responses, nil
}

func (s *service) GetAvailability(ctx context.Context, spotID uuid.UUID) (bool, error) {
	if _, err := s.repo.GetByID(ctx, spotID); err != nil {
		return false, err
	}

	count, err := s.repo.CountActiveBookings(ctx, spotID)
	if err != nil {
		return false, fmt.Errorf("failed to derive availability: %w", err)
	}
	return count == 0, nil
}

func (s *service) InvalidateListingCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availableSpotsCacheKey); err != nil {
		// Stale listings self-correct at TTL expiry.
		return
	}
}
