package system

import (
	"context"
	"fmt"
	"time"

	"parkly/internal/bookings"
	"parkly/pkg/cache"
)

const statsCacheKey = "parkly:system:stats"

// Service defines the operational surface: on-demand expiry sweeps and
// marketplace stats.
type Service interface {
	RefreshAvailability(ctx context.Context) (*RefreshResult, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// service implements the Service interface
type service struct {
	repo     Repository
	ledger   bookings.Service
	cache    cache.Service
	statsTTL time.Duration
}

// NewService creates a new system service instance. cacheService may be nil.
func NewService(repo Repository, ledger bookings.Service, cacheService cache.Service, statsTTL time.Duration) Service {
	if statsTTL <= 0 {
		statsTTL = 15 * time.Second
	}
	return &service{
		repo:     repo,
		ledger:   ledger,
		cache:    cacheService,
		statsTTL: statsTTL,
	}
}

// RefreshAvailability runs one expiry sweep immediately instead of waiting
// for the scheduler. Concurrent calls are safe; each expired booking is
// counted by exactly one of them.
func (s *service) RefreshAvailability(ctx context.Context) (*RefreshResult, error) {
	expired, err := s.ledger.SweepExpired(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep expired bookings: %w", err)
	}

	if expired > 0 && s.cache != nil {
		_ = s.cache.Delete(ctx, statsCacheKey)
	}

	return &RefreshResult{ExpiredBookings: expired}, nil
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.cache == nil {
		stats, err := s.repo.GetStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get marketplace stats: %w", err)
		}
		return stats, nil
	}

	var stats Stats
	err := s.cache.GetOrSet(ctx, statsCacheKey, s.statsTTL, func() (interface{}, error) {
		return s.repo.GetStats(ctx)
	}, &stats)
	if err != nil {
		return nil, fmt.Errorf("failed to get marketplace stats: %w", err)
	}
	return &stats, nil
}
