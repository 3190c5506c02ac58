package bookings

import (
	"context"

	"parkly/internal/notifications"
	"parkly/internal/shared/config"
	"parkly/pkg/logger"

	"github.com/google/uuid"
)

// SpotCache is the slice of the spot registry the ledger needs: dropping the
// cached listing after any transition that changes availability.
type SpotCache interface {
	InvalidateListingCache(ctx context.Context)
}

// Service interface defines the contract for booking ledger business logic
type Service interface {
	Reserve(ctx context.Context, userID, spotID uuid.UUID, req ReserveRequest) (*ReserveResponse, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*CancelResponse, error)
	ListMyReservations(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// SweepExpired runs one expiry pass and returns the number of bookings
	// transitioned. Safe to call concurrently with Reserve and Cancel.
	SweepExpired(ctx context.Context) (int, error)
}

// service implements the Service interface
type service struct {
	repo      Repository
	policy    config.BookingConfig
	spotCache SpotCache
	producer  notifications.Producer
	log       *logger.Logger
}

// NewService creates a new booking ledger service instance. spotCache and
// producer may be nil.
func NewService(repo Repository, policy config.BookingConfig, spotCache SpotCache, producer notifications.Producer) Service {
	return &service{
		repo:      repo,
		policy:    policy,
		spotCache: spotCache,
		producer:  producer,
		log:       logger.GetDefault(),
	}
}

func (s *service) Reserve(ctx context.Context, userID, spotID uuid.UUID, req ReserveRequest) (*ReserveResponse, error) {
	if req.DurationHours < s.policy.MinDurationHours || req.DurationHours > s.policy.MaxDurationHours {
		return nil, ErrInvalidDuration
	}

	booking, err := s.repo.ReserveSpot(ctx, userID, spotID, req.DurationHours)
	if err != nil {
		return nil, err
	}

	s.invalidateSpotCache(ctx)
	s.publishEvent(ctx, notifications.EventBookingCreated, booking)
	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.SpotID.String(), booking.UserID.String())

	return &ReserveResponse{
		BookingID:     booking.ID.String(),
		SpotID:        booking.SpotID.String(),
		Status:        booking.Status,
		DurationHours: booking.DurationHours,
		TotalPrice:    booking.TotalPrice,
		ReservedAt:    booking.ReservedAt,
		ExpiresAt:     booking.ExpiresAt,
	}, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*CancelResponse, error) {
	booking, err := s.repo.CancelActive(ctx, bookingID, userID, s.policy.CancelWindow)
	if err != nil {
		return nil, err
	}

	s.invalidateSpotCache(ctx)
	s.publishEvent(ctx, notifications.EventBookingCancelled, booking)
	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.SpotID.String(), booking.UserID.String())

	return &CancelResponse{
		BookingID:   booking.ID.String(),
		Status:      booking.Status,
		CanCancel:   true,
		CancelledAt: booking.CancelledAt,
	}, nil
}

func (s *service) ListMyReservations(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReservationResponse, len(rows))
	for i := range rows {
		responses[i] = rows[i].ToReservationResponse()
	}
	return responses, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

func (s *service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireDue(ctx)
	if err != nil {
		return 0, err
	}

	if len(expired) > 0 {
		s.invalidateSpotCache(ctx)
		for i := range expired {
			s.publishEvent(ctx, notifications.EventBookingExpired, &expired[i])
		}
		s.log.LogSweepCompleted(ctx, len(expired))
	}
	return len(expired), nil
}

func (s *service) invalidateSpotCache(ctx context.Context) {
	if s.spotCache != nil {
		s.spotCache.InvalidateListingCache(ctx)
	}
}

// publishEvent emits a lifecycle event; delivery failures are logged and
// never fail the request.
func (s *service) publishEvent(ctx context.Context, eventType notifications.EventType, booking *Booking) {
	if s.producer == nil {
		return
	}

	event := notifications.NewBookingEvent(eventType, booking.ID, booking.SpotID, booking.UserID, booking.TotalPrice)
	if err := s.producer.PublishBookingEvent(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"event_type": string(eventType),
			"booking_id": booking.ID.String(),
		})
	}
}
