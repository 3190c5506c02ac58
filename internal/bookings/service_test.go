package bookings

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"parkly/internal/notifications"
	"parkly/internal/shared/config"

	"github.com/google/uuid"
)

// fakeSpot is the slice of spot state the in-memory repository needs.
type fakeSpot struct {
	listed      bool
	hourlyPrice float64
}

// fakeRepo is an in-memory Repository with the same transition semantics as
// the SQL implementation. The clock is injectable so window and expiry
// boundaries can be tested exactly.
type fakeRepo struct {
	mu       sync.Mutex
	now      func() time.Time
	spots    map[uuid.UUID]fakeSpot
	bookings map[uuid.UUID]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		now:      func() time.Time { return time.Now().UTC() },
		spots:    make(map[uuid.UUID]fakeSpot),
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (r *fakeRepo) addSpot(listed bool, price float64) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.spots[id] = fakeSpot{listed: listed, hourlyPrice: price}
	return id
}

func (r *fakeRepo) hasActiveBooking(spotID uuid.UUID) bool {
	for _, b := range r.bookings {
		if b.SpotID == spotID && b.Status == StatusActive {
			return true
		}
	}
	return false
}

func (r *fakeRepo) ReserveSpot(ctx context.Context, userID, spotID uuid.UUID, durationHours int) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spot, ok := r.spots[spotID]
	if !ok {
		return nil, ErrSpotNotFound
	}
	if !spot.listed {
		return nil, ErrSpotNotListed
	}
	if r.hasActiveBooking(spotID) {
		return nil, ErrSpotUnavailable
	}

	now := r.now()
	booking := &Booking{
		ID:            uuid.New(),
		UserID:        userID,
		SpotID:        spotID,
		ReservedAt:    now,
		DurationHours: durationHours,
		ExpiresAt:     now.Add(time.Duration(durationHours) * time.Hour),
		TotalPrice:    spot.hourlyPrice * float64(durationHours),
		Status:        StatusActive,
	}
	r.bookings[booking.ID] = booking

	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) CancelActive(ctx context.Context, bookingID, userID uuid.UUID, window time.Duration) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}

	switch booking.Status {
	case StatusActive:
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	default:
		return nil, ErrAlreadyExpired
	}

	now := r.now()
	if !booking.WithinCancelWindow(now, window) {
		return nil, ErrWindowExpired
	}

	booking.Status = StatusCancelled
	booking.CancelledAt = &now

	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) ExpireDue(ctx context.Context) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var expired []Booking
	for _, b := range r.bookings {
		if b.Status == StatusActive && !b.ExpiresAt.After(now) {
			b.Status = StatusExpired
			expired = append(expired, *b)
		}
	}
	return expired, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingWithSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []BookingWithSpot
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		spot := r.spots[b.SpotID]
		rows = append(rows, BookingWithSpot{
			Booking:         *b,
			SpotHourlyPrice: spot.hourlyPrice,
		})
	}
	// Same ordering contract as the SQL query: newest reservation first.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ReservedAt.After(rows[j].ReservedAt)
	})
	return rows, nil
}

// fakeCache counts listing invalidations.
type fakeCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *fakeCache) InvalidateListingCache(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
}

func (c *fakeCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// fakeProducer records published events.
type fakeProducer struct {
	mu     sync.Mutex
	events []*notifications.BookingEvent
}

func (p *fakeProducer) PublishBookingEvent(ctx context.Context, event *notifications.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakeProducer) Close() error                          { return nil }
func (p *fakeProducer) HealthCheck(ctx context.Context) error { return nil }

func (p *fakeProducer) types() []notifications.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifications.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func testPolicy() config.BookingConfig {
	return config.BookingConfig{
		CancelWindow:     5 * time.Minute,
		MinDurationHours: 1,
		MaxDurationHours: 8,
	}
}

func setupService(t *testing.T) (*fakeRepo, *fakeCache, *fakeProducer, Service) {
	t.Helper()
	repo := newFakeRepo()
	spotCache := &fakeCache{}
	producer := &fakeProducer{}
	svc := NewService(repo, testPolicy(), spotCache, producer)
	return repo, spotCache, producer, svc
}

func TestReserveComputesPriceAndExpiry(t *testing.T) {
	repo, spotCache, producer, svc := setupService(t)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	spotID := repo.addSpot(true, 12.50)
	userID := uuid.New()

	resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 3})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if resp.Status != StatusActive {
		t.Errorf("expected status active, got %s", resp.Status)
	}
	if resp.TotalPrice != 37.50 {
		t.Errorf("expected total price 37.50, got %.2f", resp.TotalPrice)
	}
	want := start.Add(3 * time.Hour)
	if !resp.ExpiresAt.Equal(want) {
		t.Errorf("expected expires_at %v, got %v", want, resp.ExpiresAt)
	}
	if spotCache.count() != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", spotCache.count())
	}
	if got := producer.types(); len(got) != 1 || got[0] != notifications.EventBookingCreated {
		t.Errorf("expected one booking.created event, got %v", got)
	}
}

func TestReserveRejectsDurationOutOfBounds(t *testing.T) {
	repo, _, _, svc := setupService(t)
	spotID := repo.addSpot(true, 5.00)
	userID := uuid.New()

	for _, hours := range []int{0, -1, 9, 100} {
		_, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: hours})
		if err != ErrInvalidDuration {
			t.Errorf("duration %d: expected ErrInvalidDuration, got %v", hours, err)
		}
	}

	for _, hours := range []int{1, 8} {
		repo2 := newFakeRepo()
		spotID2 := repo2.addSpot(true, 5.00)
		svc2 := NewService(repo2, testPolicy(), nil, nil)
		if _, err := svc2.Reserve(context.Background(), userID, spotID2, ReserveRequest{DurationHours: hours}); err != nil {
			t.Errorf("duration %d: expected success, got %v", hours, err)
		}
	}
}

func TestReserveUnknownAndUnlistedSpots(t *testing.T) {
	repo, _, _, svc := setupService(t)
	userID := uuid.New()

	_, err := svc.Reserve(context.Background(), userID, uuid.New(), ReserveRequest{DurationHours: 2})
	if err != ErrSpotNotFound {
		t.Errorf("expected ErrSpotNotFound, got %v", err)
	}

	unlisted := repo.addSpot(false, 5.00)
	_, err = svc.Reserve(context.Background(), userID, unlisted, ReserveRequest{DurationHours: 2})
	if err != ErrSpotNotListed {
		t.Errorf("expected ErrSpotNotListed, got %v", err)
	}
}

func TestConcurrentReserveExactlyOneWins(t *testing.T) {
	repo, _, _, svc := setupService(t)
	spotID := repo.addSpot(true, 7.00)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), uuid.New(), spotID, ReserveRequest{DurationHours: 2})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	won, lost := 0, 0
	for err := range results {
		switch err {
		case nil:
			won++
		case ErrSpotUnavailable:
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if won != 1 {
		t.Errorf("expected exactly 1 winning reserve, got %d", won)
	}
	if lost != attempts-1 {
		t.Errorf("expected %d rejected reserves, got %d", attempts-1, lost)
	}
}

func TestCancelWithinWindow(t *testing.T) {
	repo, spotCache, producer, svc := setupService(t)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	spotID := repo.addSpot(true, 10.00)
	userID := uuid.New()

	resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 2})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	bookingID := uuid.MustParse(resp.BookingID)

	// Cancel 3 minutes in
	repo.now = func() time.Time { return start.Add(3 * time.Minute) }

	cancelResp, err := svc.Cancel(context.Background(), bookingID, userID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !cancelResp.CanCancel {
		t.Error("expected can_cancel true")
	}
	if cancelResp.Status != StatusCancelled {
		t.Errorf("expected status cancelled, got %s", cancelResp.Status)
	}
	if cancelResp.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}
	if spotCache.count() != 2 {
		t.Errorf("expected 2 cache invalidations, got %d", spotCache.count())
	}
	if got := producer.types(); len(got) != 2 || got[1] != notifications.EventBookingCancelled {
		t.Errorf("expected booking.cancelled event, got %v", got)
	}

	// Spot frees up for the next driver
	if _, err := svc.Reserve(context.Background(), uuid.New(), spotID, ReserveRequest{DurationHours: 1}); err != nil {
		t.Errorf("expected spot reusable after cancel, got %v", err)
	}
}

func TestCancelWindowBoundary(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just inside", 4*time.Minute + 59*time.Second, nil},
		{"exactly at boundary", 5 * time.Minute, nil},
		{"just past", 5*time.Minute + 1*time.Second, ErrWindowExpired},
		{"well past", 6 * time.Minute, ErrWindowExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, _, _, svc := setupService(t)
			repo.now = func() time.Time { return start }

			spotID := repo.addSpot(true, 10.00)
			userID := uuid.New()

			resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 2})
			if err != nil {
				t.Fatalf("Reserve failed: %v", err)
			}
			bookingID := uuid.MustParse(resp.BookingID)

			repo.now = func() time.Time { return start.Add(tc.elapsed) }

			_, err = svc.Cancel(context.Background(), bookingID, userID)
			if err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCancelRejections(t *testing.T) {
	repo, _, _, svc := setupService(t)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	spotID := repo.addSpot(true, 10.00)
	userID := uuid.New()

	resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 2})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	bookingID := uuid.MustParse(resp.BookingID)

	if _, err := svc.Cancel(context.Background(), uuid.New(), userID); err != ErrBookingNotFound {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}

	if _, err := svc.Cancel(context.Background(), bookingID, uuid.New()); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	if _, err := svc.Cancel(context.Background(), bookingID, userID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), bookingID, userID); err != ErrAlreadyCancelled {
		t.Errorf("expected ErrAlreadyCancelled on second cancel, got %v", err)
	}
}

func TestCancelExpiredBooking(t *testing.T) {
	repo, _, _, svc := setupService(t)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	spotID := repo.addSpot(true, 10.00)
	userID := uuid.New()

	resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 1})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	bookingID := uuid.MustParse(resp.BookingID)

	// Booking runs its full hour, sweep expires it
	repo.now = func() time.Time { return start.Add(61 * time.Minute) }
	if _, err := svc.SweepExpired(context.Background()); err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), bookingID, userID); err != ErrAlreadyExpired {
		t.Errorf("expected ErrAlreadyExpired, got %v", err)
	}
}

func TestSweepExpiresDueBookingsOnce(t *testing.T) {
	repo, spotCache, producer, svc := setupService(t)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	dueSpot := repo.addSpot(true, 5.00)
	freshSpot := repo.addSpot(true, 5.00)

	if _, err := svc.Reserve(context.Background(), uuid.New(), dueSpot, ReserveRequest{DurationHours: 1}); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	repo.now = func() time.Time { return start.Add(30 * time.Minute) }
	if _, err := svc.Reserve(context.Background(), uuid.New(), freshSpot, ReserveRequest{DurationHours: 4}); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	// First booking is past expiry, second is mid-flight
	repo.now = func() time.Time { return start.Add(90 * time.Minute) }

	expired, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expired booking, got %d", expired)
	}
	if spotCache.count() != 3 {
		t.Errorf("expected 3 cache invalidations, got %d", spotCache.count())
	}
	types := producer.types()
	if len(types) != 3 || types[2] != notifications.EventBookingExpired {
		t.Errorf("expected booking.expired event after sweep, got %v", types)
	}

	// Second sweep finds nothing
	expired, err = svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("second SweepExpired failed: %v", err)
	}
	if expired != 0 {
		t.Errorf("expected idempotent sweep, got %d", expired)
	}

	// Only the due spot is releasable
	if _, err := svc.Reserve(context.Background(), uuid.New(), dueSpot, ReserveRequest{DurationHours: 1}); err != nil {
		t.Errorf("expected expired spot reusable, got %v", err)
	}
	if _, err := svc.Reserve(context.Background(), uuid.New(), freshSpot, ReserveRequest{DurationHours: 1}); err != ErrSpotUnavailable {
		t.Errorf("expected fresh spot still held, got %v", err)
	}
}

func TestListMyReservations(t *testing.T) {
	repo, _, _, svc := setupService(t)

	spotID := repo.addSpot(true, 8.00)
	otherSpot := repo.addSpot(true, 3.00)
	userID := uuid.New()

	if _, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 2}); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if _, err := svc.Reserve(context.Background(), uuid.New(), otherSpot, ReserveRequest{DurationHours: 2}); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	rows, err := svc.ListMyReservations(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListMyReservations failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(rows))
	}
	if rows[0].TotalPrice != 16.00 {
		t.Errorf("expected total price 16.00, got %.2f", rows[0].TotalPrice)
	}
	if rows[0].Spot.HourlyPrice != 8.00 {
		t.Errorf("expected spot hourly price 8.00, got %.2f", rows[0].Spot.HourlyPrice)
	}
}

func TestListMyReservationsNewestFirst(t *testing.T) {
	repo, _, _, svc := setupService(t)

	userID := uuid.New()
	start := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	// Three reservations on distinct spots, ten minutes apart.
	spotIDs := make([]string, 3)
	for i := 0; i < 3; i++ {
		spotID := repo.addSpot(true, 5.00)
		offset := time.Duration(i*10) * time.Minute
		repo.now = func() time.Time { return start.Add(offset) }
		if _, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 1}); err != nil {
			t.Fatalf("Reserve %d failed: %v", i, err)
		}
		spotIDs[i] = spotID.String()
	}

	rows, err := svc.ListMyReservations(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListMyReservations failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 reservations, got %d", len(rows))
	}
	// Most recent reservation leads.
	for i, want := range []string{spotIDs[2], spotIDs[1], spotIDs[0]} {
		if rows[i].SpotID != want {
			t.Errorf("row %d: expected spot %s, got %s", i, want, rows[i].SpotID)
		}
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].ReservedAt.After(rows[i-1].ReservedAt) {
			t.Errorf("row %d reserved after row %d; listing is not newest-first", i, i-1)
		}
	}
}

func TestServiceToleratesNilCacheAndProducer(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testPolicy(), nil, nil)

	spotID := repo.addSpot(true, 5.00)
	userID := uuid.New()

	resp, err := svc.Reserve(context.Background(), userID, spotID, ReserveRequest{DurationHours: 2})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), uuid.MustParse(resp.BookingID), userID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
}
