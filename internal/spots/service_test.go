package spots

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory spot Repository.
type fakeRepo struct {
	mu             sync.Mutex
	spots          map[uuid.UUID]*ParkingSpot
	activeBookings map[uuid.UUID]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		spots:          make(map[uuid.UUID]*ParkingSpot),
		activeBookings: make(map[uuid.UUID]int64),
	}
}

func (r *fakeRepo) Create(ctx context.Context, spot *ParkingSpot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	copied := *spot
	r.spots[spot.ID] = &copied
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	spot, ok := r.spots[id]
	if !ok {
		return nil, ErrSpotNotFound
	}
	copied := *spot
	return &copied, nil
}

func (r *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	spot, ok := r.spots[id]
	if !ok {
		return nil, ErrSpotNotFound
	}
	for k, v := range updates {
		switch k {
		case "latitude":
			spot.Latitude = v.(float64)
		case "longitude":
			spot.Longitude = v.(float64)
		case "hourly_price":
			spot.HourlyPrice = v.(float64)
		case "spot_type":
			spot.SpotType = v.(SpotType)
		case "is_listed":
			spot.IsListed = v.(bool)
		}
	}
	copied := *spot
	return &copied, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spots[id]; !ok {
		return ErrSpotNotFound
	}
	if r.activeBookings[id] > 0 {
		return ErrActiveBookingExists
	}
	delete(r.spots, id)
	return nil
}

func (r *fakeRepo) ListAvailable(ctx context.Context) ([]ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ParkingSpot
	for _, spot := range r.spots {
		if spot.IsListed && spot.IsAvailable {
			out = append(out, *spot)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ParkingSpot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ParkingSpot
	for _, spot := range r.spots {
		if spot.OwnerID == ownerID {
			out = append(out, *spot)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountActiveBookings(ctx context.Context, spotID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeBookings[spotID], nil
}

func validCreateRequest() CreateSpotRequest {
	return CreateSpotRequest{
		Latitude:    40.7580,
		Longitude:   -73.9855,
		HourlyPrice: 12.50,
		SpotType:    "garage",
	}
}

func TestCreateSpotDefaultsToListed(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ownerID := uuid.New()

	spot, err := svc.CreateSpot(context.Background(), ownerID, validCreateRequest())
	if err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	if spot.OwnerID != ownerID {
		t.Errorf("expected owner %s, got %s", ownerID, spot.OwnerID)
	}
	if !spot.IsListed {
		t.Error("expected new spot to be listed by default")
	}
	if !spot.IsAvailable {
		t.Error("expected new spot to be available")
	}
	if spot.SpotType != TypeGarage {
		t.Errorf("expected garage, got %s", spot.SpotType)
	}
}

func TestCreateSpotRejectsUnknownType(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)

	req := validCreateRequest()
	req.SpotType = "rooftop"

	if _, err := svc.CreateSpot(context.Background(), uuid.New(), req); err == nil {
		t.Fatal("expected error for unknown spot type")
	}
}

func TestUpdateSpotOwnershipEnforced(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ownerID := uuid.New()

	spot, err := svc.CreateSpot(context.Background(), ownerID, validCreateRequest())
	if err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	newPrice := 20.0
	_, err = svc.UpdateSpot(context.Background(), spot.ID, uuid.New(), UpdateSpotRequest{HourlyPrice: &newPrice})
	if err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner for stranger update, got %v", err)
	}

	updated, err := svc.UpdateSpot(context.Background(), spot.ID, ownerID, UpdateSpotRequest{HourlyPrice: &newPrice})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.HourlyPrice != 20.0 {
		t.Errorf("expected price 20.0, got %.2f", updated.HourlyPrice)
	}
}

func TestDeleteSpotBlockedByActiveBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ownerID := uuid.New()

	spot, err := svc.CreateSpot(context.Background(), ownerID, validCreateRequest())
	if err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	if err := svc.DeleteSpot(context.Background(), spot.ID, uuid.New()); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner for stranger delete, got %v", err)
	}

	repo.activeBookings[spot.ID] = 1
	if err := svc.DeleteSpot(context.Background(), spot.ID, ownerID); err != ErrActiveBookingExists {
		t.Errorf("expected ErrActiveBookingExists, got %v", err)
	}

	repo.activeBookings[spot.ID] = 0
	if err := svc.DeleteSpot(context.Background(), spot.ID, ownerID); err != nil {
		t.Errorf("expected delete to succeed, got %v", err)
	}
	if _, err := svc.GetSpot(context.Background(), spot.ID); err != ErrSpotNotFound {
		t.Errorf("expected spot gone after delete, got %v", err)
	}
}

func TestListAvailableSkipsUnlisted(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)
	ownerID := uuid.New()

	if _, err := svc.CreateSpot(context.Background(), ownerID, validCreateRequest()); err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	unlisted := false
	req := validCreateRequest()
	req.IsListed = &unlisted
	if _, err := svc.CreateSpot(context.Background(), ownerID, req); err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	listed, err := svc.ListAvailableSpots(context.Background())
	if err != nil {
		t.Fatalf("ListAvailableSpots failed: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("expected 1 listed spot, got %d", len(listed))
	}

	mine, err := svc.ListOwnerSpots(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("ListOwnerSpots failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 owner spots, got %d", len(mine))
	}
}

func TestGetAvailabilityDerivedFromBookings(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0)

	spot, err := svc.CreateSpot(context.Background(), uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateSpot failed: %v", err)
	}

	available, err := svc.GetAvailability(context.Background(), spot.ID)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if !available {
		t.Error("expected spot available with no bookings")
	}

	repo.activeBookings[spot.ID] = 1
	available, err = svc.GetAvailability(context.Background(), spot.ID)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if available {
		t.Error("expected spot unavailable with an active booking")
	}

	if _, err := svc.GetAvailability(context.Background(), uuid.New()); err != ErrSpotNotFound {
		t.Errorf("expected ErrSpotNotFound, got %v", err)
	}
}
