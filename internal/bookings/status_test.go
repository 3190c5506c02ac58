package bookings

import (
	"testing"
	"time"
)

func TestStatusValidity(t *testing.T) {
	valid := []Status{StatusActive, StatusCancelled, StatusExpired, StatusCompleted}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}

	for _, s := range []Status{"", "pending", "ACTIVE"} {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestStatusTransitionsAllowed(t *testing.T) {
	if !StatusActive.CanBeCancelled() {
		t.Error("active bookings must be cancellable")
	}
	for _, s := range []Status{StatusCancelled, StatusExpired, StatusCompleted} {
		if s.CanBeCancelled() {
			t.Errorf("terminal status %s must not be cancellable", s)
		}
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	if StatusActive.IsTerminal() {
		t.Error("active must not be terminal")
	}
}

func TestWithinCancelWindowBoundary(t *testing.T) {
	reserved := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	b := &Booking{ReservedAt: reserved}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at reservation", reserved, true},
		{"one second before boundary", reserved.Add(window - time.Second), true},
		{"exactly at boundary", reserved.Add(window), true},
		{"one second past boundary", reserved.Add(window + time.Second), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.WithinCancelWindow(tc.now, window); got != tc.want {
				t.Errorf("WithinCancelWindow(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}

	until := b.CancellableUntil(window)
	if !until.Equal(reserved.Add(window)) {
		t.Errorf("CancellableUntil = %v, want %v", until, reserved.Add(window))
	}
}

func TestReasonCodes(t *testing.T) {
	cases := map[string]error{
		"spot_not_found":    ErrSpotNotFound,
		"spot_not_listed":   ErrSpotNotListed,
		"spot_unavailable":  ErrSpotUnavailable,
		"invalid_duration":  ErrInvalidDuration,
		"booking_not_found": ErrBookingNotFound,
		"forbidden":         ErrNotOwner,
		"already_cancelled": ErrAlreadyCancelled,
		"already_expired":   ErrAlreadyExpired,
		"window_expired":    ErrWindowExpired,
	}

	for want, err := range cases {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %q, want %q", err, got, want)
		}
	}

	if got := Reason(nil); got != "" {
		t.Errorf("Reason(nil) = %q, want empty", got)
	}
}
