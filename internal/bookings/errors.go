package bookings

import "errors"

// Sentinel errors for the booking ledger. Conflict and policy conditions are
// expected business outcomes; controllers map each to a distinct reason code.
var (
	ErrSpotNotFound     = errors.New("spot not found")
	ErrSpotNotListed    = errors.New("spot is not listed")
	ErrSpotUnavailable  = errors.New("spot already has an active booking")
	ErrInvalidDuration  = errors.New("duration_hours outside allowed bounds")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking does not belong to user")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyExpired   = errors.New("booking has expired")
	ErrWindowExpired    = errors.New("cancellation window has passed")
)

// Reason returns the stable reason code for a ledger error, or empty when
// the error is not a business outcome.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrSpotNotFound):
		return "spot_not_found"
	case errors.Is(err, ErrSpotNotListed):
		return "spot_not_listed"
	case errors.Is(err, ErrSpotUnavailable):
		return "spot_unavailable"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrBookingNotFound):
		return "booking_not_found"
	case errors.Is(err, ErrNotOwner):
		return "forbidden"
	case errors.Is(err, ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, ErrAlreadyExpired):
		return "already_expired"
	case errors.Is(err, ErrWindowExpired):
		return "window_expired"
	}
	return ""
}
