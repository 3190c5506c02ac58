package spots

import "errors"

var (
	ErrSpotNotFound        = errors.New("spot not found")
	ErrNotOwner            = errors.New("spot does not belong to user")
	ErrActiveBookingExists = errors.New("spot has an active booking")
)
