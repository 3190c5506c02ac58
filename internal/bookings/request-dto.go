package bookings

// ReserveRequest represents the body of a reserve call. The duration bound is
// a hard server-side contract; the client-side cap is advisory only.
type ReserveRequest struct {
	DurationHours int `json:"duration_hours" binding:"required,min=1,max=8"`
}
