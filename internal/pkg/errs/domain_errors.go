package errs

// Error taxonomy shared by the command and query sides. Lower layers attach
// these with Mark so handlers can classify with errors.Is.
var (
	ErrValidation             = New("validation error")
	ErrInvalidReference       = New("invalid reference")
	ErrReservationNotFound    = New("reservation not found")
	ErrUnavailable            = New("requested rooms are unavailable")
	ErrPersistence            = New("persistence failure")
	ErrIdempotencyKeyRequired = New("idempotency key required")
	ErrIdempotencyKeyReused   = New("idempotency key reused with a different request")
)
