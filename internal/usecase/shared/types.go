package shared

//go:generate mockgen -destination=../../../tests/mock/shared/mock_shared.go -package=sharedmock . Notifier,CalendarCache

import (
	"context"
	"time"

	"hotel-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrRetryTransaction marks a failure that a fresh run of the whole unit of
// work gets past, e.g. a confirmation code committed by a concurrent checkout.
var ErrRetryTransaction = errs.New("transaction should be retried")

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyClaim struct {
	Key         uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   time.Time
	Now         time.Time
}

type IdempotencyRecord struct {
	Key            uuid.UUID
	Endpoint       string
	RequestHash    string
	Status         string
	ReservationIDs []uuid.UUID
	ExpiresAt      time.Time
}

func (r *IdempotencyRecord) IsCompleted() bool {
	return r.Status == IdempotencyStatusCompleted
}

const (
	NotificationReservationConfirmed = "reservation.confirmed"
	NotificationReservationCancelled = "reservation.cancelled"
	NotificationReservationCompleted = "reservation.completed"
)

// Notification is the message handed to the notification service.
type Notification struct {
	Kind             string    `json:"kind"`
	ReservationID    uuid.UUID `json:"reservationId"`
	ConfirmationCode string    `json:"confirmationCode"`
	RoomID           uuid.UUID `json:"roomId"`
	GuestName        string    `json:"guestName"`
	GuestEmail       string    `json:"guestEmail"`
	CheckIn          string    `json:"checkIn"`
	CheckOut         string    `json:"checkOut"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Notifier delivers notifications. Delivery is best-effort: callers never
// roll back a committed change because Notify failed.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotificationJob is an outbox row waiting for (re)delivery.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}

// CalendarCache stores calendar aggregates per room type. Every Invalidate
// bumps the room type's generation; Store only writes when the generation is
// still the one Load returned, so an aggregate computed before a booking
// never overwrites the invalidation.
type CalendarCache interface {
	Load(ctx context.Context, roomType string, dst any) (hit bool, generation int64, err error)
	Store(ctx context.Context, roomType string, generation int64, v any) error
	Invalidate(ctx context.Context, roomTypes ...string) error
}
