package shared

import (
	"context"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads outside transactions
	CommandReads() CommandReads
}

// Tx hands out repositories bound to one transaction.
type Tx interface {
	Rooms() RoomRepository
	Reservations() ReservationRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Locks() RoomLocker
	Reads() CommandReads
}

type CommandReads interface {
	// ActiveStays lists non-cancelled stays of the room that end after the given day.
	ActiveStays(ctx context.Context, roomID uuid.UUID, after time.Time) ([]stay.DateRange, error)
	ConfirmationCodeExists(ctx context.Context, code reservation.ConfirmationCode) (bool, error)
	// HasUpcomingStay reports another confirmed stay of the room checking out after today.
	HasUpcomingStay(ctx context.Context, roomID, excludeID uuid.UUID, today time.Time) (bool, error)
	EndedStayIDs(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error)
	IdempotencyByKey(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
}

type RoomLocker interface {
	// LockRooms blocks until every room is held by the current transaction.
	// Locks are taken in ascending id order and released when the transaction ends.
	LockRooms(ctx context.Context, roomIDs []uuid.UUID) error
}

type RoomRepository interface {
	// GetByIDs returns only the rooms that exist; callers compare lengths.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*room.Room, error)
	SetOccupied(ctx context.Context, roomID uuid.UUID, occupied bool) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, res *reservation.Reservation) error
}

type IdempotencyRepository interface {
	// TryClaim reports whether the current transaction now owns the key.
	TryClaim(ctx context.Context, claim IdempotencyClaim) (bool, error)
	MarkCompleted(ctx context.Context, key uuid.UUID, reservationIDs []uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, job NotificationJob) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string, giveUp bool) error
}
