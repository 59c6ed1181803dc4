package query

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Room struct {
	ID                 uuid.UUID
	Code               string
	RoomType           string
	Capacity           int32
	NightlyPriceCents  int64
	Published          bool
	Occupied           bool
	CancellationPolicy string
}

type Reservation struct {
	ID               uuid.UUID
	ConfirmationCode string
	RoomID           uuid.UUID
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	CheckIn          pgtype.Date
	CheckOut         pgtype.Date
	OccupiedDays     []pgtype.Date
	Adults           int32
	Children         int32
	Addons           []byte
	TotalCents       int64
	Status           string
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

// ReservationView is a reservation joined with the room fields shown to guests.
type ReservationView struct {
	Reservation
	RoomCode           string
	RoomType           string
	CancellationPolicy string
}

type RoomStay struct {
	ReservationID uuid.UUID
	RoomID        uuid.UUID
	CheckIn       pgtype.Date
	CheckOut      pgtype.Date
	OccupiedDays  []pgtype.Date
}

type IdempotencyKey struct {
	Key            uuid.UUID
	Endpoint       string
	RequestHash    string
	Status         string
	ReservationIDs []pgtype.UUID
	ExpiresAt      pgtype.Timestamptz
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Status   string
	Attempts int32
	RunAt    pgtype.Timestamptz
}
