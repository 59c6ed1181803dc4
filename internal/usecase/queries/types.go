package queries

//go:generate mockgen -destination=../../../tests/mock/queries/mock_queries.go -package=queriesmock . ReservationQueries,ReservationViewRepo,AvailabilityQueries,RoomViewRepo,StayViewRepo

import (
	"time"

	"hotel-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

// RoomView represents read-optimized room data
type RoomView struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Type               string    `json:"type"`
	Capacity           int       `json:"capacity"`
	NightlyPriceCents  int64     `json:"nightlyPriceCents"`
	CancellationPolicy string    `json:"cancellationPolicy"`
	Occupied           bool      `json:"occupied"`
}

// ReservationView is a reservation joined with its room
type ReservationView struct {
	ID                 uuid.UUID           `json:"id"`
	ConfirmationCode   string              `json:"confirmationCode"`
	RoomID             uuid.UUID           `json:"roomId"`
	RoomCode           string              `json:"roomCode"`
	RoomType           string              `json:"roomType"`
	CancellationPolicy string              `json:"cancellationPolicy"`
	GuestName          string              `json:"guestName"`
	GuestEmail         string              `json:"guestEmail"`
	GuestPhone         string              `json:"guestPhone"`
	CheckIn            time.Time           `json:"checkIn"`
	CheckOut           time.Time           `json:"checkOut"`
	OccupiedDays       []time.Time         `json:"occupiedDays"`
	Adults             int                 `json:"adults"`
	Children           int                 `json:"children"`
	Addons             []reservation.Addon `json:"addons"`
	TotalCents         int64               `json:"totalCents"`
	Status             string              `json:"status"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// RoomStay is one active stay of a room with its materialized nights.
type RoomStay struct {
	ReservationID uuid.UUID
	RoomID        uuid.UUID
	CheckIn       time.Time
	CheckOut      time.Time
	OccupiedDays  []time.Time
}

// RoomOccupancy lists the occupied days of one room, formatted YYYY-MM-DD.
type RoomOccupancy struct {
	RoomID   uuid.UUID `json:"roomId"`
	RoomCode string    `json:"roomCode"`
	Days     []string  `json:"days"`
}

// BookedDates is the calendar aggregate for one room type. Today is the
// cutoff the aggregate was computed against.
type BookedDates struct {
	RoomType    string          `json:"roomType"`
	Today       string          `json:"today"`
	Rooms       []RoomOccupancy `json:"rooms"`
	FullyBooked []string        `json:"fullyBooked"`
}
