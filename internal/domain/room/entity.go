package room

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("room capacity must be positive")
	ErrInvalidCode     = errors.New("room code is required")
)

// Room is the engine's view of a catalog entry. occupied is an advisory hint
// for dashboards; availability is always derived from reservations.
type Room struct {
	id                 uuid.UUID
	code               string
	roomType           string
	capacity           int
	nightlyPriceCents  int64
	published          bool
	occupied           bool
	cancellationPolicy string
}

func ReconstructRoom(
	id uuid.UUID,
	code, roomType string,
	capacity int,
	nightlyPriceCents int64,
	published, occupied bool,
	cancellationPolicy string,
) (*Room, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Room{
		id:                 id,
		code:               code,
		roomType:           roomType,
		capacity:           capacity,
		nightlyPriceCents:  nightlyPriceCents,
		published:          published,
		occupied:           occupied,
		cancellationPolicy: cancellationPolicy,
	}, nil
}

func (r *Room) CanHost(guests int) bool {
	return guests <= r.capacity
}

func (r *Room) IsBookable() bool {
	return r.published
}

func (r *Room) ID() uuid.UUID              { return r.id }
func (r *Room) Code() string               { return r.code }
func (r *Room) Type() string               { return r.roomType }
func (r *Room) Capacity() int              { return r.capacity }
func (r *Room) NightlyPriceCents() int64   { return r.nightlyPriceCents }
func (r *Room) Published() bool            { return r.published }
func (r *Room) Occupied() bool             { return r.occupied }
func (r *Room) CancellationPolicy() string { return r.cancellationPolicy }
