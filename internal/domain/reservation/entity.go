package reservation

import (
	"errors"
	"time"

	"hotel-reservation/internal/domain/stay"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCancelled  = errors.New("reservation is already cancelled")
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrInvalidStatus     = errors.New("invalid reservation status")
	ErrMissingIdentity   = errors.New("reservation id and confirmation code are required")
)

type Reservation struct {
	id               uuid.UUID
	confirmationCode ConfirmationCode
	roomID           uuid.UUID
	guest            GuestInfo
	stay             stay.DateRange
	occupiedDays     []time.Time
	guests           GuestCount
	addons           []Addon
	total            Money
	status           Status
	createdAt        time.Time
	updatedAt        time.Time
}

type NewReservationParams struct {
	ID               uuid.UUID
	ConfirmationCode ConfirmationCode
	RoomID           uuid.UUID
	Guest            GuestInfo
	Stay             stay.DateRange
	Guests           GuestCount
	Addons           []Addon
	Total            Money
	Now              time.Time
}

func NewReservation(p NewReservationParams) (*Reservation, error) {
	if p.ID == uuid.Nil || p.ConfirmationCode == "" {
		return nil, ErrMissingIdentity
	}
	if p.Stay.IsZero() {
		return nil, stay.ErrInvalidRange
	}

	return &Reservation{
		id:               p.ID,
		confirmationCode: p.ConfirmationCode,
		roomID:           p.RoomID,
		guest:            p.Guest,
		stay:             p.Stay,
		occupiedDays:     p.Stay.Days(),
		guests:           p.Guests,
		addons:           p.Addons,
		total:            p.Total,
		status:           StatusConfirmed,
		createdAt:        p.Now,
		updatedAt:        p.Now,
	}, nil
}

// ReconstructReservation rebuilds a persisted reservation. occupiedDays is
// re-derived from the stay so it can never drift from [checkIn, checkOut).
func ReconstructReservation(
	id uuid.UUID,
	code ConfirmationCode,
	roomID uuid.UUID,
	guest GuestInfo,
	stayRange stay.DateRange,
	guests GuestCount,
	addons []Addon,
	total Money,
	status Status,
	createdAt, updatedAt time.Time,
) (*Reservation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Reservation{
		id:               id,
		confirmationCode: code,
		roomID:           roomID,
		guest:            guest,
		stay:             stayRange,
		occupiedDays:     stayRange.Days(),
		guests:           guests,
		addons:           addons,
		total:            total,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

// Cancel: confirmed -> cancelled
func (r *Reservation) Cancel(now time.Time) error {
	switch r.status {
	case StatusConfirmed:
		r.status = StatusCancelled
		r.updatedAt = now
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrInvalidTransition
	}
}

// Complete: confirmed -> completed
func (r *Reservation) Complete(now time.Time) error {
	if r.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) ID() uuid.UUID                      { return r.id }
func (r *Reservation) ConfirmationCode() ConfirmationCode { return r.confirmationCode }
func (r *Reservation) RoomID() uuid.UUID                  { return r.roomID }
func (r *Reservation) Guest() GuestInfo                   { return r.guest }
func (r *Reservation) Stay() stay.DateRange               { return r.stay }
func (r *Reservation) Guests() GuestCount                 { return r.guests }
func (r *Reservation) Addons() []Addon                    { return r.addons }
func (r *Reservation) Total() Money                       { return r.total }
func (r *Reservation) Status() Status                     { return r.status }
func (r *Reservation) CreatedAt() time.Time               { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time               { return r.updatedAt }

func (r *Reservation) OccupiedDays() []time.Time {
	out := make([]time.Time, len(r.occupiedDays))
	copy(out, r.occupiedDays)
	return out
}
