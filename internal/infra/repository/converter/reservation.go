package converter

import (
	"encoding/json"
	"fmt"
	"math"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation) (query.CreateReservationParams, error) {
	addons, err := json.Marshal(nonNilAddons(res.Addons()))
	if err != nil {
		return query.CreateReservationParams{}, fmt.Errorf("encode addons: %w", err)
	}

	guests := res.Guests()
	if guests.Adults() > math.MaxInt32 || guests.Children() > math.MaxInt32 {
		return query.CreateReservationParams{}, fmt.Errorf("guest count out of int32 range: %d", guests.Total())
	}

	return query.CreateReservationParams{
		ID:               res.ID(),
		ConfirmationCode: res.ConfirmationCode().String(),
		RoomID:           res.RoomID(),
		GuestName:        res.Guest().Name(),
		GuestEmail:       res.Guest().Email(),
		GuestPhone:       res.Guest().Phone(),
		CheckIn:          pgconv.DateToPgtype(res.Stay().Start()),
		CheckOut:         pgconv.DateToPgtype(res.Stay().End()),
		OccupiedDays:     pgconv.DatesToPgtype(res.OccupiedDays()),
		Adults:           int32(guests.Adults()),   // #nosec G115 -- range checked above
		Children:         int32(guests.Children()), // #nosec G115 -- range checked above
		Addons:           addons,
		TotalCents:       res.Total().Cents(),
		Status:           res.Status().String(),
		CreatedAt:        pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}, nil
}

// ReservationToDomain rebuilds the aggregate from a row. Rows were validated on
// the way in, so value object errors here mean the table was edited by hand.
func ReservationToDomain(row query.Reservation) (*reservation.Reservation, error) {
	guest, err := reservation.NewGuestInfo(row.GuestName, row.GuestEmail, row.GuestPhone)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	guests, err := reservation.NewGuestCount(int(row.Adults), int(row.Children))
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	total, err := reservation.NewMoney(row.TotalCents)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	stayRange, err := stay.NewDateRange(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}

	var addons []reservation.Addon
	if len(row.Addons) > 0 {
		if err := json.Unmarshal(row.Addons, &addons); err != nil {
			return nil, fmt.Errorf("reservation %s: decode addons: %w", row.ID, err)
		}
	}

	return reservation.ReconstructReservation(
		row.ID,
		reservation.ConfirmationCode(row.ConfirmationCode),
		row.RoomID,
		guest,
		stayRange,
		guests,
		addons,
		total,
		reservation.Status(row.Status),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func nonNilAddons(addons []reservation.Addon) []reservation.Addon {
	if addons == nil {
		return []reservation.Addon{}
	}
	return addons
}
