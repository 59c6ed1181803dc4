package response

import (
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type GuestResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type RoomSummaryResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Type               string    `json:"type"`
	CancellationPolicy string    `json:"cancellationPolicy"`
}

type ReservationResponse struct {
	ID               uuid.UUID           `json:"id"`
	ConfirmationCode string              `json:"confirmationCode"`
	Room             RoomSummaryResponse `json:"room"`
	Guest            GuestResponse       `json:"guest"`
	CheckIn          string              `json:"checkIn"`
	CheckOut         string              `json:"checkOut"`
	OccupiedDays     []string            `json:"occupiedDays"`
	Adults           int                 `json:"adults"`
	Children         int                 `json:"children"`
	Addons           []reservation.Addon `json:"addons"`
	TotalAmount      int64               `json:"totalAmount"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type CheckoutResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Warnings     []string              `json:"warnings"`
	Replayed     bool                  `json:"replayed"`
}

type LineErrorResponse struct {
	Index  int       `json:"index"`
	RoomID uuid.UUID `json:"roomId"`
	Reason string    `json:"reason"`
}

type StatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func FromCheckoutResult(result *commands.CheckoutResult) CheckoutResponse {
	items := make([]ReservationResponse, len(result.Reservations))
	for i, res := range result.Reservations {
		items[i] = FromReservation(res, result.Rooms[res.RoomID()])
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return CheckoutResponse{
		Reservations: items,
		Warnings:     warnings,
		Replayed:     result.Replayed,
	}
}

func FromReservation(res *reservation.Reservation, rm *room.Room) ReservationResponse {
	summary := RoomSummaryResponse{ID: res.RoomID()}
	if rm != nil {
		summary.Code = rm.Code()
		summary.Type = rm.Type()
		summary.CancellationPolicy = rm.CancellationPolicy()
	}
	guest := res.Guest()
	return ReservationResponse{
		ID:               res.ID(),
		ConfirmationCode: res.ConfirmationCode().String(),
		Room:             summary,
		Guest: GuestResponse{
			Name:  guest.Name(),
			Email: guest.Email(),
			Phone: guest.Phone(),
		},
		CheckIn:      stay.FormatDay(res.Stay().Start()),
		CheckOut:     stay.FormatDay(res.Stay().End()),
		OccupiedDays: formatDays(res.OccupiedDays()),
		Adults:       res.Guests().Adults(),
		Children:     res.Guests().Children(),
		Addons:       nonNilAddons(res.Addons()),
		TotalAmount:  res.Total().Cents(),
		Status:       res.Status().String(),
		CreatedAt:    res.CreatedAt(),
		UpdatedAt:    res.UpdatedAt(),
	}
}

func FromReservationView(v *queries.ReservationView) ReservationResponse {
	return ReservationResponse{
		ID:               v.ID,
		ConfirmationCode: v.ConfirmationCode,
		Room: RoomSummaryResponse{
			ID:                 v.RoomID,
			Code:               v.RoomCode,
			Type:               v.RoomType,
			CancellationPolicy: v.CancellationPolicy,
		},
		Guest: GuestResponse{
			Name:  v.GuestName,
			Email: v.GuestEmail,
			Phone: v.GuestPhone,
		},
		CheckIn:      stay.FormatDay(v.CheckIn),
		CheckOut:     stay.FormatDay(v.CheckOut),
		OccupiedDays: formatDays(v.OccupiedDays),
		Adults:       v.Adults,
		Children:     v.Children,
		Addons:       nonNilAddons(v.Addons),
		TotalAmount:  v.TotalCents,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func FromLineFailures(failures []commands.LineFailure) []LineErrorResponse {
	out := make([]LineErrorResponse, len(failures))
	for i, f := range failures {
		out[i] = LineErrorResponse{
			Index:  f.Index,
			RoomID: f.RoomID,
			Reason: string(f.Reason),
		}
	}
	return out
}

func FromStatus(res *reservation.Reservation) StatusResponse {
	return StatusResponse{ID: res.ID(), Status: res.Status().String()}
}

func formatDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = stay.FormatDay(d)
	}
	return out
}

func nonNilAddons(addons []reservation.Addon) []reservation.Addon {
	if addons == nil {
		return []reservation.Addon{}
	}
	return addons
}
