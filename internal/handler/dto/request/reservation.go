package request

import (
	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

type GuestRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email,max=254"`
	Phone string `json:"phone" binding:"omitempty,max=50"`
}

type AddonRequest struct {
	Code     string `json:"code" binding:"required,max=64"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type CheckoutLineRequest struct {
	RoomID      uuid.UUID      `json:"roomId" binding:"required"`
	CheckIn     string         `json:"checkIn" binding:"required,dateonly"`
	CheckOut    string         `json:"checkOut" binding:"required,dateonly"`
	Adults      int            `json:"adults" binding:"required,min=1"`
	Children    int            `json:"children" binding:"min=0"`
	Addons      []AddonRequest `json:"addons" binding:"omitempty,dive"`
	TotalAmount int64          `json:"totalAmount" binding:"min=0"`
}

type CheckoutRequest struct {
	Guest GuestRequest          `json:"guest" binding:"required"`
	Lines []CheckoutLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r CheckoutRequest) ToCommand(idempotencyKey uuid.UUID) (commands.CheckoutRequest, error) {
	lines := make([]commands.CheckoutLine, len(r.Lines))
	for i, l := range r.Lines {
		checkIn, err := stay.ParseDay(l.CheckIn)
		if err != nil {
			return commands.CheckoutRequest{}, errs.Mark(err, errs.ErrValidation)
		}
		checkOut, err := stay.ParseDay(l.CheckOut)
		if err != nil {
			return commands.CheckoutRequest{}, errs.Mark(err, errs.ErrValidation)
		}

		addons := make([]reservation.Addon, len(l.Addons))
		for j, a := range l.Addons {
			addons[j] = reservation.Addon{Code: a.Code, Quantity: a.Quantity}
		}

		lines[i] = commands.CheckoutLine{
			RoomID:     l.RoomID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Adults:     l.Adults,
			Children:   l.Children,
			Addons:     addons,
			TotalCents: l.TotalAmount,
		}
	}

	return commands.CheckoutRequest{
		IdempotencyKey: idempotencyKey,
		Guest: commands.GuestInput{
			Name:  r.Guest.Name,
			Email: r.Guest.Email,
			Phone: r.Guest.Phone,
		},
		Lines: lines,
	}, nil
}

type AvailabilityRequest struct {
	RoomType string `form:"roomType" binding:"omitempty,max=64"`
	From     string `form:"from" binding:"required,dateonly"`
	To       string `form:"to" binding:"required,dateonly"`
	Guests   int    `form:"guests,default=1" binding:"min=1"`
}
