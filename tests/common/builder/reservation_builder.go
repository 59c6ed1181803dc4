//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	reqdto "hotel-reservation/internal/handler/dto/request"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	ConfirmationCode string
	RoomID           uuid.UUID
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	CheckIn          time.Time
	CheckOut         time.Time
	Adults           int
	Children         int
	Addons           []reservation.Addon
	TotalCents       int64
	Status           reservation.Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:               uuid.New(),
		ConfirmationCode: "ABCD2345",
		RoomID:           uuid.New(),
		GuestName:        "Hanako Yamada",
		GuestEmail:       "hanako@example.com",
		GuestPhone:       "+81-90-0000-0000",
		CheckIn:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:         time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
		Adults:           2,
		Children:         0,
		Addons:           []reservation.Addon{{Code: "BREAKFAST", Quantity: 2}},
		TotalCents:       48000,
		Status:           reservation.StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

// Stay sets the stay from YYYY-MM-DD strings.
func (b *ReservationBuilder) Stay(checkIn, checkOut string) *ReservationBuilder {
	b.CheckIn, _ = stay.ParseDay(checkIn)
	b.CheckOut, _ = stay.ParseDay(checkOut)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	guest, err := reservation.NewGuestInfo(b.GuestName, b.GuestEmail, b.GuestPhone)
	if err != nil {
		return nil, err
	}
	stayRange, err := stay.NewDateRange(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, err
	}
	guests, err := reservation.NewGuestCount(b.Adults, b.Children)
	if err != nil {
		return nil, err
	}
	total, err := reservation.NewMoney(b.TotalCents)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		b.ID,
		reservation.ConfirmationCode(b.ConfirmationCode),
		b.RoomID,
		guest,
		stayRange,
		guests,
		b.Addons,
		total,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
	)
}

func (b *ReservationBuilder) BuildInfra() query.Reservation {
	stayRange, _ := stay.NewDateRange(b.CheckIn, b.CheckOut)
	addons, _ := json.Marshal(b.Addons)
	return query.Reservation{
		ID:               b.ID,
		ConfirmationCode: b.ConfirmationCode,
		RoomID:           b.RoomID,
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		GuestPhone:       b.GuestPhone,
		CheckIn:          pgconv.DateToPgtype(b.CheckIn),
		CheckOut:         pgconv.DateToPgtype(b.CheckOut),
		OccupiedDays:     pgconv.DatesToPgtype(stayRange.Days()),
		Adults:           int32(b.Adults),   // #nosec G115
		Children:         int32(b.Children), // #nosec G115
		Addons:           addons,
		TotalCents:       b.TotalCents,
		Status:           b.Status.String(),
		CreatedAt:        pgconv.TimeToPgtype(b.CreatedAt),
		UpdatedAt:        pgconv.TimeToPgtype(b.UpdatedAt),
	}
}

func (b *ReservationBuilder) BuildCheckoutRequestDTO() reqdto.CheckoutRequest {
	addons := make([]reqdto.AddonRequest, len(b.Addons))
	for i, a := range b.Addons {
		addons[i] = reqdto.AddonRequest{Code: a.Code, Quantity: a.Quantity}
	}
	return reqdto.CheckoutRequest{
		Guest: reqdto.GuestRequest{
			Name:  b.GuestName,
			Email: b.GuestEmail,
			Phone: b.GuestPhone,
		},
		Lines: []reqdto.CheckoutLineRequest{{
			RoomID:      b.RoomID,
			CheckIn:     stay.FormatDay(b.CheckIn),
			CheckOut:    stay.FormatDay(b.CheckOut),
			Adults:      b.Adults,
			Children:    b.Children,
			Addons:      addons,
			TotalAmount: b.TotalCents,
		}},
	}
}

func (b *ReservationBuilder) BuildCheckoutLine() commands.CheckoutLine {
	return commands.CheckoutLine{
		RoomID:     b.RoomID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Adults:     b.Adults,
		Children:   b.Children,
		Addons:     b.Addons,
		TotalCents: b.TotalCents,
	}
}

// BuildCheckoutCommand builds a single-line cart; add lines with BuildCheckoutLine.
func (b *ReservationBuilder) BuildCheckoutCommand(key uuid.UUID) commands.CheckoutRequest {
	return commands.CheckoutRequest{
		IdempotencyKey: key,
		Guest: commands.GuestInput{
			Name:  b.GuestName,
			Email: b.GuestEmail,
			Phone: b.GuestPhone,
		},
		Lines: []commands.CheckoutLine{b.BuildCheckoutLine()},
	}
}

func (b *ReservationBuilder) BuildViewQuery() *queries.ReservationView {
	stayRange, _ := stay.NewDateRange(b.CheckIn, b.CheckOut)
	return &queries.ReservationView{
		ID:                 b.ID,
		ConfirmationCode:   b.ConfirmationCode,
		RoomID:             b.RoomID,
		RoomCode:           "101",
		RoomType:           "double",
		CancellationPolicy: "free cancellation until 3 days before check-in",
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		GuestPhone:         b.GuestPhone,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		OccupiedDays:       stayRange.Days(),
		Adults:             b.Adults,
		Children:           b.Children,
		Addons:             b.Addons,
		TotalCents:         b.TotalCents,
		Status:             b.Status.String(),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
