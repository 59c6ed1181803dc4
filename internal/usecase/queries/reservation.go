package queries

import (
	"context"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/pkg/errs"
)

type ReservationQueries interface {
	GetByConfirmationCode(ctx context.Context, code string) (*ReservationView, error)
}

type ReservationViewRepo interface {
	FindByConfirmationCode(ctx context.Context, code string) (*ReservationView, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByConfirmationCode(ctx context.Context, code string) (*ReservationView, error) {
	view, err := q.repo.FindByConfirmationCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrPersistence)
	}
	return view, nil
}
