package repository

import (
	"context"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/repository/converter"
	"hotel-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db query.DBTX, arg query.CreateReservationParams) error
	GetReservationByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Reservation, error)
	ListReservationsByIDs(ctx context.Context, db query.DBTX, ids []pgtype.UUID) ([]query.Reservation, error)
	UpdateReservationStatus(ctx context.Context, db query.DBTX, arg query.UpdateReservationStatusParams) (int64, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      query.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db query.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	params, err := converter.ReservationToInfra(res)
	if err != nil {
		return infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
	}

	if err := r.queries.CreateReservation(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res, err := converter.ReservationToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *ReservationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListReservationsByIDs(ctx, r.db, pgconv.UUIDsToPgtype(ids))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by ids", err)
	}

	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := converter.ReservationToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	affected, err := r.queries.UpdateReservationStatus(ctx, r.db, query.UpdateReservationStatusParams{
		ID:        res.ID(),
		Status:    res.Status().String(),
		UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
