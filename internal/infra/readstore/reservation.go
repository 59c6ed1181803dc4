package readstore

import (
	"context"
	"encoding/json"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationViewByCode(ctx context.Context, db query.DBTX, code string) (query.ReservationView, error)
	ListActiveStays(ctx context.Context, db query.DBTX, arg query.ListActiveStaysParams) ([]query.RoomStay, error)
	ConfirmationCodeExists(ctx context.Context, db query.DBTX, code string) (bool, error)
	HasUpcomingStay(ctx context.Context, db query.DBTX, arg query.HasUpcomingStayParams) (bool, error)
	ListEndedStayIDs(ctx context.Context, db query.DBTX, arg query.ListEndedStayIDsParams) ([]uuid.UUID, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      query.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db query.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByConfirmationCode(ctx context.Context, code string) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByCode(ctx, r.db, code)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by confirmation code", err)
	}

	return rowToReservationView(row)
}

func rowToReservationView(row query.ReservationView) (*queries.ReservationView, error) {
	addons := []reservation.Addon{}
	if len(row.Addons) > 0 {
		if err := json.Unmarshal(row.Addons, &addons); err != nil {
			return nil, infra.WrapRepoErr("failed to decode addons", err, infra.KindDBFailure)
		}
	}

	return &queries.ReservationView{
		ID:                 row.ID,
		ConfirmationCode:   row.ConfirmationCode,
		RoomID:             row.RoomID,
		RoomCode:           row.RoomCode,
		RoomType:           row.RoomType,
		CancellationPolicy: row.CancellationPolicy,
		GuestName:          row.GuestName,
		GuestEmail:         row.GuestEmail,
		GuestPhone:         row.GuestPhone,
		CheckIn:            pgconv.DateFromPgtype(row.CheckIn),
		CheckOut:           pgconv.DateFromPgtype(row.CheckOut),
		OccupiedDays:       pgconv.DatesFromPgtype(row.OccupiedDays),
		Adults:             int(row.Adults),
		Children:           int(row.Children),
		Addons:             addons,
		TotalCents:         row.TotalCents,
		Status:             row.Status,
		CreatedAt:          pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:          pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

// ActiveStays returns non-cancelled stays of the rooms with check-out after the given day.
func (r *ReservationReadStore) ActiveStays(ctx context.Context, roomIDs []uuid.UUID, after time.Time) ([]queries.RoomStay, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListActiveStays(ctx, r.db, query.ListActiveStaysParams{
		RoomIDs: pgconv.UUIDsToPgtype(roomIDs),
		After:   pgconv.DateToPgtype(after),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active stays", err)
	}

	stays := make([]queries.RoomStay, len(rows))
	for i, row := range rows {
		stays[i] = queries.RoomStay{
			ReservationID: row.ReservationID,
			RoomID:        row.RoomID,
			CheckIn:       pgconv.DateFromPgtype(row.CheckIn),
			CheckOut:      pgconv.DateFromPgtype(row.CheckOut),
			OccupiedDays:  pgconv.DatesFromPgtype(row.OccupiedDays),
		}
	}
	return stays, nil
}

func (r *ReservationReadStore) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := r.queries.ConfirmationCodeExists(ctx, r.db, code)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check confirmation code", err)
	}
	return exists, nil
}

func (r *ReservationReadStore) HasUpcomingStay(ctx context.Context, roomID, excludeID uuid.UUID, today time.Time) (bool, error) {
	exists, err := r.queries.HasUpcomingStay(ctx, r.db, query.HasUpcomingStayParams{
		RoomID:    roomID,
		ExcludeID: excludeID,
		Today:     pgconv.DateToPgtype(today),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to check upcoming stays", err)
	}
	return exists, nil
}

func (r *ReservationReadStore) EndedStayIDs(ctx context.Context, today time.Time, limit int32) ([]uuid.UUID, error) {
	ids, err := r.queries.ListEndedStayIDs(ctx, r.db, query.ListEndedStayIDsParams{
		Today: pgconv.DateToPgtype(today),
		Limit: limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ended stays", err)
	}
	return ids, nil
}
