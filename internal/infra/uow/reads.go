package uow

import (
	"context"
	"log/slog"
	"math"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/readstore"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

// commandReads adapts the read stores to what the command side needs. Inside a
// transaction it reads through the tx so the caller sees its own writes.
type commandReads struct {
	reservations *readstore.ReservationReadStore
	idempotency  *readstore.IdempotencyReadStore
}

func newCommandReads(q *query.Queries, db query.DBTX) *commandReads {
	return &commandReads{
		reservations: readstore.NewReservationReadStore(q, db),
		idempotency:  readstore.NewIdempotencyReadStore(q, db),
	}
}

func (r *commandReads) ActiveStays(ctx context.Context, roomID uuid.UUID, after time.Time) ([]stay.DateRange, error) {
	rows, err := r.reservations.ActiveStays(ctx, []uuid.UUID{roomID}, after)
	if err != nil {
		return nil, err
	}

	stays := make([]stay.DateRange, 0, len(rows))
	for _, row := range rows {
		dr, err := stay.NewDateRange(row.CheckIn, row.CheckOut)
		if err != nil {
			// the table check constraint rules this out
			slog.Warn("skipping reservation with invalid stay", "reservation_id", row.ReservationID, "error", err.Error())
			continue
		}
		stays = append(stays, dr)
	}
	return stays, nil
}

func (r *commandReads) ConfirmationCodeExists(ctx context.Context, code reservation.ConfirmationCode) (bool, error) {
	return r.reservations.ConfirmationCodeExists(ctx, code.String())
}

func (r *commandReads) HasUpcomingStay(ctx context.Context, roomID, excludeID uuid.UUID, today time.Time) (bool, error) {
	return r.reservations.HasUpcomingStay(ctx, roomID, excludeID, today)
}

func (r *commandReads) EndedStayIDs(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	if limit <= 0 || limit > math.MaxInt32 {
		limit = math.MaxInt32
	}
	return r.reservations.EndedStayIDs(ctx, today, int32(limit)) // #nosec G115 -- bounded above
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	return r.idempotency.Get(ctx, key)
}
