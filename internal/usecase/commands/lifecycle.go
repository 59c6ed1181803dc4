package commands

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

func (uc *reservationUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return uc.transition(ctx, id, shared.NotificationReservationCancelled, (*reservation.Reservation).Cancel)
}

func (uc *reservationUseCaseImpl) Complete(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return uc.transition(ctx, id, shared.NotificationReservationCompleted, (*reservation.Reservation).Complete)
}

// transition applies a status change under the room lock and releases the
// occupied marker once the room has no confirmed stay left that ends after today.
func (uc *reservationUseCaseImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	kind string,
	apply func(*reservation.Reservation, time.Time) error,
) (*reservation.Reservation, error) {
	var (
		updated  *reservation.Reservation
		roomType string
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := uc.findReservation(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := tx.Locks().LockRooms(ctx, []uuid.UUID{current.RoomID()}); err != nil {
			return persistenceErr(err, "lock room")
		}
		// re-read: another transaction may have moved it while we waited for the lock
		current, err = uc.findReservation(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := apply(current, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Reservations().UpdateStatus(ctx, current); err != nil {
			return persistenceErr(err, "update reservation status")
		}

		busy, err := tx.Reads().HasUpcomingStay(ctx, current.RoomID(), current.ID(), clock.Today(uc.clock))
		if err != nil {
			return persistenceErr(err, "check upcoming stays")
		}
		if !busy {
			if err := tx.Rooms().SetOccupied(ctx, current.RoomID(), false); err != nil {
				return persistenceErr(err, "release room marker")
			}
		}

		rooms, err := tx.Rooms().GetByIDs(ctx, []uuid.UUID{current.RoomID()})
		if err != nil {
			return persistenceErr(err, "load room")
		}
		roomType = ""
		if len(rooms) == 1 {
			roomType = rooms[0].Type()
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	// a failed notification here is logged and queued; lifecycle callers get no warning list
	uc.notify(ctx, kind, updated)
	if roomType != "" {
		uc.invalidateCalendar(ctx, roomType)
	}

	return updated, nil
}

func (uc *reservationUseCaseImpl) findReservation(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, persistenceErr(err, "load reservation")
	}
	return res, nil
}

// CompleteEndedStays moves every confirmed reservation whose check-out day has
// arrived to completed, one batch at a time until a batch comes back short.
// Reservations that changed state concurrently are skipped.
func (uc *reservationUseCaseImpl) CompleteEndedStays(ctx context.Context) (int, error) {
	today := clock.Today(uc.clock)
	// ids that failed stay confirmed and sort first again, so every fetch is
	// widened by the number of attempted ids that were not completed
	attempted := make(map[uuid.UUID]struct{})
	completed, batches := 0, 0

	for {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		limit := uc.settings.SweepBatchSize + len(attempted) - completed
		ids, err := uc.uow.CommandReads().EndedStayIDs(ctx, today, limit)
		if err != nil {
			return completed, persistenceErr(err, "list ended stays")
		}
		batches++

		fresh := 0
		for _, id := range ids {
			if _, seen := attempted[id]; seen {
				continue
			}
			attempted[id] = struct{}{}
			fresh++

			if ctx.Err() != nil {
				return completed, ctx.Err()
			}
			if _, err := uc.Complete(ctx, id); err != nil {
				if errs.Is(err, reservation.ErrInvalidTransition) || errs.Is(err, errs.ErrReservationNotFound) {
					continue
				}
				slog.Error("failed to complete reservation", "reservation_id", id.String(), "error", err.Error())
				continue
			}
			completed++
		}

		if len(ids) < limit || fresh == 0 {
			break
		}
	}

	slog.Info("completion sweep finished", "batches", batches, "candidates", len(attempted), "completed", completed)
	return completed, nil
}
