package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/usecase/shared"
)

const redeliveryDelay = time.Minute

func notificationFor(kind string, res *reservation.Reservation, at time.Time) shared.Notification {
	return shared.Notification{
		Kind:             kind,
		ReservationID:    res.ID(),
		ConfirmationCode: res.ConfirmationCode().String(),
		RoomID:           res.RoomID(),
		GuestName:        res.Guest().Name(),
		GuestEmail:       res.Guest().Email(),
		CheckIn:          stay.FormatDay(res.Stay().Start()),
		CheckOut:         stay.FormatDay(res.Stay().End()),
		Status:           res.Status().String(),
		OccurredAt:       at,
	}
}

// notify runs after commit. A failure is logged and queued for redelivery and
// comes back as a warning for the caller; it never undoes the reservation.
func (uc *reservationUseCaseImpl) notify(ctx context.Context, kind string, res *reservation.Reservation) string {
	n := notificationFor(kind, res, uc.clock.Now())
	err := uc.notifier.Notify(ctx, n)
	if err == nil {
		return ""
	}

	slog.Warn("notification failed",
		"kind", kind,
		"reservation_id", res.ID().String(),
		"confirmation_code", n.ConfirmationCode,
		"error", err.Error())

	if qerr := uc.enqueueRedelivery(ctx, n); qerr != nil {
		slog.Error("failed to queue notification for redelivery",
			"reservation_id", res.ID().String(),
			"error", qerr.Error())
	}

	return fmt.Sprintf("notification %s for reservation %s failed: %v", kind, n.ConfirmationCode, err)
}

func (uc *reservationUseCaseImpl) enqueueRedelivery(ctx context.Context, n shared.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().Enqueue(ctx, shared.NotificationJob{
			Kind:    n.Kind,
			Topic:   n.Kind,
			Payload: payload,
			RunAt:   uc.clock.Now().Add(redeliveryDelay),
		})
	})
}

func (uc *reservationUseCaseImpl) invalidateCalendar(ctx context.Context, roomTypes ...string) {
	if len(roomTypes) == 0 {
		return
	}
	if err := uc.cache.Invalidate(ctx, roomTypes...); err != nil {
		slog.Warn("calendar cache invalidation failed", "room_types", roomTypes, "error", err.Error())
	}
}
