//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/internal/usecase/shared"
	"hotel-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReservation(t *testing.T, env *checkoutEnv, mutate func(*builder.ReservationBuilder)) *reservation.Reservation {
	t.Helper()
	res, err := builder.NewReservationBuilder().With(mutate).BuildDomain()
	require.NoError(t, err)
	env.store.AddReservation(res)
	return res
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Occupied = true })

	t.Run("success: cancels and frees the room", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		result, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)
		booked := result.Reservations[0]

		env.clock.Add(time.Hour)
		cancelled, err := env.uc.Cancel(ctx, booked.ID())
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusCancelled, cancelled.Status())
		assert.Equal(t, testNow.Add(time.Hour), cancelled.UpdatedAt())

		stored, ok := env.store.Reservation(booked.ID())
		require.True(t, ok)
		assert.Equal(t, reservation.StatusCancelled, stored.Status())

		rec, _ := env.store.Room(r1.ID)
		assert.False(t, rec.Occupied)

		sent := env.notifier.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, shared.NotificationReservationCancelled, sent[1].Kind)
		assert.Equal(t, "cancelled", sent[1].Status)

		// the released nights can be booked again
		_, err = env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
		assert.NoError(t, err)
	})

	t.Run("success: room stays marked while another stay is upcoming", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		first := seedReservation(t, env, func(b *builder.ReservationBuilder) {
			b.RoomID = r1.ID
			b.Stay("2025-07-01", "2025-07-03")
		})
		seedReservation(t, env, func(b *builder.ReservationBuilder) {
			b.ID = uuid.New()
			b.ConfirmationCode = "ZXCV2345"
			b.RoomID = r1.ID
			b.Stay("2025-07-10", "2025-07-12")
		})

		_, err := env.uc.Cancel(ctx, first.ID())
		require.NoError(t, err)

		rec, _ := env.store.Room(r1.ID)
		assert.True(t, rec.Occupied)
	})

	t.Run("error: cancelling twice", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		res := seedReservation(t, env, func(b *builder.ReservationBuilder) {
			b.RoomID = r1.ID
			b.Status = reservation.StatusCancelled
		})

		_, err := env.uc.Cancel(ctx, res.ID())
		require.Error(t, err)
		assert.True(t, errs.Is(err, reservation.ErrAlreadyCancelled))
		assert.Empty(t, env.notifier.Sent())
	})

	t.Run("error: completed reservations cannot be cancelled", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		res := seedReservation(t, env, func(b *builder.ReservationBuilder) {
			b.RoomID = r1.ID
			b.Status = reservation.StatusCompleted
		})

		_, err := env.uc.Cancel(ctx, res.ID())
		assert.True(t, errs.Is(err, reservation.ErrInvalidTransition))
	})

	t.Run("error: unknown reservation", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)

		_, err := env.uc.Cancel(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrReservationNotFound))
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Occupied = true })

	t.Run("success: confirmed to completed", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		res := seedReservation(t, env, func(b *builder.ReservationBuilder) { b.RoomID = r1.ID })

		completed, err := env.uc.Complete(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCompleted, completed.Status())

		rec, _ := env.store.Room(r1.ID)
		assert.False(t, rec.Occupied)
		assert.Contains(t, env.cache.Invalidated(), r1.Type)
	})

	t.Run("error: cancelled reservations cannot be completed", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		res := seedReservation(t, env, func(b *builder.ReservationBuilder) {
			b.RoomID = r1.ID
			b.Status = reservation.StatusCancelled
		})

		_, err := env.uc.Complete(ctx, res.ID())
		assert.True(t, errs.Is(err, reservation.ErrInvalidTransition))
	})
}

func TestCompleteEndedStays(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Occupied = true })
	env := newCheckoutEnv(t, 0, r1)

	// testNow is 2025-06-01
	ended := seedReservation(t, env, func(b *builder.ReservationBuilder) {
		b.RoomID = r1.ID
		b.Stay("2025-05-28", "2025-05-30")
	})
	checkingOutToday := seedReservation(t, env, func(b *builder.ReservationBuilder) {
		b.ID = uuid.New()
		b.ConfirmationCode = "QWER2345"
		b.RoomID = r1.ID
		b.Stay("2025-05-30", "2025-06-01")
	})
	upcoming := seedReservation(t, env, func(b *builder.ReservationBuilder) {
		b.ID = uuid.New()
		b.ConfirmationCode = "ASDF2345"
		b.RoomID = r1.ID
		b.Stay("2025-06-01", "2025-06-03")
	})
	cancelled := seedReservation(t, env, func(b *builder.ReservationBuilder) {
		b.ID = uuid.New()
		b.ConfirmationCode = "ZXCV2345"
		b.RoomID = r1.ID
		b.Stay("2025-05-20", "2025-05-22")
		b.Status = reservation.StatusCancelled
	})

	completed, err := env.uc.CompleteEndedStays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, completed)

	for id, want := range map[uuid.UUID]reservation.Status{
		ended.ID():            reservation.StatusCompleted,
		checkingOutToday.ID(): reservation.StatusCompleted,
		upcoming.ID():         reservation.StatusConfirmed,
		cancelled.ID():        reservation.StatusCancelled,
	} {
		stored, ok := env.store.Reservation(id)
		require.True(t, ok)
		assert.Equal(t, want, stored.Status())
	}

	rec, _ := env.store.Room(r1.ID)
	assert.True(t, rec.Occupied, "the upcoming stay keeps the room marked")

	again, err := env.uc.CompleteEndedStays(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestCompleteEndedStays_Batches(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Occupied = true })

	seedEnded := func(t *testing.T, env *checkoutEnv, n int) []uuid.UUID {
		t.Helper()
		ids := make([]uuid.UUID, n)
		for i := range n {
			// testNow is 2025-06-01; one past stay per week
			checkIn := testNow.AddDate(0, 0, -7*(i+1))
			res := seedReservation(t, env, func(b *builder.ReservationBuilder) {
				b.ID = uuid.New()
				b.ConfirmationCode = "SWEEPAA" + string(rune('A'+i))
				b.RoomID = r1.ID
				b.Stay(stay.FormatDay(checkIn), stay.FormatDay(checkIn.AddDate(0, 0, 2)))
			})
			ids[i] = res.ID()
		}
		return ids
	}

	testCases := []struct {
		name      string
		batchSize int
		ended     int
	}{
		{name: "batch of one with two ended stays", batchSize: 1, ended: 2},
		{name: "batch smaller than the backlog", batchSize: 2, ended: 5},
		{name: "backlog that fills batches exactly", batchSize: 3, ended: 6},
		{name: "backlog within one batch", batchSize: 10, ended: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newCheckoutEnvWith(t, 0, commands.ReservationSettings{
				IdempotencyTTL: 24 * time.Hour,
				SweepBatchSize: tc.batchSize,
			}, r1)
			ids := seedEnded(t, env, tc.ended)

			completed, err := env.uc.CompleteEndedStays(ctx)

			require.NoError(t, err)
			assert.Equal(t, tc.ended, completed)
			for _, id := range ids {
				stored, ok := env.store.Reservation(id)
				require.True(t, ok)
				assert.Equal(t, reservation.StatusCompleted, stored.Status())
			}
		})
	}

	t.Run("failing reservations do not stall the sweep", func(t *testing.T) {
		env := newCheckoutEnvWith(t, 0, commands.ReservationSettings{
			IdempotencyTTL: 24 * time.Hour,
			SweepBatchSize: 1,
		}, r1)
		ids := seedEnded(t, env, 3)
		// the earliest stay fails and keeps sorting first in every later batch
		env.store.FailUpdateStatusOn(1, errors.New("connection reset"))

		completed, err := env.uc.CompleteEndedStays(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, completed)
		confirmed := 0
		for _, id := range ids {
			stored, _ := env.store.Reservation(id)
			if stored.Status() == reservation.StatusConfirmed {
				confirmed++
			}
		}
		assert.Equal(t, 1, confirmed)
	})

	t.Run("cancelled context stops between batches", func(t *testing.T) {
		env := newCheckoutEnvWith(t, 0, commands.ReservationSettings{
			IdempotencyTTL: 24 * time.Hour,
			SweepBatchSize: 1,
		}, r1)
		seedEnded(t, env, 2)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		completed, err := env.uc.CompleteEndedStays(cancelled)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, completed)
	})
}
