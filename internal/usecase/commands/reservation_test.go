//go:build unit

package commands_test

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/internal/usecase/shared"
	"hotel-reservation/tests/common/builder"
	"hotel-reservation/tests/common/fake"
	"hotel-reservation/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type checkoutEnv struct {
	store    *memuow.Store
	notifier *fake.Notifier
	cache    *fake.Cache
	clock    *clock.MockClock
	uc       commands.ReservationCommands
}

func newCheckoutEnv(t *testing.T, bufferDays int, rooms ...*builder.RoomBuilder) *checkoutEnv {
	t.Helper()
	return newCheckoutEnvWith(t, bufferDays, commands.ReservationSettings{IdempotencyTTL: 24 * time.Hour}, rooms...)
}

func newCheckoutEnvWith(
	t *testing.T,
	bufferDays int,
	settings commands.ReservationSettings,
	rooms ...*builder.RoomBuilder,
) *checkoutEnv {
	t.Helper()

	env := &checkoutEnv{
		store:    memuow.New(),
		notifier: fake.NewNotifier(),
		cache:    fake.NewCache(),
		clock:    clock.NewMockClock(testNow),
	}
	for _, rm := range rooms {
		env.store.AddRoom(rm.BuildRecord())
	}
	env.uc = commands.NewReservationUseCase(
		env.store,
		commands.NewAvailabilityValidator(bufferDays),
		reservation.NewCodeGenerator(rand.Reader, reservation.DefaultCodeLength),
		env.notifier,
		env.cache,
		env.clock,
		settings,
	)
	return env
}

func line(roomID uuid.UUID, checkIn, checkOut string) commands.CheckoutLine {
	return builder.NewReservationBuilder().
		With(func(b *builder.ReservationBuilder) { b.RoomID = roomID }).
		Stay(checkIn, checkOut).
		BuildCheckoutLine()
}

func cart(key uuid.UUID, lines ...commands.CheckoutLine) commands.CheckoutRequest {
	req := builder.NewReservationBuilder().BuildCheckoutCommand(key)
	req.Lines = lines
	return req
}

func days(values ...string) []time.Time {
	out := make([]time.Time, len(values))
	for i, v := range values {
		out[i], _ = stay.ParseDay(v)
	}
	return out
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Code = "101" })
	r2 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Code = "102" })

	t.Run("success: books every line of a two-room cart", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1, r2)
		key := uuid.New()

		result, err := env.uc.Checkout(ctx, cart(key,
			line(r1.ID, "2025-07-01", "2025-07-03"),
			line(r2.ID, "2025-07-02", "2025-07-04"),
		))
		require.NoError(t, err)

		require.Len(t, result.Reservations, 2)
		assert.False(t, result.Replayed)
		assert.Empty(t, result.Warnings)

		first, second := result.Reservations[0], result.Reservations[1]
		assert.Equal(t, r1.ID, first.RoomID())
		assert.Equal(t, r2.ID, second.RoomID())
		assert.Equal(t, days("2025-07-01", "2025-07-02"), first.OccupiedDays())
		assert.Equal(t, days("2025-07-02", "2025-07-03"), second.OccupiedDays())
		assert.Equal(t, reservation.StatusConfirmed, first.Status())
		assert.NotEqual(t, first.ConfirmationCode(), second.ConfirmationCode())
		assert.Len(t, first.ConfirmationCode().String(), reservation.DefaultCodeLength)

		for _, id := range []uuid.UUID{r1.ID, r2.ID} {
			rec, ok := env.store.Room(id)
			require.True(t, ok)
			assert.True(t, rec.Occupied)
		}

		record, ok := env.store.Idempotency(key)
		require.True(t, ok)
		assert.True(t, record.IsCompleted())
		assert.Equal(t, []uuid.UUID{first.ID(), second.ID()}, record.ReservationIDs)

		sent := env.notifier.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, shared.NotificationReservationConfirmed, sent[0].Kind)
		assert.Equal(t, first.ConfirmationCode().String(), sent[0].ConfirmationCode)
		assert.Contains(t, env.cache.Invalidated(), "double")
	})

	t.Run("success: back-to-back stays share the turnover day", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)

		_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		result, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-03", "2025-07-05")))
		require.NoError(t, err)
		assert.Equal(t, days("2025-07-03", "2025-07-04"), result.Reservations[0].OccupiedDays())
	})

	t.Run("error: overlapping stay is rejected with the failing line", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)

		_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		_, err = env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-02", "2025-07-04")))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrUnavailable))

		var unavailable *commands.UnavailableError
		require.True(t, errs.As(err, &unavailable))
		assert.Equal(t, []commands.LineFailure{
			{Index: 0, RoomID: r1.ID, Reason: commands.ReasonRoomUnavailable},
		}, unavailable.Failures)
		assert.Len(t, env.store.Reservations(), 1)
	})

	t.Run("error: buffer days keep a gap after the previous check-out", func(t *testing.T) {
		env := newCheckoutEnv(t, 1, r1)

		_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		_, err = env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-03", "2025-07-05")))
		assert.True(t, errs.Is(err, errs.ErrUnavailable))

		_, err = env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-04", "2025-07-06")))
		assert.NoError(t, err)
	})

	t.Run("error: one unavailable line rejects the whole cart", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1, r2)

		_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r2.ID, "2025-07-10", "2025-07-12")))
		require.NoError(t, err)
		before := len(env.store.Reservations())

		key := uuid.New()
		_, err = env.uc.Checkout(ctx, cart(key,
			line(r1.ID, "2025-07-10", "2025-07-12"),
			line(r2.ID, "2025-07-11", "2025-07-13"),
		))

		var unavailable *commands.UnavailableError
		require.True(t, errs.As(err, &unavailable))
		assert.Equal(t, []commands.LineFailure{
			{Index: 1, RoomID: r2.ID, Reason: commands.ReasonRoomUnavailable},
		}, unavailable.Failures)

		assert.Len(t, env.store.Reservations(), before)
		_, claimed := env.store.Idempotency(key)
		assert.False(t, claimed, "rolled back claim must not survive")
		rec, _ := env.store.Room(r1.ID)
		assert.False(t, rec.Occupied)
	})

	t.Run("error: a write failure halfway leaves nothing behind", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1, r2)
		env.store.FailCreateOn(2, errors.New("connection reset"))

		_, err := env.uc.Checkout(ctx, cart(uuid.New(),
			line(r1.ID, "2025-07-01", "2025-07-03"),
			line(r2.ID, "2025-07-01", "2025-07-03"),
		))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrPersistence))
		assert.Empty(t, env.store.Reservations())
		assert.Empty(t, env.notifier.Sent())
		assert.Zero(t, env.store.Commits())
	})

	t.Run("success: a confirmation code committed concurrently is redrawn on retry", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		env.store.FailCreateOn(1, &pgconn.PgError{Code: "23505", ConstraintName: "reservations_confirmation_code_key"})
		key := uuid.New()

		result, err := env.uc.Checkout(ctx, cart(key, line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		require.Len(t, result.Reservations, 1)
		assert.Len(t, env.store.Reservations(), 1)
		assert.Equal(t, 2, env.store.Attempts())
		assert.Equal(t, 1, env.store.Commits())
		assert.Len(t, env.notifier.Sent(), 1)

		record, ok := env.store.Idempotency(key)
		require.True(t, ok)
		assert.Equal(t, []uuid.UUID{result.Reservations[0].ID()}, record.ReservationIDs)
	})

	t.Run("error: stays longer than the maximum are rejected", func(t *testing.T) {
		testCases := []struct {
			name     string
			checkIn  string
			checkOut string
		}{
			{name: "one night over", checkIn: "2025-07-01", checkOut: "2026-07-02"},
			{name: "whole calendar", checkIn: "0001-01-01", checkOut: "9999-12-31"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				env := newCheckoutEnv(t, 0, r1)

				_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, tc.checkIn, tc.checkOut)))

				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrValidation))
				assert.True(t, errs.Is(err, stay.ErrStayTooLong))
				assert.Zero(t, env.store.Attempts())
			})
		}
	})

	t.Run("success: a stay of exactly the maximum is booked", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)

		result, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2026-07-01")))
		require.NoError(t, err)
		assert.Equal(t, 365, result.Reservations[0].Stay().Nights())
	})

	t.Run("error: unknown rooms are reported as invalid references", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		missing := uuid.New()

		_, err := env.uc.Checkout(ctx, cart(uuid.New(),
			line(r1.ID, "2025-07-01", "2025-07-03"),
			line(missing, "2025-07-01", "2025-07-03"),
		))

		var invalid *commands.InvalidReferenceError
		require.True(t, errs.As(err, &invalid))
		assert.Equal(t, []uuid.UUID{missing}, invalid.MissingRoomIDs)
		assert.True(t, errs.Is(err, errs.ErrInvalidReference))
		assert.Empty(t, env.store.Reservations())
	})

	t.Run("error: line-level reasons for capacity, unpublished rooms and in-cart overlap", func(t *testing.T) {
		hidden := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) {
			b.Code = "900"
			b.Published = false
		})
		env := newCheckoutEnv(t, 0, r1, r2, hidden)

		crowded := line(r2.ID, "2025-08-01", "2025-08-03")
		crowded.Adults = 3

		_, err := env.uc.Checkout(ctx, cart(uuid.New(),
			line(r1.ID, "2025-08-01", "2025-08-04"),
			line(r1.ID, "2025-08-03", "2025-08-05"),
			crowded,
			line(hidden.ID, "2025-08-01", "2025-08-02"),
		))

		var unavailable *commands.UnavailableError
		require.True(t, errs.As(err, &unavailable))
		assert.Equal(t, []commands.LineFailure{
			{Index: 1, RoomID: r1.ID, Reason: commands.ReasonRoomUnavailable},
			{Index: 2, RoomID: r2.ID, Reason: commands.ReasonCapacityExceeded},
			{Index: 3, RoomID: hidden.ID, Reason: commands.ReasonRoomUnavailable},
		}, unavailable.Failures)
	})

	t.Run("error: request validation", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)

		testCases := []struct {
			name   string
			req    commands.CheckoutRequest
			target error
		}{
			{
				name:   "missing idempotency key",
				req:    cart(uuid.Nil, line(r1.ID, "2025-07-01", "2025-07-03")),
				target: errs.ErrIdempotencyKeyRequired,
			},
			{
				name:   "empty cart",
				req:    cart(uuid.New()),
				target: errs.ErrValidation,
			},
			{
				name:   "check-out not after check-in",
				req:    cart(uuid.New(), line(r1.ID, "2025-07-03", "2025-07-03")),
				target: errs.ErrValidation,
			},
			{
				name: "no adults",
				req: func() commands.CheckoutRequest {
					l := line(r1.ID, "2025-07-01", "2025-07-03")
					l.Adults = 0
					return cart(uuid.New(), l)
				}(),
				target: errs.ErrValidation,
			},
			{
				name: "invalid guest email",
				req: func() commands.CheckoutRequest {
					req := cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03"))
					req.Guest.Email = "not-an-email"
					return req
				}(),
				target: errs.ErrValidation,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.uc.Checkout(ctx, tc.req)
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.target))
			})
		}
		assert.Empty(t, env.store.Reservations())
	})
}

func TestCheckoutIdempotency(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Code = "101" })
	r2 := builder.NewRoomBuilder().With(func(b *builder.RoomBuilder) { b.Code = "102" })

	t.Run("success: same key and body replays the original reservations", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1, r2)
		req := cart(uuid.New(),
			line(r2.ID, "2025-07-01", "2025-07-03"),
			line(r1.ID, "2025-07-01", "2025-07-03"),
		)

		first, err := env.uc.Checkout(ctx, req)
		require.NoError(t, err)

		again, err := env.uc.Checkout(ctx, req)
		require.NoError(t, err)

		assert.True(t, again.Replayed)
		require.Len(t, again.Reservations, 2)
		for i := range first.Reservations {
			assert.Equal(t, first.Reservations[i].ID(), again.Reservations[i].ID())
			assert.Equal(t, first.Reservations[i].ConfirmationCode(), again.Reservations[i].ConfirmationCode())
		}
		assert.Len(t, again.Rooms, 2)
		assert.Len(t, env.store.Reservations(), 2)
		assert.Len(t, env.notifier.Sent(), 2, "replay must not notify again")
	})

	t.Run("error: same key with a different body", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		key := uuid.New()

		_, err := env.uc.Checkout(ctx, cart(key, line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		_, err = env.uc.Checkout(ctx, cart(key, line(r1.ID, "2025-07-05", "2025-07-07")))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrIdempotencyKeyReused))
		assert.Len(t, env.store.Reservations(), 1)
	})

	t.Run("success: an expired key can be used for a new request", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		key := uuid.New()

		_, err := env.uc.Checkout(ctx, cart(key, line(r1.ID, "2025-07-01", "2025-07-03")))
		require.NoError(t, err)

		env.clock.Add(25 * time.Hour)
		result, err := env.uc.Checkout(ctx, cart(key, line(r1.ID, "2025-07-05", "2025-07-07")))
		require.NoError(t, err)
		assert.False(t, result.Replayed)
		assert.Len(t, env.store.Reservations(), 2)
	})

	t.Run("success: concurrent retries of one request book once", func(t *testing.T) {
		env := newCheckoutEnv(t, 0, r1)
		req := cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03"))

		const workers = 8
		var wg sync.WaitGroup
		results := make([]*commands.CheckoutResult, workers)
		errList := make([]error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errList[i] = env.uc.Checkout(ctx, req)
			}()
		}
		wg.Wait()

		replayed := 0
		for i := range workers {
			require.NoError(t, errList[i])
			if results[i].Replayed {
				replayed++
			}
		}
		assert.Equal(t, workers-1, replayed)
		assert.Len(t, env.store.Reservations(), 1)
	})
}

func TestCheckoutConcurrency(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder()
	env := newCheckoutEnv(t, 0, r1)

	const workers = 16
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		succeeded   int
		unavailable int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-09-01", "2025-09-04")))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, errs.ErrUnavailable):
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, unavailable)
	assert.Len(t, env.store.Reservations(), 1)
}

func TestCheckoutNotificationFailure(t *testing.T) {
	ctx := context.Background()
	r1 := builder.NewRoomBuilder()
	env := newCheckoutEnv(t, 0, r1)
	env.notifier.FailWith(errors.New("smtp relay down"))

	result, err := env.uc.Checkout(ctx, cart(uuid.New(), line(r1.ID, "2025-07-01", "2025-07-03")))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], result.Reservations[0].ConfirmationCode().String())
	assert.Len(t, env.store.Reservations(), 1)

	jobs := env.store.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, memuow.JobPending, jobs[0].Status)
	assert.Equal(t, shared.NotificationReservationConfirmed, jobs[0].Job.Kind)
	assert.Equal(t, testNow.Add(time.Minute), jobs[0].Job.RunAt)
}
