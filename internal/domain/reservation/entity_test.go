//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/stay"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

func newConfirmed(t *testing.T, from, to string) *reservation.Reservation {
	t.Helper()

	guest, err := reservation.NewGuestInfo("Hanako Yamada", "hanako@example.com", "+81-90-0000-0000")
	require.NoError(t, err)
	guests, err := reservation.NewGuestCount(2, 1)
	require.NoError(t, err)
	total, err := reservation.NewMoney(4200000)
	require.NoError(t, err)
	r, err := stay.ParseDateRange(from, to)
	require.NoError(t, err)

	res, err := reservation.NewReservation(reservation.NewReservationParams{
		ID:               uuid.New(),
		ConfirmationCode: "ABCD2345",
		RoomID:           uuid.New(),
		Guest:            guest,
		Stay:             r,
		Guests:           guests,
		Total:            total,
		Now:              now,
	})
	require.NoError(t, err)
	return res
}

func TestNewReservation(t *testing.T) {
	t.Run("宿泊日が展開される", func(t *testing.T) {
		res := newConfirmed(t, "2024-08-01", "2024-08-03")

		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		days := res.OccupiedDays()
		require.Len(t, days, 2)
		assert.Equal(t, "2024-08-01", stay.FormatDay(days[0]))
		assert.Equal(t, "2024-08-02", stay.FormatDay(days[1]))
		assert.Equal(t, res.Stay().Nights(), len(days))
	})

	t.Run("OccupiedDaysはコピーを返す", func(t *testing.T) {
		res := newConfirmed(t, "2024-08-01", "2024-08-03")
		days := res.OccupiedDays()
		days[0] = time.Time{}
		assert.Equal(t, "2024-08-01", stay.FormatDay(res.OccupiedDays()[0]))
	})

	t.Run("IDなしはエラー", func(t *testing.T) {
		r, _ := stay.ParseDateRange("2024-08-01", "2024-08-03")
		_, err := reservation.NewReservation(reservation.NewReservationParams{
			ConfirmationCode: "ABCD2345",
			Stay:             r,
		})
		assert.ErrorIs(t, err, reservation.ErrMissingIdentity)
	})

	t.Run("期間なしはエラー", func(t *testing.T) {
		_, err := reservation.NewReservation(reservation.NewReservationParams{
			ID:               uuid.New(),
			ConfirmationCode: "ABCD2345",
		})
		assert.ErrorIs(t, err, stay.ErrInvalidRange)
	})
}

func TestReservationTransitions(t *testing.T) {
	later := now.Add(time.Hour)

	testCases := []struct {
		name     string
		prepare  func(*reservation.Reservation)
		action   func(*reservation.Reservation) error
		errIs    error
		expected reservation.Status
	}{
		{
			name:     "confirmed -> cancelled",
			action:   func(r *reservation.Reservation) error { return r.Cancel(later) },
			expected: reservation.StatusCancelled,
		},
		{
			name:     "confirmed -> completed",
			action:   func(r *reservation.Reservation) error { return r.Complete(later) },
			expected: reservation.StatusCompleted,
		},
		{
			name:     "cancelled を再キャンセルすると AlreadyCancelled",
			prepare:  func(r *reservation.Reservation) { _ = r.Cancel(now) },
			action:   func(r *reservation.Reservation) error { return r.Cancel(later) },
			errIs:    reservation.ErrAlreadyCancelled,
			expected: reservation.StatusCancelled,
		},
		{
			name:     "completed はキャンセル不可",
			prepare:  func(r *reservation.Reservation) { _ = r.Complete(now) },
			action:   func(r *reservation.Reservation) error { return r.Cancel(later) },
			errIs:    reservation.ErrInvalidTransition,
			expected: reservation.StatusCompleted,
		},
		{
			name:     "cancelled は完了不可",
			prepare:  func(r *reservation.Reservation) { _ = r.Cancel(now) },
			action:   func(r *reservation.Reservation) error { return r.Complete(later) },
			errIs:    reservation.ErrInvalidTransition,
			expected: reservation.StatusCancelled,
		},
		{
			name:     "completed の再完了も不可",
			prepare:  func(r *reservation.Reservation) { _ = r.Complete(now) },
			action:   func(r *reservation.Reservation) error { return r.Complete(later) },
			errIs:    reservation.ErrInvalidTransition,
			expected: reservation.StatusCompleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := newConfirmed(t, "2024-08-01", "2024-08-03")
			if tc.prepare != nil {
				tc.prepare(res)
			}
			before := res.UpdatedAt()

			err := tc.action(res)

			assert.Equal(t, tc.expected, res.Status())
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Equal(t, before, res.UpdatedAt(), "failed transition must not touch the record")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, later, res.UpdatedAt())
		})
	}
}

func TestValueObjects(t *testing.T) {
	t.Run("ゲスト情報", func(t *testing.T) {
		g, err := reservation.NewGuestInfo("  Taro ", "Taro@Example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "Taro", g.Name())
		assert.Equal(t, "taro@example.com", g.Email())

		_, err = reservation.NewGuestInfo("", "taro@example.com", "")
		assert.ErrorIs(t, err, reservation.ErrInvalidGuestName)

		_, err = reservation.NewGuestInfo("Taro", "not-an-email", "")
		assert.ErrorIs(t, err, reservation.ErrInvalidGuestEmail)
	})

	t.Run("人数", func(t *testing.T) {
		_, err := reservation.NewGuestCount(0, 2)
		assert.ErrorIs(t, err, reservation.ErrInvalidGuestCount)

		_, err = reservation.NewGuestCount(1, -1)
		assert.ErrorIs(t, err, reservation.ErrInvalidGuestCount)

		c, err := reservation.NewGuestCount(2, 2)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Total())
	})

	t.Run("金額", func(t *testing.T) {
		_, err := reservation.NewMoney(-1)
		assert.ErrorIs(t, err, reservation.ErrNegativeAmount)
	})

	t.Run("アドオン", func(t *testing.T) {
		addons, err := reservation.NewAddons([]reservation.Addon{{Code: " breakfast ", Quantity: 2}})
		require.NoError(t, err)
		assert.Equal(t, []reservation.Addon{{Code: "breakfast", Quantity: 2}}, addons)

		_, err = reservation.NewAddons([]reservation.Addon{{Code: "spa", Quantity: 0}})
		assert.ErrorIs(t, err, reservation.ErrInvalidAddon)
	})
}
