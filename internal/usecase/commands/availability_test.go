//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/usecase/commands"
	"hotel-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStays map[uuid.UUID][]stay.DateRange

func (s stubStays) ActiveStays(_ context.Context, roomID uuid.UUID, after time.Time) ([]stay.DateRange, error) {
	var out []stay.DateRange
	for _, r := range s[roomID] {
		if r.End().After(after) {
			out = append(out, r)
		}
	}
	return out, nil
}

type failingStays struct{ err error }

func (f failingStays) ActiveStays(context.Context, uuid.UUID, time.Time) ([]stay.DateRange, error) {
	return nil, f.err
}

func mustRange(t *testing.T, from, to string) stay.DateRange {
	t.Helper()
	r, err := stay.ParseDateRange(from, to)
	require.NoError(t, err)
	return r
}

func TestAvailabilityValidator(t *testing.T) {
	ctx := context.Background()

	rb := builder.NewRoomBuilder()
	rm, err := rb.BuildDomain()
	require.NoError(t, err)
	rooms := map[uuid.UUID]*room.Room{rm.ID(): rm}

	existing := stubStays{rm.ID(): {mustRange(t, "2025-07-05", "2025-07-08")}}

	testCases := []struct {
		name       string
		bufferDays int
		stay       stay.DateRange
		guests     int
		bookable   bool
		reason     commands.LineReason
	}{
		{name: "free dates", stay: mustRange(t, "2025-07-01", "2025-07-03"), guests: 2, bookable: true},
		{name: "ends on existing check-in", stay: mustRange(t, "2025-07-03", "2025-07-05"), guests: 2, bookable: true},
		{name: "starts on existing check-out", stay: mustRange(t, "2025-07-08", "2025-07-09"), guests: 1, bookable: true},
		{name: "overlaps one night", stay: mustRange(t, "2025-07-07", "2025-07-09"), guests: 2, reason: commands.ReasonRoomUnavailable},
		{name: "inside existing stay", stay: mustRange(t, "2025-07-06", "2025-07-07"), guests: 2, reason: commands.ReasonRoomUnavailable},
		{name: "too many guests", stay: mustRange(t, "2025-07-01", "2025-07-03"), guests: 3, reason: commands.ReasonCapacityExceeded},
		{name: "buffer blocks the turnover day", bufferDays: 1, stay: mustRange(t, "2025-07-08", "2025-07-10"), guests: 2, reason: commands.ReasonRoomUnavailable},
		{name: "buffer blocks arrival right before", bufferDays: 1, stay: mustRange(t, "2025-07-03", "2025-07-05"), guests: 2, reason: commands.ReasonRoomUnavailable},
		{name: "buffer satisfied", bufferDays: 1, stay: mustRange(t, "2025-07-09", "2025-07-10"), guests: 2, bookable: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := commands.NewAvailabilityValidator(tc.bufferDays)
			results, err := v.Validate(ctx, existing, rooms, []commands.Line{
				{RoomID: rm.ID(), Stay: tc.stay, Guests: tc.guests},
			})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tc.bookable, results[0].Bookable)
			assert.Equal(t, tc.reason, results[0].Reason)
		})
	}

	t.Run("unknown room", func(t *testing.T) {
		missing := uuid.New()
		results, err := commands.NewAvailabilityValidator(0).Validate(ctx, existing, rooms, []commands.Line{
			{RoomID: missing, Stay: mustRange(t, "2025-07-01", "2025-07-02"), Guests: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, []commands.LineFailure{
			{Index: 0, RoomID: missing, Reason: commands.ReasonRoomNotFound},
		}, commands.Failures(results))
	})

	t.Run("earlier lines of the cart count as occupied", func(t *testing.T) {
		results, err := commands.NewAvailabilityValidator(0).Validate(ctx, stubStays{}, rooms, []commands.Line{
			{RoomID: rm.ID(), Stay: mustRange(t, "2025-07-01", "2025-07-04"), Guests: 2},
			{RoomID: rm.ID(), Stay: mustRange(t, "2025-07-04", "2025-07-06"), Guests: 2},
			{RoomID: rm.ID(), Stay: mustRange(t, "2025-07-05", "2025-07-07"), Guests: 2},
		})
		require.NoError(t, err)
		assert.True(t, results[0].Bookable)
		assert.True(t, results[1].Bookable)
		assert.False(t, results[2].Bookable)
		assert.Equal(t, commands.ReasonRoomUnavailable, results[2].Reason)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		readErr := errors.New("db down")
		_, err := commands.NewAvailabilityValidator(0).Validate(ctx, failingStays{err: readErr}, rooms, []commands.Line{
			{RoomID: rm.ID(), Stay: mustRange(t, "2025-07-01", "2025-07-02"), Guests: 1},
		})
		assert.ErrorIs(t, err, readErr)
	})
}
