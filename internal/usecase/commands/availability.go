package commands

import (
	"context"
	"time"

	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"

	"github.com/google/uuid"
)

// Line is one (room, stay) pair of a cart.
type Line struct {
	RoomID uuid.UUID
	Stay   stay.DateRange
	Guests int
}

type LineResult struct {
	Index    int
	RoomID   uuid.UUID
	Bookable bool
	Reason   LineReason
}

type StayReader interface {
	ActiveStays(ctx context.Context, roomID uuid.UUID, after time.Time) ([]stay.DateRange, error)
}

// AvailabilityValidator classifies cart lines against active reservations.
// It never writes; holding the room locks while it runs is the caller's job.
type AvailabilityValidator struct {
	bufferDays int
}

func NewAvailabilityValidator(bufferDays int) *AvailabilityValidator {
	if bufferDays < 0 {
		bufferDays = 0
	}
	return &AvailabilityValidator{bufferDays: bufferDays}
}

func (v *AvailabilityValidator) BufferDays() int {
	return v.bufferDays
}

// Validate returns one result per line in input order. Lines accepted earlier
// in the same cart count as occupancy for the lines after them.
func (v *AvailabilityValidator) Validate(
	ctx context.Context,
	reads StayReader,
	rooms map[uuid.UUID]*room.Room,
	lines []Line,
) ([]LineResult, error) {
	earliest := make(map[uuid.UUID]time.Time, len(lines))
	for _, l := range lines {
		if s, ok := earliest[l.RoomID]; !ok || l.Stay.Start().Before(s) {
			earliest[l.RoomID] = l.Stay.Start()
		}
	}

	booked := make(map[uuid.UUID][]stay.DateRange, len(rooms))
	loaded := make(map[uuid.UUID]bool, len(rooms))
	results := make([]LineResult, len(lines))

	for i, l := range lines {
		results[i] = LineResult{Index: i, RoomID: l.RoomID}

		rm, ok := rooms[l.RoomID]
		switch {
		case !ok:
			results[i].Reason = ReasonRoomNotFound
			continue
		case !rm.IsBookable():
			results[i].Reason = ReasonRoomUnavailable
			continue
		case !rm.CanHost(l.Guests):
			results[i].Reason = ReasonCapacityExceeded
			continue
		}

		if !loaded[l.RoomID] {
			// a stay ending on or before this day cannot reach any requested night
			after := earliest[l.RoomID].AddDate(0, 0, -v.bufferDays)
			stays, err := reads.ActiveStays(ctx, l.RoomID, after)
			if err != nil {
				return nil, err
			}
			booked[l.RoomID] = stays
			loaded[l.RoomID] = true
		}

		if v.collides(booked[l.RoomID], l.Stay) {
			results[i].Reason = ReasonRoomUnavailable
			continue
		}

		results[i].Bookable = true
		booked[l.RoomID] = append(booked[l.RoomID], l.Stay)
	}

	return results, nil
}

func (v *AvailabilityValidator) collides(existing []stay.DateRange, requested stay.DateRange) bool {
	for _, e := range existing {
		if stay.OverlapsWithGap(e, requested, v.bufferDays) {
			return true
		}
	}
	return false
}

func Failures(results []LineResult) []LineFailure {
	var out []LineFailure
	for _, r := range results {
		if !r.Bookable {
			out = append(out, LineFailure{Index: r.Index, RoomID: r.RoomID, Reason: r.Reason})
		}
	}
	return out
}
