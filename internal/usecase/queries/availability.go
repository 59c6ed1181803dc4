package queries

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityRequest struct {
	RoomType string
	Stay     stay.DateRange
	Guests   int
}

type AvailabilityQueries interface {
	BookedDatesForType(ctx context.Context, roomType string) (*BookedDates, error)
	AvailableRooms(ctx context.Context, req AvailabilityRequest) ([]RoomView, error)
}

type RoomViewRepo interface {
	ListPublished(ctx context.Context) ([]RoomView, error)
	ListPublishedByType(ctx context.Context, roomType string) ([]RoomView, error)
}

type StayViewRepo interface {
	ActiveStays(ctx context.Context, roomIDs []uuid.UUID, after time.Time) ([]RoomStay, error)
}

// AvailabilityPolicy carries the same stay rules checkout enforces.
type AvailabilityPolicy struct {
	BufferDays int
	MaxNights  int
}

type availabilityQueriesImpl struct {
	rooms  RoomViewRepo
	stays  StayViewRepo
	cache  shared.CalendarCache
	clock  clock.Clock
	policy AvailabilityPolicy
}

func NewAvailabilityQueries(
	rooms RoomViewRepo,
	stays StayViewRepo,
	cache shared.CalendarCache,
	clk clock.Clock,
	policy AvailabilityPolicy,
) AvailabilityQueries {
	if policy.MaxNights <= 0 {
		policy.MaxNights = stay.DefaultMaxNights
	}
	return &availabilityQueriesImpl{
		rooms:  rooms,
		stays:  stays,
		cache:  cache,
		clock:  clk,
		policy: policy,
	}
}

// BookedDatesForType computes, for every published room of the type, the
// union of occupied days of its active stays that end after today, and the
// days on which every one of those rooms is occupied.
func (q *availabilityQueriesImpl) BookedDatesForType(ctx context.Context, roomType string) (*BookedDates, error) {
	today := clock.Today(q.clock)
	todayKey := stay.FormatDay(today)

	var cached BookedDates
	hit, generation, err := q.cache.Load(ctx, roomType, &cached)
	cacheable := err == nil
	if err != nil {
		slog.Warn("calendar cache read failed", "room_type", roomType, "error", err.Error())
	}
	if hit && cached.Today == todayKey {
		return &cached, nil
	}

	rooms, err := q.rooms.ListPublishedByType(ctx, roomType)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistence)
	}

	result := &BookedDates{
		RoomType:    roomType,
		Today:       todayKey,
		Rooms:       make([]RoomOccupancy, 0, len(rooms)),
		FullyBooked: []string{},
	}
	if len(rooms) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(rooms))
	for i, rm := range rooms {
		ids[i] = rm.ID
	}
	stays, err := q.stays.ActiveStays(ctx, ids, today)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistence)
	}

	perRoom := make(map[uuid.UUID]map[string]struct{}, len(rooms))
	for _, s := range stays {
		days, ok := perRoom[s.RoomID]
		if !ok {
			days = make(map[string]struct{}, len(s.OccupiedDays))
			perRoom[s.RoomID] = days
		}
		for _, d := range s.OccupiedDays {
			days[stay.FormatDay(d)] = struct{}{}
		}
	}

	var common map[string]struct{}
	for i, rm := range rooms {
		days := perRoom[rm.ID]
		result.Rooms = append(result.Rooms, RoomOccupancy{
			RoomID:   rm.ID,
			RoomCode: rm.Code,
			Days:     sortedKeys(days),
		})

		if i == 0 {
			common = make(map[string]struct{}, len(days))
			for d := range days {
				common[d] = struct{}{}
			}
			continue
		}
		for d := range common {
			if _, ok := days[d]; !ok {
				delete(common, d)
			}
		}
	}
	result.FullyBooked = sortedKeys(common)

	if !cacheable {
		return result, nil
	}
	// a checkout committed since Load bumped the generation; Store then drops the result
	if err := q.cache.Store(ctx, roomType, generation, result); err != nil {
		slog.Warn("calendar cache write failed", "room_type", roomType, "error", err.Error())
	}
	return result, nil
}

// AvailableRooms lists published rooms that fit the party and have no active
// stay overlapping the requested one. Rooms of the requested type come first;
// within each group the order is by room code.
func (q *availabilityQueriesImpl) AvailableRooms(ctx context.Context, req AvailabilityRequest) ([]RoomView, error) {
	if req.Stay.IsZero() {
		return nil, errs.Mark(stay.ErrInvalidRange, errs.ErrValidation)
	}
	if req.Stay.ExceedsNights(q.policy.MaxNights) {
		return nil, errs.Mark(stay.ErrStayTooLong, errs.ErrValidation)
	}
	if req.Guests < 1 {
		return nil, errs.Mark(errs.New("guests must be at least 1"), errs.ErrValidation)
	}

	rooms, err := q.rooms.ListPublished(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistence)
	}

	candidates := make([]RoomView, 0, len(rooms))
	ids := make([]uuid.UUID, 0, len(rooms))
	for _, rm := range rooms {
		if rm.Capacity >= req.Guests {
			candidates = append(candidates, rm)
			ids = append(ids, rm.ID)
		}
	}
	if len(candidates) == 0 {
		return []RoomView{}, nil
	}

	stays, err := q.stays.ActiveStays(ctx, ids, req.Stay.Start().AddDate(0, 0, -q.policy.BufferDays))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPersistence)
	}

	blocked := make(map[uuid.UUID]bool)
	for _, s := range stays {
		existing, err := stay.NewDateRange(s.CheckIn, s.CheckOut)
		if err != nil {
			continue
		}
		if stay.OverlapsWithGap(existing, req.Stay, q.policy.BufferDays) {
			blocked[s.RoomID] = true
		}
	}

	available := make([]RoomView, 0, len(candidates))
	for _, rm := range candidates {
		if !blocked[rm.ID] {
			available = append(available, rm)
		}
	}

	slices.SortStableFunc(available, func(a, b RoomView) int {
		am, bm := a.Type == req.RoomType, b.Type == req.RoomType
		switch {
		case am && !bm:
			return -1
		case !am && bm:
			return 1
		default:
			return 0
		}
	})
	return available, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// YYYY-MM-DD sorts chronologically as text
	slices.Sort(out)
	return out
}
