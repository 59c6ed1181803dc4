package stay

import (
	"errors"
	"time"
)

const (
	DayLayout = "2006-01-02"

	// DefaultMaxNights bounds a single stay when no limit is configured.
	DefaultMaxNights = 365

	secondsPerDay = 24 * 60 * 60
)

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrStayTooLong  = errors.New("stay exceeds the maximum number of nights")
)

// Day truncates t to 00:00 UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidRange
	}
	return t, nil
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// DateRange is a half-open interval of calendar days [start, end).
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := Day(start), Day(end)
	if !e.After(s) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{start: s, end: e}, nil
}

func ParseDateRange(from, to string) (DateRange, error) {
	start, err := ParseDay(from)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(start, end)
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Nights counts calendar days, so it stays exact for ranges far beyond
// what time.Duration can represent.
func (r DateRange) Nights() int {
	if r.IsZero() {
		return 0
	}
	return int(dayNumber(r.end) - dayNumber(r.start))
}

// ExceedsNights reports whether the stay is longer than maxNights.
// A non-positive maxNights means DefaultMaxNights.
func (r DateRange) ExceedsNights(maxNights int) bool {
	if maxNights <= 0 {
		maxNights = DefaultMaxNights
	}
	return r.Nights() > maxNights
}

func (r DateRange) Overlaps(other DateRange) bool {
	return Overlaps(r, other)
}

// Days lists every night of the stay, check-in included and check-out excluded.
func (r DateRange) Days() []time.Time {
	days, _ := ExpandDays(r.start, r.end)
	return days
}

// Pad pushes the end out by gapDays so that a housekeeping gap is treated as occupied.
func (r DateRange) Pad(gapDays int) DateRange {
	if gapDays <= 0 {
		return r
	}
	return DateRange{start: r.start, end: r.end.AddDate(0, 0, gapDays)}
}

func (r DateRange) String() string {
	return "[" + FormatDay(r.start) + "," + FormatDay(r.end) + ")"
}

// Overlaps reports whether two half-open ranges share at least one night.
// Back-to-back stays (a.end == b.start) do not overlap.
func Overlaps(a, b DateRange) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}

// OverlapsWithGap applies the same buffer to both sides before comparing.
func OverlapsWithGap(a, b DateRange, gapDays int) bool {
	return Overlaps(a.Pad(gapDays), b.Pad(gapDays))
}

func ExpandDays(start, end time.Time) ([]time.Time, error) {
	s, e := Day(start), Day(end)
	if !e.After(s) {
		return nil, ErrInvalidRange
	}

	days := make([]time.Time, 0, dayNumber(e)-dayNumber(s))
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// dayNumber is the count of days since 1970-01-01; t must already be a UTC day.
func dayNumber(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}
