// Package pgconv converts between domain values and the pgtype values sqlc generates.
package pgconv

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func UUIDsToPgtype(ids []uuid.UUID) []pgtype.UUID {
	return mapAll(ids, UUIDToPgtype)
}

// UUIDsFromPgtype skips NULL elements.
func UUIDsFromPgtype(ids []pgtype.UUID) []uuid.UUID {
	return mapValid(ids, func(id pgtype.UUID) (uuid.UUID, bool) {
		return uuid.UUID(id.Bytes), id.Valid
	})
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func TimeFromPgtype(ts pgtype.Timestamptz) time.Time {
	return ts.Time
}

// DateToPgtype keeps only the calendar day of t.
func DateToPgtype(t time.Time) pgtype.Date {
	return pgtype.Date{Time: utcDay(t), Valid: true}
}

func DateFromPgtype(d pgtype.Date) time.Time {
	return utcDay(d.Time)
}

func DatesToPgtype(days []time.Time) []pgtype.Date {
	return mapAll(days, DateToPgtype)
}

// DatesFromPgtype skips NULL elements.
func DatesFromPgtype(days []pgtype.Date) []time.Time {
	return mapValid(days, func(d pgtype.Date) (time.Time, bool) {
		return DateFromPgtype(d), d.Valid
	})
}

// IsNoRows matches both database/sql and pgx "no rows" errors.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapAll[S, T any](in []S, f func(S) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func mapValid[S, T any](in []S, f func(S) (T, bool)) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if t, ok := f(v); ok {
			out = append(out, t)
		}
	}
	return out
}
