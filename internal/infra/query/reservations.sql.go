package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `r.id, r.confirmation_code, r.room_id, r.guest_name, r.guest_email, r.guest_phone,
	r.check_in, r.check_out, r.occupied_days, r.adults, r.children, r.addons, r.total_cents,
	r.status, r.created_at, r.updated_at`

func reservationDest(r *Reservation) []any {
	return []any{
		&r.ID,
		&r.ConfirmationCode,
		&r.RoomID,
		&r.GuestName,
		&r.GuestEmail,
		&r.GuestPhone,
		&r.CheckIn,
		&r.CheckOut,
		&r.OccupiedDays,
		&r.Adults,
		&r.Children,
		&r.Addons,
		&r.TotalCents,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

const createReservation = `INSERT INTO reservations (
	id, confirmation_code, room_id, guest_name, guest_email, guest_phone,
	check_in, check_out, occupied_days, adults, children, addons, total_cents,
	status, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14, $15, $16
)`

type CreateReservationParams struct {
	ID               uuid.UUID
	ConfirmationCode string
	RoomID           uuid.UUID
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	CheckIn          pgtype.Date
	CheckOut         pgtype.Date
	OccupiedDays     []pgtype.Date
	Adults           int32
	Children         int32
	Addons           []byte
	TotalCents       int64
	Status           string
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) CreateReservation(ctx context.Context, db DBTX, arg CreateReservationParams) error {
	_, err := db.Exec(ctx, createReservation,
		arg.ID,
		arg.ConfirmationCode,
		arg.RoomID,
		arg.GuestName,
		arg.GuestEmail,
		arg.GuestPhone,
		arg.CheckIn,
		arg.CheckOut,
		arg.OccupiedDays,
		arg.Adults,
		arg.Children,
		string(arg.Addons),
		arg.TotalCents,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getReservationByID = `SELECT ` + reservationColumns + `
FROM reservations r
WHERE r.id = $1`

func (q *Queries) GetReservationByID(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	var r Reservation
	err := db.QueryRow(ctx, getReservationByID, id).Scan(reservationDest(&r)...)
	return r, err
}

const listReservationsByIDs = `SELECT ` + reservationColumns + `
FROM reservations r
WHERE r.id = ANY($1::uuid[])
ORDER BY r.created_at, r.id`

func (q *Queries) ListReservationsByIDs(ctx context.Context, db DBTX, ids []pgtype.UUID) ([]Reservation, error) {
	rows, err := db.Query(ctx, listReservationsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(reservationDest(&r)...); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const updateReservationStatus = `UPDATE reservations
SET status = $2, updated_at = $3
WHERE id = $1`

type UpdateReservationStatusParams struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt pgtype.Timestamptz
}

func (q *Queries) UpdateReservationStatus(ctx context.Context, db DBTX, arg UpdateReservationStatusParams) (int64, error) {
	tag, err := db.Exec(ctx, updateReservationStatus, arg.ID, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const confirmationCodeExists = `SELECT EXISTS (SELECT 1 FROM reservations WHERE confirmation_code = $1)`

func (q *Queries) ConfirmationCodeExists(ctx context.Context, db DBTX, code string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, confirmationCodeExists, code).Scan(&exists)
	return exists, err
}

const listActiveStays = `SELECT r.id, r.room_id, r.check_in, r.check_out, r.occupied_days
FROM reservations r
WHERE r.room_id = ANY($1::uuid[])
  AND r.status <> 'cancelled'
  AND r.check_out > $2
ORDER BY r.room_id, r.check_in`

type ListActiveStaysParams struct {
	RoomIDs []pgtype.UUID
	After   pgtype.Date
}

// ListActiveStays returns the non-cancelled stays of the rooms whose check-out
// is later than After.
func (q *Queries) ListActiveStays(ctx context.Context, db DBTX, arg ListActiveStaysParams) ([]RoomStay, error) {
	rows, err := db.Query(ctx, listActiveStays, arg.RoomIDs, arg.After)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RoomStay
	for rows.Next() {
		var s RoomStay
		if err := rows.Scan(&s.ReservationID, &s.RoomID, &s.CheckIn, &s.CheckOut, &s.OccupiedDays); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const hasUpcomingStay = `SELECT EXISTS (
	SELECT 1 FROM reservations
	WHERE room_id = $1
	  AND id <> $2
	  AND status = 'confirmed'
	  AND check_out > $3
)`

type HasUpcomingStayParams struct {
	RoomID    uuid.UUID
	ExcludeID uuid.UUID
	Today     pgtype.Date
}

func (q *Queries) HasUpcomingStay(ctx context.Context, db DBTX, arg HasUpcomingStayParams) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, hasUpcomingStay, arg.RoomID, arg.ExcludeID, arg.Today).Scan(&exists)
	return exists, err
}

const listEndedStayIDs = `SELECT id
FROM reservations
WHERE status = 'confirmed' AND check_out <= $1
ORDER BY check_out, id
LIMIT $2`

type ListEndedStayIDsParams struct {
	Today pgtype.Date
	Limit int32
}

func (q *Queries) ListEndedStayIDs(ctx context.Context, db DBTX, arg ListEndedStayIDsParams) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listEndedStayIDs, arg.Today, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

const getReservationViewByCode = `SELECT ` + reservationColumns + `,
	rm.code, rm.room_type, rm.cancellation_policy
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
WHERE r.confirmation_code = $1`

func (q *Queries) GetReservationViewByCode(ctx context.Context, db DBTX, code string) (ReservationView, error) {
	var v ReservationView
	dest := append(reservationDest(&v.Reservation), &v.RoomCode, &v.RoomType, &v.CancellationPolicy)
	err := db.QueryRow(ctx, getReservationViewByCode, code).Scan(dest...)
	return v, err
}
