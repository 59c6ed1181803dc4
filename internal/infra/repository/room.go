package repository

//go:generate mockgen -destination=../../../tests/mock/repository/mock_repository.go -package=repositorymock . RoomWriteQueries,ReservationWriteQueries,IdempotencyWriteQueries,NotificationWriteQueries

import (
	"bytes"
	"context"
	"slices"

	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/repository/converter"
	"hotel-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RoomWriteQueries interface {
	GetRoomsByIDs(ctx context.Context, db query.DBTX, ids []pgtype.UUID) ([]query.Room, error)
	SetRoomOccupied(ctx context.Context, db query.DBTX, arg query.SetRoomOccupiedParams) (int64, error)
	LockRoom(ctx context.Context, db query.DBTX, roomID uuid.UUID) error
}

type RoomRepository struct {
	queries RoomWriteQueries
	db      query.DBTX
}

func NewRoomRepository(queries RoomWriteQueries, db query.DBTX) *RoomRepository {
	return &RoomRepository{
		queries: queries,
		db:      db,
	}
}

func (r *RoomRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*room.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.queries.GetRoomsByIDs(ctx, r.db, pgconv.UUIDsToPgtype(ids))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get rooms by ids", err)
	}

	rooms := make([]*room.Room, 0, len(rows))
	for _, row := range rows {
		rm, err := converter.RoomToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert room", err, infra.KindDBFailure)
		}
		rooms = append(rooms, rm)
	}
	return rooms, nil
}

func (r *RoomRepository) SetOccupied(ctx context.Context, roomID uuid.UUID, occupied bool) error {
	affected, err := r.queries.SetRoomOccupied(ctx, r.db, query.SetRoomOccupiedParams{
		ID:       roomID,
		Occupied: occupied,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update room occupied marker", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return nil
}

// LockRooms takes the per-room advisory locks in ascending id order so two
// carts sharing rooms always queue in the same sequence.
func (r *RoomRepository) LockRooms(ctx context.Context, roomIDs []uuid.UUID) error {
	for _, id := range SortedUniqueIDs(roomIDs) {
		if err := r.queries.LockRoom(ctx, r.db, id); err != nil {
			return infra.WrapRepoErr("failed to lock room", err)
		}
	}
	return nil
}

func SortedUniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}
