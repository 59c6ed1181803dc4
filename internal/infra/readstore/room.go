package readstore

import (
	"context"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/usecase/queries"
)

type RoomViewQueries interface {
	ListPublishedRooms(ctx context.Context, db query.DBTX) ([]query.Room, error)
	ListPublishedRoomsByType(ctx context.Context, db query.DBTX, roomType string) ([]query.Room, error)
}

type RoomReadStore struct {
	queries RoomViewQueries
	db      query.DBTX
}

func NewRoomReadStore(queries RoomViewQueries, db query.DBTX) *RoomReadStore {
	return &RoomReadStore{
		queries: queries,
		db:      db,
	}
}

// ListPublished returns every bookable room ordered by room code.
func (r *RoomReadStore) ListPublished(ctx context.Context) ([]queries.RoomView, error) {
	rows, err := r.queries.ListPublishedRooms(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list published rooms", err)
	}
	return toRoomViews(rows), nil
}

func (r *RoomReadStore) ListPublishedByType(ctx context.Context, roomType string) ([]queries.RoomView, error) {
	rows, err := r.queries.ListPublishedRoomsByType(ctx, r.db, roomType)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list published rooms by type", err)
	}
	return toRoomViews(rows), nil
}

func toRoomViews(rows []query.Room) []queries.RoomView {
	views := make([]queries.RoomView, len(rows))
	for i, row := range rows {
		views[i] = queries.RoomView{
			ID:                 row.ID,
			Code:               row.Code,
			Type:               row.RoomType,
			Capacity:           int(row.Capacity),
			NightlyPriceCents:  row.NightlyPriceCents,
			CancellationPolicy: row.CancellationPolicy,
			Occupied:           row.Occupied,
		}
	}
	return views
}
