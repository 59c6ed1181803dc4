package converter

import (
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/infra/query"
)

func RoomToDomain(row query.Room) (*room.Room, error) {
	return room.ReconstructRoom(
		row.ID,
		row.Code,
		row.RoomType,
		int(row.Capacity),
		row.NightlyPriceCents,
		row.Published,
		row.Occupied,
		row.CancellationPolicy,
	)
}
