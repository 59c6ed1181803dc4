//go:build unit || e2e

package builder

import (
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/usecase/queries"
	"hotel-reservation/tests/common/memuow"

	"github.com/google/uuid"
)

type RoomBuilder struct {
	ID                 uuid.UUID
	Code               string
	Type               string
	Capacity           int
	NightlyPriceCents  int64
	Published          bool
	Occupied           bool
	CancellationPolicy string
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		ID:                 uuid.New(),
		Code:               "101",
		Type:               "double",
		Capacity:           2,
		NightlyPriceCents:  24000,
		Published:          true,
		CancellationPolicy: "free cancellation until 3 days before check-in",
	}
}

func (b *RoomBuilder) With(mutate func(*RoomBuilder)) *RoomBuilder {
	mutate(b)
	return b
}

func (b *RoomBuilder) BuildDomain() (*room.Room, error) {
	return room.ReconstructRoom(b.ID, b.Code, b.Type, b.Capacity, b.NightlyPriceCents,
		b.Published, b.Occupied, b.CancellationPolicy)
}

func (b *RoomBuilder) BuildInfra() query.Room {
	return query.Room{
		ID:                 b.ID,
		Code:               b.Code,
		RoomType:           b.Type,
		Capacity:           int32(b.Capacity), // #nosec G115
		NightlyPriceCents:  b.NightlyPriceCents,
		Published:          b.Published,
		Occupied:           b.Occupied,
		CancellationPolicy: b.CancellationPolicy,
	}
}

func (b *RoomBuilder) BuildRecord() memuow.RoomRecord {
	return memuow.RoomRecord{
		ID:                 b.ID,
		Code:               b.Code,
		Type:               b.Type,
		Capacity:           b.Capacity,
		NightlyPriceCents:  b.NightlyPriceCents,
		Published:          b.Published,
		Occupied:           b.Occupied,
		CancellationPolicy: b.CancellationPolicy,
	}
}

func (b *RoomBuilder) BuildView() queries.RoomView {
	return queries.RoomView{
		ID:                 b.ID,
		Code:               b.Code,
		Type:               b.Type,
		Capacity:           b.Capacity,
		NightlyPriceCents:  b.NightlyPriceCents,
		CancellationPolicy: b.CancellationPolicy,
		Occupied:           b.Occupied,
	}
}
