package response

import (
	"hotel-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Type               string    `json:"type"`
	Capacity           int       `json:"capacity"`
	NightlyPriceCents  int64     `json:"nightlyPriceCents"`
	CancellationPolicy string    `json:"cancellationPolicy"`
}

type AvailabilityResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

type RoomOccupancyResponse struct {
	RoomID   uuid.UUID `json:"roomId"`
	RoomCode string    `json:"roomCode"`
	Days     []string  `json:"days"`
}

type CalendarResponse struct {
	RoomType    string                  `json:"roomType"`
	Rooms       []RoomOccupancyResponse `json:"rooms"`
	FullyBooked []string                `json:"fullyBooked"`
}

func FromRoomViews(views []queries.RoomView) (AvailabilityResponse, error) {
	rooms := make([]RoomResponse, 0, len(views))
	if err := copier.Copy(&rooms, &views); err != nil {
		return AvailabilityResponse{}, err
	}
	return AvailabilityResponse{Rooms: rooms}, nil
}

func FromBookedDates(bd *queries.BookedDates) CalendarResponse {
	rooms := make([]RoomOccupancyResponse, len(bd.Rooms))
	for i, r := range bd.Rooms {
		days := r.Days
		if days == nil {
			days = []string{}
		}
		rooms[i] = RoomOccupancyResponse{RoomID: r.RoomID, RoomCode: r.RoomCode, Days: days}
	}
	fully := bd.FullyBooked
	if fully == nil {
		fully = []string{}
	}
	return CalendarResponse{
		RoomType:    bd.RoomType,
		Rooms:       rooms,
		FullyBooked: fully,
	}
}
