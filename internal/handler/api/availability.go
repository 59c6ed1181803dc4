package api

import (
	"net/http"
	"strings"

	"hotel-reservation/internal/domain/stay"
	reqdto "hotel-reservation/internal/handler/dto/request"
	resdto "hotel-reservation/internal/handler/dto/response"
	"hotel-reservation/internal/handler/httperr"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Search available rooms
// @Description Rooms free for the whole stay; the requested type is listed first
// @Tags availability
// @Produce json
// @Param roomType query string false "Preferred room type"
// @Param from query string true "Check-in (YYYY-MM-DD)"
// @Param to query string true "Check-out (YYYY-MM-DD)"
// @Param guests query int false "Party size (default 1)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) Search(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	stayRange, err := stay.ParseDateRange(req.From, req.To)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date range", nil)
		return
	}

	rooms, err := h.q.AvailableRooms(c.Request.Context(), queries.AvailabilityRequest{
		RoomType: strings.TrimSpace(req.RoomType),
		Stay:     stayRange,
		Guests:   req.Guests,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromRoomViews(rooms)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.Wrap(err, "map rooms"), "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Booked dates for a room type
// @Description Per-room occupied days and the days on which every room of the type is taken
// @Tags availability
// @Produce json
// @Param roomType path string true "Room type"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 500 {object} httperr.Response
// @Router /calendar/{roomType} [get]
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	booked, err := h.q.BookedDatesForType(c.Request.Context(), c.Param("roomType"))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookedDates(booked))
}
