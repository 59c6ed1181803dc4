package api

import (
	"net/http"

	"hotel-reservation/internal/domain/reservation"
	resdto "hotel-reservation/internal/handler/dto/response"
	"hotel-reservation/internal/handler/httperr"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// abortWithUseCaseError maps the error taxonomy onto HTTP statuses.
func abortWithUseCaseError(c *gin.Context, err error) {
	var unavailable *commands.UnavailableError
	var invalidRef *commands.InvalidReferenceError

	switch {
	case errs.As(err, &unavailable):
		httperr.AbortWithErrors(c, http.StatusBadRequest, err, "Requested rooms are unavailable", resdto.FromLineFailures(unavailable.Failures))
	case errs.As(err, &invalidRef):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown room", gin.H{"missingRoomIds": invalidRef.MissingRoomIDs})
	case errs.Is(err, errs.ErrValidation), errs.Is(err, errs.ErrIdempotencyKeyRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, reservation.ErrAlreadyCancelled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is already cancelled", nil)
	case errs.Is(err, reservation.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation cannot change to the requested status", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key was already used for a different request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
