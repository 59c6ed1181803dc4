package commands

import (
	"fmt"
	"strings"

	"hotel-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

type LineReason string

const (
	ReasonRoomNotFound     LineReason = "ROOM_NOT_FOUND"
	ReasonRoomUnavailable  LineReason = "ROOM_UNAVAILABLE"
	ReasonCapacityExceeded LineReason = "CAPACITY_EXCEEDED"
)

type LineFailure struct {
	Index  int
	RoomID uuid.UUID
	Reason LineReason
}

// UnavailableError lists every cart line that cannot be booked.
type UnavailableError struct {
	Failures []LineFailure
}

func (e *UnavailableError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("line %d (room %s): %s", f.Index, f.RoomID, f.Reason)
	}
	return "requested rooms are unavailable: " + strings.Join(parts, "; ")
}

func (e *UnavailableError) Is(target error) bool {
	return target == errs.ErrUnavailable
}

// InvalidReferenceError names the room ids that do not exist.
type InvalidReferenceError struct {
	MissingRoomIDs []uuid.UUID
}

func (e *InvalidReferenceError) Error() string {
	ids := make([]string, len(e.MissingRoomIDs))
	for i, id := range e.MissingRoomIDs {
		ids[i] = id.String()
	}
	return "unknown room ids: " + strings.Join(ids, ", ")
}

func (e *InvalidReferenceError) Is(target error) bool {
	return target == errs.ErrInvalidReference
}

func persistenceErr(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), errs.ErrPersistence)
}

func validationErr(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), errs.ErrValidation)
}
