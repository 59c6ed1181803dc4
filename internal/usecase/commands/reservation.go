package commands

//go:generate mockgen -destination=../../../tests/mock/commands/mock_commands.go -package=commandsmock . ReservationCommands,MaintenanceCommands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

const checkoutEndpoint = "POST /reservations"

type GuestInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CheckoutLine struct {
	RoomID     uuid.UUID           `json:"roomId"`
	CheckIn    time.Time           `json:"checkIn"`
	CheckOut   time.Time           `json:"checkOut"`
	Adults     int                 `json:"adults"`
	Children   int                 `json:"children"`
	Addons     []reservation.Addon `json:"addons"`
	TotalCents int64               `json:"totalCents"`
}

type CheckoutRequest struct {
	IdempotencyKey uuid.UUID      `json:"-"`
	Guest          GuestInput     `json:"guest"`
	Lines          []CheckoutLine `json:"lines"`
}

type CheckoutResult struct {
	Reservations []*reservation.Reservation
	Rooms        map[uuid.UUID]*room.Room
	// Warnings carry notification failures; the reservations are committed regardless.
	Warnings []string
	Replayed bool
}

type ReservationCommands interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Complete(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	CompleteEndedStays(ctx context.Context) (int, error)
}

type ReservationSettings struct {
	IdempotencyTTL time.Duration
	SweepBatchSize int
	MaxNights      int
}

type reservationUseCaseImpl struct {
	uow       shared.UnitOfWork
	validator *AvailabilityValidator
	codes     *reservation.CodeGenerator
	notifier  shared.Notifier
	cache     shared.CalendarCache
	clock     clock.Clock
	settings  ReservationSettings
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	validator *AvailabilityValidator,
	codes *reservation.CodeGenerator,
	notifier shared.Notifier,
	cache shared.CalendarCache,
	clk clock.Clock,
	settings ReservationSettings,
) ReservationCommands {
	if settings.IdempotencyTTL <= 0 {
		settings.IdempotencyTTL = 24 * time.Hour
	}
	if settings.SweepBatchSize <= 0 {
		settings.SweepBatchSize = 500
	}
	if settings.MaxNights <= 0 {
		settings.MaxNights = stay.DefaultMaxNights
	}
	return &reservationUseCaseImpl{
		uow:       uow,
		validator: validator,
		codes:     codes,
		notifier:  notifier,
		cache:     cache,
		clock:     clk,
		settings:  settings,
	}
}

type preparedLine struct {
	line   Line
	guests reservation.GuestCount
	addons []reservation.Addon
	total  reservation.Money
}

func (uc *reservationUseCaseImpl) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.IdempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	guest, prepared, err := prepareCheckout(req, uc.settings.MaxNights)
	if err != nil {
		return nil, err
	}
	requestHash := calculateRequestHash(req)

	var result *CheckoutResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := uc.clock.Now()

		claimed, err := tx.Idempotency().TryClaim(ctx, shared.IdempotencyClaim{
			Key:         req.IdempotencyKey,
			Endpoint:    checkoutEndpoint,
			RequestHash: requestHash,
			ExpiresAt:   now.Add(uc.settings.IdempotencyTTL),
			Now:         now,
		})
		if err != nil {
			return persistenceErr(err, "claim idempotency key")
		}
		if !claimed {
			replayed, err := uc.replay(ctx, tx, req.IdempotencyKey, requestHash)
			if err != nil {
				return err
			}
			result = replayed
			return nil
		}

		created, rooms, err := uc.book(ctx, tx, guest, prepared, now)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(created))
		for i, res := range created {
			ids[i] = res.ID()
		}
		if err := tx.Idempotency().MarkCompleted(ctx, req.IdempotencyKey, ids); err != nil {
			return persistenceErr(err, "complete idempotency key")
		}

		result = &CheckoutResult{Reservations: created, Rooms: rooms}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		return result, nil
	}

	for _, res := range result.Reservations {
		if warning := uc.notify(ctx, shared.NotificationReservationConfirmed, res); warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}
	uc.invalidateCalendar(ctx, roomTypes(result.Rooms)...)

	return result, nil
}

// book runs under the room locks: resolve, validate, then write every line.
func (uc *reservationUseCaseImpl) book(
	ctx context.Context,
	tx shared.Tx,
	guest reservation.GuestInfo,
	prepared []preparedLine,
	now time.Time,
) ([]*reservation.Reservation, map[uuid.UUID]*room.Room, error) {
	roomIDs := distinctRoomIDs(prepared)

	if err := tx.Locks().LockRooms(ctx, roomIDs); err != nil {
		return nil, nil, persistenceErr(err, "lock rooms")
	}

	found, err := tx.Rooms().GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, nil, persistenceErr(err, "resolve rooms")
	}
	rooms := make(map[uuid.UUID]*room.Room, len(found))
	for _, rm := range found {
		rooms[rm.ID()] = rm
	}
	if len(rooms) != len(roomIDs) {
		missing := make([]uuid.UUID, 0, len(roomIDs)-len(rooms))
		for _, id := range roomIDs {
			if _, ok := rooms[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, nil, &InvalidReferenceError{MissingRoomIDs: missing}
	}

	lines := make([]Line, len(prepared))
	for i, p := range prepared {
		lines[i] = p.line
	}
	results, err := uc.validator.Validate(ctx, tx.Reads(), rooms, lines)
	if err != nil {
		return nil, nil, persistenceErr(err, "load active reservations")
	}
	if failures := Failures(results); len(failures) > 0 {
		return nil, nil, &UnavailableError{Failures: failures}
	}

	created := make([]*reservation.Reservation, 0, len(prepared))
	for i, p := range prepared {
		res, err := uc.newReservation(ctx, tx, guest, p, now)
		if err != nil {
			return nil, nil, err
		}
		if err := tx.Reservations().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return nil, nil, &UnavailableError{Failures: []LineFailure{{
					Index:  i,
					RoomID: p.line.RoomID,
					Reason: ReasonRoomUnavailable,
				}}}
			}
			if infra.IsKind(err, infra.KindDuplicateKey) {
				// the code passed the existence check but a concurrent checkout committed it first
				return nil, nil, errs.Mark(persistenceErr(err, "create reservation"), shared.ErrRetryTransaction)
			}
			return nil, nil, persistenceErr(err, "create reservation")
		}
		created = append(created, res)
	}

	for _, id := range roomIDs {
		if err := tx.Rooms().SetOccupied(ctx, id, true); err != nil {
			return nil, nil, persistenceErr(err, "mark room occupied")
		}
	}

	return created, rooms, nil
}

func (uc *reservationUseCaseImpl) newReservation(
	ctx context.Context,
	tx shared.Tx,
	guest reservation.GuestInfo,
	p preparedLine,
	now time.Time,
) (*reservation.Reservation, error) {
	id, err := uc.codes.NewID()
	if err != nil {
		return nil, persistenceErr(err, "generate reservation id")
	}
	code, err := uc.codes.NewConfirmationCode(ctx, tx.Reads().ConfirmationCodeExists)
	if err != nil {
		return nil, persistenceErr(err, "generate confirmation code")
	}

	res, err := reservation.NewReservation(reservation.NewReservationParams{
		ID:               id,
		ConfirmationCode: code,
		RoomID:           p.line.RoomID,
		Guest:            guest,
		Stay:             p.line.Stay,
		Guests:           p.guests,
		Addons:           p.addons,
		Total:            p.total,
		Now:              now,
	})
	if err != nil {
		return nil, validationErr(err, "build reservation")
	}
	return res, nil
}

func (uc *reservationUseCaseImpl) replay(
	ctx context.Context,
	tx shared.Tx,
	key uuid.UUID,
	requestHash string,
) (*CheckoutResult, error) {
	record, err := tx.Reads().IdempotencyByKey(ctx, key)
	if err != nil {
		return nil, persistenceErr(err, "load idempotency key")
	}
	if record.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	if !record.IsCompleted() {
		return nil, errs.Mark(errs.New("request with this key is still in progress"), errs.ErrIdempotencyKeyReused)
	}

	reservations, err := tx.Reservations().FindByIDs(ctx, record.ReservationIDs)
	if err != nil {
		return nil, persistenceErr(err, "load replayed reservations")
	}
	// answer in the original cart order
	position := make(map[uuid.UUID]int, len(record.ReservationIDs))
	for i, id := range record.ReservationIDs {
		position[id] = i
	}
	slices.SortFunc(reservations, func(a, b *reservation.Reservation) int {
		return position[a.ID()] - position[b.ID()]
	})

	roomIDs := make([]uuid.UUID, 0, len(reservations))
	for _, res := range reservations {
		roomIDs = append(roomIDs, res.RoomID())
	}
	found, err := tx.Rooms().GetByIDs(ctx, roomIDs)
	if err != nil {
		return nil, persistenceErr(err, "load replayed rooms")
	}
	rooms := make(map[uuid.UUID]*room.Room, len(found))
	for _, rm := range found {
		rooms[rm.ID()] = rm
	}

	slog.Info("idempotent checkout replayed", "idempotency_key", key.String(), "reservations", len(reservations))
	return &CheckoutResult{Reservations: reservations, Rooms: rooms, Replayed: true}, nil
}

func prepareCheckout(req CheckoutRequest, maxNights int) (reservation.GuestInfo, []preparedLine, error) {
	guest, err := reservation.NewGuestInfo(req.Guest.Name, req.Guest.Email, req.Guest.Phone)
	if err != nil {
		return reservation.GuestInfo{}, nil, validationErr(err, "guest")
	}
	if len(req.Lines) == 0 {
		return reservation.GuestInfo{}, nil, validationErr(errs.New("cart is empty"), "lines")
	}

	prepared := make([]preparedLine, len(req.Lines))
	for i, l := range req.Lines {
		field := "lines[" + strconv.Itoa(i) + "]"

		if l.RoomID == uuid.Nil {
			return reservation.GuestInfo{}, nil, validationErr(errs.New("room id is required"), field)
		}
		stayRange, err := stay.NewDateRange(l.CheckIn, l.CheckOut)
		if err != nil {
			return reservation.GuestInfo{}, nil, validationErr(err, field)
		}
		if stayRange.ExceedsNights(maxNights) {
			return reservation.GuestInfo{}, nil, validationErr(stay.ErrStayTooLong, field)
		}
		guests, err := reservation.NewGuestCount(l.Adults, l.Children)
		if err != nil {
			return reservation.GuestInfo{}, nil, validationErr(err, field)
		}
		addons, err := reservation.NewAddons(l.Addons)
		if err != nil {
			return reservation.GuestInfo{}, nil, validationErr(err, field)
		}
		total, err := reservation.NewMoney(l.TotalCents)
		if err != nil {
			return reservation.GuestInfo{}, nil, validationErr(err, field)
		}

		prepared[i] = preparedLine{
			line:   Line{RoomID: l.RoomID, Stay: stayRange, Guests: guests.Total()},
			guests: guests,
			addons: addons,
			total:  total,
		}
	}
	return guest, prepared, nil
}

func distinctRoomIDs(prepared []preparedLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(prepared))
	ids := make([]uuid.UUID, 0, len(prepared))
	for _, p := range prepared {
		if _, ok := seen[p.line.RoomID]; ok {
			continue
		}
		seen[p.line.RoomID] = struct{}{}
		ids = append(ids, p.line.RoomID)
	}
	return ids
}

func roomTypes(rooms map[uuid.UUID]*room.Room) []string {
	seen := make(map[string]struct{}, len(rooms))
	out := make([]string, 0, len(rooms))
	for _, rm := range rooms {
		if _, ok := seen[rm.Type()]; ok {
			continue
		}
		seen[rm.Type()] = struct{}{}
		out = append(out, rm.Type())
	}
	return out
}

func calculateRequestHash(req CheckoutRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
