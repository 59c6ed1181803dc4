//go:build unit || e2e

// Package memuow is an in-memory shared.UnitOfWork for use-case tests.
// Writes are buffered per transaction and applied on commit; room locks and
// idempotency key locks are held until the transaction ends, like the
// advisory locks and the key row lock in Postgres.
package memuow

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"hotel-reservation/internal/domain/reservation"
	"hotel-reservation/internal/domain/room"
	"hotel-reservation/internal/domain/stay"
	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomRecord struct {
	ID                 uuid.UUID
	Code               string
	Type               string
	Capacity           int
	NightlyPriceCents  int64
	Published          bool
	Occupied           bool
	CancellationPolicy string
}

// same default as DB_TX_MAX_RETRIES
const maxRetries = 3

const (
	JobPending = "pending"
	JobSent    = "sent"
	JobFailed  = "failed"
)

type JobRecord struct {
	Job       shared.NotificationJob
	Status    string
	LastError string
}

type Store struct {
	mu           sync.Mutex
	rooms        map[uuid.UUID]RoomRecord
	reservations map[uuid.UUID]reservation.Reservation
	idempotency  map[uuid.UUID]shared.IdempotencyRecord
	jobs         map[uuid.UUID]JobRecord

	roomLocks map[uuid.UUID]*sync.Mutex
	keyLocks  map[uuid.UUID]*sync.Mutex

	creates      int
	failCreateAt int
	failCreate   error
	updates      int
	failUpdateAt int
	failUpdate   error
	commits      int
	attempts     int
}

func New() *Store {
	return &Store{
		rooms:        make(map[uuid.UUID]RoomRecord),
		reservations: make(map[uuid.UUID]reservation.Reservation),
		idempotency:  make(map[uuid.UUID]shared.IdempotencyRecord),
		jobs:         make(map[uuid.UUID]JobRecord),
		roomLocks:    make(map[uuid.UUID]*sync.Mutex),
		keyLocks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) AddRoom(r RoomRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
}

func (s *Store) AddReservation(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[res.ID()] = *res
}

func (s *Store) AddJob(j JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.Status == "" {
		j.Status = JobPending
	}
	s.jobs[j.Job.ID] = j
}

// FailCreateOn makes the nth reservation insert (1-based, counted across
// transactions) fail with err.
func (s *Store) FailCreateOn(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreateAt = n
	s.failCreate = err
}

// FailUpdateStatusOn makes the nth status update (1-based, counted across
// transactions) fail with err.
func (s *Store) FailUpdateStatusOn(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdateAt = n
	s.failUpdate = err
}

func (s *Store) Room(id uuid.UUID) (RoomRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, false
	}
	return &res, true
}

func (s *Store) Reservations() []*reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*reservation.Reservation, 0, len(s.reservations))
	for _, res := range s.reservations {
		cp := res
		out = append(out, &cp)
	}
	return out
}

func (s *Store) Idempotency(key uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.idempotency[key]
	return r, ok
}

func (s *Store) Jobs() []JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobRecord, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	slices.SortFunc(out, func(a, b JobRecord) int { return a.Job.RunAt.Compare(b.Job.RunAt) })
	return out
}

// Attempts counts transaction runs including replays.
func (s *Store) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Within replays fn on errors marked shared.ErrRetryTransaction, like the
// Postgres unit of work does, up to maxRetries extra attempts.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := s.attempt(ctx, fn)
		if err == nil || !errs.Is(err, shared.ErrRetryTransaction) || attempt >= maxRetries {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Store) attempt(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	s.attempts++
	s.mu.Unlock()

	tx := &memTx{
		store:        s,
		occupied:     make(map[uuid.UUID]bool),
		reservations: make(map[uuid.UUID]reservation.Reservation),
		idempotency:  make(map[uuid.UUID]shared.IdempotencyRecord),
		jobs:         make(map[uuid.UUID]JobRecord),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

func (s *Store) mutexFor(locks map[uuid.UUID]*sync.Mutex, id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := locks[id]
	if !ok {
		m = &sync.Mutex{}
		locks[id] = m
	}
	return m
}

type memTx struct {
	store *Store
	held  []*sync.Mutex

	occupied     map[uuid.UUID]bool
	reservations map[uuid.UUID]reservation.Reservation
	idempotency  map[uuid.UUID]shared.IdempotencyRecord
	jobs         map[uuid.UUID]JobRecord
}

func (tx *memTx) Rooms() shared.RoomRepository                 { return (*roomRepo)(tx) }
func (tx *memTx) Reservations() shared.ReservationRepository   { return (*reservationRepo)(tx) }
func (tx *memTx) Idempotency() shared.IdempotencyRepository    { return (*idempotencyRepo)(tx) }
func (tx *memTx) Notifications() shared.NotificationRepository { return (*notificationRepo)(tx) }
func (tx *memTx) Locks() shared.RoomLocker                     { return (*locker)(tx) }
func (tx *memTx) Reads() shared.CommandReads                   { return &reads{store: tx.store, tx: tx} }

func (tx *memTx) commit() {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, occ := range tx.occupied {
		r := s.rooms[id]
		r.Occupied = occ
		s.rooms[id] = r
	}
	for id, res := range tx.reservations {
		s.reservations[id] = res
	}
	for key, rec := range tx.idempotency {
		s.idempotency[key] = rec
	}
	for id, j := range tx.jobs {
		s.jobs[id] = j
	}
	s.commits++
}

func (tx *memTx) release() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	tx.held = nil
}

// snapshot merges committed state with this transaction's pending writes.
// tx may be nil for reads outside a transaction.
func snapshot(s *Store, tx *memTx) map[uuid.UUID]reservation.Reservation {
	s.mu.Lock()
	out := make(map[uuid.UUID]reservation.Reservation, len(s.reservations))
	for id, res := range s.reservations {
		out[id] = res
	}
	s.mu.Unlock()

	if tx != nil {
		for id, res := range tx.reservations {
			out[id] = res
		}
	}
	return out
}

type locker memTx

func (l *locker) LockRooms(ctx context.Context, roomIDs []uuid.UUID) error {
	tx := (*memTx)(l)
	ids := slices.Clone(roomIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	for _, id := range slices.Compact(ids) {
		if err := ctx.Err(); err != nil {
			return infra.WrapRepoErr("failed to lock room", err)
		}
		m := tx.store.mutexFor(tx.store.roomLocks, id)
		if slices.Contains(tx.held, m) {
			continue
		}
		m.Lock()
		tx.held = append(tx.held, m)
	}
	return nil
}

type roomRepo memTx

func (r *roomRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*room.Room, error) {
	tx := (*memTx)(r)
	s := tx.store

	s.mu.Lock()
	records := make([]RoomRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.rooms[id]; ok && !slices.ContainsFunc(records, func(x RoomRecord) bool { return x.ID == id }) {
			records = append(records, rec)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(records, func(a, b RoomRecord) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})

	out := make([]*room.Room, 0, len(records))
	for _, rec := range records {
		if occ, ok := tx.occupied[rec.ID]; ok {
			rec.Occupied = occ
		}
		rm, err := room.ReconstructRoom(rec.ID, rec.Code, rec.Type, rec.Capacity, rec.NightlyPriceCents,
			rec.Published, rec.Occupied, rec.CancellationPolicy)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert room", err, infra.KindDBFailure)
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *roomRepo) SetOccupied(_ context.Context, roomID uuid.UUID, occupied bool) error {
	tx := (*memTx)(r)
	if _, ok := tx.store.Room(roomID); !ok {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	tx.occupied[roomID] = occupied
	return nil
}

type reservationRepo memTx

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	tx := (*memTx)(r)
	s := tx.store

	s.mu.Lock()
	s.creates++
	if s.failCreateAt > 0 && s.creates == s.failCreateAt {
		err := s.failCreate
		s.mu.Unlock()
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	_, exists := s.reservations[res.ID()]
	s.mu.Unlock()

	if _, pending := tx.reservations[res.ID()]; exists || pending {
		return infra.WrapRepoErr("failed to create reservation", nil, infra.KindDuplicateKey)
	}

	// the exclusion constraint on (room_id, stay) for non-cancelled rows
	for _, other := range snapshot(s, tx) {
		if other.RoomID() == res.RoomID() && other.IsActive() && stay.Overlaps(other.Stay(), res.Stay()) {
			return infra.WrapRepoErr("failed to create reservation", nil, infra.KindConflict)
		}
	}

	tx.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := snapshot((*memTx)(r).store, (*memTx)(r))[id]
	if !ok {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", nil, infra.KindNotFound)
	}
	return &res, nil
}

func (r *reservationRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	all := snapshot((*memTx)(r).store, (*memTx)(r))
	out := make([]*reservation.Reservation, 0, len(ids))
	for _, id := range ids {
		if res, ok := all[id]; ok {
			out = append(out, &res)
		}
	}
	slices.SortFunc(out, func(a, b *reservation.Reservation) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		ai, bi := a.ID(), b.ID()
		return bytes.Compare(ai[:], bi[:])
	})
	return out, nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	tx := (*memTx)(r)
	s := tx.store

	s.mu.Lock()
	s.updates++
	if s.failUpdateAt > 0 && s.updates == s.failUpdateAt {
		err := s.failUpdate
		s.mu.Unlock()
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	s.mu.Unlock()

	if _, ok := snapshot(tx.store, tx)[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	tx.reservations[res.ID()] = *res
	return nil
}

type idempotencyRepo memTx

func (r *idempotencyRepo) TryClaim(ctx context.Context, claim shared.IdempotencyClaim) (bool, error) {
	tx := (*memTx)(r)
	s := tx.store

	m := s.mutexFor(s.keyLocks, claim.Key)
	if !slices.Contains(tx.held, m) {
		m.Lock()
		tx.held = append(tx.held, m)
	}
	if err := ctx.Err(); err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}

	existing, ok := s.Idempotency(claim.Key)
	if ok && existing.ExpiresAt.After(claim.Now) {
		return false, nil
	}

	tx.idempotency[claim.Key] = shared.IdempotencyRecord{
		Key:         claim.Key,
		Endpoint:    claim.Endpoint,
		RequestHash: claim.RequestHash,
		Status:      shared.IdempotencyStatusProcessing,
		ExpiresAt:   claim.ExpiresAt,
	}
	return true, nil
}

func (r *idempotencyRepo) MarkCompleted(_ context.Context, key uuid.UUID, reservationIDs []uuid.UUID) error {
	tx := (*memTx)(r)
	rec, ok := tx.idempotency[key]
	if !ok {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ReservationIDs = slices.Clone(reservationIDs)
	tx.idempotency[key] = rec
	return nil
}

func (r *idempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s := (*memTx)(r).store
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, rec := range s.idempotency {
		if !rec.ExpiresAt.After(now) {
			delete(s.idempotency, key)
			n++
		}
	}
	return n, nil
}

type notificationRepo memTx

func (r *notificationRepo) Enqueue(_ context.Context, job shared.NotificationJob) error {
	tx := (*memTx)(r)
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	tx.jobs[job.ID] = JobRecord{Job: job, Status: JobPending}
	return nil
}

func (r *notificationRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	var due []shared.NotificationJob
	for _, j := range r.store.Jobs() {
		if j.Status == JobPending && !j.Job.RunAt.After(now) {
			due = append(due, j.Job)
		}
	}
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *notificationRepo) MarkSent(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(j *JobRecord) {
		j.Status = JobSent
		j.Job.Attempts++
		j.LastError = ""
	})
}

func (r *notificationRepo) Reschedule(_ context.Context, id uuid.UUID, runAt time.Time, lastErr string, giveUp bool) error {
	return r.update(id, func(j *JobRecord) {
		j.Job.Attempts++
		j.Job.RunAt = runAt
		j.LastError = lastErr
		if giveUp {
			j.Status = JobFailed
		}
	})
}

func (r *notificationRepo) update(id uuid.UUID, fn func(*JobRecord)) error {
	tx := (*memTx)(r)
	j, ok := tx.jobs[id]
	if !ok {
		tx.store.mu.Lock()
		j, ok = tx.store.jobs[id]
		tx.store.mu.Unlock()
	}
	if !ok {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	fn(&j)
	tx.jobs[id] = j
	return nil
}

type reads struct {
	store *Store
	tx    *memTx
}

func (r *reads) ActiveStays(_ context.Context, roomID uuid.UUID, after time.Time) ([]stay.DateRange, error) {
	var out []stay.DateRange
	for _, res := range snapshot(r.store, r.tx) {
		if res.RoomID() == roomID && res.IsActive() && res.Stay().End().After(after) {
			out = append(out, res.Stay())
		}
	}
	slices.SortFunc(out, func(a, b stay.DateRange) int { return a.Start().Compare(b.Start()) })
	return out, nil
}

func (r *reads) ConfirmationCodeExists(_ context.Context, code reservation.ConfirmationCode) (bool, error) {
	for _, res := range snapshot(r.store, r.tx) {
		if res.ConfirmationCode() == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *reads) HasUpcomingStay(_ context.Context, roomID, excludeID uuid.UUID, today time.Time) (bool, error) {
	for id, res := range snapshot(r.store, r.tx) {
		if id != excludeID && res.RoomID() == roomID &&
			res.Status() == reservation.StatusConfirmed && res.Stay().End().After(today) {
			return true, nil
		}
	}
	return false, nil
}

func (r *reads) EndedStayIDs(_ context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	var ended []reservation.Reservation
	for _, res := range snapshot(r.store, r.tx) {
		if res.Status() == reservation.StatusConfirmed && !res.Stay().End().After(today) {
			ended = append(ended, res)
		}
	}
	slices.SortFunc(ended, func(a, b reservation.Reservation) int {
		return a.Stay().End().Compare(b.Stay().End())
	})
	if len(ended) > limit {
		ended = ended[:limit]
	}

	ids := make([]uuid.UUID, len(ended))
	for i, res := range ended {
		ids[i] = res.ID()
	}
	return ids, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.tx != nil {
		if rec, ok := r.tx.idempotency[key]; ok {
			return &rec, nil
		}
	}
	rec, ok := r.store.Idempotency(key)
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}
