package uow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/infra/repository"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATEs worth another attempt: the whole unit of work is replayed from
// the idempotency claim onward, so nothing partial survives.
var retryableCodes = map[string]string{
	"40001": "serialization_failure",
	"40P01": "deadlock_detected",
	"55P03": "lock_not_available",
}

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

const retryBaseDelay = 50 * time.Millisecond

type PostgresUoW struct {
	pool        *pgxpool.Pool
	q           *query.Queries
	logger      *slog.Logger
	maxRetries  int
	lockTimeout time.Duration
}

func NewPostgresUoW(pool *pgxpool.Pool, q *query.Queries, cfg config.Config, logger *slog.Logger) *PostgresUoW {
	return &PostgresUoW{
		pool:        pool,
		q:           q,
		logger:      logger.With("component", "uow"),
		maxRetries:  max(cfg.DB.TxMaxRetries, 0),
		lockTimeout: cfg.DB.LockTimeout,
	}
}

// Within runs fn in one ReadCommitted transaction. Room-level serialisation
// comes from the advisory locks taken through tx.Locks(), not the isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = u.attempt(ctx, fn)

		code, retryable := retryableCode(err)
		if !retryable {
			return err
		}
		if attempt >= u.maxRetries {
			u.logger.Error("giving up on transaction", "attempts", attempt+1, "sqlstate", code, "error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		wait := backoff(attempt)
		u.logger.Warn("retrying transaction", "attempt", attempt+1, "sqlstate", code, "wait_ms", wait.Milliseconds())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return newCommandReads(u.q, u.pool)
}

// attempt owns exactly one pgx transaction so no defer piles up across retries.
func (u *PostgresUoW) attempt(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = u.setLockTimeout(ctx, pgxTx)
	if err == nil {
		err = fn(ctx, &pgTx{dbtx: pgxTx, q: u.q})
	}
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errs.Is(rbErr, pgx.ErrTxClosed) {
		u.logger.Warn("rollback failed", "error", rbErr.Error())
	}
	return err
}

// ロック待ちが長引いたら 55P03 で抜けてリトライさせる
func (u *PostgresUoW) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.lockTimeout <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)",
		fmt.Sprintf("%dms", u.lockTimeout.Milliseconds()))
	return err
}

func retryableCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if errs.Is(err, shared.ErrRetryTransaction) {
		return "retry_requested", true
	}
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return "", false
	}
	name, ok := retryableCodes[pgErr.Code]
	return name, ok
}

// 50ms, 100ms, 200ms ... plus up to 20% jitter so contending checkouts spread out.
func backoff(attempt int) time.Duration {
	wait := retryBaseDelay << min(attempt, 6)
	return wait + rand.N(wait/5+1)
}

type pgTx struct {
	dbtx query.DBTX
	q    *query.Queries

	roomRepo         *repository.RoomRepository
	reservationRepo  shared.ReservationRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) rooms() *repository.RoomRepository {
	if t.roomRepo == nil {
		t.roomRepo = repository.NewRoomRepository(t.q, t.dbtx)
	}
	return t.roomRepo
}

func (t *pgTx) Rooms() shared.RoomRepository {
	return t.rooms()
}

// Locks shares the room repository: the advisory locks live on the same connection.
func (t *pgTx) Locks() shared.RoomLocker {
	return t.rooms()
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.q, t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.q, t.dbtx)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.q, t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = newCommandReads(t.q, t.dbtx)
	}
	return t.commandReads
}
