package infra

import (
	"log/slog"

	"hotel-reservation/internal/pkg/errs"
	"hotel-reservation/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindConflict           RepositoryErrorKind = "CONFLICT" // overlapping stay rejected by the exclusion constraint
)

var kindBySQLState = map[string]RepositoryErrorKind{
	"23505": KindDuplicateKey,
	"23503": KindForeignKeyViolated,
	"23P01": KindConflict,
}

// RepositoryError is what every repository and read store returns on failure.
type RepositoryError struct {
	Kind  RepositoryErrorKind
	msg   string
	cause error
}

func (e *RepositoryError) Error() string {
	if e.cause == nil {
		return string(e.Kind) + ": " + e.msg
	}
	// cause already carries msg
	return string(e.Kind) + ": " + e.cause.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.cause
}

// WrapRepoErr classifies a driver error. An explicit kind overrides the
// classification derived from the SQLSTATE.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := Classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	if k == KindDBFailure {
		slog.Error("repository failure", "op", msg, "sqlstate", sqlState(err), "error", err)
	}
	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return &RepositoryError{Kind: k, msg: msg, cause: err}
}

func Classify(err error) RepositoryErrorKind {
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	if k, ok := kindBySQLState[sqlState(err)]; ok {
		return k
	}
	return KindDBFailure
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e *RepositoryError
	return errs.As(err, &e) && e.Kind == kind
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
