package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("validation")
	// ErrConflict indicates a uniqueness or concurrency conflict.
	ErrConflict = errors.New("conflict")
)

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure failures into coded errors. Errors that
// already carry a code (including unknown-accession failures) pass through.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainrec.CodeOf(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainrec.Wrap(domainrec.CodeValidation, op, err)
	case errors.Is(err, ErrConflict):
		return domainrec.Wrap(domainrec.CodeConflict, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainrec.Wrap(domainrec.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainrec.Wrap(domainrec.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainrec.Wrap(domainrec.CodeConflict, op, err) // unique_violation
		case "23503":
			return domainrec.Wrap(domainrec.CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainrec.Wrap(domainrec.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "already exists"):
		return domainrec.Wrap(domainrec.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"):
		return domainrec.Wrap(domainrec.CodeRetryable, op, err)
	default:
		return domainrec.Wrap(domainrec.CodeInternal, op, err)
	}
}
