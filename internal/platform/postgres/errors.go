package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// PostgreSQL error codes that card_states operations can raise.
const (
	// checkViolationCode is raised when a row breaks one of the card_states
	// range checks (negative interval or counters, ease factor not above 1).
	checkViolationCode = "23514"

	// notNullViolationCode is raised when a required column is missing.
	notNullViolationCode = "23502"

	// serializationFailureCode and deadlockDetectedCode are raised when
	// concurrent reviews of the same card conflict.
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"

	// lockNotAvailableCode is raised when the card row lock times out.
	lockNotAvailableCode = "55P03"
)

// MapError translates a database error into the store error callers check
// with errors.Is. The driver error stays in the message for logs. Errors
// without a mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrCardStateNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case checkViolationCode:
		return fmt.Errorf("%w: card state violates %s: %v", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: card state is missing %s: %v", store.ErrInvalidEntity, pgErr.ColumnName, err)
	case serializationFailureCode, deadlockDetectedCode, lockNotAvailableCode:
		return fmt.Errorf("%w: concurrent review conflict: %v", store.ErrTransactionFailed, err)
	default:
		return err
	}
}
