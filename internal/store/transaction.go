package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
)

// TxFn runs inside a transaction opened by RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a transaction on db and commits if fn returns
// nil. Otherwise, and when fn panics, the transaction is rolled back.
//
// Errors from fn come back unwrapped so callers can match their own
// sentinels; begin and commit failures wrap ErrTransactionFailed.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if p := recover(); p != nil {
			log.Error("rolled back transaction after panic", slog.Any("panic", p), slog.Any("rollback_error", rbErr))
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("cause", err.Error()))
			err = fmt.Errorf("rollback failed: %v (cause: %w)", rbErr, err)
			return
		}
		log.Debug("rolled back transaction", slog.String("cause", err.Error()))
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if cErr := tx.Commit(); cErr != nil {
		// A failed commit already ends the transaction.
		committed = true
		log.Error("failed to commit transaction", slog.String("error", cErr.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, cErr)
	}
	committed = true
	return nil
}
