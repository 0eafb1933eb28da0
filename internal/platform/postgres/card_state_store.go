package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

const cardStateColumns = `card_id, interval_days, ease_factor, review_count, lapses, due_at, last_reviewed_at`

const upsertCardStateQuery = `
	INSERT INTO card_states (card_id, interval_days, ease_factor, review_count, lapses, due_at, last_reviewed_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (card_id) DO UPDATE SET
		interval_days = EXCLUDED.interval_days,
		ease_factor = EXCLUDED.ease_factor,
		review_count = EXCLUDED.review_count,
		lapses = EXCLUDED.lapses,
		due_at = EXCLUDED.due_at,
		last_reviewed_at = EXCLUDED.last_reviewed_at,
		updated_at = NOW()
`

// PostgresCardStateStore implements the store.CardStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStateStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCardStateStore creates a new PostgreSQL implementation of the
// CardStateStore interface. The connection pool is owned by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStateStore(db *sql.DB, logger *slog.Logger) *PostgresCardStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_state_store")),
	}
}

// Ensure PostgresCardStateStore implements store.CardStateStore interface
var _ store.CardStateStore = (*PostgresCardStateStore)(nil)

// Get implements store.CardStateStore.Get
func (s *PostgresCardStateStore) Get(ctx context.Context, cardID string) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := getCardState(ctx, s.db, cardID, false)
	if err != nil {
		if !errors.Is(err, store.ErrCardStateNotFound) {
			log.Error("failed to get card state",
				slog.String("error", err.Error()),
				slog.String("card_id", cardID))
		}
		return nil, err
	}

	return state, nil
}

// Set implements store.CardStateStore.Set
func (s *PostgresCardStateStore) Set(ctx context.Context, state *domain.CardState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validate(state); err != nil {
		log.Warn("card state validation failed during set", slog.String("error", err.Error()))
		return err
	}

	if err := upsertCardState(ctx, s.db, state); err != nil {
		log.Error("failed to store card state",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID))
		return err
	}

	return nil
}

// Update implements store.CardStateStore.Update
// The card is locked for the whole read-modify-write: a transaction-scoped
// advisory lock on the card ID serializes updates even before the first row
// exists, and the row itself is read with SELECT ... FOR UPDATE.
func (s *PostgresCardStateStore) Update(
	ctx context.Context,
	cardID string,
	fn store.UpdateFn,
) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *domain.CardState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, cardID); err != nil {
			return store.NewStoreError("card_state", "lock", "failed to lock card", MapError(err))
		}

		current, err := getCardState(ctx, tx, cardID, true)
		if err != nil && !errors.Is(err, store.ErrCardStateNotFound) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := validate(next); err != nil {
			return err
		}
		if next.CardID != cardID {
			return fmt.Errorf("%w: update of %q returned state for %q", store.ErrInvalidEntity, cardID, next.CardID)
		}

		stored := atStoredPrecision(next)
		if err := upsertCardState(ctx, tx, stored); err != nil {
			return err
		}

		result = stored
		return nil
	})
	if err != nil {
		log.Debug("card state update aborted",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID))
		return nil, err
	}

	return result, nil
}

// ListDue implements store.CardStateStore.ListDue
func (s *PostgresCardStateStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// LIMIT NULL means no limit
	var limitArg sql.NullInt64
	if limit > 0 {
		limitArg = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	query := `SELECT ` + cardStateColumns + `
		FROM card_states
		WHERE due_at <= $1
		ORDER BY due_at ASC, card_id ASC
		LIMIT $2`

	states, err := queryCardStates(ctx, s.db, query, now, limitArg)
	if err != nil {
		log.Error("failed to list due cards", slog.String("error", err.Error()))
		return nil, err
	}

	return states, nil
}

// Export implements store.CardStateStore.Export
func (s *PostgresCardStateStore) Export(ctx context.Context) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	states, err := queryCardStates(ctx, s.db, `SELECT `+cardStateColumns+` FROM card_states ORDER BY card_id`)
	if err != nil {
		log.Error("failed to export card states", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("exporting card states", slog.Int("count", len(states)))
	return store.EncodeSnapshot(states)
}

// Import implements store.CardStateStore.Import
// The delete and the inserts run in one transaction, so a failed import
// leaves the previous collection in place.
func (s *PostgresCardStateStore) Import(ctx context.Context, blob []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	states, err := store.DecodeSnapshot(blob)
	if err != nil {
		log.Warn("rejected import blob", slog.String("error", err.Error()))
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_states`); err != nil {
			return store.NewStoreError("card_state", "import", "failed to clear card states", MapError(err))
		}

		stmt, err := tx.PrepareContext(ctx, upsertCardStateQuery)
		if err != nil {
			return store.NewStoreError("card_state", "import", "failed to prepare insert", MapError(err))
		}
		defer func() { _ = stmt.Close() }()

		for _, state := range states {
			if _, err := stmt.ExecContext(ctx, cardStateArgs(state)...); err != nil {
				return store.NewStoreError("card_state", "import",
					fmt.Sprintf("failed to insert card %q", state.CardID), MapError(err))
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to import card states", slog.String("error", err.Error()))
		return err
	}

	log.Info("imported card states", slog.Int("imported", len(states)))
	return nil
}

func getCardState(ctx context.Context, db store.DBTX, cardID string, forUpdate bool) (*domain.CardState, error) {
	query := `SELECT ` + cardStateColumns + ` FROM card_states WHERE card_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	state, err := scanCardState(db.QueryRowContext(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardStateNotFound
		}
		return nil, store.NewStoreError("card_state", "get", "failed to read card state", MapError(err))
	}
	return state, nil
}

func queryCardStates(ctx context.Context, db store.DBTX, query string, args ...any) ([]*domain.CardState, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("card_state", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	states := []*domain.CardState{}
	for rows.Next() {
		state, err := scanCardState(rows)
		if err != nil {
			return nil, store.NewStoreError("card_state", "list", "failed to scan row", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card_state", "list", "row iteration failed", MapError(err))
	}

	return states, nil
}

func upsertCardState(ctx context.Context, db store.DBTX, state *domain.CardState) error {
	if _, err := db.ExecContext(ctx, upsertCardStateQuery, cardStateArgs(state)...); err != nil {
		return store.NewStoreError("card_state", "set", "failed to store card state", MapError(err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCardState(row rowScanner) (*domain.CardState, error) {
	var (
		state        domain.CardState
		lastReviewed sql.NullTime
	)
	if err := row.Scan(
		&state.CardID,
		&state.IntervalDays,
		&state.EaseFactor,
		&state.ReviewCount,
		&state.Lapses,
		&state.DueAt,
		&lastReviewed,
	); err != nil {
		return nil, err
	}

	state.DueAt = state.DueAt.UTC()
	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time.UTC()
	}
	return &state, nil
}

// atStoredPrecision returns a copy of state with its times in UTC and
// truncated to the microsecond resolution of TIMESTAMPTZ, which is what a
// later read returns.
func atStoredPrecision(state *domain.CardState) *domain.CardState {
	out := state.Clone()
	out.DueAt = out.DueAt.UTC().Truncate(time.Microsecond)
	out.LastReviewedAt = out.LastReviewedAt.UTC().Truncate(time.Microsecond)
	return out
}

// cardStateArgs returns the parameters of upsertCardStateQuery. A zero
// LastReviewedAt is stored as NULL.
func cardStateArgs(state *domain.CardState) []any {
	state = atStoredPrecision(state)
	lastReviewed := sql.NullTime{Time: state.LastReviewedAt, Valid: !state.LastReviewedAt.IsZero()}
	return []any{
		state.CardID,
		state.IntervalDays,
		state.EaseFactor,
		state.ReviewCount,
		state.Lapses,
		state.DueAt,
		lastReviewed,
	}
}

func validate(state *domain.CardState) error {
	if state == nil {
		return fmt.Errorf("%w: card state is nil", store.ErrInvalidEntity)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return nil
}
