package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDue      = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	stateColumns = []string{
		"card_id", "interval_days", "ease_factor", "review_count", "lapses", "due_at", "last_reviewed_at",
	}
)

func newMockStore(t *testing.T) (*PostgresCardStateStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresCardStateStore(db, nil), mock
}

func newCheckViolation() *pgconn.PgError {
	return &pgconn.PgError{Code: checkViolationCode, ConstraintName: "card_states_ease_factor_check"}
}

func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func TestNewPostgresCardStateStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresCardStateStore(nil, nil) })
}

func TestPostgresCardStateStore_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		reviewed := testDue.AddDate(0, 0, -3)
		mock.ExpectQuery(q("FROM card_states WHERE card_id = $1")).
			WithArgs("w1").
			WillReturnRows(sqlmock.NewRows(stateColumns).AddRow("w1", 3, 2.35, 4, 1, testDue, reviewed))

		got, err := s.Get(context.Background(), "w1")
		require.NoError(t, err)
		assert.Equal(t, &domain.CardState{
			CardID:         "w1",
			IntervalDays:   3,
			EaseFactor:     2.35,
			ReviewCount:    4,
			Lapses:         1,
			DueAt:          testDue,
			LastReviewedAt: reviewed,
		}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never reviewed has zero last review", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(q("FROM card_states WHERE card_id = $1")).
			WithArgs("w2").
			WillReturnRows(sqlmock.NewRows(stateColumns).AddRow("w2", 0, 2.5, 0, 0, testDue, nil))

		got, err := s.Get(context.Background(), "w2")
		require.NoError(t, err)
		assert.True(t, got.LastReviewedAt.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(q("FROM card_states WHERE card_id = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(stateColumns))

		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrCardStateNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(q("FROM card_states")).WillReturnError(errors.New("connection refused"))

		_, err := s.Get(context.Background(), "w1")
		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestPostgresCardStateStore_Set(t *testing.T) {
	t.Parallel()

	t.Run("upserts valid state", func(t *testing.T) {
		s, mock := newMockStore(t)
		state := &domain.CardState{CardID: "w1", EaseFactor: 2.5, DueAt: testDue}
		mock.ExpectExec(q("INSERT INTO card_states")).
			WithArgs("w1", 0, 2.5, 0, 0, testDue, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Set(context.Background(), state))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid state without touching the database", func(t *testing.T) {
		s, mock := newMockStore(t)
		err := s.Set(context.Background(), &domain.CardState{CardID: "w1", EaseFactor: 1.0})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardStateStore_Update(t *testing.T) {
	t.Parallel()

	t.Run("creates state inside a locked transaction", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("SELECT pg_advisory_xact_lock(hashtext($1))")).
			WithArgs("w1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("WHERE card_id = $1 FOR UPDATE")).
			WithArgs("w1").
			WillReturnRows(sqlmock.NewRows(stateColumns))
		mock.ExpectExec(q("INSERT INTO card_states")).
			WithArgs("w1", 1, 2.5, 1, 0, testDue.AddDate(0, 0, 1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := s.Update(context.Background(), "w1", func(current *domain.CardState) (*domain.CardState, error) {
			assert.Nil(t, current)
			return &domain.CardState{
				CardID:         "w1",
				IntervalDays:   1,
				EaseFactor:     2.5,
				ReviewCount:    1,
				DueAt:          testDue.AddDate(0, 0, 1),
				LastReviewedAt: testDue,
			}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got.IntervalDays)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns times at stored precision", func(t *testing.T) {
		s, mock := newMockStore(t)
		reviewed := testDue.Add(123456789 * time.Nanosecond)
		due := reviewed.AddDate(0, 0, 2)
		mock.ExpectBegin()
		mock.ExpectExec(q("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(stateColumns))
		mock.ExpectExec(q("INSERT INTO card_states")).
			WithArgs("w1", 2, 2.65, 1, 0,
				due.Truncate(time.Microsecond),
				sql.NullTime{Time: reviewed.Truncate(time.Microsecond), Valid: true}).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := s.Update(context.Background(), "w1", func(*domain.CardState) (*domain.CardState, error) {
			return &domain.CardState{
				CardID:         "w1",
				IntervalDays:   2,
				EaseFactor:     2.65,
				ReviewCount:    1,
				DueAt:          due,
				LastReviewedAt: reviewed,
			}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, testDue.Add(123456*time.Microsecond), got.LastReviewedAt)
		assert.Equal(t, due.Truncate(time.Microsecond), got.DueAt)
		assert.Zero(t, got.DueAt.Nanosecond()%1000)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("passes the locked row to fn", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FOR UPDATE")).
			WithArgs("w1").
			WillReturnRows(sqlmock.NewRows(stateColumns).AddRow("w1", 4, 2.2, 3, 0, testDue, testDue))
		mock.ExpectExec(q("INSERT INTO card_states")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		_, err := s.Update(context.Background(), "w1", func(current *domain.CardState) (*domain.CardState, error) {
			require.NotNil(t, current)
			assert.Equal(t, 4, current.IntervalDays)
			next := current.Clone()
			next.ReviewCount++
			return next, nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fn error rolls back", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(stateColumns))
		mock.ExpectRollback()

		_, err := s.Update(context.Background(), "w1", func(current *domain.CardState) (*domain.CardState, error) {
			return nil, domain.ErrInvalidRating
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid result rolls back", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("pg_advisory_xact_lock")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(stateColumns))
		mock.ExpectRollback()

		_, err := s.Update(context.Background(), "w1", func(current *domain.CardState) (*domain.CardState, error) {
			return &domain.CardState{CardID: "w1", EaseFactor: 2.5, IntervalDays: -2}, nil
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardStateStore_ListDue(t *testing.T) {
	t.Parallel()

	t.Run("with limit", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(q("ORDER BY due_at ASC, card_id ASC")).
			WithArgs(testDue, sql.NullInt64{Int64: 2, Valid: true}).
			WillReturnRows(sqlmock.NewRows(stateColumns).
				AddRow("b", 1, 2.5, 1, 0, testDue.Add(-2*time.Hour), nil).
				AddRow("a", 1, 2.5, 1, 0, testDue.Add(-time.Hour), nil))

		due, err := s.ListDue(context.Background(), testDue, 2)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, "b", due[0].CardID)
		assert.Equal(t, "a", due[1].CardID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without limit", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(q("LIMIT $2")).
			WithArgs(testDue, nil).
			WillReturnRows(sqlmock.NewRows(stateColumns))

		due, err := s.ListDue(context.Background(), testDue, 0)
		require.NoError(t, err)
		assert.Empty(t, due)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardStateStore_ExportImport(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery(q("FROM card_states ORDER BY card_id")).
		WillReturnRows(sqlmock.NewRows(stateColumns).
			AddRow("w1", 3, 2.35, 4, 1, testDue, testDue.AddDate(0, 0, -3)).
			AddRow("w2", 0, 2.5, 0, 0, testDue, nil))

	blob, err := s.Export(context.Background())
	require.NoError(t, err)

	decoded, err := store.DecodeSnapshot(blob)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM card_states")).WillReturnResult(sqlmock.NewResult(0, 5))
	prep := mock.ExpectPrepare(q("INSERT INTO card_states"))
	prep.ExpectExec().
		WithArgs("w1", 3, 2.35, 4, 1, testDue, testDue.AddDate(0, 0, -3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("w2", 0, 2.5, 0, 0, testDue, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Import(context.Background(), blob))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCardStateStore_ImportFailures(t *testing.T) {
	t.Parallel()

	t.Run("invalid blob touches nothing", func(t *testing.T) {
		s, mock := newMockStore(t)
		err := s.Import(context.Background(), []byte(`not json`))
		assert.ErrorIs(t, err, store.ErrInvalidSnapshot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("DELETE FROM card_states")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectPrepare(q("INSERT INTO card_states")).
			ExpectExec().
			WillReturnError(newCheckViolation())
		mock.ExpectRollback()

		err := s.Import(context.Background(), []byte(`{"version":1,"srs":{"w1":{"card_id":"w1","ease_factor":2.5}}}`))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
