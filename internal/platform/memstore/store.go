// Package memstore provides an in-memory implementation of store.CardStateStore.
// It is used when no database is configured and in tests.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// Store keeps card states in a map guarded by a read-write mutex.
// States are copied on the way in and out, so callers never share memory
// with the store.
type Store struct {
	mu     sync.RWMutex
	states map[string]*domain.CardState
	logger *slog.Logger
}

var _ store.CardStateStore = (*Store)(nil)

// New creates an empty Store. A nil logger means slog.Default.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		states: make(map[string]*domain.CardState),
		logger: log.With(slog.String("component", "memstore")),
	}
}

// Get implements store.CardStateStore.
func (s *Store) Get(ctx context.Context, cardID string) (*domain.CardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[cardID]
	if !ok {
		return nil, store.ErrCardStateNotFound
	}
	return state.Clone(), nil
}

// Set implements store.CardStateStore.
func (s *Store) Set(ctx context.Context, state *domain.CardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(state); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state.CardID] = state.Clone()
	return nil
}

// Update implements store.CardStateStore. fn runs under the write lock.
func (s *Store) Update(ctx context.Context, cardID string, fn store.UpdateFn) (*domain.CardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current *domain.CardState
	if existing, ok := s.states[cardID]; ok {
		current = existing.Clone()
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := validate(next); err != nil {
		return nil, err
	}
	if next.CardID != cardID {
		return nil, fmt.Errorf("%w: update of %q returned state for %q", store.ErrInvalidEntity, cardID, next.CardID)
	}

	s.states[cardID] = next.Clone()
	return next.Clone(), nil
}

// ListDue implements store.CardStateStore.
func (s *Store) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]*domain.CardState, 0, len(s.states))
	for _, state := range s.states {
		all = append(all, state.Clone())
	}
	s.mu.RUnlock()

	due := domain.SortByDue(all, now)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Export implements store.CardStateStore.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	states := make([]*domain.CardState, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, state.Clone())
	}
	s.mu.RUnlock()

	return store.EncodeSnapshot(states)
}

// Import implements store.CardStateStore.
func (s *Store) Import(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	states, err := store.DecodeSnapshot(blob)
	if err != nil {
		return err
	}

	replacement := make(map[string]*domain.CardState, len(states))
	for _, state := range states {
		replacement[state.CardID] = state
	}

	s.mu.Lock()
	replaced := len(s.states)
	s.states = replacement
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("imported card states",
		slog.Int("imported", len(replacement)),
		slog.Int("replaced", replaced))
	return nil
}

// Len returns the number of stored states.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
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
