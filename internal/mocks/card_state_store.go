package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// MockCardStateStore implements store.CardStateStore for testing.
// Update without UpdateFn calls fn with CurrentState and returns its result,
// so callers see their update function run exactly as a real store would run it.
type MockCardStateStore struct {
	GetFn     func(ctx context.Context, cardID string) (*domain.CardState, error)
	SetFn     func(ctx context.Context, state *domain.CardState) error
	UpdateFn  func(ctx context.Context, cardID string, fn store.UpdateFn) (*domain.CardState, error)
	ListDueFn func(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error)
	ExportFn  func(ctx context.Context) ([]byte, error)
	ImportFn  func(ctx context.Context, blob []byte) error

	// Default response values
	CurrentState *domain.CardState
	DueStates    []*domain.CardState
	Blob         []byte
	Err          error

	mu          sync.Mutex
	UpdateCalls []string
	ListDueArgs []ListDueCall
	Imported    [][]byte
}

// ListDueCall records the arguments of one ListDue call.
type ListDueCall struct {
	Now   time.Time
	Limit int
}

var _ store.CardStateStore = (*MockCardStateStore)(nil)

// Get implements store.CardStateStore.
func (m *MockCardStateStore) Get(ctx context.Context, cardID string) (*domain.CardState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, cardID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.CurrentState == nil {
		return nil, store.ErrCardStateNotFound
	}
	return m.CurrentState.Clone(), nil
}

// Set implements store.CardStateStore.
func (m *MockCardStateStore) Set(ctx context.Context, state *domain.CardState) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, state)
	}
	return m.Err
}

// Update implements store.CardStateStore.
func (m *MockCardStateStore) Update(
	ctx context.Context,
	cardID string,
	fn store.UpdateFn,
) (*domain.CardState, error) {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, cardID)
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, cardID, fn)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	var current *domain.CardState
	if m.CurrentState != nil {
		current = m.CurrentState.Clone()
	}
	return fn(current)
}

// ListDue implements store.CardStateStore.
func (m *MockCardStateStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error) {
	m.mu.Lock()
	m.ListDueArgs = append(m.ListDueArgs, ListDueCall{Now: now, Limit: limit})
	m.mu.Unlock()

	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, now, limit)
	}
	return m.DueStates, m.Err
}

// Export implements store.CardStateStore.
func (m *MockCardStateStore) Export(ctx context.Context) ([]byte, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx)
	}
	return m.Blob, m.Err
}

// Import implements store.CardStateStore.
func (m *MockCardStateStore) Import(ctx context.Context, blob []byte) error {
	m.mu.Lock()
	m.Imported = append(m.Imported, blob)
	m.mu.Unlock()

	if m.ImportFn != nil {
		return m.ImportFn(ctx, blob)
	}
	return m.Err
}
