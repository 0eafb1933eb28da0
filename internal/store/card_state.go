package store

import (
	"context"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// UpdateFn computes the next state of a card from its current state.
// current is nil when the card has never been stored. Returning an error
// aborts the update and leaves the stored state untouched.
type UpdateFn func(current *domain.CardState) (*domain.CardState, error)

// CardStateStore defines the interface for spaced repetition state persistence.
// Implementations must be safe for concurrent use.
type CardStateStore interface {
	// Get retrieves the state of one card.
	// Returns ErrCardStateNotFound if the card has never been stored.
	Get(ctx context.Context, cardID string) (*domain.CardState, error)

	// Set stores state, replacing any existing state for the same card.
	// Returns ErrInvalidEntity if the state fails domain validation.
	Set(ctx context.Context, state *domain.CardState) error

	// Update runs a read-modify-write of one card atomically: concurrent
	// updates of the same card are serialized so none is lost.
	// The state returned by fn is validated, stored and returned.
	Update(ctx context.Context, cardID string, fn UpdateFn) (*domain.CardState, error)

	// ListDue returns up to limit cards due at or before now, ordered by due
	// time then card ID. A limit of 0 or less means no limit.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error)

	// Export returns the whole collection as a snapshot blob
	// (see EncodeSnapshot).
	Export(ctx context.Context) ([]byte, error)

	// Import replaces the whole collection with the states in blob.
	// Nothing is changed if the blob is invalid.
	Import(ctx context.Context, blob []byte) error
}
