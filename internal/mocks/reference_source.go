package mocks

import (
	"context"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// MockReferenceSource implements store.ReferenceSource for testing.
type MockReferenceSource struct {
	StrokesFn func(ctx context.Context, char string) ([]stroke.ReferenceStroke, error)
	WordsFn   func(ctx context.Context) ([]domain.Word, error)

	// Default response values
	Characters map[string][]stroke.ReferenceStroke
	WordList   []domain.Word
	Err        error
}

var _ store.ReferenceSource = (*MockReferenceSource)(nil)

// Strokes implements store.ReferenceSource.
func (m *MockReferenceSource) Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error) {
	if m.StrokesFn != nil {
		return m.StrokesFn(ctx, char)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	refs := m.Characters[char]
	if refs == nil {
		refs = []stroke.ReferenceStroke{}
	}
	return refs, nil
}

// Words implements store.ReferenceSource.
func (m *MockReferenceSource) Words(ctx context.Context) ([]domain.Word, error) {
	if m.WordsFn != nil {
		return m.WordsFn(ctx)
	}
	return m.WordList, m.Err
}
