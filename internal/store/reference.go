package store

import (
	"context"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
)

// ReferenceSource provides the authoritative stroke data and the word list.
type ReferenceSource interface {
	// Strokes returns the reference strokes of char in stroke order.
	// An unknown character yields an empty slice and no error.
	Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error)

	// Words returns the practice word list in its configured order.
	Words(ctx context.Context) ([]domain.Word, error)
}
