package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
)

// JudgeRequest is one drawn stroke submitted for judgement.
type JudgeRequest struct {
	// Character is the single character being practiced.
	Character string
	// StrokeIndex is the zero-based position of the stroke in drawing order.
	StrokeIndex int
	// Samples are the pointer positions in surface pixels.
	Samples []stroke.RawSample
	// Width and Height are the drawing surface dimensions in pixels.
	Width  float64
	Height float64
	// Profile overrides the configured default profile when set.
	Profile *stroke.Profile
	// Epsilon overrides the configured simplification tolerance when set.
	Epsilon *float64
}

// JudgeResult is the outcome of judging one stroke.
type JudgeResult struct {
	Verdict    stroke.Verdict
	Profile    stroke.Profile
	Simplified stroke.Stroke
	// StrokeCount is the number of reference strokes of the character; 0 when
	// the character has no stroke data.
	StrokeCount int
}

// Service orchestrates stroke practice and review scheduling over the
// persistence, reference data and feedback collaborators.
type Service interface {
	// Judge compares a drawn stroke with the reference stroke at
	// req.StrokeIndex of req.Character and emits a verdict event.
	//
	// A character without stroke data is judged against an empty reference,
	// which the comparator accepts. Returns ErrInvalidCharacter,
	// ErrStrokeIndexOutOfRange, domain.ErrInvalidInput or
	// domain.ErrInvalidProfile for bad requests.
	Judge(ctx context.Context, req JudgeRequest) (*JudgeResult, error)

	// Rate applies rating to the card, creating its state on first use, and
	// emits an interval event. Concurrent ratings of one card are serialized
	// by the store.
	Rate(ctx context.Context, cardID string, rating domain.Rating) (*domain.CardState, error)

	// Postpone moves the due date of an existing card by days.
	// Returns ErrCardNotFound if the card was never rated.
	Postpone(ctx context.Context, cardID string, days int) (*domain.CardState, error)

	// GetCard returns the stored state of a card, or ErrCardNotFound.
	GetCard(ctx context.Context, cardID string) (*domain.CardState, error)

	// DueCards returns cards due now in review order. A limit <= 0 uses the
	// configured default.
	DueCards(ctx context.Context, limit int) ([]*domain.CardState, error)

	// Words returns the practice word list.
	Words(ctx context.Context) ([]domain.Word, error)

	// Strokes returns the reference strokes of a character.
	Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error)

	// Export serializes every card state as a snapshot blob.
	Export(ctx context.Context) ([]byte, error)

	// Import replaces every card state with the contents of a snapshot blob.
	Import(ctx context.Context, blob []byte) error
}

// Common error types for the practice Service
var (
	// ErrCardNotFound indicates that no state is stored for the card.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidCharacter indicates that a request did not name exactly one character.
	ErrInvalidCharacter = errors.New("expected exactly one character")

	// ErrStrokeIndexOutOfRange indicates a stroke index outside the character's strokes.
	ErrStrokeIndexOutOfRange = errors.New("stroke index out of range")
)

// ServiceError wraps errors from the practice service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "judge", "rate")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
