package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/service/practice"
)

// MockPracticeService implements practice.Service for testing.
// Methods without a function field return their zero values and Err.
type MockPracticeService struct {
	JudgeFn    func(ctx context.Context, req practice.JudgeRequest) (*practice.JudgeResult, error)
	RateFn     func(ctx context.Context, cardID string, rating domain.Rating) (*domain.CardState, error)
	PostponeFn func(ctx context.Context, cardID string, days int) (*domain.CardState, error)
	GetCardFn  func(ctx context.Context, cardID string) (*domain.CardState, error)
	DueCardsFn func(ctx context.Context, limit int) ([]*domain.CardState, error)
	WordsFn    func(ctx context.Context) ([]domain.Word, error)
	StrokesFn  func(ctx context.Context, char string) ([]stroke.ReferenceStroke, error)
	ExportFn   func(ctx context.Context) ([]byte, error)
	ImportFn   func(ctx context.Context, blob []byte) error

	// Err is returned by methods without a function field.
	Err error

	// Call tracking for verification
	JudgeCalls struct {
		mu       sync.Mutex
		Requests []practice.JudgeRequest
	}
	RateCalls struct {
		mu      sync.Mutex
		CardIDs []string
		Ratings []domain.Rating
	}
}

var _ practice.Service = (*MockPracticeService)(nil)

// Judge implements practice.Service.
func (m *MockPracticeService) Judge(ctx context.Context, req practice.JudgeRequest) (*practice.JudgeResult, error) {
	m.JudgeCalls.mu.Lock()
	m.JudgeCalls.Requests = append(m.JudgeCalls.Requests, req)
	m.JudgeCalls.mu.Unlock()

	if m.JudgeFn != nil {
		return m.JudgeFn(ctx, req)
	}
	return nil, m.Err
}

// Rate implements practice.Service.
func (m *MockPracticeService) Rate(ctx context.Context, cardID string, rating domain.Rating) (*domain.CardState, error) {
	m.RateCalls.mu.Lock()
	m.RateCalls.CardIDs = append(m.RateCalls.CardIDs, cardID)
	m.RateCalls.Ratings = append(m.RateCalls.Ratings, rating)
	m.RateCalls.mu.Unlock()

	if m.RateFn != nil {
		return m.RateFn(ctx, cardID, rating)
	}
	return nil, m.Err
}

// Postpone implements practice.Service.
func (m *MockPracticeService) Postpone(ctx context.Context, cardID string, days int) (*domain.CardState, error) {
	if m.PostponeFn != nil {
		return m.PostponeFn(ctx, cardID, days)
	}
	return nil, m.Err
}

// GetCard implements practice.Service.
func (m *MockPracticeService) GetCard(ctx context.Context, cardID string) (*domain.CardState, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return nil, m.Err
}

// DueCards implements practice.Service.
func (m *MockPracticeService) DueCards(ctx context.Context, limit int) ([]*domain.CardState, error) {
	if m.DueCardsFn != nil {
		return m.DueCardsFn(ctx, limit)
	}
	return nil, m.Err
}

// Words implements practice.Service.
func (m *MockPracticeService) Words(ctx context.Context) ([]domain.Word, error) {
	if m.WordsFn != nil {
		return m.WordsFn(ctx)
	}
	return nil, m.Err
}

// Strokes implements practice.Service.
func (m *MockPracticeService) Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error) {
	if m.StrokesFn != nil {
		return m.StrokesFn(ctx, char)
	}
	return nil, m.Err
}

// Export implements practice.Service.
func (m *MockPracticeService) Export(ctx context.Context) ([]byte, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx)
	}
	return nil, m.Err
}

// Import implements practice.Service.
func (m *MockPracticeService) Import(ctx context.Context, blob []byte) error {
	if m.ImportFn != nil {
		return m.ImportFn(ctx, blob)
	}
	return m.Err
}
