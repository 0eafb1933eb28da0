package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// Common errors
var (
	ErrNilState      = errors.New("card state cannot be nil")
	ErrInvalidDays   = errors.New("postpone days must be at least 1")
	ErrInvalidParams = errors.New("invalid scheduler parameters")
)

// Service defines the interface for scheduling operations. Implementations are
// pure: they never modify the state they are given and never read the clock.
type Service interface {
	// CalculateNextReview computes the state that follows a rating
	CalculateNextReview(
		state *domain.CardState,
		rating domain.Rating,
		now time.Time,
	) (*domain.CardState, error)

	// PostponeReview pushes the due time forward by a number of days
	PostponeReview(
		state *domain.CardState,
		days int,
		now time.Time,
	) (*domain.CardState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduler with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// CalculateNextReview implements the Service interface
func (s *defaultService) CalculateNextReview(
	state *domain.CardState,
	rating domain.Rating,
	now time.Time,
) (*domain.CardState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRating, string(rating))
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return calculateNextState(state, rating, now, s.params), nil
}

// PostponeReview implements the Service interface. The interval and ease
// factor are left alone; only DueAt moves.
func (s *defaultService) PostponeReview(
	state *domain.CardState,
	days int,
	now time.Time,
) (*domain.CardState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := state.Clone()

	// A card that is already overdue is pushed out from now rather than from
	// its stale due date.
	base := state.DueAt
	if base.Before(now) {
		base = now
	}
	next.DueAt = base.AddDate(0, 0, days)

	return next, nil
}
