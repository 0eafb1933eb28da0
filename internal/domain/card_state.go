package domain

import (
	"math"
	"time"
)

// DefaultEaseFactor is the ease factor assigned to a card on its first rating.
const DefaultEaseFactor = 2.5

// CardState tracks the spaced repetition schedule of one practiced item
// (a character or a word). It is keyed by an opaque card identifier.
type CardState struct {
	CardID         string    `json:"card_id"`
	IntervalDays   int       `json:"interval_days"` // Current interval in days
	EaseFactor     float64   `json:"ease_factor"`   // Growth multiplier, bounded by srs.Params
	ReviewCount    int       `json:"review_count"`  // Total number of ratings applied
	Lapses         int       `json:"lapses"`        // Number of "again" ratings
	DueAt          time.Time `json:"due_at"`        // When the card should be reviewed next
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// NewCardState creates the initial review state for a card. The card is due
// immediately. now is passed in so callers control the clock.
func NewCardState(cardID string, now time.Time) (*CardState, error) {
	state := &CardState{
		CardID:       cardID,
		IntervalDays: 0,
		EaseFactor:   DefaultEaseFactor,
		ReviewCount:  0,
		Lapses:       0,
		DueAt:        now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardState has structurally valid data.
func (s *CardState) Validate() error {
	if s.CardID == "" {
		return ErrEmptyCardID
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if !(s.EaseFactor > 1.0) || math.IsInf(s.EaseFactor, 0) {
		return ErrInvalidEaseFactor
	}

	if s.ReviewCount < 0 || s.Lapses < 0 {
		return ErrInvalidCounter
	}

	return nil
}

// Clone returns a copy of the state. CardState holds no reference fields, so
// a value copy is a deep copy.
func (s *CardState) Clone() *CardState {
	out := *s
	return &out
}

// IsDue reports whether the card should be reviewed at or before now.
func (s *CardState) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}
