package domain

import (
	"encoding"
	"fmt"
	"strings"
)

// Rating represents the learner's self-assessment after reviewing a card.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// Ratings lists every valid rating in ascending order of recall quality.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

var (
	_ encoding.TextMarshaler   = Rating("")
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsValid reports whether r is one of the four enumerated ratings.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// ParseRating converts a rating name to a Rating. Matching ignores case and
// surrounding whitespace; anything else is rejected with ErrInvalidRating.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
