// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when a gesture or stroke is empty or otherwise
	// unusable where a non-empty stroke is required.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRating is returned when a rating is not one of again, hard, good, easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidProfile is returned when a tolerance profile is unknown or is
	// missing a required threshold.
	ErrInvalidProfile = errors.New("invalid tolerance profile")

	// ErrEmptyCardID is returned when a card state has no card identifier.
	ErrEmptyCardID = errors.New("card ID cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is not a finite
	// number above 1.0.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")

	// ErrEmptyWord is returned when a word has no characters to practice.
	ErrEmptyWord = errors.New("word has no characters")

	// ErrInvalidCounter is returned when a review or lapse counter is negative.
	ErrInvalidCounter = errors.New("review counters must be greater than or equal to 0")
)
