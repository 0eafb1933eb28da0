package srs

import (
	"math"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// calculateNewEaseFactor applies the rating's adjustment to currentEF and
// clamps the result to [params.MinEaseFactor, params.MaxEaseFactor].
//
// Algorithm behavior:
//   - "again" decreases the ease factor the most (default -0.20)
//   - "hard" decreases it moderately (default -0.15)
//   - "good" leaves it unchanged
//   - "easy" increases it (default +0.15)
func calculateNewEaseFactor(
	currentEF float64,
	rating domain.Rating,
	params *Params,
) float64 {
	newEF := currentEF + params.EaseFactorAdjustment[rating]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// easeFactor is the ease factor the card had before this rating.
//
// Algorithm behavior:
//   - "again" resets the interval to 0 (due immediately)
//   - a prior interval of 0 uses params.FirstReviewIntervals
//   - "hard" grows by params.HardIntervalModifier and never shrinks
//   - "good" grows by the ease factor, at least one day
//   - "easy" grows by the ease factor times params.EasyBonus, at least one day
//   - the result never exceeds params.MaxIntervalDays
func calculateNewInterval(
	currentInterval int,
	easeFactor float64,
	rating domain.Rating,
	params *Params,
) int {
	if rating == domain.RatingAgain {
		return 0
	}

	if currentInterval <= 0 {
		return capInterval(float64(params.FirstReviewIntervals[rating]), params)
	}

	prior := float64(currentInterval)
	var next float64
	switch rating {
	case domain.RatingHard:
		next = math.Max(prior, math.Floor(prior*params.HardIntervalModifier))
	case domain.RatingGood:
		next = math.Max(math.Floor(prior*easeFactor), prior+1)
	case domain.RatingEasy:
		next = math.Max(math.Floor(prior*easeFactor*params.EasyBonus), prior+1)
	}

	return capInterval(next, params)
}

// capInterval bounds days before the float to int conversion so very long
// intervals cannot overflow.
func capInterval(days float64, params *Params) int {
	if days > float64(params.MaxIntervalDays) {
		return params.MaxIntervalDays
	}
	if !(days >= 0) {
		return 0
	}
	return int(days)
}

// calculateNextReviewDate returns now plus interval calendar days. An interval
// of 0 makes the card due at now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextState creates a new CardState with updated values based on the
// rating. The input state is never modified.
//
// Algorithm behavior:
//   - Increments the review count and, for "again", the lapse count
//   - Sets LastReviewedAt to now
//   - Calculates the interval from the prior interval and prior ease factor
//   - Calculates the new ease factor
//   - Sets DueAt to now plus the new interval
func calculateNextState(
	state *domain.CardState,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.CardState {
	next := state.Clone()

	next.ReviewCount++
	if rating == domain.RatingAgain {
		next.Lapses++
	}
	next.LastReviewedAt = now

	next.IntervalDays = calculateNewInterval(state.IntervalDays, state.EaseFactor, rating, params)
	next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, rating, params)
	next.DueAt = calculateNextReviewDate(next.IntervalDays, now)

	return next
}
