package srs

import (
	"fmt"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// Core limits
	MinEaseFactor   float64
	MaxEaseFactor   float64
	MaxIntervalDays int

	// Ease factor change applied for each rating
	EaseFactorAdjustment map[domain.Rating]float64

	// Interval growth multipliers. Good grows by the ease factor alone,
	// hard by HardIntervalModifier and easy by ease factor times EasyBonus.
	HardIntervalModifier float64
	EasyBonus            float64

	// Intervals used when the prior interval is 0 (new or lapsed cards)
	FirstReviewIntervals map[domain.Rating]int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	// Core limits
	MinEaseFactor   float64
	MaxEaseFactor   float64
	MaxIntervalDays int

	// Ease factor adjustments
	AgainEaseFactorAdjustment float64
	HardEaseFactorAdjustment  float64
	GoodEaseFactorAdjustment  float64
	EasyEaseFactorAdjustment  float64

	// Interval modifiers
	HardIntervalModifier float64
	EasyBonus            float64

	// First review intervals
	FirstReviewHardInterval int
	FirstReviewGoodInterval int
	FirstReviewEasyInterval int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   1.3,
		MaxEaseFactor:   3.0,
		MaxIntervalDays: 36500,

		EaseFactorAdjustment: map[domain.Rating]float64{
			domain.RatingAgain: -0.20,
			domain.RatingHard:  -0.15,
			domain.RatingGood:  0.0,
			domain.RatingEasy:  0.15,
		},

		HardIntervalModifier: 1.2,
		EasyBonus:            1.3,

		FirstReviewIntervals: map[domain.Rating]int{
			domain.RatingHard: 1,
			domain.RatingGood: 1,
			domain.RatingEasy: 2,
		},
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}

	if config.AgainEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.RatingAgain] = config.AgainEaseFactorAdjustment
	}
	if config.HardEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.RatingHard] = config.HardEaseFactorAdjustment
	}
	if config.GoodEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.RatingGood] = config.GoodEaseFactorAdjustment
	}
	if config.EasyEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.RatingEasy] = config.EasyEaseFactorAdjustment
	}

	if config.HardIntervalModifier > 0 {
		params.HardIntervalModifier = config.HardIntervalModifier
	}
	if config.EasyBonus > 0 {
		params.EasyBonus = config.EasyBonus
	}

	if config.FirstReviewHardInterval > 0 {
		params.FirstReviewIntervals[domain.RatingHard] = config.FirstReviewHardInterval
	}
	if config.FirstReviewGoodInterval > 0 {
		params.FirstReviewIntervals[domain.RatingGood] = config.FirstReviewGoodInterval
	}
	if config.FirstReviewEasyInterval > 0 {
		params.FirstReviewIntervals[domain.RatingEasy] = config.FirstReviewEasyInterval
	}

	return params
}

// Validate reports ErrInvalidParams when the parameters could produce states
// outside the scheduler's bounds.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: params are nil", ErrInvalidParams)
	}
	if p.MinEaseFactor <= 1.0 {
		return fmt.Errorf("%w: min ease factor %v must exceed 1.0", ErrInvalidParams, p.MinEaseFactor)
	}
	if p.MaxEaseFactor < p.MinEaseFactor {
		return fmt.Errorf("%w: max ease factor %v is below min %v",
			ErrInvalidParams, p.MaxEaseFactor, p.MinEaseFactor)
	}
	if p.MaxIntervalDays < 1 {
		return fmt.Errorf("%w: max interval must be at least 1 day", ErrInvalidParams)
	}
	if p.HardIntervalModifier < 1.0 || p.EasyBonus < 1.0 {
		return fmt.Errorf("%w: interval modifiers must be at least 1.0", ErrInvalidParams)
	}

	for _, rating := range domain.Ratings {
		if _, ok := p.EaseFactorAdjustment[rating]; !ok {
			return fmt.Errorf("%w: missing ease adjustment for %s", ErrInvalidParams, rating)
		}
		if rating == domain.RatingAgain {
			continue
		}
		if p.FirstReviewIntervals[rating] < 1 {
			return fmt.Errorf("%w: first review interval for %s must be at least 1 day",
				ErrInvalidParams, rating)
		}
	}

	return nil
}
