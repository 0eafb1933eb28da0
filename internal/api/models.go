package api

import (
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/service/practice"
)

// JudgeRequest defines the payload for the stroke judgement endpoint.
type JudgeRequest struct {
	// Character is the single character being drawn
	Character string `json:"character" validate:"required"`

	// StrokeIndex is the zero-based position of the stroke in drawing order
	StrokeIndex int `json:"stroke_index" validate:"gte=0"`

	// Samples are the pointer positions in surface pixels, as [x, y] pairs
	Samples []stroke.RawSample `json:"samples" validate:"required,min=1"`

	// Width and Height are the drawing surface dimensions in pixels
	Width  float64 `json:"width"  validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`

	// Profile selects the tolerance profile; the server default applies when omitted
	Profile *string `json:"profile,omitempty" validate:"omitempty,oneof=flexible flex strict"`

	// Epsilon overrides the simplification tolerance in normalized units
	Epsilon *float64 `json:"epsilon,omitempty" validate:"omitempty,gte=0"`
}

// JudgeResponse defines the successful response of the stroke judgement endpoint.
type JudgeResponse struct {
	stroke.Verdict

	Profile          stroke.Profile `json:"profile"`
	SimplifiedPoints stroke.Stroke  `json:"simplified_points"`
	StrokeCount      int            `json:"stroke_count"`
}

// RateRequest defines the payload for rating a card.
type RateRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// PostponeRequest defines the payload for postponing a card.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// DueQuery holds the query parameters of the due cards endpoint.
type DueQuery struct {
	// Limit is 0 when omitted, meaning the configured default
	Limit int `validate:"omitempty,min=1,max=1000"`
}

// CardStateResponse is the JSON form of a card's review state.
type CardStateResponse struct {
	CardID         string     `json:"card_id"`
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	ReviewCount    int        `json:"review_count"`
	Lapses         int        `json:"lapses"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// DueCardsResponse lists the cards due for review in review order.
type DueCardsResponse struct {
	Cards []CardStateResponse `json:"cards"`
}

// WordsResponse lists the practice words.
type WordsResponse struct {
	Words []domain.Word `json:"words"`
}

// StrokesResponse lists the reference strokes of a character.
type StrokesResponse struct {
	Character string                   `json:"character"`
	Strokes   []stroke.ReferenceStroke `json:"strokes"`
}

func cardStateToResponse(state *domain.CardState) CardStateResponse {
	resp := CardStateResponse{
		CardID:       state.CardID,
		IntervalDays: state.IntervalDays,
		EaseFactor:   state.EaseFactor,
		ReviewCount:  state.ReviewCount,
		Lapses:       state.Lapses,
		DueAt:        state.DueAt,
	}
	if !state.LastReviewedAt.IsZero() {
		reviewed := state.LastReviewedAt
		resp.LastReviewedAt = &reviewed
	}
	return resp
}

func judgeResultToResponse(result *practice.JudgeResult) JudgeResponse {
	points := result.Simplified
	if points == nil {
		points = stroke.Stroke{}
	}
	return JudgeResponse{
		Verdict:          result.Verdict,
		Profile:          result.Profile,
		SimplifiedPoints: points,
		StrokeCount:      result.StrokeCount,
	}
}
