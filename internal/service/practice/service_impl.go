package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/srs"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/events"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// Default settings used when Options leaves a field zero.
const (
	DefaultSimplifyEpsilon = 0.02
	DefaultDueLimit        = 20
)

// Options tunes the practice service.
type Options struct {
	// DefaultProfile is used when a judge request names no profile.
	DefaultProfile stroke.Profile
	// SimplifyEpsilon is used when a judge request names no epsilon.
	SimplifyEpsilon float64
	// DueLimit caps DueCards when the caller passes no limit.
	DueLimit int
	// Now is the clock; time.Now in UTC when nil.
	Now func() time.Time
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	cards     store.CardStateStore
	refs      store.ReferenceSource
	scheduler srs.Service
	emitter   events.EventEmitter
	opts      Options
	logger    *slog.Logger
}

// NewService creates the practice Service. cards, refs and scheduler are
// required; a nil emitter discards feedback and a nil logger means
// slog.Default.
func NewService(
	cards store.CardStateStore,
	refs store.ReferenceSource,
	scheduler srs.Service,
	emitter events.EventEmitter,
	opts Options,
	log *slog.Logger,
) (Service, error) {
	if cards == nil {
		return nil, errors.New("card state store cannot be nil")
	}
	if refs == nil {
		return nil, errors.New("reference source cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if _, err := opts.DefaultProfile.Tolerance(); err != nil {
		return nil, err
	}

	if opts.SimplifyEpsilon <= 0 {
		opts.SimplifyEpsilon = DefaultSimplifyEpsilon
	}
	if opts.DueLimit <= 0 {
		opts.DueLimit = DefaultDueLimit
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		cards:     cards,
		refs:      refs,
		scheduler: scheduler,
		emitter:   emitter,
		opts:      opts,
		logger:    log.With(slog.String("component", "practice_service")),
	}, nil
}

// Judge implements Service.Judge.
func (s *serviceImpl) Judge(ctx context.Context, req JudgeRequest) (*JudgeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateCharacter(req.Character); err != nil {
		return nil, err
	}
	if req.StrokeIndex < 0 {
		return nil, fmt.Errorf("%w: %d", ErrStrokeIndexOutOfRange, req.StrokeIndex)
	}

	refs, err := s.refs.Strokes(ctx, req.Character)
	if err != nil {
		log.Error("failed to load reference strokes",
			slog.String("error", err.Error()),
			slog.String("character", req.Character))
		return nil, NewServiceError("judge", "failed to load reference strokes", err)
	}

	var reference stroke.ReferenceStroke
	if len(refs) > 0 {
		if req.StrokeIndex >= len(refs) {
			return nil, fmt.Errorf("%w: %s has %d strokes, got index %d",
				ErrStrokeIndexOutOfRange, req.Character, len(refs), req.StrokeIndex)
		}
		reference = refs[req.StrokeIndex]
	} else {
		log.Debug("no stroke data for character, judging against empty reference",
			slog.String("character", req.Character))
	}

	profile := s.opts.DefaultProfile
	if req.Profile != nil {
		profile = *req.Profile
	}
	tolerance, err := profile.Tolerance()
	if err != nil {
		return nil, err
	}

	epsilon := s.opts.SimplifyEpsilon
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}

	verdict, simplified, err := stroke.Judge(req.Samples, req.Width, req.Height, reference, epsilon, tolerance)
	if err != nil {
		log.Debug("stroke rejected",
			slog.String("error", err.Error()),
			slog.String("character", req.Character))
		return nil, err
	}

	log.Debug("stroke judged",
		slog.String("character", req.Character),
		slog.Int("stroke_index", req.StrokeIndex),
		slog.String("profile", profile.String()),
		slog.String("verdict", string(verdict.Kind)),
		slog.Float64("score", verdict.Score))

	s.emit(ctx, func() (*events.FeedbackEvent, error) {
		return events.NewVerdictEvent(events.VerdictPayload{
			Character:   req.Character,
			StrokeIndex: req.StrokeIndex,
			Profile:     profile,
			Verdict:     verdict,
		})
	})

	return &JudgeResult{
		Verdict:     verdict,
		Profile:     profile,
		Simplified:  simplified,
		StrokeCount: len(refs),
	}, nil
}

// Rate implements Service.Rate.
func (s *serviceImpl) Rate(ctx context.Context, cardID string, rating domain.Rating) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if cardID == "" {
		return nil, domain.ErrEmptyCardID
	}
	if !rating.IsValid() {
		log.Warn("invalid rating",
			slog.String("card_id", cardID),
			slog.String("rating", string(rating)))
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRating, string(rating))
	}

	now := s.opts.Now()
	next, err := s.cards.Update(ctx, cardID, func(current *domain.CardState) (*domain.CardState, error) {
		if current == nil {
			fresh, err := domain.NewCardState(cardID, now)
			if err != nil {
				return nil, err
			}
			current = fresh
		}
		return s.scheduler.CalculateNextReview(current, rating, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRating) {
			return nil, err
		}
		log.Error("failed to rate card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID),
			slog.String("rating", string(rating)))
		return nil, NewServiceError("rate", "failed to update card state", err)
	}

	log.Debug("card rated",
		slog.String("card_id", cardID),
		slog.String("rating", string(rating)),
		slog.Int("interval_days", next.IntervalDays),
		slog.Float64("ease_factor", next.EaseFactor),
		slog.Time("due_at", next.DueAt))

	s.emit(ctx, func() (*events.FeedbackEvent, error) {
		return events.NewIntervalEvent(next, rating)
	})

	return next, nil
}

// Postpone implements Service.Postpone.
func (s *serviceImpl) Postpone(ctx context.Context, cardID string, days int) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if cardID == "" {
		return nil, domain.ErrEmptyCardID
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: got %d", srs.ErrInvalidDays, days)
	}

	now := s.opts.Now()
	next, err := s.cards.Update(ctx, cardID, func(current *domain.CardState) (*domain.CardState, error) {
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
		}
		return s.scheduler.PostponeReview(current, days, now)
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return nil, err
		}
		log.Error("failed to postpone card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID),
			slog.Int("days", days))
		return nil, NewServiceError("postpone", "failed to update card state", err)
	}

	log.Debug("card postponed",
		slog.String("card_id", cardID),
		slog.Int("days", days),
		slog.Time("due_at", next.DueAt))

	s.emit(ctx, func() (*events.FeedbackEvent, error) {
		return events.NewIntervalEvent(next, "")
	})

	return next, nil
}

// GetCard implements Service.GetCard.
func (s *serviceImpl) GetCard(ctx context.Context, cardID string) (*domain.CardState, error) {
	if cardID == "" {
		return nil, domain.ErrEmptyCardID
	}

	state, err := s.cards.Get(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
		}
		return nil, NewServiceError("get_card", "failed to read card state", err)
	}
	return state, nil
}

// DueCards implements Service.DueCards.
func (s *serviceImpl) DueCards(ctx context.Context, limit int) ([]*domain.CardState, error) {
	if limit <= 0 {
		limit = s.opts.DueLimit
	}

	due, err := s.cards.ListDue(ctx, s.opts.Now(), limit)
	if err != nil {
		return nil, NewServiceError("due_cards", "failed to list due cards", err)
	}
	return due, nil
}

// Words implements Service.Words.
func (s *serviceImpl) Words(ctx context.Context) ([]domain.Word, error) {
	words, err := s.refs.Words(ctx)
	if err != nil {
		return nil, NewServiceError("words", "failed to load word list", err)
	}
	return words, nil
}

// Strokes implements Service.Strokes.
func (s *serviceImpl) Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error) {
	if err := validateCharacter(char); err != nil {
		return nil, err
	}

	refs, err := s.refs.Strokes(ctx, char)
	if err != nil {
		return nil, NewServiceError("strokes", "failed to load reference strokes", err)
	}
	return refs, nil
}

// Export implements Service.Export.
func (s *serviceImpl) Export(ctx context.Context) ([]byte, error) {
	blob, err := s.cards.Export(ctx)
	if err != nil {
		return nil, NewServiceError("export", "failed to export card states", err)
	}
	return blob, nil
}

// Import implements Service.Import.
func (s *serviceImpl) Import(ctx context.Context, blob []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cards.Import(ctx, blob); err != nil {
		if errors.Is(err, store.ErrInvalidSnapshot) {
			log.Warn("rejected snapshot", slog.String("error", err.Error()))
			return err
		}
		return NewServiceError("import", "failed to import card states", err)
	}
	return nil
}

// emit publishes a feedback event. Feedback is advisory: failures are
// logged and never fail the operation that produced the event.
func (s *serviceImpl) emit(ctx context.Context, build func() (*events.FeedbackEvent, error)) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := build()
	if err != nil {
		log.Warn("failed to build feedback event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit feedback event",
			slog.String("error", err.Error()),
			slog.String("event_type", event.Type))
	}
}

func validateCharacter(char string) error {
	if utf8.RuneCountInString(char) != 1 || !utf8.ValidString(char) {
		return fmt.Errorf("%w: %q", ErrInvalidCharacter, char)
	}
	return nil
}
