package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hanzi-strokes/internal/api/shared"
	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/phrazzld/hanzi-strokes/internal/redact"
	"github.com/phrazzld/hanzi-strokes/internal/service/practice"
)

// MaxImportBytes caps the size of an uploaded backup snapshot.
const MaxImportBytes = 16 << 20

// ExportFilename is the download name suggested for backup snapshots.
const ExportFilename = "hanzi-backup.json"

// PracticeHandler handles stroke judgement, review scheduling and backup
// HTTP requests.
type PracticeHandler struct {
	practiceService practice.Service
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler
func NewPracticeHandler(practiceService practice.Service, logger *slog.Logger) *PracticeHandler {
	if practiceService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("practiceService cannot be nil for PracticeHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PracticeHandler")
	}

	return &PracticeHandler{
		practiceService: practiceService,
		logger:          logger.With(slog.String("component", "practice_handler")),
	}
}

// Routes mounts the practice endpoints on r.
func (h *PracticeHandler) Routes(r chi.Router) {
	r.Get("/words", h.ListWords)
	r.Get("/characters/{char}/strokes", h.GetStrokes)
	r.Post("/strokes/judge", h.JudgeStroke)

	r.Route("/cards", func(r chi.Router) {
		r.Get("/due", h.ListDueCards)
		r.Get("/{id}", h.GetCard)
		r.Post("/{id}/rate", h.RateCard)
		r.Post("/{id}/postpone", h.PostponeCard)
	})

	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
}

// ListWords handles GET /words requests
func (h *PracticeHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.practiceService.Words(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load words")
		return
	}
	if words == nil {
		words = []domain.Word{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, WordsResponse{Words: words})
}

// GetStrokes handles GET /characters/{char}/strokes requests
// A character without stroke data yields an empty list.
func (h *PracticeHandler) GetStrokes(w http.ResponseWriter, r *http.Request) {
	char, err := url.PathUnescape(chi.URLParam(r, "char"))
	if err != nil || char == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Character is required")
		return
	}

	strokes, err := h.practiceService.Strokes(r.Context(), char)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load strokes")
		return
	}
	if strokes == nil {
		strokes = []stroke.ReferenceStroke{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StrokesResponse{Character: char, Strokes: strokes})
}

// JudgeStroke handles POST /strokes/judge requests
// It normalizes, simplifies and compares one drawn stroke with its reference.
func (h *PracticeHandler) JudgeStroke(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	serviceReq := practice.JudgeRequest{
		Character:   req.Character,
		StrokeIndex: req.StrokeIndex,
		Samples:     req.Samples,
		Width:       req.Width,
		Height:      req.Height,
		Epsilon:     req.Epsilon,
	}
	if req.Profile != nil {
		profile, err := stroke.ParseProfile(*req.Profile)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		serviceReq.Profile = &profile
	}

	result, err := h.practiceService.Judge(r.Context(), serviceReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to judge stroke")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, judgeResultToResponse(result))
}

// ListDueCards handles GET /cards/due requests
func (h *PracticeHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	var query DueQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit: must be an integer")
			return
		}
		query.Limit = limit
		if limit == 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Limit: too small")
			return
		}
	}
	if err := shared.ValidateRequest(&query); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	states, err := h.practiceService.DueCards(r.Context(), query.Limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due cards")
		return
	}

	resp := DueCardsResponse{Cards: make([]CardStateResponse, 0, len(states))}
	for _, state := range states {
		resp.Cards = append(resp.Cards, cardStateToResponse(state))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetCard handles GET /cards/{id} requests
func (h *PracticeHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.practiceService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}

// RateCard handles POST /cards/{id}/rate requests
// It applies the rating to the card's schedule, creating the card on its
// first rating.
func (h *PracticeHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	var req RateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.practiceService.Rate(r.Context(), cardID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rate card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}

// PostponeCard handles POST /cards/{id}/postpone requests
func (h *PracticeHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := h.cardIDFromPath(w, r)
	if !ok {
		return
	}

	var req PostponeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	state, err := h.practiceService.Postpone(r.Context(), cardID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}

// Export handles GET /export requests
// The snapshot is served as a JSON file download.
func (h *PracticeHandler) Export(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	blob, err := h.practiceService.Export(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export card states")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		log.Error("failed to write export response", redact.Attr(err))
	}
}

// Import handles POST /import requests
// The body is a snapshot produced by Export; it replaces every stored card state.
func (h *PracticeHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = shared.ErrBodyTooLarge
		}
		HandleAPIError(w, r, err, "Failed to read backup")
		return
	}

	if err := h.practiceService.Import(r.Context(), blob); err != nil {
		HandleAPIError(w, r, err, "Failed to import card states")
		return
	}

	log.Info("card states imported", slog.Int("bytes", len(blob)))
	w.WriteHeader(http.StatusNoContent)
}

// cardIDFromPath extracts the card identifier from the URL path. It writes an
// error response and returns false if the identifier is missing.
func (h *PracticeHandler) cardIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	cardID, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || cardID == "" {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("invalid card ID in URL path", slog.String("card_id", chi.URLParam(r, "id")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return "", false
	}
	return cardID, true
}

// decodeAndValidate decodes the JSON body into req and validates it. It
// writes an error response and returns false on failure.
func (h *PracticeHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", redact.Attr(err))
		if errors.Is(err, shared.ErrBodyTooLarge) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", redact.Attr(err))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}

	return true
}
