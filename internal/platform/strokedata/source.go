package strokedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// ErrInvalidData is returned when a stroke or word file is malformed.
var ErrInvalidData = errors.New("invalid reference data")

// Source is an in-memory store.ReferenceSource.
type Source struct {
	strokes map[string][]stroke.ReferenceStroke
	words   []domain.Word
}

var _ store.ReferenceSource = (*Source)(nil)

// Load reads the stroke file at strokesPath and the word list at wordsPath.
// If log is nil, a default logger will be used.
func Load(strokesPath, wordsPath string, log *slog.Logger) (*Source, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "strokedata"))

	strokesBlob, err := os.ReadFile(strokesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stroke data: %w", err)
	}
	wordsBlob, err := os.ReadFile(wordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	src, err := Parse(strokesBlob, wordsBlob)
	if err != nil {
		return nil, err
	}

	missing := src.MissingCharacters()
	if len(missing) > 0 {
		log.Warn("word list uses characters without stroke data",
			slog.Any("characters", missing))
	}
	log.Info("loaded reference data",
		slog.String("strokes_path", strokesPath),
		slog.String("words_path", wordsPath),
		slog.Int("characters", len(src.strokes)),
		slog.Int("words", len(src.words)))

	return src, nil
}

// Parse builds a Source from the contents of a stroke file and a word list.
func Parse(strokesBlob, wordsBlob []byte) (*Source, error) {
	var strokes map[string][]stroke.ReferenceStroke
	if err := json.Unmarshal(strokesBlob, &strokes); err != nil {
		return nil, fmt.Errorf("%w: stroke file: %v", ErrInvalidData, err)
	}
	for char, refs := range strokes {
		if err := validateCharacter(char, refs); err != nil {
			return nil, err
		}
	}

	var words []domain.Word
	if err := json.Unmarshal(wordsBlob, &words); err != nil {
		return nil, fmt.Errorf("%w: word list: %v", ErrInvalidData, err)
	}
	seen := make(map[string]struct{}, len(words))
	for i, w := range words {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%w: word %d: %w", ErrInvalidData, i, err)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate word id %q", ErrInvalidData, w.ID)
		}
		seen[w.ID] = struct{}{}
	}

	if strokes == nil {
		strokes = map[string][]stroke.ReferenceStroke{}
	}
	if words == nil {
		words = []domain.Word{}
	}
	return &Source{strokes: strokes, words: words}, nil
}

func validateCharacter(char string, refs []stroke.ReferenceStroke) error {
	if len([]rune(char)) != 1 {
		return fmt.Errorf("%w: key %q is not a single character", ErrInvalidData, char)
	}
	for i, ref := range refs {
		if len(ref) == 0 {
			return fmt.Errorf("%w: %s stroke %d has no points", ErrInvalidData, char, i)
		}
		for _, p := range ref {
			if !inUnitSquare(p.X) || !inUnitSquare(p.Y) {
				return fmt.Errorf("%w: %s stroke %d has point [%v, %v] outside the unit square",
					ErrInvalidData, char, i, p.X, p.Y)
			}
		}
	}
	return nil
}

func inUnitSquare(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Strokes implements store.ReferenceSource.Strokes
// The returned strokes are copies.
func (s *Source) Strokes(ctx context.Context, char string) ([]stroke.ReferenceStroke, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refs := s.strokes[char]
	out := make([]stroke.ReferenceStroke, len(refs))
	for i, ref := range refs {
		out[i] = append(stroke.ReferenceStroke(nil), ref...)
	}
	return out, nil
}

// Words implements store.ReferenceSource.Words
func (s *Source) Words(ctx context.Context) ([]domain.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Word(nil), s.words...), nil
}

// MissingCharacters lists, sorted, the characters used by the word list that
// have no stroke data.
func (s *Source) MissingCharacters() []string {
	missing := map[string]struct{}{}
	for _, w := range s.words {
		for _, c := range w.Characters() {
			if _, ok := s.strokes[c]; !ok {
				missing[c] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(missing))
	for c := range missing {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
