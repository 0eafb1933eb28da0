package domain

import "strings"

// Word is one entry of the practice word list.
type Word struct {
	ID           string `json:"id"`
	Simplified   string `json:"simplified"`
	Pinyin       string `json:"pinyin"`
	EnglishGloss string `json:"english_gloss"`
	AudioRef     string `json:"audio_ref,omitempty"`
}

// Validate checks that the word can be practiced: it needs an identifier and
// at least one character to draw.
func (w Word) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return ErrEmptyCardID
	}
	if strings.TrimSpace(w.Simplified) == "" {
		return ErrEmptyWord
	}
	return nil
}

// Characters returns the characters of the word in drawing order.
func (w Word) Characters() []string {
	out := make([]string, 0, len(w.Simplified))
	for _, r := range w.Simplified {
		out = append(out, string(r))
	}
	return out
}
