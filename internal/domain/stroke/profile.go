package stroke

import (
	"encoding"
	"fmt"
	"math"
	"strings"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// Profile selects one of the canonical tolerance profiles.
type Profile int

// Canonical profiles. Flexible suits guided practice with the reference shown;
// Strict suits recall practice.
const (
	Flexible Profile = iota
	Strict
)

// Profiles lists every canonical profile.
var Profiles = []Profile{Flexible, Strict}

var (
	_ fmt.Stringer             = Profile(0)
	_ encoding.TextMarshaler   = Profile(0)
	_ encoding.TextUnmarshaler = (*Profile)(nil)
)

// ToleranceProfile holds the thresholds used to classify a comparison. All
// values are fractions of the drawing surface diagonal.
type ToleranceProfile struct {
	Name           string  `json:"name"`
	OKThreshold    float64 `json:"ok_threshold"`
	CloseThreshold float64 `json:"close_threshold"`
	MaxDeviation   float64 `json:"max_deviation"`
}

// Tolerance returns the threshold record for p.
func (p Profile) Tolerance() (ToleranceProfile, error) {
	switch p {
	case Flexible:
		return ToleranceProfile{
			Name:           "flexible",
			OKThreshold:    0.08,
			CloseThreshold: 0.15,
			MaxDeviation:   0.25,
		}, nil
	case Strict:
		return ToleranceProfile{
			Name:           "strict",
			OKThreshold:    0.04,
			CloseThreshold: 0.08,
			MaxDeviation:   0.12,
		}, nil
	default:
		return ToleranceProfile{}, fmt.Errorf("%w: %d", domain.ErrInvalidProfile, int(p))
	}
}

// String returns "flexible" or "strict", or "Profile(n)" for unknown values.
func (p Profile) String() string {
	switch p {
	case Flexible:
		return "flexible"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// ParseProfile converts a profile name to a Profile. "flex" is accepted as
// an alias of "flexible".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flexible", "flex":
		return Flexible, nil
	case "strict":
		return Strict, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidProfile, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	if _, err := p.Tolerance(); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	v, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Validate reports domain.ErrInvalidProfile if any threshold is missing
// (not a positive finite number) or if the ok threshold is looser than the
// close threshold.
func (t ToleranceProfile) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"ok_threshold", t.OKThreshold},
		{"close_threshold", t.CloseThreshold},
		{"max_deviation", t.MaxDeviation},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is missing or not positive", domain.ErrInvalidProfile, f.name)
		}
	}

	if t.OKThreshold > t.CloseThreshold {
		return fmt.Errorf("%w: ok_threshold %v exceeds close_threshold %v",
			domain.ErrInvalidProfile, t.OKThreshold, t.CloseThreshold)
	}

	return nil
}
