package stroke

import (
	"encoding"
	"fmt"
	"math"
)

// VerdictKind classifies how well a drawn stroke matched its reference.
type VerdictKind string

// Verdict kinds
const (
	VerdictOK    VerdictKind = "ok"
	VerdictClose VerdictKind = "close"
	VerdictMiss  VerdictKind = "miss"
)

var _ encoding.TextMarshaler = VerdictKind("")

// MarshalText implements encoding.TextMarshaler.
func (k VerdictKind) MarshalText() ([]byte, error) {
	switch k {
	case VerdictOK, VerdictClose, VerdictMiss:
		return []byte(k), nil
	default:
		return nil, fmt.Errorf("unknown verdict kind %q", string(k))
	}
}

// Verdict is the result of comparing a candidate stroke with a reference.
type Verdict struct {
	Kind VerdictKind `json:"verdict"`
	// Score is in [0,1]; 1 means the strokes coincide.
	Score float64 `json:"score"`
	// Distance is the Fréchet distance as a fraction of the surface diagonal.
	// It is 0 for degenerate comparisons.
	Distance float64 `json:"distance"`
	// Degenerate is set when one of the strokes was empty and the verdict
	// comes from the fixed policy rather than a measurement.
	Degenerate bool `json:"degenerate,omitempty"`
}

// unitDiagonal is the diagonal of the normalized drawing surface.
const unitDiagonal = math.Sqrt2

// Compare judges candidate against reference under profile.
//
// Both strokes are resampled to ResampleCount points and their discrete
// Fréchet distance is taken relative to the surface diagonal. The score is
// clip(1 - distance/MaxDeviation, 0, 1); the verdict is ok within
// OKThreshold, close within CloseThreshold and miss otherwise.
//
// Empty strokes are not errors: an empty candidate is a miss with score 0,
// and with no reference to fail against a non-empty candidate is ok with
// score 1. Only an invalid profile is reported as an error
// (domain.ErrInvalidProfile).
func Compare(candidate Stroke, reference ReferenceStroke, profile ToleranceProfile) (Verdict, error) {
	if err := profile.Validate(); err != nil {
		return Verdict{}, err
	}

	if len(candidate) == 0 {
		return Verdict{Kind: VerdictMiss, Score: 0, Degenerate: true}, nil
	}
	if len(reference) == 0 {
		return Verdict{Kind: VerdictOK, Score: 1, Degenerate: true}, nil
	}

	a := Resample(candidate, ResampleCount)
	b := Resample(reference, ResampleCount)
	d := FrechetDistance(a, b) / unitDiagonal

	return classify(d, profile), nil
}

func classify(d float64, profile ToleranceProfile) Verdict {
	v := Verdict{
		Score:    clip(1-d/profile.MaxDeviation, 0, 1),
		Distance: d,
	}

	switch {
	case d <= profile.OKThreshold:
		v.Kind = VerdictOK
	case d <= profile.CloseThreshold:
		v.Kind = VerdictClose
	default:
		v.Kind = VerdictMiss
	}

	return v
}
