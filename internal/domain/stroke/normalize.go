package stroke

import (
	"fmt"
	"math"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// Normalize converts the raw samples of one pointer gesture (pointer-down to
// the matching pointer-up or cancel) into a Stroke by dividing each coordinate
// by the surface dimension. Point count and order are preserved exactly.
//
// Returns domain.ErrInvalidInput for an empty gesture, a surface whose width
// or height is not a positive finite number, or any sample that does not
// divide to a finite coordinate.
func Normalize(samples []RawSample, width, height float64) (Stroke, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: gesture has no samples", domain.ErrInvalidInput)
	}
	if !validDimension(width) || !validDimension(height) {
		return nil, fmt.Errorf("%w: surface dimensions %vx%v", domain.ErrInvalidInput, width, height)
	}

	out := make(Stroke, len(samples))
	for i, s := range samples {
		p := Point{X: s.X / width, Y: s.Y / height}
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: sample %d [%v, %v] is not finite on a %vx%v surface",
				domain.ErrInvalidInput, i, s.X, s.Y, width, height)
		}
		out[i] = p
	}
	return out, nil
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
