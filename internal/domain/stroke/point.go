package stroke

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// Point is a coordinate pair normalized to the unit square [0,1]x[0,1]
// relative to the drawing surface at capture time.
//
// Points encode to and from JSON as a two-element array [x, y], the format
// used by the reference stroke data.
type Point struct {
	X float64
	Y float64
}

// RawSample is one pointer position in drawing-surface pixels.
type RawSample struct {
	X float64
	Y float64
}

// Stroke is the ordered sequence of points of one drawn gesture.
// A Stroke produced by Normalize always has at least one point.
type Stroke []Point

// ReferenceStroke is the authoritative point sequence of one stroke of a
// character. It is read-only input to the comparator.
type ReferenceStroke []Point

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("%w: point must be an [x, y] array: %v", domain.ErrInvalidInput, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: point must have 2 coordinates, got %d", domain.ErrInvalidInput, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// MarshalJSON encodes the sample as [x, y].
func (s RawSample) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{s.X, s.Y})
}

// UnmarshalJSON decodes a sample from [x, y].
func (s *RawSample) UnmarshalJSON(data []byte) error {
	var p Point
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	s.X, s.Y = p.X, p.Y
	return nil
}

func (s Stroke) clone() Stroke {
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func pathLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += distance(points[i-1], points[i])
	}
	return total
}
