package stroke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleStraightLine(t *testing.T) {
	t.Parallel()

	// Uneven input spacing must not matter.
	input := []Point{{0, 0}, {0.1, 0}, {0.15, 0}, {1, 0}}
	out := Resample(input, ResampleCount)

	require.Len(t, out, ResampleCount)
	for k, p := range out {
		assert.InDelta(t, float64(k)/float64(ResampleCount-1), p.X, 1e-9, "point %d", k)
		assert.InDelta(t, 0, p.Y, 1e-12, "point %d", k)
	}
	assert.Equal(t, input[0], out[0])
	assert.Equal(t, input[len(input)-1], out[len(out)-1])
}

func TestResampleAnchorsEndpoints(t *testing.T) {
	t.Parallel()

	input := randomWalk(3, 57)
	out := Resample(input, 10)

	require.Len(t, out, 10)
	assert.Equal(t, input[0], out[0])
	assert.Equal(t, input[len(input)-1], out[9])
}

func TestResampleEqualSpacing(t *testing.T) {
	t.Parallel()

	// An L-shaped path of length 2: every step should be 2/(n-1) along the path.
	input := []Point{{0, 0}, {1, 0}, {1, 1}}
	out := Resample(input, 5)

	expected := []Point{{0, 0}, {0.5, 0}, {1, 0}, {1, 0.5}, {1, 1}}
	require.Len(t, out, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i].X, out[i].X, 1e-9)
		assert.InDelta(t, expected[i].Y, out[i].Y, 1e-9)
	}
}

func TestResampleDegenerate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Resample(nil, 8))
	assert.Nil(t, Resample([]Point{{0, 0}}, 0))

	single := Resample([]Point{{0.3, 0.7}}, 4)
	assert.Equal(t, []Point{{0.3, 0.7}, {0.3, 0.7}, {0.3, 0.7}, {0.3, 0.7}}, single)

	// A tap drawn as repeated samples has zero length.
	tap := Resample([]Point{{0.2, 0.2}, {0.2, 0.2}, {0.2, 0.2}}, 3)
	assert.Equal(t, []Point{{0.2, 0.2}, {0.2, 0.2}, {0.2, 0.2}}, tap)

	one := Resample([]Point{{0.1, 0.1}, {0.9, 0.9}}, 1)
	assert.Equal(t, []Point{{0.1, 0.1}}, one)
}

func TestResampleDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	input := []Point{{0, 0}, {1, 0}, {1, 1}}
	snapshot := append([]Point(nil), input...)
	_ = Resample(input, ResampleCount)

	assert.Equal(t, snapshot, input)
}
