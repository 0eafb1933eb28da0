package stroke

import (
	"errors"
	"testing"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudge(t *testing.T) {
	t.Parallel()

	flexible := mustTolerance(t, Flexible)
	reference := ReferenceStroke{{0, 0}, {1, 0}}

	t.Run("jittered line", func(t *testing.T) {
		verdict, simplified, err := Judge(jitteredLine(), 400, 400, reference, 0.02, flexible)
		require.NoError(t, err)

		assert.Equal(t, VerdictOK, verdict.Kind)
		assert.InDelta(t, 1-0.005/1.4142135623730951/0.25, verdict.Score, 1e-9)
		assert.Equal(t, Stroke{{0, -0.005}, {1, -0.005}}, simplified)
	})

	t.Run("invalid surface", func(t *testing.T) {
		_, _, err := Judge(jitteredLine(), 0, 400, reference, 0.02, flexible)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("surface too small for the samples", func(t *testing.T) {
		verdict, simplified, err := Judge([]RawSample{{1, 0}, {2, 0}}, 1e-320, 1, reference, 0.02, flexible)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		assert.Equal(t, Verdict{}, verdict)
		assert.Nil(t, simplified)
	})

	t.Run("empty gesture", func(t *testing.T) {
		_, _, err := Judge(nil, 400, 400, reference, 0.02, flexible)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("invalid profile", func(t *testing.T) {
		_, _, err := Judge(jitteredLine(), 400, 400, reference, 0.02, ToleranceProfile{})
		assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
	})
}

func TestJudgeStrokeEmptyReference(t *testing.T) {
	t.Parallel()

	verdict, simplified, err := JudgeStroke(Stroke{{0.1, 0.1}, {0.2, 0.2}}, nil, 0.02, mustTolerance(t, Strict))
	require.NoError(t, err)

	assert.Equal(t, VerdictOK, verdict.Kind)
	assert.Equal(t, 1.0, verdict.Score)
	assert.True(t, verdict.Degenerate)
	assert.Equal(t, Stroke{{0.1, 0.1}, {0.2, 0.2}}, simplified)
}
