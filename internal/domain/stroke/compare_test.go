package stroke

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTolerance(t *testing.T, p Profile) ToleranceProfile {
	t.Helper()
	tol, err := p.Tolerance()
	require.NoError(t, err)
	return tol
}

// jitteredLine draws a horizontal line across a 400x400 surface that wobbles
// two pixels above and below y=0.
func jitteredLine() []RawSample {
	samples := make([]RawSample, 51)
	for i := range samples {
		y := -2.0
		if i%2 == 1 {
			y = 2.0
		}
		samples[i] = RawSample{X: float64(8 * i), Y: y}
	}
	return samples
}

func TestCompare(t *testing.T) {
	t.Parallel()

	horizontal := ReferenceStroke{{0, 0}, {1, 0}}

	testCases := []struct {
		name      string
		candidate Stroke
		reference ReferenceStroke
		profile   Profile
		kind      VerdictKind
		score     float64
		distance  float64
	}{
		{
			name:      "exact match",
			candidate: Stroke{{0, 0}, {0.5, 0}, {1, 0}},
			reference: horizontal,
			profile:   Strict,
			kind:      VerdictOK,
			score:     1,
			distance:  0,
		},
		{
			name:      "offset line is close under flexible",
			candidate: Stroke{{0, 0.15}, {1, 0.15}},
			reference: horizontal,
			profile:   Flexible,
			kind:      VerdictClose,
			score:     1 - 0.15/math.Sqrt2/0.25,
			distance:  0.15 / math.Sqrt2,
		},
		{
			name:      "offset line is a miss under strict",
			candidate: Stroke{{0, 0.15}, {1, 0.15}},
			reference: horizontal,
			profile:   Strict,
			kind:      VerdictMiss,
			score:     1 - 0.15/math.Sqrt2/0.12,
			distance:  0.15 / math.Sqrt2,
		},
		{
			name:      "reversed direction is a miss",
			candidate: Stroke{{1, 0}, {0, 0}},
			reference: horizontal,
			profile:   Flexible,
			kind:      VerdictMiss,
			score:     0,
			distance:  1 / math.Sqrt2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Compare(tc.candidate, tc.reference, mustTolerance(t, tc.profile))
			require.NoError(t, err)

			assert.Equal(t, tc.kind, v.Kind)
			assert.InDelta(t, tc.score, v.Score, 1e-9)
			assert.InDelta(t, tc.distance, v.Distance, 1e-9)
			assert.False(t, v.Degenerate)
		})
	}
}

func TestCompareJitteredLine(t *testing.T) {
	t.Parallel()

	reference := ReferenceStroke{{0, 0}, {1, 0}}
	candidate, err := Normalize(jitteredLine(), 400, 400)
	require.NoError(t, err)
	simplified := Simplify(candidate, 0.02)

	t.Run("flexible accepts small jitter", func(t *testing.T) {
		v, err := Compare(simplified, reference, mustTolerance(t, Flexible))
		require.NoError(t, err)
		assert.Equal(t, VerdictOK, v.Kind)
		assert.Greater(t, v.Score, 0.95)
		assert.LessOrEqual(t, v.Score, 1.0)
	})

	t.Run("a very tight profile rejects it", func(t *testing.T) {
		tight := ToleranceProfile{Name: "tight", OKThreshold: 0.001, CloseThreshold: 0.002, MaxDeviation: 0.002}
		v, err := Compare(simplified, reference, tight)
		require.NoError(t, err)
		assert.NotEqual(t, VerdictOK, v.Kind)
		assert.Equal(t, VerdictMiss, v.Kind)
		assert.InDelta(t, 0, v.Score, 1e-12)
	})

	t.Run("unsimplified input gives the same verdict", func(t *testing.T) {
		v, err := Compare(candidate, reference, mustTolerance(t, Flexible))
		require.NoError(t, err)
		assert.Equal(t, VerdictOK, v.Kind)
	})
}

func TestCompareDegenerate(t *testing.T) {
	t.Parallel()

	for _, p := range Profiles {
		tol := mustTolerance(t, p)

		v, err := Compare(nil, ReferenceStroke{{0, 0}, {1, 1}}, tol)
		require.NoError(t, err)
		assert.Equal(t, Verdict{Kind: VerdictMiss, Score: 0, Degenerate: true}, v, "empty candidate, %s", p)

		v, err = Compare(Stroke{{0.2, 0.2}, {0.4, 0.4}}, nil, tol)
		require.NoError(t, err)
		assert.Equal(t, Verdict{Kind: VerdictOK, Score: 1, Degenerate: true}, v, "empty reference, %s", p)

		v, err = Compare(nil, nil, tol)
		require.NoError(t, err)
		assert.Equal(t, VerdictMiss, v.Kind, "empty candidate wins over empty reference, %s", p)
	}
}

func TestCompareInvalidProfile(t *testing.T) {
	t.Parallel()

	invalid := []ToleranceProfile{
		{},
		{Name: "no max", OKThreshold: 0.1, CloseThreshold: 0.2},
		{Name: "inverted", OKThreshold: 0.3, CloseThreshold: 0.2, MaxDeviation: 0.4},
		{Name: "infinite", OKThreshold: 0.1, CloseThreshold: math.Inf(1), MaxDeviation: 0.4},
		{Name: "nan", OKThreshold: math.NaN(), CloseThreshold: 0.2, MaxDeviation: 0.4},
	}

	for _, tol := range invalid {
		_, err := Compare(Stroke{{0, 0}, {1, 1}}, ReferenceStroke{{0, 0}, {1, 1}}, tol)
		assert.True(t, errors.Is(err, domain.ErrInvalidProfile), "profile %+v: got %v", tol, err)
	}
}

func TestCompareScoreBounds(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 30; seed++ {
		a := randomWalk(seed, 80)
		b := ReferenceStroke(randomWalk(seed+100, 40))
		for _, p := range Profiles {
			v, err := Compare(a, b, mustTolerance(t, p))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v.Score, 0.0)
			assert.LessOrEqual(t, v.Score, 1.0)
			assert.Contains(t, []VerdictKind{VerdictOK, VerdictClose, VerdictMiss}, v.Kind)
		}
	}
}

func TestCompareIsDeterministicAndPure(t *testing.T) {
	t.Parallel()

	candidate := randomWalk(5, 90)
	reference := ReferenceStroke(randomWalk(6, 30))
	candidateCopy := append(Stroke(nil), candidate...)
	referenceCopy := append(ReferenceStroke(nil), reference...)
	tol := mustTolerance(t, Flexible)

	first, err := Compare(candidate, reference, tol)
	require.NoError(t, err)
	second, err := Compare(candidate, reference, tol)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, candidateCopy, candidate)
	assert.Equal(t, referenceCopy, reference)
}

func TestVerdictJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Verdict{Kind: VerdictClose, Score: 0.5, Distance: 0.1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"close","score":0.5,"distance":0.1}`, string(out))

	_, err = json.Marshal(Verdict{Kind: "bogus"})
	assert.Error(t, err)
}
