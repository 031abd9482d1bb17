package adaptive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func TestNewLMSValidation(t *testing.T) {
	cases := []struct {
		order int
		mu    float64
	}{
		{0, 0.01},
		{-3, 0.01},
		{4, 0},
		{4, -0.01},
		{4, math.NaN()},
		{4, math.Inf(1)},
	}
	for _, tc := range cases {
		_, err := NewLMS(tc.order, tc.mu)
		assert.ErrorIsf(t, err, core.ErrInvalidParameter, "order=%d mu=%v", tc.order, tc.mu)
	}

	l, err := NewLMS(DefaultOrder, DefaultMu)
	require.NoError(t, err)
	assert.Equal(t, 512, l.Order())
	assert.Equal(t, 0.01, l.Mu())
}

func TestFilterEmptyInputs(t *testing.T) {
	l, err := NewLMS(4, 0.01)
	require.NoError(t, err)

	_, err = l.Filter(nil, []float64{1})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = l.Filter([]float64{1}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestFilterDeterministic(t *testing.T) {
	l, err := NewLMS(16, 0.02)
	require.NoError(t, err)

	d := testutil.DeterministicNoise(1, 0.5, 3000)
	x := testutil.DeterministicNoise(2, 0.5, 3000)

	a, err := l.Filter(d, x)
	require.NoError(t, err)
	b, err := l.Filter(d, x)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestFilterCommonPrefix(t *testing.T) {
	l, err := NewLMS(8, 0.01)
	require.NoError(t, err)

	long := testutil.DeterministicNoise(3, 0.5, 300)
	short := testutil.DeterministicNoise(4, 0.5, 120)

	r, err := l.Filter(long, short)
	require.NoError(t, err)
	assert.Len(t, r.Estimate, 120)
	assert.Len(t, r.Residual, 120)
	assert.Len(t, r.Weights, 8)

	r2, err := l.Filter(short, long)
	require.NoError(t, err)
	assert.Len(t, r2.Estimate, 120)

	// Samples past the common prefix must not influence the result.
	r3, err := l.Filter(long[:120], short)
	require.NoError(t, err)
	assert.Equal(t, r, r3)
}

func TestFilterResidualIdentity(t *testing.T) {
	l, err := NewLMS(4, 0.05)
	require.NoError(t, err)

	d := testutil.DeterministicNoise(5, 1, 500)
	x := testutil.DeterministicNoise(6, 1, 500)

	r, err := l.Filter(d, x)
	require.NoError(t, err)

	for i := range d {
		require.Equal(t, d[i]-r.Estimate[i], r.Residual[i])
	}
	// Weights start at zero, so the first estimate is zero.
	assert.Zero(t, r.Estimate[0])
}

func TestFilterRampAdapts(t *testing.T) {
	l, err := NewLMS(4, 0.01)
	require.NoError(t, err)

	ramp := testutil.Ramp(-1, 1, 100)

	r, err := l.Filter(ramp, ramp)
	require.NoError(t, err)
	require.Len(t, r.Estimate, 100)

	first := testutil.MeanSquare(r.Residual[:20])
	last := testutil.MeanSquare(r.Residual[80:])
	assert.Less(t, last, first)
}

func TestFilterIdentifiesEchoPath(t *testing.T) {
	h := []float64{0, 0.5, 0, -0.25}
	x := testutil.DeterministicNoise(7, 0.5, 20000)

	d := make([]float64, len(x))
	for n := range d {
		for k, hk := range h {
			if n-k >= 0 {
				d[n] += hk * x[n-k]
			}
		}
	}

	l, err := NewLMS(8, 0.05)
	require.NoError(t, err)
	require.Less(t, l.Mu(), StableStepBound(x, l.Order()))

	r, err := l.Filter(d, x)
	require.NoError(t, err)

	for k := range r.Weights {
		want := 0.0
		if k < len(h) {
			want = h[k]
		}
		assert.InDeltaf(t, want, r.Weights[k], 1e-3, "tap %d", k)
	}

	assert.Less(t, testutil.MeanSquare(r.Residual[19000:]), 1e-8)
}

func TestStableStepBound(t *testing.T) {
	assert.InDelta(t, 0.5, StableStepBound(testutil.Ones(10), 4), 1e-15)
	assert.True(t, math.IsInf(StableStepBound(nil, 4), 1))
	assert.True(t, math.IsInf(StableStepBound(make([]float64, 4), 4), 1))
	assert.True(t, math.IsInf(StableStepBound(testutil.Ones(4), 0), 1))
}
