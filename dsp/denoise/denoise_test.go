package denoise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/stft"
	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func newAnalyzer(t *testing.T, n, h int) *stft.Analyzer {
	t.Helper()

	a, err := stft.NewAnalyzer(n, h)
	require.NoError(t, err)

	return a
}

func TestEstimateNoiseProfileFrames(t *testing.T) {
	a := newAnalyzer(t, 256, 64)
	noise := testutil.DeterministicNoise(1, 0.5, 2000)

	p, err := EstimateNoiseProfile(a, noise, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Frames)
	assert.Equal(t, a.Bins(), p.Bins())

	for k, v := range p.Power {
		require.Greaterf(t, v, 0.0, "bin %d", k)
	}
	assert.False(t, math.IsInf(p.MeanPowerDB(), 0))
}

func TestEstimateNoiseProfileUsesLeadingSegmentOnly(t *testing.T) {
	a := newAnalyzer(t, 256, 64)

	x := testutil.Silence(640)
	x = append(x, testutil.DeterministicNoise(2, 1, 1000)...)

	p, err := EstimateNoiseProfile(a, x, 10)
	require.NoError(t, err)

	for k, v := range p.Power {
		require.Zerof(t, v, "bin %d", k)
	}
	assert.True(t, math.IsInf(p.MeanPowerDB(), -1))
}

func TestEstimateNoiseProfileAverages(t *testing.T) {
	a := newAnalyzer(t, 64, 16)
	noise := testutil.DeterministicNoise(3, 1, 160)

	p, err := EstimateNoiseProfile(a, noise, 10)
	require.NoError(t, err)

	frames, err := a.Analyze(noise[:160])
	require.NoError(t, err)
	require.Len(t, frames, 10)

	for k := range p.Power {
		sum := 0.0
		for _, f := range frames {
			m := f.Bins[k]
			sum += real(m)*real(m) + imag(m)*imag(m)
		}
		assert.InDelta(t, sum/10, p.Power[k], 1e-9*math.Max(1, sum))
	}
}

func TestEstimateNoiseProfileInsufficientData(t *testing.T) {
	a := newAnalyzer(t, 2048, 512)

	for _, n := range []int{0, 1, 5119} {
		_, err := EstimateNoiseProfile(a, make([]float64, n), 10)
		require.ErrorIs(t, err, core.ErrInsufficientData)

		var ide *core.InsufficientDataError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, n, ide.Have)
		assert.Equal(t, 5120, ide.Need)
	}

	_, err := EstimateNoiseProfile(a, make([]float64, 5120), 10)
	require.NoError(t, err)

	_, err = EstimateNoiseProfile(a, make([]float64, 5120), 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestSpectralSubtractorValidation(t *testing.T) {
	a := newAnalyzer(t, 64, 16)

	cases := []struct {
		alpha, beta float64
	}{
		{-0.1, 0.01},
		{math.NaN(), 0.01},
		{math.Inf(1), 0.01},
		{2, -0.01},
		{2, 1.01},
		{2, math.NaN()},
	}
	for _, tc := range cases {
		_, err := NewSpectralSubtractor(a, tc.alpha, tc.beta)
		assert.ErrorIsf(t, err, core.ErrInvalidParameter, "alpha=%v beta=%v", tc.alpha, tc.beta)
	}

	s, err := NewSpectralSubtractor(a, 0, 1)
	require.NoError(t, err)
	assert.Zero(t, s.Alpha())
	assert.Equal(t, 1.0, s.Beta())
}

func TestSpectralSubtractorZeroNoiseInvariance(t *testing.T) {
	a := newAnalyzer(t, 512, 128)
	input := testutil.DeterministicNoise(4, 0.8, 4000)
	zero := NoiseProfile{Power: make([]float64, a.Bins()), Frames: 10}

	for _, alpha := range []float64{0, 1, 2, 50} {
		s, err := NewSpectralSubtractor(a, alpha, DefaultBeta)
		require.NoError(t, err)

		out, err := s.Process(input, zero)
		require.NoError(t, err)
		testutil.RequireRelativeError(t, out, input, 1e-6)
	}
}

func TestSubtractionGainFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for range 10000 {
		p := rng.Float64() * 100
		n := rng.Float64() * 100
		alpha := rng.Float64() * 10
		beta := rng.Float64()

		g := SubtractionGain(p, n, alpha, beta)
		require.GreaterOrEqual(t, g*g*p, beta*p*(1-1e-12))
		require.LessOrEqual(t, g, 1+1e-12)
	}

	assert.Zero(t, SubtractionGain(0, 1, 2, 0.01))
	assert.InDelta(t, 0.1, SubtractionGain(1, 1, 2, 0.01), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), SubtractionGain(4, 1, 2, 0.01), 1e-12)
}

func TestSpectralSubtractorFloorPerFrame(t *testing.T) {
	a := newAnalyzer(t, 256, 64)
	noise := testutil.DeterministicNoise(6, 1, 3000)

	p, err := EstimateNoiseProfile(a, noise, DefaultNoiseFrames)
	require.NoError(t, err)

	frames, err := a.Analyze(noise)
	require.NoError(t, err)

	gain := make([]float64, a.Bins())
	for _, alpha := range []float64{0, 2, 100} {
		s, err := NewSpectralSubtractor(a, alpha, 0.05)
		require.NoError(t, err)

		for _, f := range frames {
			s.Gains(gain, f.Bins, p)
			for k, g := range gain {
				power := real(f.Bins[k])*real(f.Bins[k]) + imag(f.Bins[k])*imag(f.Bins[k])
				require.GreaterOrEqual(t, g*g*power, 0.05*power*(1-1e-12))
			}
		}
	}
}

func TestSpectralSubtractorSilentLeadIn(t *testing.T) {
	a := newAnalyzer(t, 2048, 512)

	lead := 10 * 512
	sine := testutil.DeterministicSine(440, 44100, 0.5, 44100-lead)
	input := append(testutil.Silence(lead), sine...)

	p, err := EstimateNoiseProfile(a, input, DefaultNoiseFrames)
	require.NoError(t, err)

	s, err := NewSpectralSubtractor(a, DefaultAlpha, DefaultBeta)
	require.NoError(t, err)

	out, err := s.Process(input, p)
	require.NoError(t, err)
	require.Len(t, out, len(input))
	testutil.RequireSliceNearlyEqual(t, out[lead:], sine, 1e-6)
	testutil.RequireSliceNearlyEqual(t, out[:lead], testutil.Silence(lead), 1e-6)
}

func TestSpectralSubtractorReducesNoise(t *testing.T) {
	a := newAnalyzer(t, 1024, 256)

	noise := testutil.DeterministicNoise(7, 0.1, 44100)
	sine := testutil.DeterministicSine(1000, 44100, 0.5, 44100)
	for i := range 10 * 256 {
		sine[i] = 0
	}
	input := testutil.Add(sine, noise)

	p, err := EstimateNoiseProfile(a, input, DefaultNoiseFrames)
	require.NoError(t, err)

	s, err := NewSpectralSubtractor(a, DefaultAlpha, DefaultBeta)
	require.NoError(t, err)

	out, err := s.Process(input, p)
	require.NoError(t, err)

	residualIn := make([]float64, len(input))
	residualOut := make([]float64, len(input))
	for i := range input {
		residualIn[i] = input[i] - sine[i]
		residualOut[i] = out[i] - sine[i]
	}
	assert.Less(t, testutil.MeanSquare(residualOut), testutil.MeanSquare(residualIn))
}

func TestProcessProfileMismatch(t *testing.T) {
	a := newAnalyzer(t, 64, 16)
	bad := NoiseProfile{Power: make([]float64, 5), Frames: 1}

	s, err := NewSpectralSubtractor(a, DefaultAlpha, DefaultBeta)
	require.NoError(t, err)
	_, err = s.Process(make([]float64, 100), bad)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	w, err := NewWienerFilter(a, DefaultSNRDB)
	require.NoError(t, err)
	_, err = w.Process(make([]float64, 100), bad)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	a := newAnalyzer(t, 64, 16)
	input := testutil.DeterministicNoise(8, 1, 500)
	orig := append([]float64(nil), input...)

	p, err := EstimateNoiseProfile(a, input, 4)
	require.NoError(t, err)

	s, err := NewSpectralSubtractor(a, DefaultAlpha, DefaultBeta)
	require.NoError(t, err)
	_, err = s.Process(input, p)
	require.NoError(t, err)

	w, err := NewWienerFilter(a, DefaultSNRDB)
	require.NoError(t, err)
	_, err = w.Process(input, p)
	require.NoError(t, err)

	assert.Equal(t, orig, input)
}
