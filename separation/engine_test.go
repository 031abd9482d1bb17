package separation

import (
	"errors"
	"math"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/transform"
	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func newEngine(t *testing.T, cfg Config) (*Engine, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	e, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	return e, hook
}

func TestSilenceStaysSilent(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())
	silence := core.NewAudioBuffer(testutil.Silence(44100), 44100)

	for _, m := range Methods() {
		t.Run(m.String(), func(t *testing.T) {
			res, err := e.Separate(silence, silence, m)
			require.NoError(t, err)
			assert.Equal(t, m, res.Method)
			assert.Equal(t, 44100, res.SampleRate)
			assert.Equal(t, testutil.Silence(44100), res.Processed.Samples)
		})
	}
}

func TestSeparateSpectralKeepsSineAfterSilentLeadIn(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())

	lead := 10 * 512
	sine := testutil.DeterministicSine(440, 44100, 0.5, 20000)
	primary := core.NewAudioBuffer(append(testutil.Silence(lead), sine...), 44100)

	res, err := e.Separate(primary, core.AudioBuffer{}, SpectralSubtraction)
	require.NoError(t, err)
	require.NotNil(t, res.Profile)
	assert.Equal(t, 10, res.Profile.Frames)
	testutil.RequireSliceNearlyEqual(t, res.Processed.Samples, primary.Samples, 1e-6)
	testutil.RequireSliceNearlyEqual(t, res.Processed.Samples[lead:], sine, 1e-6)
	assert.Equal(t, primary, res.Original)
}

func TestSeparateRequiresReferenceForAdaptive(t *testing.T) {
	e, hook := newEngine(t, DefaultConfig())
	primary := core.NewAudioBuffer(testutil.DeterministicNoise(1, 0.5, 1000), 44100)

	_, err := e.Separate(primary, core.AudioBuffer{}, AdaptiveLMS)
	require.ErrorIs(t, err, core.ErrMissingReference)

	var mre *core.MissingReferenceError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, "adaptive", mre.Method)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "adaptive", hook.LastEntry().Data["method"])
}

func TestSeparateUnknownMethod(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())
	primary := core.NewAudioBuffer(testutil.Silence(8000), 8000)

	_, err := e.Separate(primary, primary, Method(7))
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
}

func TestSeparateInsufficientData(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())
	primary := core.NewAudioBuffer(testutil.Silence(5119), 44100)

	for _, m := range []Method{SpectralSubtraction, Wiener} {
		_, err := e.Separate(primary, core.AudioBuffer{}, m)
		assert.ErrorIs(t, err, core.ErrInsufficientData, m.String())
	}
}

func TestSeparateReferenceSampleRateMismatch(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())
	primary := core.NewAudioBuffer(testutil.Silence(100), 44100)
	reference := core.NewAudioBuffer(testutil.Silence(100), 48000)

	_, err := e.Separate(primary, reference, AdaptiveLMS)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestSeparateAdaptiveOutputs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterLength = 8
	cfg.Mu = 0.05

	x := testutil.DeterministicNoise(2, 0.5, 6000)
	echo := testutil.Delay(x, 3)
	for i := range echo {
		echo[i] *= 0.6
	}
	primary := core.NewAudioBuffer(echo, 16000)
	reference := core.NewAudioBuffer(x[:5000], 16000)

	est, _ := newEngine(t, cfg)
	resEst, err := est.Separate(primary, reference, AdaptiveLMS)
	require.NoError(t, err)
	require.Equal(t, 5000, resEst.Processed.Len())
	require.Len(t, resEst.Weights, 8)
	assert.InDelta(t, 0.6, resEst.Weights[3], 1e-3)

	cfg.LMSOutput = LMSResidual
	resid, _ := newEngine(t, cfg)
	resRes, err := resid.Separate(primary, reference, AdaptiveLMS)
	require.NoError(t, err)
	require.Equal(t, 5000, resRes.Processed.Len())

	for i := range 5000 {
		require.InDelta(t, echo[i]-resEst.Processed.Samples[i], resRes.Processed.Samples[i], 1e-12)
	}
	assert.Less(t, testutil.MeanSquare(resRes.Processed.Samples[4000:]), 1e-8)
}

func TestSeparateWienerAttenuatesNoise(t *testing.T) {
	e, hook := newEngine(t, DefaultConfig())
	noise := core.NewAudioBuffer(testutil.DeterministicNoise(3, 0.2, 30000), 44100)

	res, err := e.Separate(noise, core.AudioBuffer{}, Wiener)
	require.NoError(t, err)
	assert.Less(t, testutil.MeanSquare(res.Processed.Samples), testutil.MeanSquare(noise.Samples))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 30000, entry.Data["output_samples"])
}

func TestSeparateSpectralOutputStaysInRange(t *testing.T) {
	e, _ := newEngine(t, DefaultConfig())
	noise := core.NewAudioBuffer(testutil.DeterministicNoise(3, 0.2, 30000), 44100)

	for _, m := range []Method{SpectralSubtraction, Wiener} {
		t.Run(m.String(), func(t *testing.T) {
			res, err := e.Separate(noise, core.AudioBuffer{}, m)
			require.NoError(t, err)
			require.Equal(t, noise.Len(), res.Processed.Len())

			for i, v := range res.Processed.Samples {
				require.LessOrEqualf(t, math.Abs(v), 1.0, "sample %d", i)
			}
			assert.Less(t, testutil.MeanSquare(res.Processed.Samples[:512]), testutil.MeanSquare(noise.Samples[:512]))
		})
	}
}

func TestProcessUsesConfiguredMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = AdaptiveLMS

	e, _ := newEngine(t, cfg)
	_, err := e.Process(core.NewAudioBuffer(testutil.Ones(10), 8000), core.AudioBuffer{})
	assert.ErrorIs(t, err, core.ErrMissingReference)
	assert.Equal(t, AdaptiveLMS, e.Config().Method)
}

func TestSeparateParallelMatchesSequential(t *testing.T) {
	noise := core.NewAudioBuffer(testutil.DeterministicNoise(4, 0.3, 40000), 44100)

	seq, _ := newEngine(t, DefaultConfig())
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.Backend = transform.BackendGonum
	par, _ := newEngine(t, cfg)
	cfg.Workers = 1
	gonumSeq, _ := newEngine(t, cfg)

	a, err := par.Separate(noise, core.AudioBuffer{}, SpectralSubtraction)
	require.NoError(t, err)
	b, err := gonumSeq.Separate(noise, core.AudioBuffer{}, SpectralSubtraction)
	require.NoError(t, err)
	assert.Equal(t, a.Processed, b.Processed)

	c, err := seq.Separate(noise, core.AudioBuffer{}, SpectralSubtraction)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, a.Processed.Samples, c.Processed.Samples, 1e-9)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alpha = -1
	cfg.Beta = 2
	cfg.Mu = 0
	cfg.FilterLength = 0
	cfg.HopSize = 4096
	cfg.SNRDB = math.NaN()
	cfg.NoiseFrames = 0
	cfg.Workers = 0
	cfg.Method = Method(9)
	cfg.LMSOutput = LMSOutput(5)

	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.ErrorIs(t, err, core.ErrUnknownMethod)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 10)
}

func TestNewRejectsUnusableFraming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameSize = 1000
	cfg.HopSize = 250

	_, err := New(cfg)
	require.Error(t, err)

	cfg.Backend = transform.BackendGoDSP
	_, err = New(cfg)
	require.NoError(t, err)
}
