package diagnostics

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/signal"
	"github.com/cwbudde/algo-denoise/separation"
	"github.com/cwbudde/algo-denoise/internal/testutil"
)

func spectralResult(t *testing.T) separation.Result {
	t.Helper()

	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(16000)}, signal.WithSeed(3))
	noisy, err := gen.NoisySine(440, 0.5, 0.05, 10*512, 48000)
	require.NoError(t, err)

	e, err := separation.New(separation.DefaultConfig())
	require.NoError(t, err)

	res, err := e.Separate(core.NewAudioBuffer(noisy, 16000), core.AudioBuffer{}, separation.SpectralSubtraction)
	require.NoError(t, err)

	return res
}

func TestAnalyzeSpectralRun(t *testing.T) {
	r, err := Analyze(spectralResult(t))
	require.NoError(t, err)

	assert.Equal(t, "spectral", r.Method)
	assert.Equal(t, 16000, r.SampleRate)
	assert.InDelta(t, 3, r.Duration, 1e-9)
	assert.Equal(t, DefaultSegmentLength, r.Segment)
	assert.Less(t, float64(r.LevelChangeDB), 0.0)
	assert.Greater(t, r.Removed.RMS, 0.0)
	assert.InDelta(t, 440, r.ProcessedSpectrum.PeakHz, 16)
	assert.Greater(t, r.OriginalSpectrum.Flatness, r.ProcessedSpectrum.Flatness)

	require.Len(t, r.Bands, 4)
	assert.Equal(t, 4000.0, r.Bands[3].LowHz)
	assert.Equal(t, 8000.0, r.Bands[3].HighHz)
	assert.Less(t, float64(r.Bands[3].ChangeDB), -3.0)

	require.NotNil(t, r.OriginalLoudness)
	require.NotNil(t, r.ProcessedLoudness)
	assert.LessOrEqual(t, float64(r.ProcessedLoudness.Integrated), float64(r.OriginalLoudness.Integrated)+0.01)

	require.NotNil(t, r.Profile)
	assert.Equal(t, 10, r.Profile.Frames)
	assert.Equal(t, 1025, r.Profile.Bins)
	assert.Nil(t, r.Filter)
}

func TestAnalyzeFilterSummary(t *testing.T) {
	w := make([]float64, 64)
	w[40] = -0.6
	w[3] = 0.1

	x := testutil.DeterministicNoise(5, 0.3, 4000)
	r, err := Analyze(separation.Result{
		Original:   core.NewAudioBuffer(x, 8000),
		Processed:  core.NewAudioBuffer(x[:3000], 8000),
		SampleRate: 8000,
		Method:     separation.AdaptiveLMS,
		Weights:    w,
	})
	require.NoError(t, err)

	require.NotNil(t, r.Filter)
	assert.Equal(t, 64, r.Filter.Taps)
	assert.Equal(t, 40, r.Filter.PeakTap)
	assert.Equal(t, -0.6, r.Filter.PeakWeight)
	assert.InDelta(t, 0.37, r.Filter.Energy, 1e-12)
	assert.InDelta(t, 0.005, r.Filter.DelaySeconds, 1e-12)
	assert.Nil(t, r.Profile)
	assert.Zero(t, r.Removed.RMS)
	assert.Equal(t, 3000, r.Removed.Samples)
}

func TestReportRendering(t *testing.T) {
	r, err := Analyze(spectralResult(t))
	require.NoError(t, err)

	var md bytes.Buffer
	require.NoError(t, r.Markdown(&md))
	assert.Contains(t, md.String(), "# Separation report: spectral")
	assert.Contains(t, md.String(), "## Bands")
	assert.Contains(t, md.String(), "## Noise profile")
	assert.Contains(t, md.String(), "## Loudness")
	assert.NotContains(t, md.String(), "## Adaptive filter")

	var js bytes.Buffer
	require.NoError(t, r.JSON(&js))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "spectral", decoded["method"])
	assert.Contains(t, decoded, "noise_profile")
	assert.NotContains(t, decoded, "adaptive_filter")
}

func TestReportSilenceEncodesNull(t *testing.T) {
	silent := core.NewAudioBuffer(testutil.Silence(2048), 8000)
	r, err := Analyze(separation.Result{Original: silent, Processed: silent, SampleRate: 8000})
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, r.JSON(&js))
	assert.True(t, json.Valid(js.Bytes()))

	var decoded struct {
		Original struct {
			RMSDB *float64 `json:"rms_db"`
		} `json:"original"`
		LevelChangeDB *float64 `json:"level_change_db"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Nil(t, decoded.Original.RMSDB)
	require.NotNil(t, decoded.LevelChangeDB)
	assert.Zero(t, *decoded.LevelChangeDB)
}

func TestAnalyzeOptionsAndErrors(t *testing.T) {
	x := core.NewAudioBuffer(testutil.DeterministicNoise(1, 0.5, 8192), 8000)
	res := separation.Result{Original: x, Processed: x, SampleRate: 8000}

	r, err := Analyze(res, WithSegmentLength(256), WithBandEdges(0, 1000, 6000))
	require.NoError(t, err)
	assert.Equal(t, 256, r.Segment)
	require.Len(t, r.Bands, 2)
	assert.Equal(t, 4000.0, r.Bands[1].HighHz)
	assert.InDelta(t, 0, float64(r.Bands[0].ChangeDB), 1e-12)

	_, err = Analyze(separation.Result{Original: x, Processed: x})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = Analyze(res, WithBandEdges(1000, 500))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = Analyze(res, WithBandEdges())
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMarkdownWriteError(t *testing.T) {
	x := core.NewAudioBuffer(testutil.Ones(1024), 8000)
	r, err := Analyze(separation.Result{Original: x, Processed: x, SampleRate: 8000})
	require.NoError(t, err)

	assert.ErrorContains(t, r.Markdown(failWriter{}), "disk full")
	assert.Error(t, r.JSON(failWriter{}))
}

func TestAnalyzeLowRateSkipsLoudness(t *testing.T) {
	x := core.NewAudioBuffer(testutil.DeterministicNoise(2, 0.5, 4096), 2000)
	r, err := Analyze(separation.Result{Original: x, Processed: x, SampleRate: 2000})
	require.NoError(t, err)

	assert.Nil(t, r.OriginalLoudness)
	assert.Nil(t, r.ProcessedLoudness)

	var md bytes.Buffer
	require.NoError(t, r.Markdown(&md))
	assert.NotContains(t, md.String(), "## Loudness")
}
