// Package signal generates deterministic test signals for noise and echo
// suppression: tones, white noise, ramps, noisy tones with a noise-only
// lead-in, and delayed echoes.
package signal

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used for noise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator from processor options and signal options.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() int {
	return int(math.Round(g.cfg.SampleRate))
}

// Sine generates amplitude·sin(2π·f·n/fs).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, core.NewInvalidParameter("samples", samples, "> 0")
	}
	if freqHz < 0 || freqHz > g.cfg.SampleRate/2 {
		return nil, core.NewInvalidParameter("frequency", freqHz, "in [0, sample_rate/2]")
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude). The same
// seed always yields the same sequence.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, core.NewInvalidParameter("samples", samples, "> 0")
	}
	if amplitude < 0 {
		return nil, core.NewInvalidParameter("amplitude", amplitude, ">= 0")
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Ramp rises linearly from start to end over samples values, both ends
// included.
func (g *Generator) Ramp(start, end float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, core.NewInvalidParameter("samples", samples, "> 0")
	}

	out := make([]float64, samples)
	if samples == 1 {
		out[0] = start
		return out, nil
	}

	floats.Span(out, start, end)
	return out, nil
}

// NoisySine returns a tone buried in white noise whose first leadIn samples
// hold noise only, the layout the leading-frame noise estimator expects.
func (g *Generator) NoisySine(freqHz, amplitude, noiseAmplitude float64, leadIn, samples int) ([]float64, error) {
	if leadIn < 0 || leadIn > samples {
		return nil, core.NewInvalidParameter("lead_in", leadIn, "in [0, samples]")
	}

	tone, err := g.Sine(freqHz, amplitude, samples)
	if err != nil {
		return nil, err
	}
	core.Zero(tone[:leadIn])

	noise, err := g.WhiteNoise(noiseAmplitude, samples)
	if err != nil {
		return nil, err
	}

	floats.Add(tone, noise)
	return tone, nil
}

// Echo returns src delayed by delay samples and scaled by gain, with the
// length of src.
func Echo(src []float64, delay int, gain float64) ([]float64, error) {
	if delay < 0 {
		return nil, core.NewInvalidParameter("delay", delay, ">= 0")
	}

	out := make([]float64, len(src))
	if delay < len(src) {
		floats.AddScaled(out[delay:], gain, src[:len(src)-delay])
	}
	return out, nil
}

// Normalize scales data to targetPeak and returns a new slice. Silent input
// stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, core.NewInvalidParameter("target_peak", targetPeak, ">= 0")
	}
	if len(data) == 0 {
		return nil, core.NewInvalidParameter("samples", 0, "> 0")
	}

	out := make([]float64, len(data))
	peak := floats.Norm(data, math.Inf(1))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/peak, data)
	return out, nil
}
