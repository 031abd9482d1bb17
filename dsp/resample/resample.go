package resample

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast uses short filters.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long filters with high stopband attenuation.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures the converter.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps the denominator when a non-integer rate ratio is
// approximated.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Converter performs offline rational sample-rate conversion of whole
// buffers with a linear-phase polyphase FIR. The filter delay is
// compensated, so output sample m lines up with input time m·down/up.
//
// A Converter holds no streaming state and is safe for concurrent use.
type Converter struct {
	up      int
	down    int
	quality Quality
	taps    []float64
	delay   int
}

// NewRational creates a converter for the ratio up/down.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := newConfig(opts)

	taps, err := designLowpass(up, down, QualityProfile(cfg.quality))
	if err != nil {
		return nil, err
	}

	return &Converter{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    taps,
		delay:   (len(taps) - 1) / 2,
	}, nil
}

// NewForRates creates a converter from inRate to outRate. Integer rates map
// to an exact ratio; other rates are approximated by continued fractions.
func NewForRates(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, ErrInvalidRate
	}

	if inRate == math.Trunc(inRate) && outRate == math.Trunc(outRate) {
		return NewRational(int(outRate), int(inRate), opts...)
	}

	cfg := newConfig(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Buffer converts b to outRate. A buffer already at outRate is returned as
// a copy.
func Buffer(b core.AudioBuffer, outRate int, opts ...Option) (core.AudioBuffer, error) {
	if outRate <= 0 || b.SampleRate <= 0 {
		return core.AudioBuffer{}, ErrInvalidRate
	}
	if b.SampleRate == outRate {
		return b.Clone(), nil
	}

	c, err := NewRational(outRate, b.SampleRate, opts...)
	if err != nil {
		return core.AudioBuffer{}, err
	}

	return core.AudioBuffer{Samples: c.Convert(b.Samples), SampleRate: outRate}, nil
}

// Resample converts input using ratio up/down as a one-shot helper.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	c, err := NewRational(up, down, opts...)
	if err != nil {
		return nil, err
	}

	return c.Convert(input), nil
}

// OutputLen returns ceil(n·up/down), the length Convert produces.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*c.up + c.down - 1) / c.down
}

// Convert resamples a complete buffer.
func (c *Converter) Convert(input []float64) []float64 {
	out := make([]float64, c.OutputLen(len(input)))

	// Only every up-th tap meets a non-zero sample of the zero-stuffed input.
	for m := range out {
		p := m*c.down + c.delay

		var y float64
		for k := p % c.up; k < len(c.taps); k += c.up {
			idx := (p - k) / c.up
			if idx < 0 {
				break
			}
			if idx < len(input) {
				y += c.taps[k] * input[idx]
			}
		}

		out[m] = y
	}

	return out
}

// Ratio returns reduced up/down conversion factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// Quality returns the configured quality mode.
func (c *Converter) Quality() Quality {
	return c.quality
}

// Delay returns the compensated filter delay at the upsampled rate.
func (c *Converter) Delay() int {
	return c.delay
}

// Prototype returns a copy of the lowpass prototype taps.
func (c *Converter) Prototype() []float64 {
	return append([]float64(nil), c.taps...)
}
