package denoise

import (
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/stft"
)

// Spectral subtraction defaults.
const (
	DefaultAlpha = 2.0
	DefaultBeta  = 0.01
)

// SpectralSubtractor removes an oversubtracted noise power estimate from
// every bin while keeping at least beta of the original power.
type SpectralSubtractor struct {
	analyzer *stft.Analyzer
	alpha    float64
	beta     float64
}

// NewSpectralSubtractor validates alpha >= 0 and beta in [0, 1].
func NewSpectralSubtractor(a *stft.Analyzer, alpha, beta float64) (*SpectralSubtractor, error) {
	if !core.IsFinite(alpha) || alpha < 0 {
		return nil, core.NewInvalidParameter("alpha", alpha, ">= 0")
	}
	if !core.IsFinite(beta) || beta < 0 || beta > 1 {
		return nil, core.NewInvalidParameter("beta", beta, "in [0, 1]")
	}

	return &SpectralSubtractor{analyzer: a, alpha: alpha, beta: beta}, nil
}

// Alpha returns the oversubtraction factor.
func (s *SpectralSubtractor) Alpha() float64 { return s.alpha }

// Beta returns the spectral floor fraction.
func (s *SpectralSubtractor) Beta() float64 { return s.beta }

// SubtractionGain returns the magnitude gain for a bin of power p against
// noise power n: sqrt(max(p − alpha·n, beta·p) / p). A silent bin gets 0.
func SubtractionGain(p, n, alpha, beta float64) float64 {
	if p <= 0 {
		return 0
	}
	return math.Sqrt(math.Max(p-alpha*n, beta*p) / p)
}

// Gains writes the per-bin magnitude gains for one frame into dst.
func (s *SpectralSubtractor) Gains(dst []float64, bins []complex128, profile NoiseProfile) {
	pw := newPowerScratch(len(bins))
	s.gains(dst, pw.compute(bins), profile)
}

func (s *SpectralSubtractor) gains(dst, power []float64, profile NoiseProfile) {
	for k, p := range power {
		dst[k] = SubtractionGain(p, profile.Power[k], s.alpha, s.beta)
	}
}

// Process returns samples with the profile's noise subtracted. The output
// has the same length as samples; the input is not modified.
func (s *SpectralSubtractor) Process(samples []float64, profile NoiseProfile) ([]float64, error) {
	if err := checkProfile(s.analyzer, profile); err != nil {
		return nil, err
	}

	pw := newPowerScratch(s.analyzer.Bins())
	gain := make([]float64, s.analyzer.Bins())

	// Scaling X by a real gain keeps its phase.
	return s.analyzer.Process(samples, func(f *stft.Frame) {
		s.gains(gain, pw.compute(f.Bins), profile)
		for k, g := range gain {
			f.Bins[k] *= complex(g, 0)
		}
	})
}
