package denoise

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/stft"
)

// DefaultNoiseFrames is the number of leading frames averaged into a profile.
const DefaultNoiseFrames = 10

// NoiseProfile is the mean power spectrum of the leading noise segment.
type NoiseProfile struct {
	// Power holds one mean |X|² value per half-spectrum bin.
	Power []float64
	// Frames is the number of analysis frames averaged.
	Frames int
}

// Bins returns the number of spectral bins in the profile.
func (p NoiseProfile) Bins() int { return len(p.Power) }

// MeanPowerDB returns the bin-averaged noise power in dB, or -Inf for a
// silent profile.
func (p NoiseProfile) MeanPowerDB() float64 {
	if len(p.Power) == 0 {
		return core.LinearPowerToDB(0)
	}
	return core.LinearPowerToDB(floats.Sum(p.Power) / float64(len(p.Power)))
}

// EstimateNoiseProfile averages the power spectra of the first frames
// frames of samples.
//
// Only samples[:frames·H] is analysed, as a buffer of its own, so the
// profile is built from exactly frames frames and never sees audio past the
// leading segment.
func EstimateNoiseProfile(a *stft.Analyzer, samples []float64, frames int) (NoiseProfile, error) {
	if frames < 1 {
		return NoiseProfile{}, core.NewInvalidParameter("noise_frames", frames, ">= 1")
	}

	need := frames * a.HopSize()
	if len(samples) < need {
		return NoiseProfile{}, &core.InsufficientDataError{Have: len(samples), Need: need}
	}

	spectra, err := a.Analyze(samples[:need])
	if err != nil {
		return NoiseProfile{}, fmt.Errorf("denoise: noise analysis failed: %w", err)
	}

	bins := a.Bins()
	sum := make([]float64, bins)
	pw := newPowerScratch(bins)

	for _, f := range spectra {
		vecmath.AddBlockInPlace(sum, pw.compute(f.Bins))
	}

	floats.Scale(1/float64(len(spectra)), sum)

	return NoiseProfile{Power: sum, Frames: len(spectra)}, nil
}

// powerScratch computes |X|² per bin without per-frame allocation.
type powerScratch struct {
	re, im, power []float64
}

func newPowerScratch(bins int) *powerScratch {
	return &powerScratch{
		re:    make([]float64, bins),
		im:    make([]float64, bins),
		power: make([]float64, bins),
	}
}

func (s *powerScratch) compute(bins []complex128) []float64 {
	for i, v := range bins {
		s.re[i] = real(v)
		s.im[i] = imag(v)
	}
	vecmath.Power(s.power, s.re, s.im)
	return s.power
}

func checkProfile(a *stft.Analyzer, p NoiseProfile) error {
	if p.Bins() != a.Bins() {
		return core.NewInvalidParameter("noise_profile_bins", p.Bins(), fmt.Sprintf("%d", a.Bins()))
	}
	return nil
}
