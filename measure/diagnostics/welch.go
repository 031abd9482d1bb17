package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/stft"
	"github.com/cwbudde/algo-denoise/dsp/window"
)

// DefaultSegmentLength is the Welch segment length.
const DefaultSegmentLength = 1024

// PSD is a one-sided power spectral density in units²/Hz.
type PSD struct {
	SampleRate int
	Segments   int
	Freqs      []float64
	Power      []float64
}

// Welch estimates the PSD of samples by averaging the periodograms of
// Hann-windowed segments of the given length at 50% overlap. Only complete
// segments are averaged; a signal shorter than one segment is zero-padded
// into a single segment. segment must be a power of two.
func Welch(samples []float64, sampleRate, segment int) (PSD, error) {
	if sampleRate <= 0 {
		return PSD{}, core.NewInvalidParameter("sample_rate", sampleRate, "> 0")
	}
	if segment < 2 {
		return PSD{}, core.NewInvalidParameter("segment", segment, ">= 2")
	}
	if len(samples) == 0 {
		return PSD{}, &core.InsufficientDataError{Have: 0, Need: 1}
	}

	analyzer, err := stft.NewAnalyzer(segment, segment/2, stft.WithWindow(window.TypeHann))
	if err != nil {
		return PSD{}, fmt.Errorf("diagnostics: %w", err)
	}

	frames, err := analyzer.Analyze(samples)
	if err != nil {
		return PSD{}, fmt.Errorf("diagnostics: %w", err)
	}

	full := 1
	if len(samples) >= segment {
		full = (len(samples)-segment)/analyzer.HopSize() + 1
	}
	frames = frames[:full]

	bins := analyzer.Bins()
	psd := PSD{
		SampleRate: sampleRate,
		Segments:   full,
		Freqs:      make([]float64, bins),
		Power:      make([]float64, bins),
	}

	for _, f := range frames {
		for k, c := range f.Bins {
			psd.Power[k] += real(c)*real(c) + imag(c)*imag(c)
		}
	}

	w := analyzer.Window()
	scale := 1 / (float64(sampleRate) * floats.Dot(w, w) * float64(full))
	floats.Scale(scale, psd.Power)

	for k := range psd.Power {
		psd.Freqs[k] = float64(k) * float64(sampleRate) / float64(segment)
		if k > 0 && !(segment%2 == 0 && k == bins-1) {
			psd.Power[k] *= 2
		}
	}

	return psd, nil
}

// Resolution returns the bin spacing in Hz.
func (p PSD) Resolution() float64 {
	if len(p.Freqs) < 2 {
		return 0
	}
	return p.Freqs[1] - p.Freqs[0]
}

// TotalPower integrates the density over all bins, giving mean-square
// amplitude.
func (p PSD) TotalPower() float64 {
	return floats.Sum(p.Power) * p.Resolution()
}

// BandPower integrates the density over bins with lo <= f < hi.
func (p PSD) BandPower(lo, hi float64) float64 {
	var sum float64
	for k, f := range p.Freqs {
		if f >= lo && f < hi {
			sum += p.Power[k]
		}
	}
	return sum * p.Resolution()
}

// PeakFrequency returns the frequency of the strongest bin above DC.
func (p PSD) PeakFrequency() float64 {
	if len(p.Power) < 2 {
		return 0
	}
	idx := floats.MaxIdx(p.Power[1:]) + 1
	if p.Power[idx] == 0 {
		return 0
	}
	return p.Freqs[idx]
}

// Centroid returns the power-weighted mean frequency.
func (p PSD) Centroid() float64 {
	total := floats.Sum(p.Power)
	if total == 0 {
		return 0
	}
	return floats.Dot(p.Freqs, p.Power) / total
}

// Flatness returns the ratio of geometric to arithmetic mean power over the
// bins above DC, in [0, 1]. A spectrum with an empty bin has flatness 0.
func (p PSD) Flatness() float64 {
	if len(p.Power) < 2 {
		return 0
	}

	bins := p.Power[1:]
	mean := floats.Sum(bins) / float64(len(bins))
	if mean == 0 {
		return 0
	}

	var logSum float64
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		logSum += math.Log(v)
	}

	return math.Exp(logSum/float64(len(bins))) / mean
}

// Rolloff returns the lowest frequency below which fraction of the total
// power lies.
func (p PSD) Rolloff(fraction float64) float64 {
	total := floats.Sum(p.Power)
	if total == 0 || len(p.Freqs) == 0 {
		return 0
	}

	threshold := fraction * total
	var cum float64
	for k, v := range p.Power {
		cum += v
		if cum >= threshold {
			return p.Freqs[k]
		}
	}

	return p.Freqs[len(p.Freqs)-1]
}
