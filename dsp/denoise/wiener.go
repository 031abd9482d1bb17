package denoise

import (
	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/stft"
)

// DefaultSNRDB is the assumed signal-to-noise ratio of the Wiener filter.
const DefaultSNRDB = 10.0

// WienerFilter scales each bin by P/(P + N/s), where s is the assumed SNR
// on a linear power scale.
type WienerFilter struct {
	analyzer  *stft.Analyzer
	snrDB     float64
	snrLinear float64
}

// NewWienerFilter validates that snrDB is finite.
func NewWienerFilter(a *stft.Analyzer, snrDB float64) (*WienerFilter, error) {
	if !core.IsFinite(snrDB) {
		return nil, core.NewInvalidParameter("snr_estimate", snrDB, "finite")
	}

	return &WienerFilter{
		analyzer:  a,
		snrDB:     snrDB,
		snrLinear: core.DBPowerToLinear(snrDB),
	}, nil
}

// SNRDB returns the configured SNR in dB.
func (w *WienerFilter) SNRDB() float64 { return w.snrDB }

// WienerGain returns p/(p + n/snrLinear). A silent bin gets 0 and a
// noiseless bin passes unchanged.
func WienerGain(p, n, snrLinear float64) float64 {
	if p <= 0 {
		return 0
	}
	if n <= 0 {
		return 1
	}
	return p / (p + n/snrLinear)
}

// Gains writes the per-bin gains for one frame into dst.
func (w *WienerFilter) Gains(dst []float64, bins []complex128, profile NoiseProfile) {
	pw := newPowerScratch(len(bins))
	w.gains(dst, pw.compute(bins), profile)
}

func (w *WienerFilter) gains(dst, power []float64, profile NoiseProfile) {
	for k, p := range power {
		dst[k] = WienerGain(p, profile.Power[k], w.snrLinear)
	}
}

// Process returns the Wiener filtered samples. The output has the same
// length as samples; the input is not modified.
func (w *WienerFilter) Process(samples []float64, profile NoiseProfile) ([]float64, error) {
	if err := checkProfile(w.analyzer, profile); err != nil {
		return nil, err
	}

	pw := newPowerScratch(w.analyzer.Bins())
	gain := make([]float64, w.analyzer.Bins())

	return w.analyzer.Process(samples, func(f *stft.Frame) {
		w.gains(gain, pw.compute(f.Bins), profile)
		for k, g := range gain {
			f.Bins[k] *= complex(g, 0)
		}
	})
}
