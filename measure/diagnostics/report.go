package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/measure/loudness"
	"github.com/cwbudde/algo-denoise/separation"
)

// DefaultBandEdges split the spectrum into low, low-mid, high-mid and high
// bands. The last band always extends to Nyquist.
var DefaultBandEdges = []float64{0, 250, 1000, 4000}

// minLoudnessRate is the lowest sample rate with the K-weighting shelf
// below Nyquist.
const minLoudnessRate = 3000

// rolloffFraction is the power fraction reported as the spectral rolloff.
const rolloffFraction = 0.85

// Spectrum summarises a PSD.
type Spectrum struct {
	TotalPowerDB Decibels `json:"total_power_db"`
	PeakHz       float64  `json:"peak_hz"`
	CentroidHz   float64  `json:"centroid_hz"`
	RolloffHz    float64  `json:"rolloff_hz"`
	Flatness     float64  `json:"flatness"`
}

// Band compares the power of one frequency band before and after.
type Band struct {
	LowHz       float64  `json:"low_hz"`
	HighHz      float64  `json:"high_hz"`
	OriginalDB  Decibels `json:"original_db"`
	ProcessedDB Decibels `json:"processed_db"`
	ChangeDB    Decibels `json:"change_db"`
}

// Loudness holds BS.1770 loudness values in LUFS.
type Loudness struct {
	Integrated   Decibels `json:"integrated_lufs"`
	MaxMomentary Decibels `json:"max_momentary_lufs"`
}

// ProfileSummary describes the noise profile of a spectral run.
type ProfileSummary struct {
	Frames      int      `json:"frames"`
	Bins        int      `json:"bins"`
	MeanPowerDB Decibels `json:"mean_power_db"`
}

// FilterSummary describes the converged taps of an adaptive run. The peak
// tap position approximates the echo delay.
type FilterSummary struct {
	Taps         int     `json:"taps"`
	PeakTap      int     `json:"peak_tap"`
	PeakWeight   float64 `json:"peak_weight"`
	Energy       float64 `json:"energy"`
	DelaySeconds float64 `json:"delay_seconds"`
}

// Report is the outcome of Analyze.
type Report struct {
	Method     string  `json:"method"`
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration_seconds"`
	Segment    int     `json:"psd_segment"`

	Original  Levels `json:"original"`
	Processed Levels `json:"processed"`
	// Removed measures original minus processed over the common length.
	Removed Levels `json:"removed"`

	// LevelChangeDB is processed power relative to original power.
	LevelChangeDB Decibels `json:"level_change_db"`

	OriginalSpectrum  Spectrum `json:"original_spectrum"`
	ProcessedSpectrum Spectrum `json:"processed_spectrum"`
	Bands             []Band   `json:"bands"`

	// Loudness is omitted for sample rates the K-weighting cannot serve.
	OriginalLoudness  *Loudness `json:"original_loudness,omitempty"`
	ProcessedLoudness *Loudness `json:"processed_loudness,omitempty"`

	Profile *ProfileSummary `json:"noise_profile,omitempty"`
	Filter  *FilterSummary  `json:"adaptive_filter,omitempty"`
}

type options struct {
	segment int
	edges   []float64
}

// Option configures Analyze.
type Option func(*options)

// WithSegmentLength sets the Welch segment length.
func WithSegmentLength(n int) Option {
	return func(o *options) { o.segment = n }
}

// WithBandEdges sets ascending band start frequencies in Hz.
func WithBandEdges(edges ...float64) Option {
	return func(o *options) { o.edges = append([]float64(nil), edges...) }
}

// Analyze builds a report for res. The processed buffer may be shorter than
// the original (adaptive runs cover the common prefix only).
func Analyze(res separation.Result, opts ...Option) (*Report, error) {
	o := options{segment: DefaultSegmentLength, edges: DefaultBandEdges}
	for _, opt := range opts {
		opt(&o)
	}

	if res.SampleRate <= 0 {
		return nil, core.NewInvalidParameter("sample_rate", res.SampleRate, "> 0")
	}
	if err := checkEdges(o.edges); err != nil {
		return nil, err
	}

	orig := res.Original.Samples
	proc := res.Processed.Samples
	n := core.CommonLen(orig, proc)

	removed := make([]float64, n)
	floats.SubTo(removed, orig[:n], proc[:n])

	r := &Report{
		Method:     res.Method.String(),
		SampleRate: res.SampleRate,
		Duration:   float64(len(proc)) / float64(res.SampleRate),
		Segment:    o.segment,
		Original:   MeasureLevels(orig),
		Processed:  MeasureLevels(proc),
		Removed:    MeasureLevels(removed),
	}
	r.LevelChangeDB = powerRatioDB(r.Processed.RMS*r.Processed.RMS, r.Original.RMS*r.Original.RMS)

	if n > 0 {
		origPSD, err := Welch(orig, res.SampleRate, o.segment)
		if err != nil {
			return nil, err
		}
		procPSD, err := Welch(proc, res.SampleRate, o.segment)
		if err != nil {
			return nil, err
		}
		r.OriginalSpectrum = summarize(origPSD)
		r.ProcessedSpectrum = summarize(procPSD)
		r.Bands = compareBands(origPSD, procPSD, o.edges)
	}

	if res.SampleRate > minLoudnessRate {
		var err error
		if r.OriginalLoudness, err = measureLoudness(orig, res.SampleRate); err != nil {
			return nil, err
		}
		if r.ProcessedLoudness, err = measureLoudness(proc, res.SampleRate); err != nil {
			return nil, err
		}
	}

	if p := res.Profile; p != nil {
		r.Profile = &ProfileSummary{
			Frames:      p.Frames,
			Bins:        p.Bins(),
			MeanPowerDB: Decibels(p.MeanPowerDB()),
		}
	}

	if w := res.Weights; len(w) > 0 {
		abs := make([]float64, len(w))
		for i, v := range w {
			abs[i] = math.Abs(v)
		}
		peak := floats.MaxIdx(abs)
		r.Filter = &FilterSummary{
			Taps:         len(w),
			PeakTap:      peak,
			PeakWeight:   w[peak],
			Energy:       floats.Dot(w, w),
			DelaySeconds: float64(peak) / float64(res.SampleRate),
		}
	}

	return r, nil
}

func measureLoudness(x []float64, sampleRate int) (*Loudness, error) {
	lr, err := loudness.Measure(x, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: %w", err)
	}
	return &Loudness{Integrated: Decibels(lr.Integrated), MaxMomentary: Decibels(lr.MaxMomentary)}, nil
}

func checkEdges(edges []float64) error {
	if len(edges) == 0 || floats.HasNaN(edges) || edges[0] < 0 {
		return core.NewInvalidParameter("band_edges", edges, "non-empty and non-negative")
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return core.NewInvalidParameter("band_edges", edges, "strictly ascending")
		}
	}
	return nil
}

func summarize(p PSD) Spectrum {
	return Spectrum{
		TotalPowerDB: Decibels(core.LinearPowerToDB(p.TotalPower())),
		PeakHz:       p.PeakFrequency(),
		CentroidHz:   p.Centroid(),
		RolloffHz:    p.Rolloff(rolloffFraction),
		Flatness:     p.Flatness(),
	}
}

func compareBands(orig, proc PSD, edges []float64) []Band {
	nyquist := float64(orig.SampleRate) / 2
	bands := make([]Band, 0, len(edges))

	for i, lo := range edges {
		if lo >= nyquist {
			break
		}
		hi := nyquist
		if i+1 < len(edges) && edges[i+1] < nyquist {
			hi = edges[i+1]
		}
		// Nyquist belongs to the last band.
		upper := hi
		if hi == nyquist {
			upper = math.Nextafter(nyquist, math.Inf(1))
		}

		op := orig.BandPower(lo, upper)
		pp := proc.BandPower(lo, upper)
		bands = append(bands, Band{
			LowHz:       lo,
			HighHz:      hi,
			OriginalDB:  Decibels(core.LinearPowerToDB(op)),
			ProcessedDB: Decibels(core.LinearPowerToDB(pp)),
			ChangeDB:    powerRatioDB(pp, op),
		})
	}

	return bands
}

// JSON writes the report as indented JSON.
func (r *Report) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("diagnostics: failed to encode report: %w", err)
	}
	return nil
}

// Markdown writes the report as a Markdown document.
func (r *Report) Markdown(w io.Writer) error {
	mw := &mdWriter{w: w}

	mw.printf("# Separation report: %s\n\n", r.Method)
	mw.printf("- Sample rate: %d Hz\n", r.SampleRate)
	mw.printf("- Duration: %.3f s\n", r.Duration)
	mw.printf("- Level change: %s\n\n", r.LevelChangeDB)

	mw.printf("## Time domain\n\n")
	mw.printf("| Signal | Samples | RMS | Peak | Crest factor | Zero crossings | Std dev |\n")
	mw.printf("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range []struct {
		name string
		lv   Levels
	}{{"original", r.Original}, {"processed", r.Processed}, {"removed", r.Removed}} {
		mw.printf("| %s | %d | %s | %s | %s | %d | %.6f |\n",
			row.name, row.lv.Samples, row.lv.RMSDB, row.lv.PeakDB, row.lv.CrestFactorDB,
			row.lv.ZeroCrossings, row.lv.StdDev)
	}

	mw.printf("\n## Spectrum (Welch, %d-sample segments)\n\n", r.Segment)
	mw.printf("| Signal | Total power | Peak | Centroid | Rolloff 85%% | Flatness |\n")
	mw.printf("|---|---:|---:|---:|---:|---:|\n")
	for _, row := range []struct {
		name string
		s    Spectrum
	}{{"original", r.OriginalSpectrum}, {"processed", r.ProcessedSpectrum}} {
		mw.printf("| %s | %s | %.1f Hz | %.1f Hz | %.1f Hz | %.4f |\n",
			row.name, row.s.TotalPowerDB, row.s.PeakHz, row.s.CentroidHz, row.s.RolloffHz, row.s.Flatness)
	}

	if len(r.Bands) > 0 {
		mw.printf("\n## Bands\n\n")
		mw.printf("| Band | Original | Processed | Change |\n")
		mw.printf("|---|---:|---:|---:|\n")
		for _, b := range r.Bands {
			mw.printf("| %.0f-%.0f Hz | %s | %s | %s |\n", b.LowHz, b.HighHz, b.OriginalDB, b.ProcessedDB, b.ChangeDB)
		}
	}

	if r.OriginalLoudness != nil && r.ProcessedLoudness != nil {
		mw.printf("\n## Loudness\n\n")
		mw.printf("| Signal | Integrated | Max momentary |\n")
		mw.printf("|---|---:|---:|\n")
		mw.printf("| original | %s | %s |\n", lufs(r.OriginalLoudness.Integrated), lufs(r.OriginalLoudness.MaxMomentary))
		mw.printf("| processed | %s | %s |\n", lufs(r.ProcessedLoudness.Integrated), lufs(r.ProcessedLoudness.MaxMomentary))
	}

	if p := r.Profile; p != nil {
		mw.printf("\n## Noise profile\n\n")
		mw.printf("- Frames: %d\n- Bins: %d\n- Mean power: %s\n", p.Frames, p.Bins, p.MeanPowerDB)
	}

	if f := r.Filter; f != nil {
		mw.printf("\n## Adaptive filter\n\n")
		mw.printf("- Taps: %d\n- Peak tap: %d (%.6f, %.2f ms)\n- Energy: %.6f\n",
			f.Taps, f.PeakTap, f.PeakWeight, f.DelaySeconds*1000, f.Energy)
	}

	if mw.err != nil {
		return fmt.Errorf("diagnostics: failed to write report: %w", mw.err)
	}
	return nil
}

func lufs(d Decibels) string {
	if !core.IsFinite(float64(d)) {
		return "-inf LUFS"
	}
	return fmt.Sprintf("%.1f LUFS", float64(d))
}

// mdWriter keeps the first write error and skips later writes.
type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}
