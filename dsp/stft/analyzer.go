package stft

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Frame is the half spectrum of one windowed analysis frame. The frame starts
// at sample Index·H of the analysed buffer.
type Frame struct {
	Index int
	Bins  []complex128
}

// Analyzer performs the forward short-time Fourier transform.
//
// An Analyzer is immutable after construction and safe for concurrent use;
// each call allocates its own transforms.
type Analyzer struct {
	framer
}

// NewAnalyzer validates N > H > 0, the window/hop overlap envelope and the
// transform backend.
func NewAnalyzer(frameSize, hopSize int, opts ...Option) (*Analyzer, error) {
	f, err := newFramer(frameSize, hopSize, opts)
	if err != nil {
		return nil, err
	}
	return &Analyzer{framer: f}, nil
}

// FrameCount returns the number of frames needed to cover n samples.
func (a *Analyzer) FrameCount(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 + (n-1)/a.hopSize
}

// Analyze splits samples into frames every H samples, zero-padding past the
// end, and returns their windowed half spectra. An empty input yields no
// frames.
func (a *Analyzer) Analyze(samples []float64) ([]Frame, error) {
	count := a.FrameCount(len(samples))
	frames := make([]Frame, count)

	err := a.forEachFrame(count, func(w *worker, i int) error {
		pos := i * a.hopSize

		core.Zero(w.seg)
		copy(w.seg, samples[pos:])
		vecmath.MulBlockInPlace(w.seg, a.window)

		for j, v := range w.seg {
			w.spec[j] = complex(v, 0)
		}

		if err := w.tr.Forward(w.spec, w.spec); err != nil {
			return fmt.Errorf("stft: forward transform failed: %w", err)
		}

		bins := make([]complex128, a.bins)
		copy(bins, w.spec)
		frames[i] = Frame{Index: i, Bins: bins}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return frames, nil
}

// Synthesizer returns a Synthesizer with the same frame size, hop, window,
// backend and worker count.
func (a *Analyzer) Synthesizer() *Synthesizer {
	return &Synthesizer{framer: a.framer}
}

// Process analyses samples, lets modify rewrite each frame in order, and
// resynthesises a buffer of len(samples).
//
// The buffer is framed behind LeadIn zeros, which are dropped again after
// synthesis. Every input sample therefore sits under the full set of
// overlapping frames and is normalised by the steady-state envelope, never
// by the tapered edge of a single window.
func (a *Analyzer) Process(samples []float64, modify func(*Frame)) ([]float64, error) {
	if len(samples) == 0 {
		return []float64{}, nil
	}

	lead := a.LeadIn()
	padded := make([]float64, lead+len(samples))
	copy(padded[lead:], samples)

	frames, err := a.Analyze(padded)
	if err != nil {
		return nil, err
	}

	if modify != nil {
		for i := range frames {
			modify(&frames[i])
		}
	}

	out, err := a.Synthesizer().Synthesize(frames, len(padded))
	if err != nil {
		return nil, err
	}

	return out[lead:], nil
}
