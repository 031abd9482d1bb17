package stft

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Synthesizer performs the inverse short-time Fourier transform with
// weighted overlap-add.
type Synthesizer struct {
	framer
}

// NewSynthesizer validates the same constraints as NewAnalyzer.
func NewSynthesizer(frameSize, hopSize int, opts ...Option) (*Synthesizer, error) {
	f, err := newFramer(frameSize, hopSize, opts)
	if err != nil {
		return nil, err
	}
	return &Synthesizer{framer: f}, nil
}

// Synthesize rebuilds a real signal of exactly length samples from frames.
//
// Each frame's Hermitian spectrum is inverse transformed, windowed and added
// at Index·H. Every output sample is then divided by the sum of squared
// window values that reached it. Positions past the last frame, or whose
// envelope is at or below the normalisation floor, are zero.
func (s *Synthesizer) Synthesize(frames []Frame, length int) ([]float64, error) {
	if length < 0 {
		return nil, core.NewInvalidParameter("length", length, ">= 0")
	}

	last := 0
	for _, fr := range frames {
		if len(fr.Bins) != s.bins {
			return nil, core.NewInvalidParameter("frame_bins", len(fr.Bins), fmt.Sprintf("%d", s.bins))
		}
		if fr.Index < 0 {
			return nil, core.NewInvalidParameter("frame_index", fr.Index, ">= 0")
		}
		last = max(last, fr.Index)
	}

	out := make([]float64, length)
	if len(frames) == 0 {
		return out, nil
	}

	blocks := make([][]float64, len(frames))

	err := s.forEachFrame(len(frames), func(w *worker, i int) error {
		s.hermitian(w.spec, frames[i].Bins)

		if err := w.tr.Inverse(w.spec, w.spec); err != nil {
			return fmt.Errorf("stft: inverse transform failed: %w", err)
		}

		block := make([]float64, s.frameSize)
		for j := range block {
			block[j] = real(w.spec[j])
		}
		vecmath.MulBlockInPlace(block, s.window)
		blocks[i] = block

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Accumulate in input order so the sum does not depend on scheduling.
	outLen := last*s.hopSize + s.frameSize
	wet := make([]float64, outLen)
	norm := make([]float64, outLen)

	for i, fr := range frames {
		pos := fr.Index * s.hopSize
		vecmath.AddBlockInPlace(wet[pos:pos+s.frameSize], blocks[i])
		vecmath.AddBlockInPlace(norm[pos:pos+s.frameSize], s.windowSq)
	}

	for i := range min(length, outLen) {
		if norm[i] > normFloor {
			out[i] = wet[i] / norm[i]
		}
	}

	return out, nil
}

// hermitian expands a half spectrum into dst so that its inverse is real.
func (s *Synthesizer) hermitian(dst, bins []complex128) {
	copy(dst, bins)

	dst[0] = complex(real(dst[0]), 0)
	if s.frameSize%2 == 0 {
		dst[s.bins-1] = complex(real(dst[s.bins-1]), 0)
	}

	for n := s.bins; n < s.frameSize; n++ {
		dst[n] = cmplx.Conj(dst[s.frameSize-n])
	}
}
