package transform

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// goDSP wraps the allocation-per-call transforms of go-dsp. Non power-of-two
// sizes go through Bluestein's algorithm.
type goDSP struct {
	n int
}

// NewGoDSP creates a go-dsp backed transform of any positive size.
func NewGoDSP(n int) (Transform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", errSize, n)
	}
	return goDSP{n: n}, nil
}

func (t goDSP) Len() int { return t.n }

func (t goDSP) Forward(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}
	copy(dst, fft.FFT(src))
	return nil
}

func (t goDSP) Inverse(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}
	copy(dst, fft.IFFT(src))
	return nil
}
