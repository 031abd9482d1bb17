package transform

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

type gonumFFT struct {
	fft     *fourier.CmplxFFT
	scratch []complex128
	n       int
}

// NewGonum creates a gonum complex FFT of any positive size.
func NewGonum(n int) (Transform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", errSize, n)
	}

	return &gonumFFT{
		fft:     fourier.NewCmplxFFT(n),
		scratch: make([]complex128, n),
		n:       n,
	}, nil
}

func (t *gonumFFT) Len() int { return t.n }

func (t *gonumFFT) Forward(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}

	t.fft.Coefficients(t.scratch, src)
	copy(dst, t.scratch)

	return nil
}

// Inverse scales by 1/N; gonum's Sequence is unnormalised.
func (t *gonumFFT) Inverse(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}

	t.fft.Sequence(t.scratch, src)

	scale := complex(1/float64(t.n), 0)
	for i, v := range t.scratch {
		dst[i] = v * scale
	}

	return nil
}
