package transform

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

type algoFFT struct {
	plan *algofft.Plan[complex128]
	n    int
}

// NewAlgoFFT creates a planned power-of-two FFT.
func NewAlgoFFT(n int) (Transform, error) {
	if !IsPowerOf2(n) {
		return nil, fmt.Errorf("%w: algofft needs a power of two, got %d", errSize, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	return &algoFFT{plan: plan, n: n}, nil
}

func (t *algoFFT) Len() int { return t.n }

func (t *algoFFT) Forward(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}
	return t.plan.Forward(dst, src)
}

// Inverse relies on the plan's own 1/N normalisation.
func (t *algoFFT) Inverse(dst, src []complex128) error {
	if err := checkLen(t.n, dst, src); err != nil {
		return err
	}
	return t.plan.Inverse(dst, src)
}
