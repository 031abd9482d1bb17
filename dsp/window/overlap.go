package window

import (
	"fmt"
	"math"
)

// Overlap summarises the squared-window envelope produced when frames of a
// window are laid out every hop samples starting at zero.
type Overlap struct {
	// Min and Max span every position, leading edge included.
	Min float64
	Max float64
	// SteadyMin and SteadyMax span one full period once every covering
	// frame is present.
	SteadyMin float64
	SteadyMax float64
}

// Ripple returns the relative steady-state variation of the envelope.
// It is zero for a window/hop pair satisfying the constant-overlap-add
// condition on w².
func (o Overlap) Ripple() float64 {
	if o.SteadyMax == 0 {
		return math.Inf(1)
	}
	return (o.SteadyMax - o.SteadyMin) / o.SteadyMax
}

// OverlapEnvelope returns Σ_j w[p-j·hop]² for p in [0, len(coeffs)+hop-1).
// The first len(coeffs)-1 positions form the leading edge; the remaining
// hop positions are one steady-state period.
func OverlapEnvelope(coeffs []float64, hop int) ([]float64, error) {
	n := len(coeffs)
	if err := validateLength(n); err != nil {
		return nil, err
	}
	if hop <= 0 || hop >= n {
		return nil, fmt.Errorf("window: hop must be in (0, %d): %d", n, hop)
	}

	env := make([]float64, n+hop-1)
	for start := 0; start < len(env); start += hop {
		for i, w := range coeffs {
			p := start + i
			if p >= len(env) {
				break
			}
			env[p] += w * w
		}
	}

	return env, nil
}

// CheckOverlap computes the envelope statistics and fails if any position,
// including the leading edge, receives no window energy.
func CheckOverlap(coeffs []float64, hop int, floor float64) (Overlap, error) {
	env, err := OverlapEnvelope(coeffs, hop)
	if err != nil {
		return Overlap{}, err
	}

	o := Overlap{
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
		SteadyMin: math.Inf(1),
		SteadyMax: math.Inf(-1),
	}

	steadyFrom := len(coeffs) - 1
	for p, v := range env {
		o.Min = math.Min(o.Min, v)
		o.Max = math.Max(o.Max, v)
		if p >= steadyFrom {
			o.SteadyMin = math.Min(o.SteadyMin, v)
			o.SteadyMax = math.Max(o.SteadyMax, v)
		}
	}

	if o.Min <= floor {
		return o, fmt.Errorf("%w: min %g at hop %d", errZeroEnergy, o.Min, hop)
	}

	return o, nil
}
