// Package adaptive implements a least-mean-squares adaptive
// FIR filter for echo and interference cancellation.
package adaptive

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// LMS defaults.
const (
	DefaultOrder = 512
	DefaultMu    = 0.01
)

// LMS holds the filter order and step size. Weight state is created fresh
// for every Filter call, so an LMS value is safe for concurrent use.
type LMS struct {
	order int
	mu    float64
}

// Result is the output of one Filter pass. All three slices are newly
// allocated; Estimate and Residual have the length of the common prefix.
type Result struct {
	// Estimate is the running filter output y[n] = w·u[n].
	Estimate []float64
	// Residual is e[n] = d[n] − y[n], the desired signal with the modelled
	// reference component removed.
	Residual []float64
	// Weights is the weight vector after the last update.
	Weights []float64
}

// NewLMS validates order > 0 and a finite mu > 0.
//
// Convergence additionally needs mu < 2/(order·E[x²]) for the reference x;
// see StableStepBound. That bound is not enforced.
func NewLMS(order int, mu float64) (*LMS, error) {
	if order <= 0 {
		return nil, core.NewInvalidParameter("filter_length", order, "> 0")
	}
	if !core.IsFinite(mu) || mu <= 0 {
		return nil, core.NewInvalidParameter("mu", mu, "> 0")
	}

	return &LMS{order: order, mu: mu}, nil
}

// Order returns the number of filter taps.
func (l *LMS) Order() int { return l.order }

// Mu returns the step size.
func (l *LMS) Mu() float64 { return l.mu }

// Filter adapts the weights so that the filtered reference tracks desired.
//
// Only the first min(len(desired), len(reference)) samples take part.
// At sample n the input vector is u[k] = reference[n−k] for k < order, with
// zeros before the start of the signal.
func (l *LMS) Filter(desired, reference []float64) (Result, error) {
	if len(desired) == 0 {
		return Result{}, core.NewInvalidParameter("desired_length", 0, "> 0")
	}
	if len(reference) == 0 {
		return Result{}, core.NewInvalidParameter("reference_length", 0, "> 0")
	}

	n := core.CommonLen(desired, reference)
	m := l.order

	w := make([]float64, m)
	u := make([]float64, m)
	y := make([]float64, n)
	e := make([]float64, n)

	for i := range n {
		copy(u[1:], u[:m-1])
		u[0] = reference[i]

		y[i] = floats.Dot(w, u)
		e[i] = desired[i] - y[i]

		floats.AddScaled(w, l.mu*e[i], u)
	}

	return Result{Estimate: y, Residual: e, Weights: w}, nil
}

// StableStepBound returns 2/(order·E[x²]) for reference x, the usual upper
// bound on mu for mean-square convergence. It is +Inf for a silent
// reference or a non-positive order.
func StableStepBound(reference []float64, order int) float64 {
	if order <= 0 || len(reference) == 0 {
		return math.Inf(1)
	}

	ms := floats.Dot(reference, reference) / float64(len(reference))
	if ms == 0 {
		return math.Inf(1)
	}

	return 2 / (float64(order) * ms)
}
