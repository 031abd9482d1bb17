package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want))

	for i := range got {
		diff := math.Abs(got[i] - want[i])
		require.LessOrEqualf(t, diff, eps, "index %d: got %v, want %v", i, got[i], want[i])
	}
}

// RequireRelativeError fails t if ‖got−want‖∞ exceeds rel·max(‖want‖∞, 1).
func RequireRelativeError(t testing.TB, got, want []float64, rel float64) {
	t.Helper()

	d, err := MaxAbsDiff(got, want)
	require.NoError(t, err)

	scale := 1.0
	if len(want) > 0 {
		scale = math.Max(scale, floats.Norm(want, math.Inf(1)))
	}
	require.LessOrEqualf(t, d, rel*scale, "max abs diff %g exceeds %g", d, rel*scale)
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()

	for i, v := range data {
		require.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "index %d: non-finite value %v", i, v)
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

// MeanSquare returns the mean of x², or 0 for an empty slice.
func MeanSquare(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Dot(x, x) / float64(len(x))
}
