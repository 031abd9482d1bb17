package resample

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// designLowpass returns an odd-length Kaiser-windowed sinc lowpass at the
// upsampled rate, scaled to a DC gain of up.
func designLowpass(up, down int, p Profile) ([]float64, error) {
	if p.TapsPerPhase <= 0 {
		return nil, errors.New("resample: taps per phase must be > 0")
	}

	nTaps := p.TapsPerPhase*up | 1

	fc := 0.5 / float64(max(up, down)) * p.CutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, nTaps)
	center := float64(nTaps-1) / 2

	for n := range taps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiser(n, nTaps, p.KaiserBeta)
	}

	sum := floats.Sum(taps)
	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	floats.Scale(float64(up)/sum, taps)

	return taps, nil
}

func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}

		p0, p1 = p1, a*p1+p0
		q0, q1 = q1, q2
	}

	num = int(math.Round(p1))
	den = int(math.Round(q1))

	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its power
// series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	x2 := x * x / 4

	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
