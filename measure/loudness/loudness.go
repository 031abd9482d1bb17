// Package loudness measures BS.1770 / EBU R128 loudness of a mono buffer.
//
// The buffer is K-weighted, cut into 400 ms blocks every 100 ms and gated
// at -70 LUFS absolute and -10 LU relative for the integrated value.
package loudness

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

const (
	momentaryDuration = 0.4
	shortTermDuration = 3.0
	blockStep         = 0.1

	absThreshold = -70.0
	relThreshold = -10.0
)

// Result holds loudness values in LUFS. A value is -Inf when the buffer is
// too short for the window or every block is gated.
type Result struct {
	Integrated   float64
	MaxMomentary float64
	MaxShortTerm float64
	// Blocks counts the momentary blocks considered for gating.
	Blocks int
}

// Measure computes the loudness of samples. The sample rate must place the
// K-weighting shelf below Nyquist.
func Measure(samples []float64, sampleRate int) (Result, error) {
	if float64(sampleRate) <= 2*shelfFreq {
		return Result{}, core.NewInvalidParameter("sample_rate", sampleRate, "> 3000")
	}

	fs := float64(sampleRate)
	weighted := KWeight(samples, fs)
	floats.Mul(weighted, weighted)

	cum := make([]float64, len(weighted)+1)
	floats.CumSum(cum[1:], weighted)

	block := int(math.Round(momentaryDuration * fs))
	short := int(math.Round(shortTermDuration * fs))
	step := max(int(math.Round(blockStep*fs)), 1)

	res := Result{
		Integrated:   math.Inf(-1),
		MaxMomentary: math.Inf(-1),
		MaxShortTerm: math.Inf(-1),
	}

	blocks := meanSquares(cum, block, step)
	res.Blocks = len(blocks)
	if len(blocks) > 0 {
		res.MaxMomentary = toLUFS(floats.Max(blocks))
		res.Integrated = gate(blocks)
	}

	if shorts := meanSquares(cum, short, step); len(shorts) > 0 {
		res.MaxShortTerm = toLUFS(floats.Max(shorts))
	}

	return res, nil
}

// meanSquares returns the mean of every complete window of the squared
// signal whose prefix sums are cum.
func meanSquares(cum []float64, window, step int) []float64 {
	n := len(cum) - 1
	if n < window {
		return nil
	}

	out := make([]float64, 0, (n-window)/step+1)
	for start := 0; start+window <= n; start += step {
		out = append(out, math.Max(cum[start+window]-cum[start], 0)/float64(window))
	}
	return out
}

func gate(blocks []float64) float64 {
	var kept []float64
	for _, z := range blocks {
		if toLUFS(z) > absThreshold {
			kept = append(kept, z)
		}
	}
	if len(kept) == 0 {
		return math.Inf(-1)
	}

	rel := toLUFS(floats.Sum(kept)/float64(len(kept))) + relThreshold

	var sum float64
	var count int
	for _, z := range kept {
		if toLUFS(z) > rel {
			sum += z
			count++
		}
	}
	if count == 0 {
		return math.Inf(-1)
	}

	return toLUFS(sum / float64(count))
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10*math.Log10(meanSquare)
}
