package stft_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/stft"
)

func ExampleAnalyzer_Process() {
	a, err := stft.NewAnalyzer(256, 64)
	if err != nil {
		fmt.Println(err)
		return
	}

	in := make([]float64, 1000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 5 * float64(i) / 1000)
	}

	out, _ := a.Process(in, nil)

	worst := 0.0
	for i := range in {
		worst = math.Max(worst, math.Abs(out[i]-in[i]))
	}

	fmt.Println(len(out), worst < 1e-9)
	// Output: 1000 true
}
