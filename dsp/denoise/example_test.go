package denoise_test

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/denoise"
)

func ExampleWienerGain() {
	// Equal signal and noise power at 0 dB assumed SNR.
	fmt.Println(denoise.WienerGain(1, 1, 1))
	// Output: 0.5
}

func ExampleSubtractionGain() {
	// Power 4 minus 2×1 noise leaves 2 of 4: magnitude gain sqrt(0.5).
	fmt.Printf("%.4f\n", denoise.SubtractionGain(4, 1, 2, 0.01))
	// Output: 0.7071
}
