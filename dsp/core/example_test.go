package core_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(16000),
		core.WithFrameSize(512),
		core.WithHopSize(128),
	)

	fmt.Printf("sampleRate=%.0f frame=%d hop=%d\n", cfg.SampleRate, cfg.FrameSize, cfg.HopSize)

	// Output:
	// sampleRate=16000 frame=512 hop=128
}

func ExampleValidateFraming() {
	err := core.ValidateFraming(512, 512)
	fmt.Println(errors.Is(err, core.ErrInvalidParameter))
	fmt.Println(err)

	// Output:
	// true
	// invalid parameter frame_size=512: must be > hop_size
}
