package separation

import (
	"github.com/hashicorp/go-multierror"

	"github.com/cwbudde/algo-denoise/dsp/adaptive"
	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/denoise"
	"github.com/cwbudde/algo-denoise/dsp/transform"
	"github.com/cwbudde/algo-denoise/dsp/window"
)

// Config holds every tunable of the engine. Zero values are not defaults;
// start from DefaultConfig.
type Config struct {
	FrameSize    int
	HopSize      int
	Method       Method
	Alpha        float64
	Beta         float64
	SNRDB        float64
	FilterLength int
	Mu           float64
	NoiseFrames  int
	Window       window.Type
	Backend      transform.Backend
	Workers      int
	LMSOutput    LMSOutput
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		FrameSize:    core.DefaultFrameSize,
		HopSize:      core.DefaultHopSize,
		Method:       SpectralSubtraction,
		Alpha:        denoise.DefaultAlpha,
		Beta:         denoise.DefaultBeta,
		SNRDB:        denoise.DefaultSNRDB,
		FilterLength: adaptive.DefaultOrder,
		Mu:           adaptive.DefaultMu,
		NoiseFrames:  denoise.DefaultNoiseFrames,
		Window:       window.TypeHann,
		Backend:      transform.BackendAlgoFFT,
		Workers:      1,
		LMSOutput:    LMSEstimate,
	}
}

// Validate checks every field and reports all violations at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if err := core.ValidateFraming(c.FrameSize, c.HopSize); err != nil {
		result = multierror.Append(result, err)
	}
	if !c.Method.Valid() {
		result = multierror.Append(result, &core.UnknownMethodError{Method: c.Method.String()})
	}
	if !core.IsFinite(c.Alpha) || c.Alpha < 0 {
		result = multierror.Append(result, core.NewInvalidParameter("alpha", c.Alpha, ">= 0"))
	}
	if !core.IsFinite(c.Beta) || c.Beta < 0 || c.Beta > 1 {
		result = multierror.Append(result, core.NewInvalidParameter("beta", c.Beta, "in [0, 1]"))
	}
	if !core.IsFinite(c.SNRDB) {
		result = multierror.Append(result, core.NewInvalidParameter("snr_estimate", c.SNRDB, "finite"))
	}
	if c.FilterLength <= 0 {
		result = multierror.Append(result, core.NewInvalidParameter("filter_length", c.FilterLength, "> 0"))
	}
	if !core.IsFinite(c.Mu) || c.Mu <= 0 {
		result = multierror.Append(result, core.NewInvalidParameter("mu", c.Mu, "> 0"))
	}
	if c.NoiseFrames < 1 {
		result = multierror.Append(result, core.NewInvalidParameter("noise_frames", c.NoiseFrames, ">= 1"))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, core.NewInvalidParameter("workers", c.Workers, ">= 1"))
	}
	if c.LMSOutput != LMSEstimate && c.LMSOutput != LMSResidual {
		result = multierror.Append(result, core.NewInvalidParameter("lms_output", c.LMSOutput, "estimate or residual"))
	}

	return result.ErrorOrNil()
}
