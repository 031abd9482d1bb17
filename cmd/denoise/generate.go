package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/signal"
	"github.com/cwbudde/algo-denoise/internal/audiofile"
)

type generateFlags struct {
	kind         string
	duration     time.Duration
	frequency    float64
	amplitude    float64
	noise        float64
	seed         int64
	echoDelay    time.Duration
	echoGain     float64
	referenceOut string
}

func newGenerateCmd(a *app) *cobra.Command {
	var gf generateFlags

	cmd := &cobra.Command{
		Use:   "generate <output>",
		Short: "Write a deterministic test signal as WAV",
		Long: `Write a deterministic test signal as WAV.

Kinds:
  sine   pure tone
  noise  uniform white noise
  ramp   linear ramp from -amplitude to +amplitude
  mix    tone in white noise after a noise-only lead-in of noise_frames hops
  echo   white noise plus a delayed, scaled copy of itself; --reference-out
         receives the undelayed source for the adaptive method`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.generate(args[0], gf)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&gf.kind, "kind", "k", "mix", "sine, noise, ramp, mix or echo")
	f.DurationVarP(&gf.duration, "duration", "d", 2*time.Second, "signal length")
	f.Float64Var(&gf.frequency, "frequency", 440, "tone frequency in Hz")
	f.Float64Var(&gf.amplitude, "amplitude", 0.5, "tone or ramp amplitude")
	f.Float64Var(&gf.noise, "noise", 0.05, "noise amplitude")
	f.Int64Var(&gf.seed, "seed", 1, "noise seed")
	f.DurationVar(&gf.echoDelay, "echo-delay", 5*time.Millisecond, "echo delay")
	f.Float64Var(&gf.echoGain, "echo-gain", 0.6, "echo gain")
	f.StringVar(&gf.referenceOut, "reference-out", "", "write the echo source to this file")

	return cmd
}

func (a *app) generate(output string, gf generateFlags) error {
	rate := a.cfg.SampleRate
	samples := int(gf.duration.Seconds() * float64(rate))
	if samples <= 0 {
		return core.NewInvalidParameter("duration", gf.duration, "> 0")
	}

	gen := signal.NewGenerator(
		[]core.ProcessorOption{core.WithSampleRate(float64(rate))},
		signal.WithSeed(gf.seed),
	)

	var (
		data      []float64
		reference []float64
		err       error
	)

	switch gf.kind {
	case "sine":
		data, err = gen.Sine(gf.frequency, gf.amplitude, samples)
	case "noise":
		data, err = gen.WhiteNoise(gf.noise, samples)
	case "ramp":
		data, err = gen.Ramp(-gf.amplitude, gf.amplitude, samples)
	case "mix":
		leadIn := min(a.cfg.NoiseFrames*a.cfg.HopSize, samples)
		data, err = gen.NoisySine(gf.frequency, gf.amplitude, gf.noise, leadIn, samples)
	case "echo":
		if gf.referenceOut == "" {
			return fmt.Errorf("generate: kind echo needs --reference-out")
		}
		data, reference, err = echoPair(gen, gf, samples, rate)
	default:
		return core.NewInvalidParameter("kind", gf.kind, "sine, noise, ramp, mix or echo")
	}
	if err != nil {
		return err
	}

	if err := audiofile.Save(output, core.NewAudioBuffer(data, rate), a.cfg.BitDepth); err != nil {
		return err
	}
	if reference != nil {
		if err := audiofile.Save(gf.referenceOut, core.NewAudioBuffer(reference, rate), a.cfg.BitDepth); err != nil {
			return err
		}
	}

	a.log.WithFields(logrus.Fields{
		"function":    "generate",
		"kind":        gf.kind,
		"samples":     samples,
		"sample_rate": rate,
		"output":      output,
	}).Info("Test signal written")

	return nil
}

// echoPair returns the mixture source+echo and the source itself.
func echoPair(gen *signal.Generator, gf generateFlags, samples, rate int) ([]float64, []float64, error) {
	src, err := gen.WhiteNoise(gf.amplitude, samples)
	if err != nil {
		return nil, nil, err
	}

	delay := int(gf.echoDelay.Seconds() * float64(rate))
	echo, err := signal.Echo(src, delay, gf.echoGain)
	if err != nil {
		return nil, nil, err
	}

	mix := make([]float64, samples)
	floats.AddTo(mix, src, echo)

	return mix, src, nil
}
