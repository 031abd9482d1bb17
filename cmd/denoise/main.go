// Command denoise suppresses stationary noise or a correlated echo in a mono
// recording.
//
// Usage:
//
//	denoise process [flags] <input> <output>
//	denoise windows [flags]
//	denoise generate [flags] <output>
//
// Examples:
//
//	denoise process noisy.wav clean.wav
//	denoise process --method wiener --snr-estimate 6 noisy.ogg clean.wav --report report.md
//	denoise process --method adaptive --reference far.wav mic.wav clean.wav
//	denoise windows --frame-size 1024 --hop-size 256
//	denoise generate --kind mix --duration 3s noisy.wav
//
// Options are read from denoise.yaml (or --config), then DENOISE_*
// environment variables, then command-line flags.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-denoise/internal/config"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := newRootCmd(log, os.Stdout)
	root.SetArgs(os.Args[1:])

	if err := root.Execute(); err != nil {
		log.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("denoise failed")
		os.Exit(1)
	}
}

// app carries the resolved configuration between the root command and its
// subcommands.
type app struct {
	log     *logrus.Logger
	out     io.Writer
	cfgPath string
	flags   config.Config
	cfg     *config.Config
}

func newRootCmd(log *logrus.Logger, out io.Writer) *cobra.Command {
	a := &app{log: log, out: out, flags: config.Default()}

	root := &cobra.Command{
		Use:           "denoise",
		Short:         "Offline noise and echo suppression for mono recordings",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd.Flags())
		},
	}
	root.SetOut(out)
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "YAML configuration file (default: ./"+config.DefaultPath+" if present)")
	pf.IntVar(&a.flags.FrameSize, "frame-size", config.DefaultFrameSize, "analysis frame length N")
	pf.IntVar(&a.flags.HopSize, "hop-size", config.DefaultHopSize, "frame stride H")
	pf.StringVarP(&a.flags.Method, "method", "m", config.DefaultMethod, "spectral, wiener or adaptive")
	pf.Float64Var(&a.flags.Alpha, "alpha", config.DefaultAlpha, "over-subtraction factor")
	pf.Float64Var(&a.flags.Beta, "beta", config.DefaultBeta, "spectral floor factor in [0, 1]")
	pf.Float64Var(&a.flags.SNRDB, "snr-estimate", config.DefaultSNRDB, "a-priori SNR for the Wiener filter in dB")
	pf.IntVar(&a.flags.FilterLength, "filter-length", config.DefaultFilterLength, "adaptive filter taps M")
	pf.Float64Var(&a.flags.Mu, "mu", config.DefaultMu, "adaptive step size")
	pf.IntVar(&a.flags.NoiseFrames, "noise-frames", config.DefaultNoiseFrames, "leading frames used for the noise profile")
	pf.StringVar(&a.flags.Window, "window", config.DefaultWindow, "analysis window")
	pf.StringVar(&a.flags.FFTBackend, "fft-backend", config.DefaultFFTBackend, "algofft, gonum or godsp")
	pf.IntVarP(&a.flags.Workers, "workers", "j", config.DefaultWorkers, "parallel frame workers")
	pf.StringVar(&a.flags.LMSOutput, "lms-output", config.DefaultLMSOutput, "adaptive output: estimate or residual")
	pf.IntVarP(&a.flags.SampleRate, "sample-rate", "r", config.DefaultSampleRate, "processing sample rate in Hz")
	pf.IntVar(&a.flags.BitDepth, "bit-depth", config.DefaultBitDepth, "output WAV bit depth (16, 24, 32)")
	pf.StringVar(&a.flags.LogLevel, "log-level", config.DefaultLogLevel, "panic, fatal, error, warn, info, debug or trace")

	root.AddCommand(newProcessCmd(a), newWindowsCmd(a), newGenerateCmd(a))

	return root
}

// resolve loads the file and environment configuration, applies the flags
// the user set explicitly on top of it and validates the merged result.
func (a *app) resolve(fs *pflag.FlagSet) error {
	cfg, err := config.LoadUnvalidated(a.cfgPath)
	if err != nil {
		return err
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "frame-size":
			cfg.FrameSize = a.flags.FrameSize
		case "hop-size":
			cfg.HopSize = a.flags.HopSize
		case "method":
			cfg.Method = a.flags.Method
		case "alpha":
			cfg.Alpha = a.flags.Alpha
		case "beta":
			cfg.Beta = a.flags.Beta
		case "snr-estimate":
			cfg.SNRDB = a.flags.SNRDB
		case "filter-length":
			cfg.FilterLength = a.flags.FilterLength
		case "mu":
			cfg.Mu = a.flags.Mu
		case "noise-frames":
			cfg.NoiseFrames = a.flags.NoiseFrames
		case "window":
			cfg.Window = a.flags.Window
		case "fft-backend":
			cfg.FFTBackend = a.flags.FFTBackend
		case "workers":
			cfg.Workers = a.flags.Workers
		case "lms-output":
			cfg.LMSOutput = a.flags.LMSOutput
		case "sample-rate":
			cfg.SampleRate = a.flags.SampleRate
		case "bit-depth":
			cfg.BitDepth = a.flags.BitDepth
		case "log-level":
			cfg.LogLevel = a.flags.LogLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log.SetLevel(level)
	a.cfg = cfg

	a.log.WithFields(logrus.Fields{
		"function":    "resolve",
		"config_file": a.cfgPath,
		"method":      cfg.Method,
		"frame_size":  cfg.FrameSize,
		"hop_size":    cfg.HopSize,
		"sample_rate": cfg.SampleRate,
	}).Debug("Configuration resolved")

	return nil
}
