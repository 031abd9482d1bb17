// Package config loads the denoise command configuration from YAML,
// applies DENOISE_* environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/transform"
	"github.com/cwbudde/algo-denoise/dsp/window"
	"github.com/cwbudde/algo-denoise/separation"
)

// Defaults for every option.
const (
	DefaultFrameSize    = 2048
	DefaultHopSize      = 512
	DefaultMethod       = "spectral"
	DefaultAlpha        = 2.0
	DefaultBeta         = 0.01
	DefaultSNRDB        = 10.0
	DefaultFilterLength = 512
	DefaultMu           = 0.01
	DefaultNoiseFrames  = 10
	DefaultWindow       = "hann"
	DefaultFFTBackend   = "algofft"
	DefaultWorkers      = 1
	DefaultLMSOutput    = "estimate"
	DefaultSampleRate   = 44100
	DefaultBitDepth     = 16
	DefaultLogLevel     = "info"

	// DefaultPath is searched when Load is called with an empty path.
	DefaultPath = "denoise.yaml"
)

// Environment variables that override file values.
const (
	EnvFrameSize  = "DENOISE_FRAME_SIZE"
	EnvHopSize    = "DENOISE_HOP_SIZE"
	EnvMethod     = "DENOISE_METHOD"
	EnvFFTBackend = "DENOISE_FFT_BACKEND"
	EnvLogLevel   = "DENOISE_LOG_LEVEL"
)

// Config is the flat option set shared by the YAML file, flags and
// environment.
type Config struct {
	FrameSize    int     `yaml:"frame_size"`
	HopSize      int     `yaml:"hop_size"`
	Method       string  `yaml:"method"`
	Alpha        float64 `yaml:"alpha"`
	Beta         float64 `yaml:"beta"`
	SNRDB        float64 `yaml:"snr_estimate"`
	FilterLength int     `yaml:"filter_length"`
	Mu           float64 `yaml:"mu"`
	NoiseFrames  int     `yaml:"noise_frames"`
	Window       string  `yaml:"window"`
	FFTBackend   string  `yaml:"fft_backend"`
	Workers      int     `yaml:"workers"`
	LMSOutput    string  `yaml:"lms_output"`
	SampleRate   int     `yaml:"sample_rate"`
	BitDepth     int     `yaml:"bit_depth"`
	LogLevel     string  `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FrameSize:    DefaultFrameSize,
		HopSize:      DefaultHopSize,
		Method:       DefaultMethod,
		Alpha:        DefaultAlpha,
		Beta:         DefaultBeta,
		SNRDB:        DefaultSNRDB,
		FilterLength: DefaultFilterLength,
		Mu:           DefaultMu,
		NoiseFrames:  DefaultNoiseFrames,
		Window:       DefaultWindow,
		FFTBackend:   DefaultFFTBackend,
		Workers:      DefaultWorkers,
		LMSOutput:    DefaultLMSOutput,
		SampleRate:   DefaultSampleRate,
		BitDepth:     DefaultBitDepth,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path tries DefaultPath and falls back to the defaults
// when it does not exist. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadUnvalidated(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadUnvalidated is Load without the final Validate, for callers that layer
// further overrides on top and validate the merged result themselves.
func LoadUnvalidated(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from DENOISE_* variables. Malformed numeric
// values are reported, not ignored.
func (c *Config) ApplyEnv() error {
	var result *multierror.Error

	setInt := func(key string, dst *int) {
		val, ok := os.LookupEnv(key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("config: %s=%q: %w", key, val, err))
			return
		}
		*dst = n
		logrus.WithFields(logrus.Fields{"function": "Config.ApplyEnv", "key": key, "value": n}).
			Debug("Overriding configuration from environment")
	}

	setString := func(key string, dst *string) {
		if val, ok := os.LookupEnv(key); ok {
			*dst = val
			logrus.WithFields(logrus.Fields{"function": "Config.ApplyEnv", "key": key, "value": val}).
				Debug("Overriding configuration from environment")
		}
	}

	setInt(EnvFrameSize, &c.FrameSize)
	setInt(EnvHopSize, &c.HopSize)
	setString(EnvMethod, &c.Method)
	setString(EnvFFTBackend, &c.FFTBackend)
	setString(EnvLogLevel, &c.LogLevel)

	return result.ErrorOrNil()
}

// Validate checks the names and ranges of every option and reports all
// violations together.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := c.Separation(); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			result = multierror.Append(result, merr.Errors...)
		} else {
			result = multierror.Append(result, err)
		}
	}
	if c.SampleRate <= 0 {
		result = multierror.Append(result, core.NewInvalidParameter("sample_rate", c.SampleRate, "> 0"))
	}
	if c.BitDepth != 16 && c.BitDepth != 24 && c.BitDepth != 32 {
		result = multierror.Append(result, core.NewInvalidParameter("bit_depth", c.BitDepth, "16, 24 or 32"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, core.NewInvalidParameter("log_level", c.LogLevel, "a logrus level"))
	}

	return result.ErrorOrNil()
}

// Separation converts the named options to a validated engine
// configuration.
func (c *Config) Separation() (separation.Config, error) {
	var result *multierror.Error

	sc := separation.Config{
		FrameSize:    c.FrameSize,
		HopSize:      c.HopSize,
		Alpha:        c.Alpha,
		Beta:         c.Beta,
		SNRDB:        c.SNRDB,
		FilterLength: c.FilterLength,
		Mu:           c.Mu,
		NoiseFrames:  c.NoiseFrames,
		Workers:      c.Workers,
	}

	var err error
	if sc.Method, err = separation.ParseMethod(c.Method); err != nil {
		result = multierror.Append(result, err)
	}
	if sc.Window, err = window.ParseType(c.Window); err != nil {
		result = multierror.Append(result, core.NewInvalidParameter("window", c.Window, "a known window"))
	}
	if sc.Backend, err = transform.ParseBackend(c.FFTBackend); err != nil {
		result = multierror.Append(result, core.NewInvalidParameter("fft_backend", c.FFTBackend, "algofft, gonum or godsp"))
	}
	if sc.LMSOutput, err = separation.ParseLMSOutput(c.LMSOutput); err != nil {
		result = multierror.Append(result, err)
	}

	if result.ErrorOrNil() == nil {
		if err := sc.Validate(); err != nil {
			return sc, err
		}
	}

	return sc, result.ErrorOrNil()
}
