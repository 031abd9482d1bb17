package separation

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-denoise/dsp/adaptive"
	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/denoise"
	"github.com/cwbudde/algo-denoise/dsp/stft"
)

// Engine dispatches a buffer to one of the suppression methods.
//
// An Engine is immutable after New and safe for concurrent use; every call
// owns its buffers, noise profile and filter state.
type Engine struct {
	cfg        Config
	analyzer   *stft.Analyzer
	subtractor *denoise.SpectralSubtractor
	wiener     *denoise.WienerFilter
	lms        *adaptive.LMS
	log        logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Result pairs the input and output of one separation for diagnostics.
type Result struct {
	Original   core.AudioBuffer
	Processed  core.AudioBuffer
	SampleRate int
	Method     Method

	// Profile is set for the spectral methods.
	Profile *denoise.NoiseProfile
	// Weights holds the final adaptive filter taps for AdaptiveLMS.
	Weights []float64
}

// New validates cfg and prepares the processors it describes.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	analyzer, err := stft.NewAnalyzer(cfg.FrameSize, cfg.HopSize,
		stft.WithWindow(cfg.Window),
		stft.WithBackend(cfg.Backend),
		stft.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("separation: %w", err)
	}

	subtractor, err := denoise.NewSpectralSubtractor(analyzer, cfg.Alpha, cfg.Beta)
	if err != nil {
		return nil, err
	}

	wiener, err := denoise.NewWienerFilter(analyzer, cfg.SNRDB)
	if err != nil {
		return nil, err
	}

	lms, err := adaptive.NewLMS(cfg.FilterLength, cfg.Mu)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		analyzer:   analyzer,
		subtractor: subtractor,
		wiener:     wiener,
		lms:        lms,
		log:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// Process runs Separate with the configured method.
func (e *Engine) Process(primary, reference core.AudioBuffer) (Result, error) {
	return e.Separate(primary, reference, e.cfg.Method)
}

// Separate suppresses noise or echo in primary.
//
// SpectralSubtraction and Wiener estimate the noise profile from the
// leading frames of primary and ignore reference. AdaptiveLMS needs a
// non-empty reference at the primary's sample rate and returns a buffer of
// min(len(primary), len(reference)) samples: the running estimate y by
// default, or the residual e when Config.LMSOutput is LMSResidual.
func (e *Engine) Separate(primary, reference core.AudioBuffer, method Method) (Result, error) {
	log := e.log.WithFields(logrus.Fields{
		"function":    "Engine.Separate",
		"method":      method.String(),
		"samples":     primary.Len(),
		"sample_rate": primary.SampleRate,
	})

	start := time.Now()

	res, err := e.separate(primary, reference, method)
	if err != nil {
		log.WithError(err).Error("Separation failed")
		return Result{}, err
	}

	log.WithFields(logrus.Fields{
		"output_samples": res.Processed.Len(),
		"elapsed":        time.Since(start),
	}).Info("Separation completed")

	return res, nil
}

func (e *Engine) separate(primary, reference core.AudioBuffer, method Method) (Result, error) {
	res := Result{
		Original:   primary.Clone(),
		SampleRate: primary.SampleRate,
		Method:     method,
	}

	switch method {
	case SpectralSubtraction, Wiener:
		profile, err := denoise.EstimateNoiseProfile(e.analyzer, primary.Samples, e.cfg.NoiseFrames)
		if err != nil {
			return Result{}, err
		}

		var out []float64
		if method == SpectralSubtraction {
			out, err = e.subtractor.Process(primary.Samples, profile)
		} else {
			out, err = e.wiener.Process(primary.Samples, profile)
		}
		if err != nil {
			return Result{}, err
		}

		res.Profile = &profile
		res.Processed = core.AudioBuffer{Samples: out, SampleRate: primary.SampleRate}

	case AdaptiveLMS:
		if reference.Empty() {
			return Result{}, &core.MissingReferenceError{Method: method.String()}
		}
		if reference.SampleRate > 0 && primary.SampleRate > 0 && reference.SampleRate != primary.SampleRate {
			return Result{}, core.NewInvalidParameter("reference_sample_rate", reference.SampleRate,
				fmt.Sprintf("equal to primary sample rate %d", primary.SampleRate))
		}

		fr, err := e.lms.Filter(primary.Samples, reference.Samples)
		if err != nil {
			return Result{}, err
		}

		out := fr.Estimate
		if e.cfg.LMSOutput == LMSResidual {
			out = fr.Residual
		}

		res.Weights = fr.Weights
		res.Processed = core.AudioBuffer{Samples: out, SampleRate: primary.SampleRate}

	default:
		return Result{}, &core.UnknownMethodError{Method: method.String()}
	}

	return res, nil
}
