package stft

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/transform"
	"github.com/cwbudde/algo-denoise/dsp/window"
)

// normFloor is the envelope value at or below which an output sample is left
// at zero instead of being normalised.
const normFloor = 1e-24

// Option configures an Analyzer or Synthesizer.
type Option func(*config)

type config struct {
	windowType window.Type
	backend    transform.Backend
	factory    transform.Factory
	workers    int
}

func defaultConfig() config {
	return config{
		windowType: window.TypeHann,
		backend:    transform.BackendAlgoFFT,
		workers:    1,
	}
}

// WithWindow selects the analysis/synthesis window. Default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.windowType = t
	}
}

// WithBackend selects a built-in FFT backend.
func WithBackend(b transform.Backend) Option {
	return func(c *config) {
		c.backend = b
		c.factory = nil
	}
}

// WithTransform installs a custom transform constructor. It takes precedence
// over WithBackend.
func WithTransform(f transform.Factory) Option {
	return func(c *config) {
		if f != nil {
			c.factory = f
		}
	}
}

// WithWorkers sets how many goroutines transform frames. Values below 1
// select sequential processing.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = max(n, 1)
	}
}

// framer holds the validated framing state shared by analysis and synthesis.
type framer struct {
	frameSize  int
	hopSize    int
	bins       int
	windowType window.Type
	window     []float64
	windowSq   []float64
	factory    transform.Factory
	workers    int
}

func newFramer(frameSize, hopSize int, opts []Option) (framer, error) {
	if err := core.ValidateFraming(frameSize, hopSize); err != nil {
		return framer{}, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	factory := cfg.factory
	if factory == nil {
		f, err := cfg.backend.Factory()
		if err != nil {
			return framer{}, core.NewInvalidParameter("fft_backend", cfg.backend, "a known backend")
		}
		factory = f
	}

	// Fail at construction rather than on the first frame.
	if _, err := factory(frameSize); err != nil {
		return framer{}, fmt.Errorf("stft: failed to create transform: %w", err)
	}

	w, err := window.STFT(cfg.windowType, frameSize)
	if err != nil {
		return framer{}, core.NewInvalidParameter("window", cfg.windowType, "a known window type")
	}

	if _, err := window.CheckOverlap(w, hopSize, normFloor); err != nil {
		return framer{}, core.NewInvalidParameter("window", cfg.windowType,
			fmt.Sprintf("a strictly positive overlap envelope at hop %d", hopSize))
	}

	sq := make([]float64, frameSize)
	for i, v := range w {
		sq[i] = v * v
	}

	return framer{
		frameSize:  frameSize,
		hopSize:    hopSize,
		bins:       frameSize/2 + 1,
		windowType: cfg.windowType,
		window:     w,
		windowSq:   sq,
		factory:    factory,
		workers:    cfg.workers,
	}, nil
}

// FrameSize returns N.
func (f *framer) FrameSize() int { return f.frameSize }

// HopSize returns H.
func (f *framer) HopSize() int { return f.hopSize }

// LeadIn returns N-H, the number of zeros Process places before the buffer.
func (f *framer) LeadIn() int { return f.frameSize - f.hopSize }

// Bins returns the number of half-spectrum bins per frame, N/2+1.
func (f *framer) Bins() int { return f.bins }

// WindowType returns the configured window.
func (f *framer) WindowType() window.Type { return f.windowType }

// Window returns a copy of the window coefficients.
func (f *framer) Window() []float64 {
	return append([]float64(nil), f.window...)
}

// Workers returns the configured worker count.
func (f *framer) Workers() int { return f.workers }
