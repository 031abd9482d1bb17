package core

// Framing defaults shared by the spectral processors.
const (
	DefaultSampleRate = 44100
	DefaultFrameSize  = 2048
	DefaultHopSize    = 512
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	FrameSize  int
	HopSize    int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the offline framing defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		FrameSize:  DefaultFrameSize,
		HopSize:    DefaultHopSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the analysis frame length N.
func WithFrameSize(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.FrameSize = n
		}
	}
}

// WithHopSize sets the analysis stride H.
func WithHopSize(h int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if h > 0 {
			cfg.HopSize = h
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ValidateFraming checks N > H > 0.
func ValidateFraming(frameSize, hopSize int) error {
	if hopSize <= 0 {
		return NewInvalidParameter("hop_size", hopSize, "> 0")
	}
	if frameSize <= hopSize {
		return NewInvalidParameter("frame_size", frameSize, "> hop_size")
	}
	return nil
}
