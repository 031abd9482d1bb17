package core

import (
	"errors"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithFrameSize(1024), WithHopSize(256))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.FrameSize != 1024 || cfg.HopSize != 256 {
		t.Fatalf("framing = %d/%d, want 1024/256", cfg.FrameSize, cfg.HopSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithFrameSize(-1), WithHopSize(0))
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestValidateFraming(t *testing.T) {
	tests := []struct {
		name  string
		n, h  int
		valid bool
	}{
		{name: "defaults", n: 2048, h: 512, valid: true},
		{name: "zero hop", n: 2048, h: 0},
		{name: "negative hop", n: 2048, h: -4},
		{name: "hop equals frame", n: 512, h: 512},
		{name: "hop exceeds frame", n: 256, h: 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFraming(tt.n, tt.h)
			if tt.valid {
				if err != nil {
					t.Fatalf("ValidateFraming() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("ValidateFraming() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
