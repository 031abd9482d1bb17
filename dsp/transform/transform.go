package transform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errLength     = errors.New("transform: buffer length mismatch")
	errSize       = errors.New("transform: unsupported size")
	errBackend    = errors.New("transform: unknown backend")
	errNilFactory = errors.New("transform: nil factory")
)

// Transform is a fixed-size complex DFT.
//
// Forward computes X[k] = Σ x[n]·e^{-2πi·kn/N}. Inverse computes the
// normalised inverse, x[n] = (1/N)·Σ X[k]·e^{+2πi·kn/N}, so that
// Inverse(Forward(x)) reproduces x to floating-point accuracy.
//
// dst and src must both have length Len(); they may alias. A Transform
// holds scratch state and is not safe for concurrent use.
type Transform interface {
	Len() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

// Factory creates independent Transform instances of size n.
type Factory func(n int) (Transform, error)

// Backend selects an FFT implementation.
type Backend int

const (
	// BackendAlgoFFT uses github.com/MeKo-Christian/algo-fft plans.
	// Power-of-two sizes only.
	BackendAlgoFFT Backend = iota
	// BackendGonum uses gonum's mixed-radix complex FFT. Any size.
	BackendGonum
	// BackendGoDSP uses github.com/mjibson/go-dsp. Any size.
	BackendGoDSP
)

var backendNames = map[Backend]string{
	BackendAlgoFFT: "algofft",
	BackendGonum:   "gonum",
	BackendGoDSP:   "godsp",
}

// Backends lists the available implementations.
func Backends() []Backend {
	return []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP}
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend resolves a backend name. "" selects BackendAlgoFFT.
func ParseBackend(name string) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return BackendAlgoFFT, nil
	}
	for b, n := range backendNames {
		if n == key {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errBackend, name)
}

// Factory returns the constructor for b.
func (b Backend) Factory() (Factory, error) {
	switch b {
	case BackendAlgoFFT:
		return NewAlgoFFT, nil
	case BackendGonum:
		return NewGonum, nil
	case BackendGoDSP:
		return NewGoDSP, nil
	default:
		return nil, fmt.Errorf("%w: %d", errBackend, int(b))
	}
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func checkLen(n int, dst, src []complex128) error {
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("%w: want %d, got dst=%d src=%d", errLength, n, len(dst), len(src))
	}
	return nil
}
