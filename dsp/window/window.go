package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeSqrtHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
	TypeTriangle
	TypeTukey
)

var typeNames = map[Type]string{
	TypeRectangular:    "rectangular",
	TypeHann:           "hann",
	TypeSqrtHann:       "sqrt-hann",
	TypeHamming:        "hamming",
	TypeBlackman:       "blackman",
	TypeBlackmanHarris: "blackman-harris",
	TypeTriangle:       "triangle",
	TypeTukey:          "tukey",
}

var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanCoeffs       = []float64{0.42, -0.5, 0.08}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
)

// Types returns all supported window types in declaration order.
func Types() []Type {
	return []Type{
		TypeRectangular,
		TypeHann,
		TypeSqrtHann,
		TypeHamming,
		TypeBlackman,
		TypeBlackmanHarris,
		TypeTriangle,
		TypeTukey,
	}
}

// String returns the canonical lower-case name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// ParseType resolves a window name (case-insensitive, "_" and "-" equivalent).
func ParseType(name string) (Type, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for t, n := range typeNames {
		if n == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha     float64
	periodic  bool
	halfShift bool
}

func defaultConfig() config {
	return config{alpha: 0.5}
}

// WithAlpha configures the taper fraction of the Tukey window, in [0, 1].
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 && v <= 1 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithHalfSampleShift samples the window at n+0.5 instead of n. Combined
// with WithPeriodic this keeps every coefficient strictly positive while
// preserving the overlap-add behaviour of the periodic form.
func WithHalfSampleShift() Option {
	return func(c *config) {
		c.halfShift = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg), cfg)
	}

	return out
}

// STFT returns the window form used for frame analysis and synthesis:
// periodic and half-sample shifted.
func STFT(t Type, length int, opts ...Option) ([]float64, error) {
	if err := validateLength(length); err != nil {
		return nil, err
	}
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", errUnknownType, int(t))
	}

	opts = append([]Option{WithPeriodic(), WithHalfSampleShift()}, opts...)

	return Generate(t, length, opts...), nil
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	x = math.Min(math.Max(x, 0), 1)

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeSqrtHann:
		return math.Sqrt(math.Max(0, cosineFromCoeffs(x, hannCoeffs)))
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return math.Max(0, cosineFromCoeffs(x, blackmanCoeffs))
	case TypeBlackmanHarris:
		return cosineFromCoeffs(x, blackmanHarrisCoeffs)
	case TypeTriangle:
		return 1 - math.Abs(2*x-1)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, cfg config) float64 {
	if size <= 1 {
		return 0.5
	}

	pos := float64(n)
	if cfg.halfShift {
		pos += 0.5
	}

	den := float64(size - 1)
	if cfg.periodic {
		den = float64(size)
	}

	return pos / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
