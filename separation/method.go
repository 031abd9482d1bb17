package separation

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Method selects the suppression algorithm.
type Method int

const (
	// SpectralSubtraction subtracts an oversubtracted noise power estimate.
	SpectralSubtraction Method = iota
	// Wiener applies per-bin Wiener gains against the noise estimate.
	Wiener
	// AdaptiveLMS cancels the component of the primary signal that is
	// linearly predictable from a reference signal.
	AdaptiveLMS
)

var methodNames = map[Method]string{
	SpectralSubtraction: "spectral",
	Wiener:              "wiener",
	AdaptiveLMS:         "adaptive",
}

// Methods returns every supported method.
func Methods() []Method {
	return []Method{SpectralSubtraction, Wiener, AdaptiveLMS}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// NeedsReference reports whether m requires a reference signal.
func (m Method) NeedsReference() bool { return m == AdaptiveLMS }

// ParseMethod resolves a method name. "lms" is accepted for AdaptiveLMS.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "lms" {
		return AdaptiveLMS, nil
	}
	for m, n := range methodNames {
		if n == key {
			return m, nil
		}
	}
	return 0, &core.UnknownMethodError{Method: name}
}

// LMSOutput selects which adaptive filter sequence the engine returns.
type LMSOutput int

const (
	// LMSEstimate returns the running filter estimate y[n].
	LMSEstimate LMSOutput = iota
	// LMSResidual returns e[n] = d[n] − y[n], the echo-removed signal.
	LMSResidual
)

func (o LMSOutput) String() string {
	switch o {
	case LMSEstimate:
		return "estimate"
	case LMSResidual:
		return "residual"
	default:
		return fmt.Sprintf("lms_output(%d)", int(o))
	}
}

// ParseLMSOutput resolves "estimate" or "residual".
func ParseLMSOutput(name string) (LMSOutput, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "estimate":
		return LMSEstimate, nil
	case "residual":
		return LMSResidual, nil
	default:
		return 0, core.NewInvalidParameter("lms_output", name, "estimate or residual")
	}
}
