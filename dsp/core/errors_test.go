package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomyMatchesSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"invalid parameter", NewInvalidParameter("alpha", -1.0, ">= 0"), ErrInvalidParameter},
		{"insufficient data", &InsufficientDataError{Have: 10, Need: 5120}, ErrInsufficientData},
		{"missing reference", &MissingReferenceError{Method: "adaptive"}, ErrMissingReference},
		{"unknown method", &UnknownMethodError{Method: "magic"}, ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("separation: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range []error{ErrInvalidParameter, ErrInsufficientData, ErrMissingReference, ErrUnknownMethod} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestInvalidParameterErrorAs(t *testing.T) {
	err := fmt.Errorf("denoise: %w", NewInvalidParameter("beta", 1.5, "in [0, 1]"))

	var ipe *InvalidParameterError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "beta", ipe.Name)
	assert.Equal(t, 1.5, ipe.Value)
	assert.Contains(t, err.Error(), "beta=1.5")
}

func TestInsufficientDataErrorMessage(t *testing.T) {
	err := &InsufficientDataError{Have: 100, Need: 5120}
	assert.Equal(t, "insufficient data: have 100 samples, need at least 5120", err.Error())
}
