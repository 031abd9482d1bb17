package window

import (
	"errors"
	"fmt"
)

var (
	errUnknownType      = errors.New("window: unknown type")
	errMismatchedLength = errors.New("window: samples and coefficients must have same length")
	errZeroEnergy       = errors.New("window: overlap envelope has zero energy")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}
