package core

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInsufficientData = errors.New("insufficient data")
	ErrMissingReference = errors.New("missing reference signal")
	ErrUnknownMethod    = errors.New("unknown method")
)

// InvalidParameterError reports a parameter outside its permitted range.
type InvalidParameterError struct {
	Name       string
	Value      any
	Constraint string
}

// NewInvalidParameter returns an InvalidParameterError for name.
func NewInvalidParameter(name string, value any, constraint string) *InvalidParameterError {
	return &InvalidParameterError{Name: name, Value: value, Constraint: constraint}
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: must be %s", e.Name, e.Value, e.Constraint)
}

// Is reports whether target is ErrInvalidParameter.
func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// InsufficientDataError reports a buffer shorter than an operation needs.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d samples, need at least %d", e.Have, e.Need)
}

// Is reports whether target is ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// MissingReferenceError reports a method that needs a reference signal
// being invoked without one.
type MissingReferenceError struct {
	Method string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("method %q requires a non-empty reference signal", e.Method)
}

// Is reports whether target is ErrMissingReference.
func (e *MissingReferenceError) Is(target error) bool { return target == ErrMissingReference }

// UnknownMethodError reports an unrecognised method selector.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %q", e.Method)
}

// Is reports whether target is ErrUnknownMethod.
func (e *UnknownMethodError) Is(target error) bool { return target == ErrUnknownMethod }
