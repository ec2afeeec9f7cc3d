package domain

import (
	"errors"
	"fmt"
)

// Configuration errors: the inputs do not describe a valid problem. These are
// raised before any simulation or matrix work starts.
var (
	ErrParameterCount   = errors.New("parameter count mismatch")
	ErrUnboundParameter = errors.New("parameter binding mismatch")
	ErrUnknownQubit     = errors.New("qubit not in register")
	ErrDuplicateQubit   = errors.New("duplicate qubit")
	ErrQubitCount       = errors.New("qubit count mismatch")
	ErrOracleValue      = errors.New("invalid oracle value")
	ErrUnknownMethod    = errors.New("unknown optimization method")
	ErrUnknownAnsatz    = errors.New("unknown ansatz")
	ErrInvalidTolerance = errors.New("invalid tolerance")
	ErrTooLarge         = errors.New("problem exceeds exact simulation limits")
)

// Numerical errors: the inputs were well formed but the computation could not
// produce a trustworthy number.
var (
	ErrNonHermitian = errors.New("operator is not hermitian")
	ErrNotConverged = errors.New("solver did not converge")
)

// ConfigError labels a configuration failure with the component that detected it.
type ConfigError struct {
	Component string
	Err       error
	Detail    string
}

// NewConfigError creates a configuration error
func NewConfigError(component string, err error, detail string) *ConfigError {
	return &ConfigError{Component: component, Err: err, Detail: detail}
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: configuration error: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("%s: configuration error: %v: %s", e.Component, e.Err, e.Detail)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NumericalError labels a numerical or solver failure.
type NumericalError struct {
	Component string
	Err       error
	Detail    string
}

// NewNumericalError creates a numerical error
func NewNumericalError(component string, err error, detail string) *NumericalError {
	return &NumericalError{Component: component, Err: err, Detail: detail}
}

func (e *NumericalError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: numerical error: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("%s: numerical error: %v: %s", e.Component, e.Err, e.Detail)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsNumericalError reports whether err is (or wraps) a numerical error.
func IsNumericalError(err error) bool {
	var ne *NumericalError
	return errors.As(err, &ne)
}
