package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: symbol unknown or provider data insufficient. A valid outcome, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest: caller input rejected before any work started
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderFailure: transport or parse error from the remote provider.
	// Never surfaces past the gateway.
	ErrProviderFailure = errors.New("provider failure")
)

// InvalidRequestError carries the reason a request was rejected
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// NewInvalidRequest builds an InvalidRequestError
func NewInvalidRequest(format string, args ...interface{}) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// ProviderError wraps a remote failure for one symbol
func ProviderError(source, symbol string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrProviderFailure, source, symbol, err)
}
