package account

import (
	"errors"
	"fmt"
)

// Dispatch errors. Invalid input and unknown accounts are reported instead of
// silently ignored, so callers can tell "nothing happened" from success.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrMissingInput    = errors.New("missing input")
	ErrNoAccounts      = errors.New("backend returned no accounts")
	ErrUnknownBackend  = errors.New("no backend for account kind")
	ErrSessionClosed   = errors.New("session closed")
	ErrBackendRejected = errors.New("backend rejected")
)

// BackendError wraps a failure reported by a wallet, provider or SDK.
// It matches ErrBackendRejected with errors.Is.
type BackendError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is reports ErrBackendRejected as a match.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendRejected
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, field)
}
