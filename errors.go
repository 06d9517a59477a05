package acure

import (
	"errors"
	"fmt"
)

// Sentinel errors for the acure package.
var (
	// ErrUnauthorizedOperation is returned by Write when no drawing session
	// is active. It is the only error the command buffer itself produces.
	ErrUnauthorizedOperation = errors.New("acure: this operation is not authorized")

	// ErrNilSurface is returned when a nil Surface is passed to Begin or Write.
	ErrNilSurface = errors.New("acure: nil surface")
)

// BackendError reports a failure inside a surface implementation.
type BackendError struct {
	// Backend is the registered name of the backend, e.g. "x11".
	Backend string
	// Op is the surface operation that failed, e.g. "begin".
	Op string
	// Err is the underlying error.
	Err error
}

// NewBackendError wraps err as a BackendError.
// It returns nil if err is nil, and err unchanged if it already is a
// *BackendError.
func NewBackendError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Backend: backend, Op: op, Err: err}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("acure: backend %q: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}
