package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Execute when a previous execution on
	// the same executor is still running or pending resumption.
	ErrAlreadyStarted = errors.New("chain: execution already started")

	// ErrAlreadyResumed is returned when a suspension is resumed or failed
	// more than once. Exactly-once delivery is a hard invariant; a duplicate
	// delivery is a caller bug and is reported loudly rather than swallowed.
	ErrAlreadyResumed = errors.New("chain: suspension already resumed")

	// ErrEmptyRegistry signals a pop from an empty continuation registry.
	// It is an internal invariant breach: correct use of the engine can
	// never surface it, so the engine treats it as fatal.
	ErrEmptyRegistry = errors.New("chain: continuation registry is empty")
)

// InterceptorError wraps a failure raised by an interceptor, carrying the
// original cause and the position at which it was raised.
type InterceptorError struct {
	Interceptor string
	Index       int
	Cause       error
}

// Error implements the error interface
func (e *InterceptorError) Error() string {
	return fmt.Sprintf("chain: interceptor %q (index %d) failed: %v", e.Interceptor, e.Index, e.Cause)
}

// Unwrap returns the original cause
func (e *InterceptorError) Unwrap() error { return e.Cause }

// PanicError carries a panic recovered from an interceptor, converted into
// an ordinary failure so it propagates like any other interceptor error.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("chain: interceptor panicked: %v", e.Value)
}
