package flow

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrStaleResult marks a resolver outcome that belongs to a superseded generation.
	// It never reaches listeners.
	ErrStaleResult = errors.New("stale result discarded")
)

// ValidationError is returned synchronously by Start for unusable input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ResolutionError is delivered through the failed event when the resolver call fails.
type ResolutionError struct {
	Generation uint64
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution failed for generation %d: %v", e.Generation, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
