package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a per-image failure. Every kind is recovered at the task
// boundary into a failed result record; none of them aborts the batch.
type Kind string

const (
	InvalidImageGeometry Kind = "InvalidImageGeometry"
	ImageDecodeError     Kind = "ImageDecodeError"
	SchemaMismatch       Kind = "SchemaMismatch"
	ModelLoadError       Kind = "ModelLoadError"
	InferenceError       Kind = "InferenceError"
	TimeoutError         Kind = "TimeoutError"
)

// Error carries a kind alongside the usual message chain.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error from a format string.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies an existing error, keeping it unwrappable.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind from anywhere in the chain. Unclassified errors
// (allocation failures and the like) report as InferenceError only when they
// come out of the inference path; callers pass the fallback.
func KindOf(err error, fallback Kind) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return fallback
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
