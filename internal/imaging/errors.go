package imaging

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a ProcessingError by the pipeline stage that produced it.
type Kind int

const (
	// DecodeFailure means the input bytes are not a parseable image in any
	// supported format, or they exceed the configured decode limits. Retrying
	// the same bytes never helps.
	DecodeFailure Kind = iota + 1

	// EncodeFailure means PNG serialization failed after a successful decode
	// and transform. It indicates an internal fault.
	EncodeFailure
)

func (k Kind) String() string {
	switch k {
	case DecodeFailure:
		return "decode failure"
	case EncodeFailure:
		return "encode failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrEmptyInput is the cause reported for a zero-length payload.
var ErrEmptyInput = errors.New("empty input")

// ProcessingError is the only error type returned by the pipeline.
//
// The message has the form "<kind>: <context>: <cause>", where cause is the
// diagnostic text of the underlying parser or encoder.
type ProcessingError struct {
	Kind Kind
	Err  error
}

func (e *ProcessingError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ProcessingError) Unwrap() error { return e.Err }

// Reason returns the diagnostic without the kind prefix.
func (e *ProcessingError) Reason() string { return e.Err.Error() }

func decodeFailure(err error, format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: DecodeFailure, Err: errors.Wrapf(err, format, args...)}
}

func encodeFailure(err error, format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: EncodeFailure, Err: errors.Wrapf(err, format, args...)}
}

// IsDecodeFailure reports whether err, or any error it wraps, is a DecodeFailure.
func IsDecodeFailure(err error) bool {
	return kindOf(err) == DecodeFailure
}

// IsEncodeFailure reports whether err, or any error it wraps, is an EncodeFailure.
func IsEncodeFailure(err error) bool {
	return kindOf(err) == EncodeFailure
}

func kindOf(err error) Kind {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
