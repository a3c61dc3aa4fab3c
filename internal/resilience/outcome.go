// Package resilience classifies failures and carries per-step outcomes.
package resilience

import "go.uber.org/zap/zapcore"

// Kind is the outcome class of a single pipeline step.
type Kind int

const (
	// Success means the step produced its value.
	Success Kind = iota
	// SoftFailure means the step failed but the run continues without it.
	SoftFailure
	// Fatal means the run cannot continue.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case SoftFailure:
		return "soft_failure"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of a step: a value on success, a reason otherwise.
// A soft failure may still carry a partial value.
type Result[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Kind: Success, Value: v}
}

// Soft records a recoverable failure, keeping any partial value.
func Soft[T any](partial T, reason error) Result[T] {
	return Result[T]{Kind: SoftFailure, Value: partial, Err: reason}
}

// Abort records a failure that must stop the run.
func Abort[T any](err error) Result[T] {
	return Result[T]{Kind: Fatal, Err: err}
}

// OK reports whether the step succeeded.
func (r Result[T]) OK() bool { return r.Kind == Success }

// IsFatal reports whether the run must stop.
func (r Result[T]) IsFatal() bool { return r.Kind == Fatal }

// MarshalLogObject lets a Result be logged with zap.Object.
func (r Result[T]) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("outcome", r.Kind.String())
	if r.Err != nil {
		enc.AddString("reason", r.Err.Error())
	}
	return nil
}
