// Package vecforgeerr defines the error kinds shared across vecforge packages.
package vecforgeerr

import "errors"

// Kind classifies a failure so callers can branch with errors.Is.
type Kind int

const (
	// IO wraps a failure from the token source or model persistence collaborators.
	IO Kind = iota
	// UnknownWord is returned when the searcher is queried for a word not in the vocabulary.
	UnknownWord
	// InvalidConfig is returned when a training configuration fails validation.
	InvalidConfig
	// Interrupted is returned when cooperative cancellation aborted a training run.
	Interrupted
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case UnknownWord:
		return "unknown_word"
	case InvalidConfig:
		return "invalid_config"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

var (
	ErrIO            = errors.New("io")
	ErrUnknownWord   = errors.New("unknown word")
	ErrInvalidConfig = errors.New("invalid config")
	ErrInterrupted   = errors.New("interrupted")
)

func sentinelFor(k Kind) error {
	switch k {
	case IO:
		return ErrIO
	case UnknownWord:
		return ErrUnknownWord
	case InvalidConfig:
		return ErrInvalidConfig
	case Interrupted:
		return ErrInterrupted
	default:
		return ErrIO
	}
}

// Error is a kinded, wrapped error. It matches its kind's sentinel under
// errors.Is (via its Is method) and unwraps to the underlying cause, if any.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, vecforgeerr.ErrIO) match any *Error of kind IO.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New builds a kinded error with no underlying cause.
func New(k Kind, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap builds a kinded error around an underlying cause.
func Wrap(k Kind, msg string, cause error) error {
	return &Error{Kind: k, Msg: msg, Cause: cause}
}

// KindOf returns the Kind of err if it (or something it wraps) is a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
