package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so callers (CLI, HTTP) can render it.
type Kind int

const (
	// KindConflict means the operation would violate the one-open-timer
	// invariant, or a per-user lock could not be acquired in time.
	KindConflict Kind = iota + 1
	// KindNotFound means the referenced record does not exist or does not
	// belong to the caller.
	KindNotFound
	// KindState means the operation is invalid for the record's current state.
	KindState
	// KindValidation means the input itself is malformed.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a user-renderable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is lets errors.Is match against a bare &Error{Kind: ...} target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func State(format string, args ...any) error {
	return &Error{Kind: KindState, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or 0 if err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
