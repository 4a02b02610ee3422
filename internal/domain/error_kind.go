package domain

import "errors"

// ErrorKind is the stable, caller-facing classification of a rejected operation.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindDepthExceeded ErrorKind = "depth_exceeded"
	KindInvalidParent ErrorKind = "invalid_parent"
	KindCycleDetected ErrorKind = "cycle_detected"
	KindInvalidRange  ErrorKind = "invalid_range"
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindForbidden     ErrorKind = "forbidden"
	KindInternal      ErrorKind = "internal"
)

// KindOf classifies err. Tree errors are checked first so a wrapped
// DepthExceededError is never reported as a generic validation failure.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDepthExceeded):
		return KindDepthExceeded
	case errors.Is(err, ErrCycleDetected):
		return KindCycleDetected
	case errors.Is(err, ErrInvalidParent):
		return KindInvalidParent
	case errors.Is(err, ErrInvalidRange):
		return KindInvalidRange
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// UserMessage describes a rejection in terms of the attempted action.
func UserMessage(kind ErrorKind) string {
	switch kind {
	case KindDepthExceeded:
		return "can't nest here: maximum depth reached"
	case KindCycleDetected:
		return "can't move an item inside one of its own sub-items"
	case KindInvalidParent:
		return "can't move an item there"
	case KindInvalidRange:
		return "the list changed, refresh and try again"
	case KindNotFound:
		return "this item no longer exists"
	default:
		return ""
	}
}
