package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies errors from the backing services, so that callers
// never branch on message text themselves.
type Kind int

const (
	KindUnknown Kind = iota

	// the resource already exists; create-or-get flows treat this as success.
	KindConflict

	// the resource does not exist (yet, or anymore).
	KindNotFound

	// the resource exists but is not in a state accepting the operation.
	// Transient; worth a retry after some wait.
	KindNotReady

	// the service asked us to slow down. Transient.
	KindThrottled

	// the request itself is malformed. Never retried.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindNotReady:
		return "not ready"
	case KindThrottled:
		return "throttled"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Error is a classified failure of one platform operation.
type Error struct {
	Kind     Kind
	Op       string
	Resource string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Resource, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, op string, resource string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Resource: resource, Err: cause}
}

// KindOf extracts the Kind of err. For errors which are not *Error,
// it falls back to Classify.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	pe := new(Error)
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Classify(err)
}

func IsConflict(err error) bool { return KindOf(err) == KindConflict }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsTransient reports whether err is worth another attempt after a wait.
func IsTransient(err error) bool {
	switch KindOf(err) {
	case KindNotReady, KindThrottled:
		return true
	}
	return false
}

// Classify guesses a Kind from an unclassified error's message.
//
// This is a last resort for backends which only speak in message text;
// keep all such substring matching here and nowhere else.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already exists"),
		strings.Contains(msg, "resource_already_exists_exception"),
		strings.Contains(msg, "ConflictException"):
		return KindConflict
	case strings.Contains(msg, "ResourceNotFoundException"),
		strings.Contains(msg, "not found"):
		return KindNotFound
	case strings.Contains(msg, "Agent is in"),
		strings.Contains(msg, "ValidationException"):
		return KindNotReady
	case strings.Contains(msg, "ThrottlingException"),
		strings.Contains(msg, "TooManyRequests"):
		return KindThrottled
	}
	return KindUnknown
}
