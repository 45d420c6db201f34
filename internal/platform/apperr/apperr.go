package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the boundary layer can translate it into an
// HTTP status and a stable error code without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindTenantMissing
	KindAuthorization
	KindValidation
	KindNotFound
	KindConflict
	KindDatabase
)

// Code returns the stable machine-readable code rendered in the response
// envelope.
func (k Kind) Code() string {
	switch k {
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindTenantMissing:
		return "TENANT_MISSING"
	case KindAuthorization:
		return "AUTHORIZATION_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindDatabase:
		return "DATABASE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is the tagged error type used at the repository and service
// boundaries. It carries a Kind, a caller-facing message, and an optional
// wrapped cause for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given kind and message wrapping cause.
// A nil cause returns nil.
func Wrap(cause error, kind Kind, format string, args ...interface{}) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the Kind of err, unwrapping as needed. Errors that are not
// *Error report KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Convenience constructors for the common kinds.

func Authentication(format string, args ...interface{}) *Error {
	return New(KindAuthentication, format, args...)
}

func TenantMissing(format string, args ...interface{}) *Error {
	return New(KindTenantMissing, format, args...)
}

func Authorization(format string, args ...interface{}) *Error {
	return New(KindAuthorization, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

// Database wraps a storage failure. The caller-facing message stays generic;
// the cause is retained for logs only.
func Database(cause error) *Error {
	return &Error{Kind: KindDatabase, Message: "storage operation failed", Err: cause}
}
