// Package apperr defines the typed errors returned by the services and the
// HTTP status each kind maps to at the boundary.
package apperr

import "net/http"

// Kind classifies a failure.
type Kind string

const (
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindNotFound       Kind = "NOT_FOUND"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindInvalidState   Kind = "INVALID_STATE"
	KindIssuance       Kind = "ISSUANCE_ERROR"
	KindInternal       Kind = "INTERNAL_ERROR"
	KindBadRequest     Kind = "BAD_REQUEST"
)

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified service error. Message is safe to show to clients;
// Cause carries the collaborator error, if any.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind, so errors.Is(err, apperr.NotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Detail returns the underlying collaborator message, or "" when there is none.
func (e *Error) Detail() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Sentinels for errors.Is checks.
var (
	InvalidRequest = &Error{Kind: KindInvalidRequest, Message: "invalid request"}
	NotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	Unauthorized   = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	InvalidState   = &Error{Kind: KindInvalidState, Message: "invalid state"}
	Issuance       = &Error{Kind: KindIssuance, Message: "token issuance failed"}
	Internal       = &Error{Kind: KindInternal, Message: "internal error"}
	BadRequest     = &Error{Kind: KindBadRequest, Message: "bad request"}
)

// New creates an error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error that carries the collaborator's failure.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
