package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

// ErrorKind classifies authentication failures.
type ErrorKind string

const (
	KindMissingToken       ErrorKind = "MISSING_TOKEN"
	KindTokenExpired       ErrorKind = "TOKEN_EXPIRED"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindUserNotFound       ErrorKind = "USER_NOT_FOUND"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

// Error is returned by every authentication operation. Callers switch on Kind,
// never on Message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingToken       = &Error{Kind: KindMissingToken, Message: "Missing or invalid token"}
	ErrTokenExpired       = &Error{Kind: KindTokenExpired, Message: "Token has expired"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound, Message: "User not found"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
)

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf reports the kind of err. Errors that did not originate here are internal.
func KindOf(err error) ErrorKind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}

// ToDomainError converts an authentication error to the HTTP error envelope.
func ToDomainError(err error) error {
	var authErr *Error
	if !errors.As(err, &authErr) {
		return apperrors.NewInternalError(err)
	}
	switch authErr.Kind {
	case KindUserNotFound:
		return apperrors.NewDomainError(string(authErr.Kind), authErr.Message, http.StatusNotFound, nil)
	case KindInternal:
		return apperrors.NewInternalError(authErr)
	default:
		return apperrors.NewDomainError(string(authErr.Kind), authErr.Message, http.StatusUnauthorized, nil)
	}
}
