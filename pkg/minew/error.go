package minew

import (
	"errors"
	"fmt"
)

// ErrKind classifies an API failure.
type ErrKind string

const (
	// ErrKindConnection marks transport failures such as DNS errors,
	// refused connections and timeouts. The cause is available via Unwrap.
	ErrKindConnection ErrKind = "connection"

	// ErrKindAuth marks rejected credentials or an expired token.
	ErrKindAuth ErrKind = "authentication"

	// ErrKindValidation marks requests the platform rejected as malformed,
	// and parameter errors caught locally before a request is sent.
	ErrKindValidation ErrKind = "validation"

	// ErrKindServer marks platform-side failures and responses the client
	// could not decode.
	ErrKindServer ErrKind = "server"
)

// Error represents a Minew API error.
type Error struct {
	// Kind is the failure category.
	Kind ErrKind `json:"kind"`

	// Code is the platform response code, or the HTTP status when the
	// response carried no envelope. Zero for local and transport errors.
	Code int `json:"code"`

	// Message is the error message.
	Message string `json:"message"`

	// HTTPStatus is the HTTP status code of the failed response.
	HTTPStatus int `json:"-"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("minew: %s (%s, code=%d)", e.Message, e.Kind, e.Code)
	}
	return fmt.Sprintf("minew: %s (%s)", e.Message, e.Kind)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsConnection returns true if this is a transport-level error.
func (e *Error) IsConnection() bool {
	return e.Kind == ErrKindConnection
}

// IsAuth returns true if this is an authentication error.
func (e *Error) IsAuth() bool {
	return e.Kind == ErrKindAuth
}

// IsValidation returns true if this is a validation error.
func (e *Error) IsValidation() bool {
	return e.Kind == ErrKindValidation
}

// IsServer returns true if this is a server-side error.
func (e *Error) IsServer() bool {
	return e.Kind == ErrKindServer
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := minew.AsError(err); ok {
//	    if e.IsAuth() {
//	        // Re-login will not help, credentials are wrong
//	    }
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsConnectionError returns true if err is a connection-classified *Error.
func IsConnectionError(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsConnection()
}

// IsAuthError returns true if err is an authentication-classified *Error.
func IsAuthError(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsAuth()
}

// IsValidationError returns true if err is a validation-classified *Error.
func IsValidationError(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsValidation()
}

// IsServerError returns true if err is a server-classified *Error.
func IsServerError(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsServer()
}

// validationErrorf builds a local validation error. Services use it for
// required-parameter checks so bad input never reaches the network.
func validationErrorf(format string, args ...any) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}
