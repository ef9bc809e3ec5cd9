// Package errs defines the coded errors shared across the service.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is an application error code.
type Code string

const (
	InvalidArgument Code = "invalid_argument"
	NotFound        Code = "not_found"
	NotCreated      Code = "not_created"
	NotAuthorized   Code = "not_authorized"
	ExchangeFailed  Code = "exchange_failed"
	Internal        Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// HTTPStatus maps error code to HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case InvalidArgument:
		return http.StatusBadRequest
	case NotAuthorized, ExchangeFailed:
		return http.StatusForbidden
	case NotFound, NotCreated:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Request validation errors. The messages are part of the API contract
// and must not be reworded.

// MissingIDOnUpdate reports an update request without an id.
func MissingIDOnUpdate() error {
	return New(InvalidArgument, "id required for updates")
}

// MissingRequiredOnCreate reports a create request missing a required field.
func MissingRequiredOnCreate(field string) error {
	return New(InvalidArgument, fmt.Sprintf("missing required field %q", field))
}

// IDProvidedOnCreate reports a create request that tried to assign an id.
func IDProvidedOnCreate() error {
	return New(InvalidArgument, "id must not be provided for create")
}

// InvalidOwnerID reports a payload owner that contradicts the
// authenticated caller's identity. Both values are named.
func InvalidOwnerID(payloadOwner, assertedOwner int64) error {
	return New(InvalidArgument, fmt.Sprintf(
		"request header owner_id (%d) does not match data owner_id (%d)",
		payloadOwner, assertedOwner))
}

// IsValidation reports whether err is one of the request validation errors.
func IsValidation(err error) bool {
	return CodeOf(err) == InvalidArgument
}
