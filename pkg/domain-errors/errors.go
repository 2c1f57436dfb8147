// Package domainerrors defines the coded error type shared by the gateway.
//
// Services return *Error values (directly or wrapped) and the HTTP layer maps
// the Code to a status and the Message to the response envelope. Codes are
// stable machine-usable reasons; Messages are human-readable.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-usable error reason.
type Code string

const (
	// CodeInvalidInput: a required field is missing or has the wrong shape.
	CodeInvalidInput Code = "invalid_input"
	// CodeConfiguration: the server is missing configuration it needs to serve the request.
	CodeConfiguration Code = "configuration_error"
	// CodeUpstream: the registry answered with a non-2xx status.
	CodeUpstream Code = "upstream_error"
	// CodeNotFound: the registry has nothing for the requested key.
	CodeNotFound Code = "not_found"
	// CodeTransport: the registry could not be reached or its body could not be read.
	CodeTransport Code = "transport_error"
	// CodeInternal: anything unexpected.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string

	// Status overrides the code's default HTTP status. Upstream errors use it
	// to pass the registry status through to the caller.
	Status int

	// Debug is best-effort diagnostic context for the response envelope.
	Debug map[string]any

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status the error should be rendered with.
func (e *Error) HTTPStatus() int {
	if e.Status >= 400 && e.Status <= 599 {
		return e.Status
	}
	return ToHTTPStatus(e.Code)
}

// WithStatus returns the error with an explicit HTTP status.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithDebug attaches a diagnostic key/value pair.
func (e *Error) WithDebug(key string, value any) *Error {
	if e.Debug == nil {
		e.Debug = make(map[string]any)
	}
	e.Debug[key] = value
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// From extracts the outermost *Error from err.
func From(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is reports whether the outermost coded error in err has the given code.
func Is(err error, code Code) bool {
	de, ok := From(err)
	return ok && de.Code == code
}

// ToHTTPStatus maps a code to its default HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeConfiguration, CodeTransport, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
