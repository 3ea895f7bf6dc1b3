// Package errors provides standardized domain errors with codes for the newsstand API.
//
// Services return typed errors:
//
//	return errors.NotFound("collection not found")
//
// Handlers inspect them:
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    w.WriteHeader(domainErr.Code.HTTPStatus())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeConflict           Code = "CONFLICT"
	CodeValidation         Code = "VALIDATION"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a message, and an optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two domain errors by code, so sentinel-style checks work:
//
//	errors.Is(err, errors.NotFound(""))
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Wrap attaches a cause to a domain error, preserving its code.
func Wrap(err *Error, cause error) *Error {
	return &Error{Code: err.Code, Message: err.Message, cause: cause}
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Constructors for each code.

func NotFound(format string, args ...interface{}) *Error {
	return newError(CodeNotFound, format, args...)
}

func AlreadyExists(format string, args ...interface{}) *Error {
	return newError(CodeAlreadyExists, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(CodeConflict, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newError(CodeValidation, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(CodeUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(CodeForbidden, format, args...)
}

func InvalidCredentials(format string, args ...interface{}) *Error {
	return newError(CodeInvalidCredentials, format, args...)
}

func RateLimited(format string, args ...interface{}) *Error {
	return newError(CodeRateLimited, format, args...)
}

func Unavailable(format string, args ...interface{}) *Error {
	return newError(CodeUnavailable, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return newError(CodeInternal, format, args...)
}
