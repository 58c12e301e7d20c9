package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a failure independently of the transport that reports it.
type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeInvalidArgument Code = "invalid_argument"
	CodeConflict        Code = "conflict"
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodeInternal        Code = "internal"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is a generic sentinel for duplicate keys and illegal tree moves.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a generic sentinel for authenticated callers lacking access.
	ErrForbidden = errors.New("forbidden")
	// ErrInternal is a generic sentinel for unexpected persistence failures.
	ErrInternal = errors.New("internal error")
)

var sentinelByCode = map[Code]error{
	CodeNotFound:        ErrNotFound,
	CodeInvalidArgument: ErrInvalidArgument,
	CodeConflict:        ErrConflict,
	CodeUnauthorized:    ErrUnauthorized,
	CodeForbidden:       ErrForbidden,
	CodeInternal:        ErrInternal,
}

// Error is the canonical typed failure returned by services.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, apperr.ErrNotFound) match any Error carrying that code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return sentinelByCode[e.Code] == target
}

func New(code Code, op, message string, cause error) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message), Cause: cause}
}

func NotFound(op, format string, args ...any) error {
	return New(CodeNotFound, op, fmt.Sprintf(format, args...), nil)
}

func InvalidArgument(op, format string, args ...any) error {
	return New(CodeInvalidArgument, op, fmt.Sprintf(format, args...), nil)
}

func Conflict(op, format string, args ...any) error {
	return New(CodeConflict, op, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(op, format string, args ...any) error {
	return New(CodeUnauthorized, op, fmt.Sprintf(format, args...), nil)
}

func Forbidden(op, format string, args ...any) error {
	return New(CodeForbidden, op, fmt.Sprintf(format, args...), nil)
}

// Internal wraps an unexpected failure; the cause stays reachable through errors.Unwrap.
func Internal(op string, cause error) error {
	msg := "internal error"
	if cause != nil {
		msg = cause.Error()
	}
	return New(CodeInternal, op, msg, cause)
}

// CodeOf extracts the failure code, defaulting to internal for untyped errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	for code, sentinel := range sentinelByCode {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
