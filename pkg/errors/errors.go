// Package errors provides structured error handling for idbridge
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents missing or malformed configuration
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeConnector represents an unresolved system identifier or a failed connector construction
	ErrorTypeConnector ErrorType = "connector"
	// ErrorTypeInvalidID represents a malformed identifier passed to get/update/delete
	ErrorTypeInvalidID ErrorType = "invalid_id"
	// ErrorTypeAPI represents a failure reported by the backend (non-zero status code)
	ErrorTypeAPI ErrorType = "api"
	// ErrorTypeTransport represents a network-layer failure talking to the backend.
	// It is a subtype of ErrorTypeAPI: IsAPI reports true for both.
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeValidation represents a required field that was absent
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a backend object that does not exist
	ErrorTypeNotFound ErrorType = "not_found"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame

	// Code is the backend status code (API errors) or HTTP status (transport errors), 0 when unknown.
	Code int
	// System is the connector system identifier, set on connector errors.
	System string
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Config creates a configuration error. cause may be nil.
func Config(message string, cause error) *Error {
	e := New(ErrorTypeConfig, message)
	e.Cause = cause
	return e
}

// Connector creates a connector error naming the system and the underlying cause.
func Connector(system string, cause error) *Error {
	e := New(ErrorTypeConnector, fmt.Sprintf("connector error for system '%s'", system))
	e.Cause = cause
	e.System = system
	return e
}

// InvalidID creates an error for an identifier the backend cannot accept.
func InvalidID(id string) *Error {
	return New(ErrorTypeInvalidID, fmt.Sprintf("invalid person ID: %s", id)).WithDetail("id", id)
}

// API creates an error for a backend-reported failure. The message carries both
// the code and the backend message.
func API(code int, message string) *Error {
	e := New(ErrorTypeAPI, fmt.Sprintf("API error (%d): %s", code, message))
	e.Code = code
	return e
}

// Transport creates an error for a network-layer failure. status is the HTTP
// status when a response was received, 0 otherwise.
func Transport(status int, cause error) *Error {
	e := New(ErrorTypeTransport, "HTTP error")
	e.Cause = cause
	e.Code = status
	return e
}

// Validation creates an error for required fields missing from an operation.
// field may be a comma separated list.
func Validation(field, operation string) *Error {
	verb := "is"
	if strings.Contains(field, ",") {
		verb = "are"
	}
	return New(ErrorTypeValidation, fmt.Sprintf("%s %s required for %s", field, verb, operation)).
		WithDetail("field", field)
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsAPI reports whether err is a backend failure, including transport failures.
func IsAPI(err error) bool {
	return IsType(err, ErrorTypeAPI) || IsType(err, ErrorTypeTransport)
}

// CodeOf returns the backend or HTTP status code carried by err, 0 when absent.
func CodeOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}
	return e.Code
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
