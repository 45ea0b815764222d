// Package errors provides structured error types for nodegraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Mapping of library sentinel errors to codes and HTTP statuses
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - GRAPH_* and CYCLE_*: Graph mutation rejected
//   - NETWORK_*: Cache backend failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid node id: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Classify errors returned by pkg/tree, pkg/resolver or pkg/cache
//	e := errors.From(err)
//	w.WriteHeader(e.HTTPStatus())
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/nodegraph/pkg/cache"
	"github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/resolver"
	"github.com/matzehuels/nodegraph/pkg/tree"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidNodeID   Code = "INVALID_NODE_ID"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeValueRequired   Code = "VALUE_REQUIRED"

	// Graph mutation errors
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeGraphFrozen   Code = "GRAPH_FROZEN"
	ErrCodeNotFrozen     Code = "GRAPH_NOT_FROZEN"
	ErrCodeConflict      Code = "VALUE_CONFLICT"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeResolverNotFound Code = "RESOLVER_NOT_FOUND"

	// Resolution errors
	ErrCodeResolutionFailed Code = "RESOLUTION_FAILED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code that best describes the error.
func (e *Error) HTTPStatus() int {
	return StatusCode(e.Code)
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// sentinels maps library errors to codes. Order matters: the first match wins,
// so more specific errors come before the ones they wrap.
var sentinels = []struct {
	err  error
	code Code
}{
	{tree.ErrUnknownResolver, ErrCodeResolverNotFound},
	{tree.ErrResolutionFailed, ErrCodeResolutionFailed},
	{tree.ErrCycle, ErrCodeCycleDetected},
	{tree.ErrFrozen, ErrCodeGraphFrozen},
	{tree.ErrValueRequired, ErrCodeValueRequired},
	{tree.ErrMalformed, ErrCodeInvalidDocument},
	{resolver.ErrNotFrozen, ErrCodeNotFrozen},
	{resolver.ErrConflict, ErrCodeConflict},
	{resolver.ErrNotFound, ErrCodeNodeNotFound},
	{io.ErrDuplicateID, ErrCodeInvalidInput},
	{io.ErrUnknownNode, ErrCodeInvalidInput},
	{cache.ErrNetwork, ErrCodeNetwork},
	{cache.ErrNotFound, ErrCodeNotFound},
	{cache.ErrCacheMiss, ErrCodeNotFound},
	{context.DeadlineExceeded, ErrCodeTimeout},
}

// From classifies err into an *Error. An err that already carries a code is
// returned unchanged; library sentinels are mapped to their codes and
// anything else becomes ErrCodeInternal. From(nil) returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidNodeID, ErrCodeInvalidDocument,
		ErrCodeInvalidConfig, ErrCodeValueRequired:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeNodeNotFound, ErrCodeResolverNotFound:
		return http.StatusNotFound
	case ErrCodeCycleDetected, ErrCodeGraphFrozen, ErrCodeNotFrozen, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeResolutionFailed, ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
