package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeConfiguration   = "CONFIGURATION_ERROR"
	CodeOverloaded      = "UPSTREAM_OVERLOADED"
	CodeQuotaExceeded   = "UPSTREAM_QUOTA_EXCEEDED"
	CodeTimeout         = "UPSTREAM_TIMEOUT"
	CodeMalformedOutput = "MALFORMED_UPSTREAM_OUTPUT"
	CodeUpstreamFailure = "UPSTREAM_FAILURE"
	CodeStorage         = "STORAGE_ERROR"
	CodeCache           = "CACHE_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(message, code string, statusCode int) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithContext(context map[string]any) *AppError {
	e.Context = context
	return e
}

// NewConfigurationError reports a missing or unusable credential. Fatal for
// the operation, never retried.
func NewConfigurationError(message string) *AppError {
	return New(message, CodeConfiguration, 500)
}

func NewOverloadedError(cause error) *AppError {
	return New("upstream model overloaded", CodeOverloaded, 503).WithCause(cause)
}

func NewQuotaExceededError(cause error) *AppError {
	return New("upstream quota exceeded", CodeQuotaExceeded, 429).WithCause(cause)
}

func NewTimeoutError(cause error) *AppError {
	return New("upstream request timed out", CodeTimeout, 504).WithCause(cause)
}

func NewMalformedOutputError(cause error) *AppError {
	return New("malformed upstream output", CodeMalformedOutput, 502).WithCause(cause)
}

func NewUpstreamError(message string, statusCode int, cause error) *AppError {
	return New(message, CodeUpstreamFailure, statusCode).WithCause(cause)
}

func NewStorageError(message, operation string, cause error) *AppError {
	return New(message, CodeStorage, 500).WithCause(cause).WithContext(map[string]any{
		"operation": operation,
	})
}

func NewCacheError(message, operation, key string, cause error) *AppError {
	return New(message, CodeCache, 500).WithCause(cause).WithContext(map[string]any{
		"operation": operation,
		"key":       key,
	})
}

func NewValidationError(message, field string) *AppError {
	return New(message, CodeValidation, 400).WithContext(map[string]any{
		"field": field,
	})
}

// CodeOf extracts the error code, or an empty string for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsRetryable reports whether a classification call may be reattempted after
// this error. Quota exhaustion and configuration problems never are: the
// first degrades immediately, the second cannot heal on its own.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case CodeOverloaded, CodeTimeout, CodeMalformedOutput, CodeUpstreamFailure:
		return true
	default:
		return false
	}
}
