package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category reported in the "type" field of an error body.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// Codes narrow a type down to a cause clients can branch on.
const (
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStoreFailure       = "STORE_FAILURE"
	CodePublishFailure     = "PUBLISH_FAILURE"
)

// Status is the HTTP status a type is served with. Credential failures are
// FORBIDDEN, so the API never answers 401.
func (t ErrorType) Status() int {
	switch t {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is an error that knows how it is reported to callers.
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Status is the HTTP status the error is served with.
func (e *AppError) Status() int { return e.Type.Status() }

func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func newError(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

// NewValidationError reports a malformed or incomplete request.
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, message)
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, resource+" not found")
}

// NewForbiddenError reports a caller acting on something it does not own.
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return newError(ErrorTypeForbidden, message)
}

// NewMissingCredentialsError reports a request that carried no identity.
func NewMissingCredentialsError(message string) *AppError {
	if message == "" {
		message = "missing credentials"
	}
	return newError(ErrorTypeForbidden, message).WithCode(CodeMissingCredentials)
}

// NewInvalidCredentialsError reports an identity that could not be verified.
func NewInvalidCredentialsError(message string, cause error) *AppError {
	return newError(ErrorTypeForbidden, message).
		WithCode(CodeInvalidCredentials).
		WithCause(cause)
}

// NewInternalError reports a failure the caller cannot fix.
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, message)
}

// NewStoreError reports a failed store call. The operation is kept in the
// cause for logs and never reaches the response message.
func NewStoreError(operation string, err error) *AppError {
	return newError(ErrorTypeInternal, "store operation failed").
		WithCode(CodeStoreFailure).
		WithCause(fmt.Errorf("%s: %w", operation, err))
}

// NewPublishError reports a change event that could not be delivered.
func NewPublishError(target string, err error) *AppError {
	return newError(ErrorTypeInternal, "event publication failed").
		WithCode(CodePublishFailure).
		WithCause(fmt.Errorf("%s: %w", target, err))
}

// GetAppError extracts the first AppError in err's chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err's chain holds an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}
