package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
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

// Is reports whether target is an AppError carrying the same code, so callers
// can test error kinds with errors.Is(err, errors.ErrFileNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeFileNotFound      = "FILE_NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedField    = "MALFORMED_FIELD"
	CodeJoinMiss          = "JOIN_MISS"
	CodeRenderError       = "RENDER_ERROR"
	CodeWriteError        = "WRITE_ERROR"
)

// Sentinels for errors.Is checks; only the code is compared.
var (
	ErrConfigInvalid     = New(CodeConfigInvalid, "invalid configuration")
	ErrInvalidInput      = New(CodeInvalidInput, "invalid input")
	ErrFileNotFound      = New(CodeFileNotFound, "file not found")
	ErrUnsupportedFormat = New(CodeUnsupportedFormat, "unsupported format")
	ErrMalformedField    = New(CodeMalformedField, "malformed field")
	ErrJoinMiss          = New(CodeJoinMiss, "identifier join miss")
	ErrRenderError       = New(CodeRenderError, "render failed")
	ErrWriteError        = New(CodeWriteError, "write failed")
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func FileNotFound(path string) *AppError {
	return New(CodeFileNotFound, fmt.Sprintf("file not found: %s", path))
}

func UnsupportedFormat(path, ext string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file format %q: %s", ext, path))
}

// MalformedField reports a field that could not be interpreted for the row
// with the given identifier.
func MalformedField(field, identifier, reason string) *AppError {
	return New(CodeMalformedField, fmt.Sprintf("malformed field %s in row %s: %s", field, identifier, reason))
}

func JoinMiss(message string) *AppError {
	return New(CodeJoinMiss, message)
}

func RenderError(message string, cause error) *AppError {
	return &AppError{Code: CodeRenderError, Message: message, Cause: cause}
}

func WriteError(message string, cause error) *AppError {
	return &AppError{Code: CodeWriteError, Message: message, Cause: cause}
}
