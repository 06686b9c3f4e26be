package errors

import (
	stderrors "errors"
	"fmt"

	"hetracker/domain/core"
)

// AppError is an error carrying a stable code for the API and CLI layers
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap adds context to err. The code of an inner AppError is kept,
// otherwise it is derived from the domain sentinel err wraps.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
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
	var appErr *AppError
	if stderrors.As(err, &appErr) {
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
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain. Bare
// domain errors map onto the code of their sentinel.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, core.ErrNoProvider):
		return CodeNoProvider
	case stderrors.Is(err, core.ErrUnsupportedBreakdown),
		stderrors.Is(err, core.ErrNoDemographic),
		stderrors.Is(err, core.ErrMultipleDemographics):
		return CodeUnsupportedBreakdown
	case stderrors.Is(err, core.ErrInvalidDatasetID),
		stderrors.Is(err, core.ErrUnknownDimension):
		return CodeInvalidInput
	case stderrors.Is(err, core.ErrDatasetNotFound),
		stderrors.Is(err, core.ErrNotFound):
		return CodeNotFound
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnsupportedBreakdown = "UNSUPPORTED_BREAKDOWN"
	CodeNoProvider           = "NO_PROVIDER"
)

// IsClientError is true for codes caused by a bad request rather than a
// failure of the service
func IsClientError(code string) bool {
	switch code {
	case CodeInvalidInput, CodeUnsupportedBreakdown, CodeNoProvider:
		return true
	}
	return false
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
