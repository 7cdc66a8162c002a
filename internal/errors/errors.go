package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"sigplot/domain/core"
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError survives; anything else is classified with FromDomain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(FromDomain(err)),
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

// IsAppError checks if an error is or wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeShapeMismatch    = "SHAPE_MISMATCH"
	CodeNonFiniteValue   = "NON_FINITE_VALUE"
	CodeUnknownCategory  = "UNKNOWN_CATEGORY"
)

// FromDomain classifies err by the domain sentinel it wraps. AppErrors pass
// through unchanged; nil stays nil.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	code := CodeInternalError
	switch {
	case core.IsDataError(err):
		code = dataCode(err)
	case stderrors.Is(err, core.ErrUnknownCategoryLabel):
		code = CodeUnknownCategory
	case core.IsConfigurationError(err):
		code = CodeConfigInvalid
	case core.IsNotFoundError(err):
		code = CodeNotFound
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

func dataCode(err error) string {
	switch {
	case stderrors.Is(err, core.ErrShapeMismatch):
		return CodeShapeMismatch
	case stderrors.Is(err, core.ErrNonFiniteValue):
		return CodeNonFiniteValue
	default:
		return CodeInsufficientData
	}
}

// HTTPStatus maps an error code to a response status.
func HTTPStatus(code string) int {
	switch code {
	case CodeInsufficientData, CodeShapeMismatch, CodeNonFiniteValue:
		return http.StatusUnprocessableEntity
	case CodeConfigInvalid, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
