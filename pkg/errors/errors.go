// Package errors provides structured error handling for the tester.
// It defines AppError type with error codes so that aborts can be reported consistently.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002
	CodeUnauthorized  = 1003
	CodeCanceled      = 1004

	// Server process errors (1100-1199)
	CodeLaunchFailed    = 1100
	CodeCommandNotFound = 1101
	CodeServerNotReady  = 1102
	CodeTerminateFailed = 1103

	// HTTP errors (1200-1299)
	CodeRequestFailed   = 1200
	CodeDecodeFailed    = 1201
	CodeUnsupportedVerb = 1202

	// Storage errors (1500-1599)
	CodeDBError      = 1500
	CodeDBOpenFailed = 1501
	CodeRowNotFound  = 1502

	// Config errors (1600-1699)
	CodeConfigInvalid = 1600
	CodeConfigIO      = 1601
	CodeTokenMissing  = 1602
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetDetail extracts detail from error, empty if none
func GetDetail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return ""
}

// Predefined common errors
var (
	ErrUnauthorized = New(CodeUnauthorized, "Unauthorized")
	ErrTokenMissing = New(CodeTokenMissing, "No bearer token configured")
)
