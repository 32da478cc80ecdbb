// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeMissingFile indicates the input file does not exist or cannot be read
	TypeMissingFile Type = "MISSING_FILE"

	// TypeDataFormat indicates missing columns or unparseable cell values
	TypeDataFormat Type = "DATA_FORMAT"

	// TypeDivisionAnomaly indicates a computation with an undefined result
	TypeDivisionAnomaly Type = "DIVISION_ANOMALY"

	// TypeOutputWrite indicates an artifact could not be written
	TypeOutputWrite Type = "OUTPUT_WRITE"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// MissingFile creates an error for an absent or unreadable input
func MissingFile(path string, cause error) *Error {
	return Wrapf(TypeMissingFile, cause, "cannot read input file %s", path).WithContext("path", path)
}

// DataFormat creates a data format error
func DataFormat(message string, cause error) *Error {
	return Wrap(TypeDataFormat, message, cause)
}

// DivisionAnomaly creates an error for an undefined quotient
func DivisionAnomaly(message string) *Error {
	return New(TypeDivisionAnomaly, message)
}

// OutputWrite creates an error for a failed artifact write
func OutputWrite(path string, cause error) *Error {
	return Wrapf(TypeOutputWrite, cause, "cannot write %s", path).WithContext("path", path)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
