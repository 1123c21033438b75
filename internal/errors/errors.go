package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - invalid input data or flags
	ErrorTypeValidation
	// Parse errors - source code that cannot be parsed
	ErrorTypeParse
	// FileSystem errors - file I/O failures
	ErrorTypeFileSystem
	// Storage errors - cache or history database failures
	ErrorTypeStorage
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - significant issue, the current target is lost
	SeverityHigh
	// SeverityCritical - must be addressed, stops execution
	SeverityCritical
)

// Error represents a structured error with context
type Error struct {
	Type     ErrorType
	Severity Severity
	Message  string
	Cause    error
	Context  map[string]interface{}

	stack error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop execution
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// StackTrace returns the stack captured when the error was created
func (e *Error) StackTrace() string {
	if e.stack == nil {
		return ""
	}
	trace := fmt.Sprintf("%+v", e.stack)
	// First line is the placeholder message, the rest is the stack
	if idx := strings.IndexByte(trace, '\n'); idx >= 0 {
		return strings.TrimLeft(trace[idx:], "\n")
	}
	return ""
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		typeString(e.Type),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for k, v := range e.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}

	if trace := e.StackTrace(); trace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", trace))
	}

	return sb.String()
}

func typeString(t ErrorType) string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeParse:
		return "PARSE"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeStorage:
		return "STORAGE"
	case ErrorTypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// String returns the upper-case severity name
func (s Severity) String() string {
	return severityString(s)
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:     errType,
		Severity: severity,
		Message:  message,
		Context:  make(map[string]interface{}),
		stack:    pkgerrors.New("stack"),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:     errType,
		Severity: severity,
		Message:  message,
		Cause:    err,
		Context:  make(map[string]interface{}),
		stack:    pkgerrors.New("stack"),
	}
}

// Convenience constructors for common error types

// ConfigError creates a configuration error
func ConfigError(message string) *Error {
	return New(ErrorTypeConfig, SeverityCritical, message)
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, SeverityHigh, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// ParseErrorAt reports a syntax error at a 1-based line and 0-based column
func ParseErrorAt(line, col int, format string, args ...interface{}) *Error {
	return New(ErrorTypeParse, SeverityHigh, fmt.Sprintf(format, args...)).
		WithContext("line", line).
		WithContext("col", col)
}

// FileSystemError wraps a filesystem error
func FileSystemError(err error, message string) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, message)
}

// FileSystemErrorf wraps a filesystem error with formatting
func FileSystemErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, fmt.Sprintf(format, args...))
}

// StorageError wraps a cache or history database error
func StorageError(err error, message string) *Error {
	return Wrap(err, ErrorTypeStorage, SeverityMedium, message)
}

// StorageErrorf wraps a storage error with formatting
func StorageErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeStorage, SeverityMedium, fmt.Sprintf(format, args...))
}

// InternalError creates an internal error
func InternalError(message string) *Error {
	return New(ErrorTypeInternal, SeverityCritical, message)
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// IsFatal checks if an error is fatal (should stop execution)
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.IsFatal()
	}
	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity
	}

	return SeverityMedium
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err, or any error it wraps, is of type t
func IsType(err error, t ErrorType) bool {
	return stderrors.Is(err, &Error{Type: t})
}
