package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType int

const (
	ErrorTypeConfig ErrorType = iota
	ErrorTypeFileSystem
	ErrorTypeMetadata
	ErrorTypeConsole
	ErrorTypePlatform
)

// Sentinel causes. Boundary functions collapse all of them to a zero result.
var (
	ErrNoMetadata  = errors.New("no metadata")
	ErrUnsupported = errors.New("unsupported on this platform")
	ErrMalformed   = errors.New("malformed metadata")
	ErrNoConsole   = errors.New("no console attached")
)

// String returns a string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeMetadata:
		return "metadata"
	case ErrorTypeConsole:
		return "console"
	case ErrorTypePlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s [%s]: %s", e.Type, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(operation, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeConfig,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewFileSystemError creates a new filesystem error
func NewFileSystemError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeFileSystem,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewMetadataError creates a new metadata error
func NewMetadataError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeMetadata,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewConsoleError creates a new console error
func NewConsoleError(operation, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeConsole,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewPlatformError creates a new platform capability error
func NewPlatformError(operation, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypePlatform,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsNoMetadata reports whether err means "nothing attached", including an
// unsupported storage mechanism.
func IsNoMetadata(err error) bool {
	return errors.Is(err, ErrNoMetadata) || errors.Is(err, ErrUnsupported)
}
