package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies supervisor failures by how they are handled: only
// spawn failures are fatal, everything else is a degraded-service condition.
type ErrorType string

const (
	ErrorTypeSpawn               ErrorType = "spawn"
	ErrorTypeInvalidLimit        ErrorType = "invalid_limit"
	ErrorTypeProcessNotFound     ErrorType = "process_not_found"
	ErrorTypeUnsupportedPlatform ErrorType = "unsupported_platform"
	ErrorTypeValidation          ErrorType = "validation"
	ErrorTypeProcess             ErrorType = "process"
	ErrorTypeInternal            ErrorType = "internal"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches errors by type, so errors.Is works across wrapped causes
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewSpawnError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeSpawn, message, cause)
}

func NewInvalidLimitError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInvalidLimit, message, cause)
}

func NewProcessNotFoundError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeProcessNotFound, message, cause)
}

func NewUnsupportedPlatformError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeUnsupportedPlatform, message, cause)
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

func NewProcessError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeProcess, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, cause)
}

// Error checking helpers
func IsSpawnError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeSpawn
}

func IsInvalidLimitError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeInvalidLimit
}

func IsProcessNotFoundError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeProcessNotFound
}

func IsUnsupportedPlatformError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeUnsupportedPlatform
}

func IsValidationError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeValidation
}

func IsProcessError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeProcess
}

func IsInternalError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeInternal
}
