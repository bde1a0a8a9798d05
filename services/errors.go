package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeGeneration    ErrorType = "generation"
	ErrorTypeInternal      ErrorType = "internal"
	ErrorTypeUnavailable   ErrorType = "unavailable"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// NewConfigurationError reports a backend that cannot be used because its
// credential is missing. It is never retried.
func NewConfigurationError(provider string) *DomainError {
	msg := "no generation backend is configured"
	if provider != "" {
		msg = fmt.Sprintf("%s API key not configured", provider)
	}
	return NewDomainError(ErrorTypeConfiguration, msg, nil).WithDetail("provider", provider)
}

// NewGenerationError reports an upstream failure that survived the fallback
// attempt. cause is the last provider error observed.
func NewGenerationError(model string, attempts int, cause error) *DomainError {
	return NewDomainError(ErrorTypeGeneration, "text generation failed", cause).
		WithDetail("model", model).
		WithDetail("attempts", attempts)
}

var (
	ErrGenerationLogNotFound = NewDomainError(ErrorTypeNotFound, "generation log not found", nil)

	ErrEmptyPrompt = NewDomainError(ErrorTypeValidation, "prompt cannot be empty", nil)

	// ErrNoBackendConfigured is returned when no provider family holds a credential
	ErrNoBackendConfigured = NewConfigurationError("")

	ErrAuditTrailDisabled = NewDomainError(ErrorTypeUnavailable, "generation audit trail is not configured", nil)
)

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool { return hasType(err, ErrorTypeNotFound) }

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return hasType(err, ErrorTypeValidation) }

// IsConfigurationError checks if an error reports a missing backend credential
func IsConfigurationError(err error) bool { return hasType(err, ErrorTypeConfiguration) }

// IsGenerationError checks if an error is a terminal upstream generation failure
func IsGenerationError(err error) bool { return hasType(err, ErrorTypeGeneration) }

// IsUnavailableError checks if an error reports a disabled optional subsystem
func IsUnavailableError(err error) bool { return hasType(err, ErrorTypeUnavailable) }

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool { return hasType(err, ErrorTypeInternal) }

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
