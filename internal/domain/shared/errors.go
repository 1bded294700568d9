package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidState        = "INVALID_STATE"
	CodeConfiguration       = "CONFIGURATION_ERROR"
	CodeCrossTenant         = "CROSS_TENANT_REFERENCE"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConfiguration       = NewDomainError(CodeConfiguration, "Tenant configuration is incomplete")
	ErrCrossTenant         = NewDomainError(CodeCrossTenant, "Referenced resource belongs to another tenant")
)

// NewInvalidStateError returns a precondition failure with a user-facing message
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(CodeInvalidState, message)
}

// NewConfigurationError returns a configuration failure with a user-facing message
func NewConfigurationError(message string) *DomainError {
	return NewDomainError(CodeConfiguration, message)
}

// NewNotFoundError returns a not found error naming the resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError groups field-level failures raised before persistence
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError creates a validation error for one field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field failure
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns nil when no field failed, so callers can `return v.Err()`
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrValidation is the sentinel matched by every ValidationError
var ErrValidation = errors.New("validation failed")
