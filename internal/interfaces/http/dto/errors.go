package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenMaxRefresh    = "ERR_TOKEN_MAX_REFRESH"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"
	ErrCodeTenantInactive     = "ERR_TENANT_INACTIVE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeCrossTenant         = "ERR_CROSS_TENANT_REFERENCE"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeConfiguration is used when tenant settings block the operation
	ErrCodeConfiguration = "ERR_CONFIGURATION"
	// ErrCodeInsufficientBalance is used when a cash box cannot cover a movement
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusLocked,
	ErrCodeAccountInactive:    http.StatusForbidden,
	ErrCodeTenantInactive:     http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeCrossTenant:         http.StatusUnprocessableEntity,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeConfiguration:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"INSUFFICIENT_BALANCE":   ErrCodeInsufficientBalance,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"CONFIGURATION_ERROR":    ErrCodeConfiguration,
	"CROSS_TENANT_REFERENCE": ErrCodeCrossTenant,
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":         ErrCodeAccountLocked,
	"ACCOUNT_INACTIVE":       ErrCodeAccountInactive,
	"USER_DEACTIVATED":       ErrCodeAccountInactive,
	"TENANT_INACTIVE":        ErrCodeTenantInactive,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_INVALID":          ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":      ErrCodeTokenMaxRefresh,
	"PASSWORD_HASH_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// ALREADY_* codes become state conflicts and INVALID_* codes become input errors.
// Codes already in the new format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "CANNOT_"):
		return ErrCodeInvalidState
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	}
	return code
}
