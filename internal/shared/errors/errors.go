// Package errors provides application-level error types and utilities.
// The taxonomy mirrors how billing failures are handled: validation errors
// go back to the user verbatim, precondition errors leave work pending for
// reconciliation, provider errors hide the raw provider response, and
// consistency-risk errors page an operator.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"

	// ErrorTypePrecondition marks a missing provisioning precondition
	// (no FTP account, no quota rows). The operation is aborted and the
	// underlying order stays PENDING for manual or retried resolution.
	ErrorTypePrecondition ErrorType = "precondition_missing"

	// ErrorTypeProvider wraps an upstream payment-provider failure. The raw
	// provider error is kept in Details for logs and never shown to the user.
	ErrorTypeProvider ErrorType = "provider_error"

	// ErrorTypeConsistencyRisk marks a provider-success/local-failure split:
	// the provider already accepted a mutation the local transaction failed
	// to record. Always operator-actionable, never retried blindly.
	ErrorTypeConsistencyRisk ErrorType = "consistency_risk"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(typ ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    typ,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewPreconditionError creates a precondition-missing error.
func NewPreconditionError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePrecondition, http.StatusConflict, message, details)
}

// NewProviderError creates a provider error. The user-facing message
// stays generic; rawDetail lands in logs only.
func NewProviderError(message string, rawDetail ...string) *AppError {
	return newAppError(ErrorTypeProvider, http.StatusBadGateway, message, rawDetail)
}

// NewConsistencyRiskError creates a consistency-risk error.
func NewConsistencyRiskError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConsistencyRisk, http.StatusInternalServerError, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConflict
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// IsPreconditionError checks if the error is a precondition-missing error
func IsPreconditionError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypePrecondition
}

// IsConsistencyRiskError checks if the error is a consistency-risk error
func IsConsistencyRiskError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConsistencyRisk
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	return false
}
