package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorCategory represents the different kinds of failures the pipeline can hit
type ErrorCategory string

const (
	ErrorCategoryNetwork    ErrorCategory = "network"    // fetch/timeout/non-success status reaching the source
	ErrorCategoryParse      ErrorCategory = "parse"      // content present but no extractable records
	ErrorCategoryDatabase   ErrorCategory = "database"   // underlying store not reachable or query failed
	ErrorCategoryNotFound   ErrorCategory = "not_found"  // requested recency rank or date has no data
	ErrorCategoryValidation ErrorCategory = "validation" // malformed request parameter
	ErrorCategoryResource   ErrorCategory = "resource"   // shared resource busy or not ready (backfill running, store still empty)
)

// ServiceError is a standardized error carrying the failure category and
// enough context for structured logging. Handlers use the category to pick
// the HTTP status code.
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// HTTPStatus maps the error category to the status code the API contract uses.
func (e *ServiceError) HTTPStatus() int {
	switch e.Category {
	case ErrorCategoryNotFound:
		return fiber.StatusNotFound
	case ErrorCategoryValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}

// HTTPStatusFor resolves the status code for an arbitrary error, defaulting
// to 500 for anything that is not a ServiceError.
func HTTPStatusFor(err error) int {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.HTTPStatus()
	}
	return fiber.StatusInternalServerError
}

// WrapError wraps an existing error with service error context
func WrapError(err error, category ErrorCategory, code, serviceName, operation string, retryable bool) *ServiceError {
	if err == nil {
		return nil
	}

	// If it's already a ServiceError, update the context on a copy so the
	// original stays intact for any other path holding it
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		rewrapped := *serviceErr
		rewrapped.ServiceName = serviceName
		rewrapped.Operation = operation
		return &rewrapped
	}

	return NewServiceError(category, code, err.Error(), serviceName, operation, retryable, err)
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.IsRetryable()
	}

	// Default heuristics for standard errors
	errorMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout", "connection refused", "connection reset",
		"temporary failure", "service unavailable", "too many requests",
		"network", "dns", "socket",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errorMsg, pattern) {
			return true
		}
	}

	return false
}
