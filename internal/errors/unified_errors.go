// Package errors provides the application error type used across the service
// boundary. Domain packages return their own typed errors; this package
// classifies them for transport and logging.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"samarth/internal/domain/aggregate"
	"samarth/internal/domain/dataset"
)

// ============================================================================
// ERROR TYPES AND CLASSIFICATION
// ============================================================================

// ErrorType defines the category of error for proper handling and response.
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeNoData      ErrorType = "NO_DATA"
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// ErrorSeverity defines the severity level for logging and monitoring.
type ErrorSeverity string

const (
	SeverityLow    ErrorSeverity = "LOW"
	SeverityMedium ErrorSeverity = "MEDIUM"
	SeverityHigh   ErrorSeverity = "HIGH"
)

// Error codes for programmatic handling.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeQuestionTooLong    = "QUESTION_TOO_LONG"
	CodeUnknownRegion      = "UNKNOWN_REGION"
	CodeEmptySeries        = "EMPTY_SERIES"
	CodeInvalidDataset     = "INVALID_DATASET"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeDatasetReadOnly    = "DATASET_READ_ONLY"
	CodeInternal           = "INTERNAL_ERROR"
)

// ============================================================================
// UNIFIED ERROR STRUCTURE
// ============================================================================

// UnifiedError is the single error type used at the service boundary.
type UnifiedError struct {
	Type      ErrorType     `json:"type"`
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Operation string        `json:"operation,omitempty"`
	RequestID string        `json:"requestId,omitempty"`
	Severity  ErrorSeverity `json:"severity"`
	Cause     error         `json:"-"`
	File      string        `json:"-"`
	Line      int           `json:"-"`
}

// Error implements the error interface.
func (e *UnifiedError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the underlying cause.
func (e *UnifiedError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type onto a status code.
func (e *UnifiedError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeNoData:
		return http.StatusUnprocessableEntity
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================================
// ERROR BUILDER FOR FLUENT CONSTRUCTION
// ============================================================================

// ErrorBuilder provides a fluent interface for constructing UnifiedError instances.
type ErrorBuilder struct {
	error *UnifiedError
}

// NewError creates a new error builder with the specified type and message.
func NewError(errType ErrorType, code, message string) *ErrorBuilder {
	_, file, line, _ := runtime.Caller(1)

	return &ErrorBuilder{
		error: &UnifiedError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Severity: SeverityMedium,
			File:     file,
			Line:     line,
		},
	}
}

// WithDetails adds additional details to the error.
func (b *ErrorBuilder) WithDetails(details string) *ErrorBuilder {
	b.error.Details = details
	return b
}

// WithOperation specifies the operation that failed.
func (b *ErrorBuilder) WithOperation(operation string) *ErrorBuilder {
	b.error.Operation = operation
	return b
}

// WithRequestID adds request tracing information.
func (b *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	b.error.RequestID = requestID
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.error.Severity = severity
	return b
}

// WithCause adds the underlying cause error.
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.error.Cause = cause
	return b
}

// Build returns the constructed UnifiedError.
func (b *ErrorBuilder) Build() *UnifiedError {
	return b.error
}

// ============================================================================
// CONVENIENCE CONSTRUCTORS
// ============================================================================

// Validation creates a validation error.
func Validation(code, message string) *ErrorBuilder {
	return NewError(ErrorTypeValidation, code, message).WithSeverity(SeverityLow)
}

// NotFound creates a not found error.
func NotFound(code, message string) *ErrorBuilder {
	return NewError(ErrorTypeNotFound, code, message).WithSeverity(SeverityLow)
}

// NoData creates an error for computations that had nothing to compute over.
func NoData(code, message string) *ErrorBuilder {
	return NewError(ErrorTypeNoData, code, message).WithSeverity(SeverityLow)
}

// Internal creates an internal error.
func Internal(code, message string) *ErrorBuilder {
	return NewError(ErrorTypeInternal, code, message).WithSeverity(SeverityHigh)
}

// Unavailable creates an error for a dependency that cannot serve right now.
func Unavailable(code, message string) *ErrorBuilder {
	return NewError(ErrorTypeUnavailable, code, message).WithSeverity(SeverityHigh)
}

// ============================================================================
// ERROR CLASSIFICATION AND CHECKING
// ============================================================================

// IsType checks if an error is of a specific type.
func IsType(err error, errType ErrorType) bool {
	var unifiedErr *UnifiedError
	if errors.As(err, &unifiedErr) {
		return unifiedErr.Type == errType
	}
	return false
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsNoData checks if an error reports missing data points.
func IsNoData(err error) bool {
	return IsType(err, ErrorTypeNoData)
}

// IsUnavailable checks if an error reports an unavailable dependency.
func IsUnavailable(err error) bool {
	return IsType(err, ErrorTypeUnavailable)
}

// FromDomain classifies an error coming out of the domain packages. Errors
// that are already unified are returned as-is; unrecognized errors become
// internal errors that keep the original as their cause.
func FromDomain(err error, operation string) *UnifiedError {
	if err == nil {
		return nil
	}

	var unified *UnifiedError
	if errors.As(err, &unified) {
		return unified
	}

	var (
		unknown *dataset.UnknownRegionError
		empty   *aggregate.EmptySeriesError
		invalid *dataset.InvalidDataError
	)
	switch {
	case errors.As(err, &unknown):
		return NotFound(CodeUnknownRegion, "region not found").
			WithDetails(unknown.Region).WithOperation(operation).WithCause(err).Build()
	case errors.As(err, &empty):
		return NoData(CodeEmptySeries, "no data available").
			WithDetails(empty.Error()).WithOperation(operation).WithCause(err).Build()
	case errors.As(err, &invalid):
		return Validation(CodeInvalidDataset, "dataset is invalid").
			WithDetails(invalid.Error()).WithOperation(operation).WithCause(err).Build()
	default:
		return Internal(CodeInternal, "internal error").
			WithDetails(err.Error()).WithOperation(operation).WithCause(err).Build()
	}
}
