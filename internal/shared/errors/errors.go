package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION_ERROR"
	ErrorTypeProvider    ErrorType = "AUTH_PROVIDER_ERROR"
	ErrorTypeSession     ErrorType = "SESSION_ERROR"
	ErrorTypeStore       ErrorType = "STORE_ERROR"
	ErrorTypeUpstream    ErrorType = "UPSTREAM_ERROR"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE_ERROR"
)

// FormKey collects errors that do not belong to a single field.
const FormKey = "form"

// ErrPartitionDenied is returned when a principal touches another user's partition.
var ErrPartitionDenied = errors.New("partition access denied")

// AppError represents a custom application error with context
type AppError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Code     string    `json:"code,omitempty"`
	HTTPCode int       `json:"-"`
	Cause    error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause. Never call it on a package-level
// sentinel; wrap the sentinel with fmt.Errorf instead.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewProviderError creates an identity provider error. The message is shown to the user.
func NewProviderError(code, message string, httpCode int) *AppError {
	return NewAppError(ErrorTypeProvider, message, httpCode).WithCode(code)
}

func NewSessionError(message string) *AppError {
	return NewAppError(ErrorTypeSession, message, http.StatusInternalServerError)
}

func NewStoreError(message string) *AppError {
	return NewAppError(ErrorTypeStore, message, http.StatusInternalServerError)
}

// NewUpstreamError is used for failures of the generative model services.
func NewUpstreamError(message string) *AppError {
	return NewAppError(ErrorTypeUpstream, message, http.StatusBadGateway)
}

// NewUnavailableError marks a feature that is switched off by configuration.
func NewUnavailableError(message string) *AppError {
	return NewAppError(ErrorTypeUnavailable, message, http.StatusServiceUnavailable)
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
}

// NewValidationErrors creates a new validation errors instance
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}

// Add adds a validation error
func (ve *ValidationErrors) Add(field, message string, value interface{}) *ValidationErrors {
	ve.Errors = append(ve.Errors, ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
	return ve
}

// HasErrors returns true if there are validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Has reports whether the field has at least one error.
func (ve *ValidationErrors) Has(field string) bool {
	for _, e := range ve.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Fields groups messages by field in insertion order. This is the shape the
// form state carries back to the client.
func (ve *ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(ve.Errors))
	for _, e := range ve.Errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func IsStore(err error) bool {
	return isType(err, ErrorTypeStore)
}

// HTTPStatus picks the response status for err from the first AppError in its
// chain. Validation errors are 422; everything else defaults to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
