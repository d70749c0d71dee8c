package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeDetector   ErrorType = "detector"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with a discriminated cause
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// LogFields extracts structured logging fields from any error.
func LogFields(err error) []interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.LogFields()
	}
	return []interface{}{"error", err.Error()}
}

// TypeOf reports the discriminated type of err, or ErrorTypeInternal for
// errors that are not AppErrors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// StatusCode maps an error to the HTTP status it should be reported with.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		// A taken login is a conflict with existing state, not a malformed
		// request.
		if appErr.Code == CodeDuplicateLogin {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeDetector:
		// The detector reporting failure is a caller-visible outcome,
		// not an internal fault.
		if appErr.Code == CodeAnalysisFailed {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeParse:
		return http.StatusBadGateway
	case ErrorTypeStorage:
		if appErr.Code == CodeFileConflict {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error codes used across the pipeline stages.
const (
	CodePatientNotFound = "PATIENT_NOT_FOUND"
	CodeInjuryNotFound  = "INJURY_NOT_FOUND"
	CodePhotoNotFound   = "PHOTO_NOT_FOUND"
	CodeFileConflict    = "FILE_CONFLICT"
	CodeFileIO          = "FILE_IO"
	CodeDetectorExit    = "DETECTOR_EXIT"
	CodeDetectorSpawn   = "DETECTOR_SPAWN"
	CodeDetectorTimeout = "DETECTOR_TIMEOUT"
	CodeCanceled        = "CANCELED"
	CodeAnalysisFailed  = "ANALYSIS_FAILED"
	CodeParse           = "PARSE"
	CodeValidation      = "VALIDATION"
	CodeDuplicateLogin  = "DUPLICATE_LOGIN"
	CodeDatabase        = "DB_ERROR"
)

// NewValidationError builds a validation failure naming the offending field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrorTypeValidation, CodeValidation, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithContext("field", field)
}

// NewNotFoundError builds a not-found failure for a referenced entity.
func NewNotFoundError(code, entity string, id uint) *AppError {
	return New(ErrorTypeNotFound, code, fmt.Sprintf("%s %d not found", entity, id)).
		WithContext("id", id)
}

// NewDatabaseError wraps a persistence failure.
func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, CodeDatabase, "database operation failed")
}
