// Package errors provides standardized error handling for the HTTP API and
// BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeArtifactLoadFailed      ErrorCode = "ARTIFACT_LOAD_FAILED"
	ErrCodeModelsNotReady          ErrorCode = "MODELS_NOT_READY"
	ErrCodeMissingFeature          ErrorCode = "MISSING_FEATURE"
	ErrCodeScoringFailed           ErrorCode = "SCORING_FAILED"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound                ErrorCode = "NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheFailed              ErrorCode = "CACHE_FAILED"
	ErrCodeEventPublishFailed       ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeTimeout  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, details string, retryable bool) *StandardError {
	if details == "" && cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewArtifactLoadFailedError reports that the model artifacts could not be loaded.
func NewArtifactLoadFailedError(err error) *StandardError {
	return newError(ErrCodeArtifactLoadFailed, "Model artifacts failed to load", err, "", false)
}

// NewModelsNotReadyError is returned while no artifact bundle is available.
func NewModelsNotReadyError(err error) *StandardError {
	return newError(ErrCodeModelsNotReady, "Models are not loaded, try again later", err, "", false)
}

// NewMissingFeatureError reports encoder/artifact drift.
func NewMissingFeatureError(missing []string, err error) *StandardError {
	return newError(ErrCodeMissingFeature, "Model expects features the encoder does not produce", err, "", false).
		WithMetadata("missingFeatures", missing)
}

func NewScoringFailedError(err error) *StandardError {
	return newError(ErrCodeScoringFailed, "Model scoring failed", err, "", false)
}

// NewProfileValidationFailedError carries field-level messages in Metadata["fields"].
func NewProfileValidationFailedError(details string, fields []string, err error) *StandardError {
	return newError(ErrCodeProfileValidationFailed, "Profile validation failed", err, details, false).
		WithMetadata("fields", fields)
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", nil, details, false)
}

func NewNotFoundError(resource, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("Unknown %s", resource), nil, fmt.Sprintf("%s %q does not exist", resource, id), false).
		WithMetadata(resource, id)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, "", true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err, "", true)
}

func NewCacheFailedError(op string, err error) *StandardError {
	return newError(ErrCodeCacheFailed, fmt.Sprintf("Cache %s failed", op), err, "", true)
}

func NewEventPublishFailedError(eventType string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed, "Event publish failed",
		err, fmt.Sprintf("type: %s, error: %v", eventType, err), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err, "", true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, "", false)
}

// ==========================
// 4. Error Conversion
// ==========================

// Classifier maps a domain error onto a StandardError, or returns nil.
type Classifier func(err error) *StandardError

// Normalize ensures we always have a StandardError. Classifiers are consulted
// in order before the generic fallbacks.
func Normalize(err error, classifiers ...Classifier) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	for _, classify := range classifiers {
		if se := classify(err); se != nil {
			return se
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("prediction", err)
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the response status of the HTTP API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeProfileValidationFailed, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeModelsNotReady, ErrCodeArtifactLoadFailed:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// BPMNErrorMapping maps internal error codes to BPMN error codes. They are identical.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeArtifactLoadFailed:      "ARTIFACT_LOAD_FAILED",
	ErrCodeModelsNotReady:          "MODELS_NOT_READY",
	ErrCodeMissingFeature:          "MISSING_FEATURE",
	ErrCodeScoringFailed:           "SCORING_FAILED",
	ErrCodeProfileValidationFailed: "PROFILE_VALIDATION_FAILED",
	ErrCodeInvalidRequest:          "INVALID_REQUEST",
	ErrCodeNotFound:                "NOT_FOUND",
	ErrCodeTimeout:                 "TIMEOUT_ERROR",
	ErrCodeInternal:                "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended job retry count for a code.
// Prediction errors are deterministic and never retried; only the
// infrastructure codes are.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeCacheFailed,
		ErrCodeEventPublishFailed:
		return 3
	case ErrCodeTimeout:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ARTIFACT") || strings.Contains(codeStr, "MODELS") || strings.Contains(codeStr, "FEATURE") || strings.Contains(codeStr, "SCORING"):
		return "MODEL"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "EVENT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
