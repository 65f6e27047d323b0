package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = stderrors.New("domain sentinel")

func sentinelClassifier(err error) *StandardError {
	if stderrors.Is(err, errSentinel) {
		return NewModelsNotReadyError(err)
	}
	return nil
}

func TestNormalize(t *testing.T) {
	std := NewInvalidRequestError("bad body")

	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{name: "standard error passes through", err: std, expected: ErrCodeInvalidRequest},
		{name: "wrapped standard error", err: fmt.Errorf("api: %w", std), expected: ErrCodeInvalidRequest},
		{name: "classifier match", err: fmt.Errorf("predict: %w", errSentinel), expected: ErrCodeModelsNotReady},
		{name: "deadline", err: context.DeadlineExceeded, expected: ErrCodeTimeout},
		{name: "unknown", err: stderrors.New("kaboom"), expected: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err, sentinelClassifier)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Code)
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestNormalize_KeepsCause(t *testing.T) {
	got := Normalize(fmt.Errorf("predict: %w", errSentinel), sentinelClassifier)
	assert.ErrorIs(t, got, errSentinel)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeProfileValidationFailed))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidRequest))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeModelsNotReady))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeArtifactLoadFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeMissingFeature))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(ErrCodeTimeout))
}

func TestConvertToBPMNError(t *testing.T) {
	std := NewMissingFeatureError([]string{"gre_score"}, stderrors.New("missing"))

	bpmn := ConvertToBPMNError(std)

	assert.Equal(t, "MISSING_FEATURE", bpmn.Code)
	assert.False(t, bpmn.Retryable)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, []string{"gre_score"}, bpmn.ErrorVariables["missingFeatures"])
	assert.Equal(t, "MISSING_FEATURE", bpmn.ErrorVariables["originalErrorCode"])

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "MISSING_FEATURE", vars["errorCode"])
	assert.Equal(t, "missing", vars["errorDetails"])
}

func TestConvertToBPMNError_RetryableInfrastructure(t *testing.T) {
	bpmn := ConvertToBPMNError(NewDatabaseInsertFailedError(stderrors.New("conn reset")))
	assert.True(t, bpmn.Retryable)
	assert.Equal(t, 3, bpmn.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeMissingFeature))
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeModelsNotReady))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeCacheFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeProfileValidationFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeEventPublishFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeNotFound))
	assert.False(t, IsRetryableErrorCode(ErrCodeScoringFailed))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("role", "astronaut")

	assert.Equal(t, ErrCodeNotFound, err.Code)
	assert.False(t, err.Retryable)
	assert.Equal(t, `role "astronaut" does not exist`, err.Details)
	assert.Equal(t, "astronaut", err.Metadata["role"])
	assert.Equal(t, "NOT_FOUND", ConvertToBPMNError(err).Code)
}
