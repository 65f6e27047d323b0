package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"placement-advisor/internal/artifacts"
	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/features"
	"placement-advisor/internal/models"
	"placement-advisor/internal/predictor"
	"placement-advisor/internal/scoring"
	"placement-advisor/pkg/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const validProfileJSON = `{
	"cgpa": 6.5, "college_tier": "Tier 3", "backlogs": 1, "current_backlogs": 0,
	"internships": 0, "projects": 2, "certifications": 0, "hackathons_won": 0,
	"extracurricular": 1, "skills": [], "communication_skills": 5,
	"problem_solving": 6, "teamwork": 6, "leadership": 5, "time_management": 6,
	"aptitude_score": 60, "coding_score": 65
}`

func createTestBundle() *artifacts.Bundle {
	columns := features.ComputedFeatures()
	labels := features.LabelTable{features.CollegeTier: {"Tier 1": 0, "Tier 2": 1, "Tier 3": 2}}
	return artifacts.NewBundle(
		&manifest.Manifest{ModelVersion: "api-test"},
		features.NewEncoder(labels, columns),
		scoring.NewPlacementAdapter(nil, &scoring.LogisticModel{Coefficients: make([]float64, len(columns))}),
		scoring.NewSalaryAdapter(nil, &scoring.LinearModel{Coefficients: make([]float64, len(columns)), Intercept: 7.5}),
	)
}

func createTestServer(t *testing.T, state *artifacts.State) *Server {
	t.Helper()
	log := logger.NewTestLogger(t)
	return NewServer(predictor.NewService(state, log), log, Options{AppName: "test"})
}

func createFailedState(t *testing.T) *artifacts.State {
	t.Helper()
	state := artifacts.NewStateWithLoader(func(context.Context) (*artifacts.Bundle, error) {
		return nil, &artifacts.LoadError{Artifact: "placement_model.json", Source: "dir://models", Err: artifacts.ErrNotFound}
	}, logger.NewNoOpLogger())
	require.Error(t, state.Load(context.Background()))
	return state
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) *apperrors.StandardError {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotNil(t, body.Error)
	return body.Error
}

// ==========================
// Predict Tests
// ==========================

func TestPredict_Success(t *testing.T) {
	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))

	resp, raw := doRequest(t, s, http.MethodPost, "/api/v1/predict", validProfileJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out models.PredictionResponse
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.InDelta(t, 0.5, out.PlacementProbability, 1e-12)
	assert.Equal(t, 1, out.PlacementPrediction)
	assert.Equal(t, 7.5, out.ExpectedSalaryLPA)
	assert.Equal(t, "api-test", out.ModelVersion)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, out.RequestID, resp.Header.Get(headerRequestID))
	assert.Len(t, out.Features, len(features.ComputedFeatures()))
	assert.Equal(t, 2.0, out.Features[features.CollegeTier])
	assert.NotEmpty(t, out.Recommendations)
	assert.NotEmpty(t, out.SkillGaps)
}

func TestPredict_PropagatesRequestID(t *testing.T) {
	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(validProfileJSON))
	req.Header.Set(headerRequestID, "req-42")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out models.PredictionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "req-42", out.RequestID)
	assert.Equal(t, "req-42", resp.Header.Get(headerRequestID))
}

func TestPredict_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "malformed json", body: `{"cgpa":`},
		{name: "missing fields", body: `{"cgpa": 7}`},
		{name: "cgpa out of range", body: strings.Replace(validProfileJSON, `"cgpa": 6.5`, `"cgpa": 11`, 1)},
		{name: "negative backlogs", body: strings.Replace(validProfileJSON, `"backlogs": 1`, `"backlogs": -1`, 1)},
	}

	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doRequest(t, s, http.MethodPost, "/api/v1/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, decodeError(t, raw).Code)
		})
	}
}

func TestPredict_ModelsNotReady(t *testing.T) {
	s := createTestServer(t, createFailedState(t))

	resp, raw := doRequest(t, s, http.MethodPost, "/api/v1/predict", validProfileJSON)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, apperrors.ErrCodeModelsNotReady, decodeError(t, raw).Code)
}

func TestPredict_MissingFeature(t *testing.T) {
	columns := append(features.ComputedFeatures(), "gpa_percentile")
	b := artifacts.NewBundle(
		&manifest.Manifest{ModelVersion: "drift"},
		features.NewEncoder(features.LabelTable{}, columns),
		scoring.NewPlacementAdapter(nil, &scoring.LogisticModel{Coefficients: make([]float64, len(columns))}),
		scoring.NewSalaryAdapter(nil, &scoring.LinearModel{Coefficients: make([]float64, len(columns))}),
	)
	s := createTestServer(t, artifacts.NewReadyState(b))

	resp, raw := doRequest(t, s, http.MethodPost, "/api/v1/predict", validProfileJSON)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	se := decodeError(t, raw)
	assert.Equal(t, apperrors.ErrCodeMissingFeature, se.Code)
	assert.Equal(t, []interface{}{"gpa_percentile"}, se.Metadata["missingFeatures"])
}

// ==========================
// Health & Model Tests
// ==========================

func TestHealth_Ready(t *testing.T) {
	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))

	resp, raw := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "ok", out.Status)
	assert.True(t, out.ModelsLoaded)
	assert.Equal(t, "api-test", out.ModelVersion)
	assert.NotEmpty(t, out.Timestamp)
}

func TestHealth_Degraded(t *testing.T) {
	s := createTestServer(t, createFailedState(t))

	resp, raw := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var out models.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "degraded", out.Status)
	assert.False(t, out.ModelsLoaded)
	assert.Contains(t, out.Error, "placement_model.json")
}

func TestHealth_NeverLoaded(t *testing.T) {
	state := artifacts.NewStateWithLoader(func(context.Context) (*artifacts.Bundle, error) {
		return nil, errors.New("unused")
	}, logger.NewNoOpLogger())
	s := createTestServer(t, state)

	resp, raw := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var out models.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "degraded", out.Status)
	assert.Empty(t, out.Error)
}

func TestModel(t *testing.T) {
	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))

	resp, raw := doRequest(t, s, http.MethodGet, "/api/v1/model", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ModelResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "api-test", out.Manifest.ModelVersion)
	assert.Equal(t, features.ComputedFeatures(), out.FeatureColumns)
}

func TestModel_NotReady(t *testing.T) {
	s := createTestServer(t, createFailedState(t))

	resp, raw := doRequest(t, s, http.MethodGet, "/api/v1/model", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, apperrors.ErrCodeModelsNotReady, decodeError(t, raw).Code)
}

func TestUnknownRoute(t *testing.T) {
	s := createTestServer(t, artifacts.NewReadyState(createTestBundle()))

	resp, _ := doRequest(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
