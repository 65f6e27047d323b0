// internal/models/prediction.go
package models

// PredictionResponse is the outbound record for one inference call.
type PredictionResponse struct {
	RequestID            string             `json:"request_id,omitempty"`
	ModelVersion         string             `json:"model_version,omitempty"`
	PlacementProbability float64            `json:"placement_probability"`
	PlacementPrediction  int                `json:"placement_prediction"`
	ExpectedSalaryLPA    float64            `json:"expected_salary_lpa"`
	Recommendations      []string           `json:"recommendations"`
	SkillGaps            []string           `json:"skill_gaps"`
	Features             map[string]float64 `json:"features"`
}

// HealthResponse is returned by the liveness surface.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
	Error        string `json:"error,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// EventPredictionCompleted is the event type emitted after a successful prediction.
const EventPredictionCompleted = "prediction.completed"

// PredictionEvent is the compact record published after a successful prediction.
type PredictionEvent struct {
	Type                 string  `json:"type"`
	RequestID            string  `json:"requestId"`
	ModelVersion         string  `json:"modelVersion"`
	PlacementProbability float64 `json:"placementProbability"`
	PlacementPrediction  int     `json:"placementPrediction"`
	ExpectedSalaryLPA    float64 `json:"expectedSalaryLpa"`
	OccurredAt           string  `json:"occurredAt"`
}

// NewPredictionEvent builds the completion event for a response.
func NewPredictionEvent(resp *PredictionResponse, occurredAt string) *PredictionEvent {
	return &PredictionEvent{
		Type:                 EventPredictionCompleted,
		RequestID:            resp.RequestID,
		ModelVersion:         resp.ModelVersion,
		PlacementProbability: resp.PlacementProbability,
		PlacementPrediction:  resp.PlacementPrediction,
		ExpectedSalaryLPA:    resp.ExpectedSalaryLPA,
		OccurredAt:           occurredAt,
	}
}
