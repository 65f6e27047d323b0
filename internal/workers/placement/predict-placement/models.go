package predictplacement

import (
	"encoding/json"

	"placement-advisor/internal/models"
)

type Input struct {
	RequestID string          `json:"requestId"`
	Profile   json.RawMessage `json:"profile"`
}

type Output struct {
	PlacementResult *models.PredictionResponse `json:"placementResult"`
}
