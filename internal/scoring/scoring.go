// Package scoring wraps the pre-fitted placement and salary models behind a
// small capability contract: a standardization transform followed by a predictor.
package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Salary bounds in lakhs per annum. Every salary estimate is clamped into this range.
const (
	MinSalaryLPA = 3.0
	MaxSalaryLPA = 25.0
)

var (
	ErrDimensionMismatch  = errors.New("feature dimension mismatch")
	ErrInvalidProbability = errors.New("classifier returned probability outside [0,1]")
)

// Transformer applies a pre-fitted transform to a feature vector.
type Transformer interface {
	Transform(x []float64) ([]float64, error)
}

// Classifier scores a transformed vector for the positive placement class.
type Classifier interface {
	PredictProba(x []float64) (float64, error)
	Predict(x []float64) (int, error)
}

// Regressor produces a raw salary estimate from a transformed vector.
type Regressor interface {
	Predict(x []float64) (float64, error)
}

// ConditionedRegressor is a Regressor whose estimate also depends on the
// placement probability scored for the same vector.
type ConditionedRegressor interface {
	Regressor
	PredictGiven(x []float64, placementProb float64) (float64, error)
}

// PlacementAdapter chains the placement scaler and classifier.
type PlacementAdapter struct {
	scaler Transformer
	model  Classifier
}

func NewPlacementAdapter(scaler Transformer, model Classifier) *PlacementAdapter {
	if scaler == nil {
		scaler = Identity{}
	}
	return &PlacementAdapter{scaler: scaler, model: model}
}

// Score returns the positive-class probability and the predicted class label.
func (a *PlacementAdapter) Score(vec []float64) (float64, int, error) {
	x, err := a.scaler.Transform(vec)
	if err != nil {
		return 0, 0, fmt.Errorf("placement scaler: %w", err)
	}

	prob, err := a.model.PredictProba(x)
	if err != nil {
		return 0, 0, fmt.Errorf("placement probability: %w", err)
	}
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidProbability, prob)
	}

	class, err := a.model.Predict(x)
	if err != nil {
		return 0, 0, fmt.Errorf("placement class: %w", err)
	}

	return prob, class, nil
}

// SalaryAdapter chains the salary scaler and regressor and clamps the result.
type SalaryAdapter struct {
	scaler Transformer
	model  Regressor
}

func NewSalaryAdapter(scaler Transformer, model Regressor) *SalaryAdapter {
	if scaler == nil {
		scaler = Identity{}
	}
	return &SalaryAdapter{scaler: scaler, model: model}
}

// Score returns the salary estimate clamped to [MinSalaryLPA, MaxSalaryLPA].
func (a *SalaryAdapter) Score(vec []float64) (float64, error) {
	x, err := a.scaler.Transform(vec)
	if err != nil {
		return 0, fmt.Errorf("salary scaler: %w", err)
	}

	raw, err := a.model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("salary model: %w", err)
	}

	return ClampSalary(raw), nil
}

// ScoreGiven is Score for a vector whose placement probability is already known.
// Models that are not conditioned on the probability ignore it.
func (a *SalaryAdapter) ScoreGiven(vec []float64, placementProb float64) (float64, error) {
	cond, ok := a.model.(ConditionedRegressor)
	if !ok {
		return a.Score(vec)
	}

	x, err := a.scaler.Transform(vec)
	if err != nil {
		return 0, fmt.Errorf("salary scaler: %w", err)
	}

	raw, err := cond.PredictGiven(x, placementProb)
	if err != nil {
		return 0, fmt.Errorf("salary model: %w", err)
	}

	return ClampSalary(raw), nil
}

// ClampSalary bounds a raw model output. NaN maps to the floor.
func ClampSalary(v float64) float64 {
	if math.IsNaN(v) {
		return MinSalaryLPA
	}
	return math.Max(MinSalaryLPA, math.Min(MaxSalaryLPA, v))
}
