package scoring

import (
	"fmt"
	"math"
)

// Identity passes vectors through unchanged. It stands in for a missing scaler.
type Identity struct{}

func (Identity) Transform(x []float64) ([]float64, error) {
	return append([]float64(nil), x...), nil
}

// StandardScaler applies (x - mean) / scale per column.
// A zero scale is treated as 1, matching a fitted scaler on a constant column.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) || len(x) != len(s.Scale) {
		return nil, fmt.Errorf("%w: scaler fitted on %d features, got %d", ErrDimensionMismatch, len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// LogisticModel is a fitted binary logistic regression.
type LogisticModel struct {
	Coefficients []float64
	Intercept    float64
	Threshold    float64
}

func (m *LogisticModel) PredictProba(x []float64) (float64, error) {
	z, err := dot(m.Coefficients, x)
	if err != nil {
		return 0, err
	}
	return sigmoid(z + m.Intercept), nil
}

func (m *LogisticModel) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return classify(p, m.Threshold), nil
}

// LinearModel is a fitted ordinary linear regression.
type LinearModel struct {
	Coefficients []float64
	Intercept    float64
}

func (m *LinearModel) Predict(x []float64) (float64, error) {
	z, err := dot(m.Coefficients, x)
	if err != nil {
		return 0, err
	}
	return z + m.Intercept, nil
}

func dot(w, x []float64) (float64, error) {
	if len(w) != len(x) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, len(w), len(x))
	}
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func classify(p, threshold float64) int {
	if threshold <= 0 {
		threshold = 0.5
	}
	if p >= threshold {
		return 1
	}
	return 0
}
