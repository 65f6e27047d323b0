// Package predictor runs one profile through the encoder, both score adapters
// and the advisory rules.
package predictor

import (
	"errors"

	"placement-advisor/internal/advisory"
	"placement-advisor/internal/artifacts"
	"placement-advisor/internal/features"
	"placement-advisor/internal/models"
)

// ErrModelsNotReady is returned while no artifact bundle has been loaded.
var ErrModelsNotReady = errors.New("models not ready")

// Run is the pure prediction pipeline over an explicit bundle.
// Encoder errors, including *features.MissingFeatureError, are returned unmodified.
func Run(b *artifacts.Bundle, p *models.Profile) (*models.PredictionResponse, error) {
	resp, _, err := run(b, p, nil)
	return resp, err
}

// stage is invoked around each pipeline step; the Service uses it for spans.
type stage func(name string) func()

func run(b *artifacts.Bundle, p *models.Profile, around stage) (*models.PredictionResponse, *features.FeatureVector, error) {
	if b == nil {
		return nil, nil, ErrModelsNotReady
	}
	if around == nil {
		around = func(string) func() { return func() {} }
	}

	done := around("encode")
	vec, err := b.Encoder().Encode(p)
	done()
	if err != nil {
		return nil, nil, err
	}

	done = around("score.placement")
	prob, class, err := b.Placement().Score(vec.Values)
	done()
	if err != nil {
		return nil, vec, err
	}

	done = around("score.salary")
	salary, err := b.Salary().ScoreGiven(vec.Values, prob)
	done()
	if err != nil {
		return nil, vec, err
	}

	done = around("advise")
	recs := advisory.Recommend(p, prob)
	gaps := advisory.AnalyzeGaps(p)
	done()

	return &models.PredictionResponse{
		ModelVersion:         b.ModelVersion(),
		PlacementProbability: prob,
		PlacementPrediction:  class,
		ExpectedSalaryLPA:    salary,
		Recommendations:      recs,
		SkillGaps:            gaps,
		Features:             vec.Map(),
	}, vec, nil
}
