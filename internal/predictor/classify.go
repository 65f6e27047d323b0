package predictor

import (
	"errors"

	"placement-advisor/internal/artifacts"
	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/metrics"
	"placement-advisor/internal/common/validation"
	"placement-advisor/internal/features"
	"placement-advisor/internal/scoring"
)

// Classify maps prediction-path errors onto standard error codes. It is meant
// to be passed to errors.Normalize at the HTTP and job boundaries.
func Classify(err error) *apperrors.StandardError {
	var (
		loadErr    *artifacts.LoadError
		missingErr *features.MissingFeatureError
		validErr   *validation.Error
	)

	switch {
	case errors.Is(err, ErrModelsNotReady):
		return apperrors.NewModelsNotReadyError(err)
	case errors.As(err, &loadErr):
		return apperrors.NewArtifactLoadFailedError(err).WithMetadata("artifact", loadErr.Artifact)
	case errors.As(err, &missingErr):
		return apperrors.NewMissingFeatureError(missingErr.Missing, err)
	case errors.As(err, &validErr):
		return apperrors.NewProfileValidationFailedError(err.Error(), validErr.Fields(), err)
	case errors.Is(err, scoring.ErrDimensionMismatch), errors.Is(err, scoring.ErrInvalidProbability):
		return apperrors.NewScoringFailedError(err)
	}
	return nil
}

// OutcomeLabel returns the metrics outcome for an error.
func OutcomeLabel(err error) string {
	var (
		missingErr *features.MissingFeatureError
		validErr   *validation.Error
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrModelsNotReady):
		return metrics.OutcomeNotReady
	case errors.As(err, &missingErr):
		return metrics.OutcomeMissing
	case errors.As(err, &validErr):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeScoringError
	}
}
