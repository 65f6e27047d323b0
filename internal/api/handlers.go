package api

import (
	"context"
	"time"

	"placement-advisor/internal/common/validation"
	"placement-advisor/internal/models"
	"placement-advisor/internal/predictor"
	"placement-advisor/pkg/manifest"

	"github.com/gofiber/fiber/v3"
)

// ModelResponse describes the loaded bundle.
type ModelResponse struct {
	Manifest       manifest.Manifest `json:"manifest"`
	FeatureColumns []string          `json:"feature_columns"`
	FallbackCode   int               `json:"fallback_code"`
}

func (s *Server) predict(c fiber.Ctx) error {
	p, err := validation.ValidateProfileJSON(c.Body())
	if err != nil {
		return err
	}

	ctx := predictor.ContextWithRequestID(c.Context(), requestID(c))
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	resp, err := s.svc.Predict(ctx, p)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) health(c fiber.Ctx) error {
	state := s.svc.State()
	resp := models.HealthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	if b, ok := state.Bundle(); ok {
		resp.ModelsLoaded = true
		resp.ModelVersion = b.ModelVersion()
		return c.Status(fiber.StatusOK).JSON(resp)
	}

	resp.Status = "degraded"
	if err := state.Err(); err != nil {
		resp.Error = err.Error()
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
}

func (s *Server) model(c fiber.Ctx) error {
	b, ok := s.svc.State().Bundle()
	if !ok {
		return predictor.ErrModelsNotReady
	}
	return c.Status(fiber.StatusOK).JSON(ModelResponse{
		Manifest:       b.Manifest(),
		FeatureColumns: b.Columns(),
		FallbackCode:   b.Encoder().FallbackCode(),
	})
}
