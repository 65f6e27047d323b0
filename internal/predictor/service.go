package predictor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"placement-advisor/internal/artifacts"
	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/common/metrics"
	"placement-advisor/internal/common/observability"
	"placement-advisor/internal/models"
)

// Cache stores responses per model version and profile.
type Cache interface {
	Get(ctx context.Context, modelVersion string, p *models.Profile) (*models.PredictionResponse, bool, error)
	Set(ctx context.Context, modelVersion string, p *models.Profile, resp *models.PredictionResponse) error
}

// AuditLog persists completed predictions.
type AuditLog interface {
	Record(ctx context.Context, p *models.Profile, resp *models.PredictionResponse) error
}

// EventPublisher announces completed predictions.
type EventPublisher interface {
	PublishPrediction(ctx context.Context, event *models.PredictionEvent) (string, error)
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id that Predict copies into the response.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithAuditLog(a AuditLog) Option { return func(s *Service) { s.audit = a } }

func WithEventPublisher(p EventPublisher) Option { return func(s *Service) { s.events = p } }

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

// Service is the request-facing predictor. The core pipeline writes no shared
// state; cache, audit and events are best-effort side effects.
type Service struct {
	state  *artifacts.State
	cache  Cache
	audit  AuditLog
	events EventPublisher
	obs    *observability.Observability
	logger logger.Logger
	now    func() time.Time
}

func NewService(state *artifacts.State, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		state:  state,
		logger: log.WithFields(map[string]interface{}{"component": "predictor"}),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State exposes the artifact state for health reporting.
func (s *Service) State() *artifacts.State {
	return s.state
}

// Predict scores one profile. It fails with ErrModelsNotReady when no bundle
// is loaded and returns encoder errors unmodified.
func (s *Service) Predict(ctx context.Context, p *models.Profile) (*models.PredictionResponse, error) {
	start := s.now()
	requestID := requestIDFrom(ctx)
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	bundle, ok := s.state.Bundle()
	if !ok {
		err := ErrModelsNotReady
		if loadErr := s.state.Err(); loadErr != nil {
			err = fmt.Errorf("%w: %v", ErrModelsNotReady, loadErr)
		}
		s.observe(ctx, start, err)
		return nil, err
	}

	if resp, hit := s.cached(ctx, bundle.ModelVersion(), p, log); hit {
		s.recordFallbacks(bundle, bundle.Encoder().Fallbacks(p), log)
		resp.RequestID = requestID
		s.observe(ctx, start, nil)
		return resp, nil
	}

	ctx, span := s.startSpan(ctx, "predict", attribute.String("model.version", bundle.ModelVersion()))
	resp, vec, err := run(bundle, p, func(name string) func() {
		_, child := s.startSpan(ctx, "predict."+name)
		return func() { child.End() }
	})
	if err != nil {
		span.RecordError(err)
		span.End()
		log.Warn("Prediction failed", map[string]interface{}{
			"error":   err.Error(),
			"outcome": OutcomeLabel(err),
		})
		s.observe(ctx, start, err)
		return nil, err
	}
	span.End()

	s.recordFallbacks(bundle, vec.Fallbacks, log)

	resp.RequestID = requestID
	s.sideEffects(ctx, p, resp, log)
	s.observe(ctx, start, nil)

	log.Info("Prediction completed", map[string]interface{}{
		"probability": resp.PlacementProbability,
		"prediction":  resp.PlacementPrediction,
		"salaryLpa":   resp.ExpectedSalaryLPA,
		"duration":    s.now().Sub(start).String(),
	})
	return resp, nil
}

func (s *Service) cached(ctx context.Context, version string, p *models.Profile, log logger.Logger) (*models.PredictionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	resp, hit, err := s.cache.Get(ctx, version, p)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		log.Warn("Prediction cache read failed", sideEffectFields(err))
		return nil, false
	case hit:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return resp, true
	default:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (s *Service) recordFallbacks(bundle *artifacts.Bundle, columns []string, log logger.Logger) {
	for _, column := range columns {
		metrics.CategoryFallbacks.WithLabelValues(column).Inc()
		log.Debug("Unseen category encoded with fallback code", map[string]interface{}{
			"column": column,
			"code":   bundle.Encoder().FallbackCode(),
		})
	}
}

func (s *Service) sideEffects(ctx context.Context, p *models.Profile, resp *models.PredictionResponse, log logger.Logger) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, resp.ModelVersion, p, resp); err != nil {
			log.Warn("Prediction cache write failed", sideEffectFields(err))
		}
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, p, resp); err != nil {
			log.Warn("Prediction audit write failed", sideEffectFields(err))
		}
	}
	if s.events != nil {
		event := models.NewPredictionEvent(resp, s.now().UTC().Format(time.RFC3339))
		if _, err := s.events.PublishPrediction(ctx, event); err != nil {
			log.Warn("Prediction event publish failed", sideEffectFields(err))
		}
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.obs == nil {
		return ctx, tracenoop.Span{}
	}
	return s.obs.StartSpan(ctx, name, attrs...)
}

func (s *Service) observe(ctx context.Context, start time.Time, err error) {
	outcome := OutcomeLabel(err)
	elapsed := s.now().Sub(start)
	metrics.PredictionsTotal.WithLabelValues(outcome).Inc()
	metrics.PredictionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordPrediction(ctx, outcome)
		s.obs.RecordPredictionDuration(ctx, elapsed, outcome)
	}
}

func sideEffectFields(err error) map[string]interface{} {
	stdErr := apperrors.Normalize(err)
	return map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"error":     stdErr.Details,
		"retryable": stdErr.Retryable,
	}
}
