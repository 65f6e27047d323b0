package predictplacement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/common/metrics"
	"placement-advisor/internal/common/validation"
	"placement-advisor/internal/predictor"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "predict-placement"

type Handler struct {
	config     *Config
	logger     logger.Logger
	service    *predictor.Service
	errHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, svc *predictor.Service, log logger.Logger) (*Handler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		logger:     log,
		service:    svc,
		errHandler: errors.NewErrorHandler(log, predictor.Classify),
	}, nil
}

func (h *Handler) Config() *Config {
	return h.config
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("Job completed", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"requestId":   input.RequestID,
		"probability": output.PlacementResult.PlacementProbability,
		"duration":    time.Since(start).String(),
	})
}

// Execute validates the profile and runs one prediction.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := validation.ValidateProfileJSON(input.Profile)
	if err != nil {
		return nil, err
	}

	ctx = predictor.ContextWithRequestID(ctx, input.RequestID)
	resp, err := h.service.Predict(ctx, profile)
	if err != nil {
		return nil, err
	}
	return &Output{PlacementResult: resp}, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("parse job variables: %v", err))
	}
	if input.RequestID == "" {
		input.RequestID = fmt.Sprintf("job-%d", job.GetKey())
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	_, err = cmd.Send(ctx)
	return err
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}
