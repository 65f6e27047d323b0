package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placement-advisor/internal/api"
	"placement-advisor/internal/artifacts"
	"placement-advisor/internal/common/aws"
	"placement-advisor/internal/common/camunda"
	"placement-advisor/internal/common/config"
	"placement-advisor/internal/common/database"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/common/metrics"
	"placement-advisor/internal/common/observability"
	"placement-advisor/internal/models"
	"placement-advisor/internal/predictor"
	"placement-advisor/internal/store"
	pp "placement-advisor/internal/workers/placement/predict-placement"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting placement advisor", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx := context.Background()

	var obsOpts []observability.Option
	if tr := cfg.Observability.Tracing; tr.Enabled {
		obsOpts = append(obsOpts, observability.WithTracing(tr.SampleRatio))
		if tr.Exporter == config.TraceExporterOTLP {
			exp, err := observability.NewOTLPExporter(ctx, tr.OTLPEndpoint, tr.Insecure)
			if err != nil {
				log.Error("Trace exporter init failed", map[string]interface{}{"error": err.Error()})
				os.Exit(1)
			}
			obsOpts = append(obsOpts, observability.WithExporter(exp))
			log.Info("Exporting traces", map[string]interface{}{"endpoint": tr.OTLPEndpoint})
		}
	}
	obs := observability.New(cfg.Observability.ServiceName, obsOpts...)

	// --- Artifacts ---
	src, err := artifactSource(ctx, cfg)
	if err != nil {
		log.Error("Artifact source init failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	state := artifacts.NewState(src, artifacts.LoadOptions{
		ManifestFile: cfg.Artifacts.Manifest,
		FallbackCode: cfg.Artifacts.FallbackCode,
	}, log)
	if err := state.Load(ctx); err != nil {
		// keep serving; /health reports degraded until restart
		log.Warn("Serving without models", map[string]interface{}{"error": err.Error()})
	}
	metrics.SetArtifactsLoaded(state.Ready())

	svcOpts := []predictor.Option{predictor.WithObservability(obs)}

	// --- Redis prediction cache ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled {
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = retryWithBackoff(func() error { return redisClient.Ping(ctx) }, 5, time.Second, log, "Redis connection")
		}
		if err != nil {
			log.Warn("Prediction cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			svcOpts = append(svcOpts, predictor.WithCache(
				store.NewPredictionCache(redisClient.Client, config.GetDuration(cfg.Database.Redis.CacheTTL)),
			))
			log.Info("Redis connected successfully", nil)
		}
	}

	// --- PostgreSQL audit log ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err == nil {
			err = retryWithBackoff(func() error { return pg.Ping(ctx) }, 10, 2*time.Second, log, "PostgreSQL connection")
		}
		if err != nil {
			log.Warn("Prediction audit log disabled", map[string]interface{}{"error": err.Error()})
		} else {
			audit := store.NewAuditRepository(pg.DB)
			if err := audit.EnsureSchema(ctx); err != nil {
				log.Warn("Audit schema check failed", map[string]interface{}{"error": err.Error()})
			}
			svcOpts = append(svcOpts, predictor.WithAuditLog(audit))
			log.Info("PostgreSQL connected successfully", nil)
		}
	}

	// --- SNS prediction events ---
	if snsCfg := cfg.Integrations.AWS.SNS; snsCfg.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			log.Warn("Prediction events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			svcOpts = append(svcOpts, predictor.WithEventPublisher(aws.NewEventPublisher(snsClient, snsCfg.TopicARN)))
		}
	}

	svc := predictor.NewService(state, log, svcOpts...)

	// --- HTTP API ---
	apiServer := api.NewServer(svc, log, api.Options{
		AppName:        cfg.App.Name,
		ReadTimeout:    config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:   config.GetDuration(cfg.Server.WriteTimeout),
		RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
		BodyLimit:      cfg.Server.BodyLimit,
	})
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		log.Info("API listening", map[string]interface{}{"addr": addr})
		if err := apiServer.Listen(addr); err != nil {
			log.Error("API server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Zeebe worker ---
	var (
		zeebe  *camunda.Client
		worker *camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, pp.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda.BrokerAddress)
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			log.Error("Zeebe worker disabled", map[string]interface{}{"error": err.Error()})
		} else {
			handler, err := pp.NewHandler(pp.ConfigFromApp(cfg), svc, log)
			if err != nil {
				log.Error("Failed to create worker handler", map[string]interface{}{"error": err.Error()})
				os.Exit(1)
			}
			worker = camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
				TaskType:      pp.TaskType,
				Name:          cfg.App.Name,
				MaxJobsActive: handler.Config().MaxJobsActive,
				Timeout:       handler.Config().Timeout,
			}, handler, log)
		}
	}

	// --- Ops server: metrics and health checks ---
	opsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.OpsPort),
		Handler:           opsMux(state),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if worker != nil {
		worker.Stop()
	}
	if zeebe != nil {
		_ = zeebe.Close()
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("API shutdown error", map[string]interface{}{"error": err.Error()})
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Ops server shutdown error", map[string]interface{}{"error": err.Error()})
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pg != nil {
		_ = pg.Close()
	}
	obs.Shutdown(shutdownCtx)

	log.Info("Placement advisor stopped", nil)
}

func artifactSource(ctx context.Context, cfg *config.Config) (artifacts.Source, error) {
	if cfg.Artifacts.Source == config.ArtifactSourceS3 {
		client, err := aws.NewS3Client(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		return artifacts.NewS3Source(client, cfg.Artifacts.S3.Bucket, cfg.Artifacts.S3.Prefix), nil
	}
	return artifacts.NewDirSource(cfg.Artifacts.Dir), nil
}

func opsMux(state *artifacts.State) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	// Liveness: always 200 so a model load failure does not restart the pod.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := models.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if b, ok := state.Bundle(); ok {
			resp.ModelsLoaded = true
			resp.ModelVersion = b.ModelVersion()
		} else {
			resp.Status = "degraded"
			if err := state.Err(); err != nil {
				resp.Error = err.Error()
			}
		}
		writeJSON(w, http.StatusOK, resp)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !state.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
