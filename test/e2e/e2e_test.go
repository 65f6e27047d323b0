// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-advisor/internal/artifacts"
	"placement-advisor/internal/common/camunda"
	"placement-advisor/internal/common/config"
	"placement-advisor/internal/common/database"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/models"
	"placement-advisor/internal/predictor"
	"placement-advisor/internal/store"
	predictplacement "placement-advisor/internal/workers/placement/predict-placement"
)

// The suite runs only when E2E_ZEEBE_ADDRESS points at a live gateway.
// Postgres and Redis are expected on localhost with the configs/config.yaml credentials.
const (
	envZeebeAddress = "E2E_ZEEBE_ADDRESS"
	processID       = "placement-prediction"
	modelsDir       = "../../models"
	configPath      = "../../configs/config.yaml"
)

var zeebeClient zbc.Client

func TestMain(m *testing.M) {
	addr := os.Getenv(envZeebeAddress)
	if addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		client, err := camunda.NewClient(ctx, addr)
		cancel()
		if err != nil {
			panic("failed to connect to Zeebe at " + addr + ": " + err.Error())
		}
		zeebeClient = client.GetClient()
	}

	code := m.Run()

	if zeebeClient != nil {
		zeebeClient.Close()
	}
	os.Exit(code)
}

func requireE2E(tb testing.TB) *config.Config {
	tb.Helper()
	if zeebeClient == nil {
		tb.Skipf("%s not set, skipping end-to-end suite", envZeebeAddress)
	}

	cfg, err := config.LoadFromFile(configPath)
	require.NoError(tb, err)

	cfg.Database.Postgres.Enabled = true
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Enabled = true
	cfg.Database.Redis.Address = "localhost:6379"
	return cfg
}

func TestFullE2E(t *testing.T) {
	cfg := requireE2E(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)

	// ==========================
	// 1. Service connectivity
	// ==========================
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "PostgreSQL must be reachable")

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx), "Redis must be reachable")
	require.NoError(t, rdb.Client.FlushDB(ctx).Err())

	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "Zeebe topology request failed")

	// ==========================
	// 2. Audit schema + service wiring
	// ==========================
	audit := store.NewAuditRepository(pg.DB)
	require.NoError(t, audit.EnsureSchema(ctx))

	state := artifacts.NewState(artifacts.NewDirSource(modelsDir), artifacts.LoadOptions{}, log)
	require.NoError(t, state.Load(ctx))

	svc := predictor.NewService(state, log,
		predictor.WithCache(store.NewPredictionCache(rdb.Client, time.Minute)),
		predictor.WithAuditLog(audit),
	)

	handler, err := predictplacement.NewHandler(predictplacement.ConfigFromApp(cfg), svc, log)
	require.NoError(t, err)

	w := camunda.StartWorker(zeebeClient, camunda.WorkerOptions{
		TaskType:      predictplacement.TaskType,
		Name:          "e2e",
		MaxJobsActive: 1,
		Timeout:       30 * time.Second,
	}, handler, log)
	defer w.Stop()

	// ==========================
	// 3. Deploy process
	// ==========================
	_, err = zeebeClient.NewDeployResourceCommand().
		AddResourceFile("testdata/placement-prediction.bpmn").
		Send(ctx)
	require.NoError(t, err, "BPMN deployment failed")

	// ==========================
	// 4. Run instances
	// ==========================
	t.Run("prediction completes and is audited", func(t *testing.T) {
		requestID := "e2e-" + time.Now().Format("20060102150405.000")
		vars := runProcess(t, ctx, map[string]interface{}{
			"requestId": requestID,
			"profile":   createTestProfile(),
		})

		raw, ok := vars["placementResult"]
		require.True(t, ok, "placementResult missing from process variables")

		var result models.PredictionResponse
		require.NoError(t, json.Unmarshal(raw, &result))
		assert.Equal(t, requestID, result.RequestID)
		assert.Equal(t, "heuristic-2024.1", result.ModelVersion)
		assert.GreaterOrEqual(t, result.PlacementProbability, 0.0)
		assert.LessOrEqual(t, result.PlacementProbability, 1.0)
		assert.GreaterOrEqual(t, result.ExpectedSalaryLPA, 3.0)
		assert.LessOrEqual(t, result.ExpectedSalaryLPA, 25.0)

		records, err := audit.Recent(ctx, 10)
		require.NoError(t, err)
		found := false
		for _, r := range records {
			if r.RequestID == requestID {
				found = true
				assert.Equal(t, result.PlacementPrediction, r.Prediction)
			}
		}
		assert.True(t, found, "prediction %s was not audited", requestID)
	})

	t.Run("invalid profile takes the error boundary", func(t *testing.T) {
		profile := createTestProfile()
		profile["cgpa"] = 11.5

		vars := runProcess(t, ctx, map[string]interface{}{
			"requestId": "e2e-invalid",
			"profile":   profile,
		})
		_, ok := vars["placementResult"]
		assert.False(t, ok, "rejected profile must not produce a result")
	})
}

func runProcess(t *testing.T, ctx context.Context, variables map[string]interface{}) map[string]json.RawMessage {
	t.Helper()

	cmd, err := zeebeClient.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(variables)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err, "process instance did not complete")

	vars := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &vars))
	return vars
}

func createTestProfile() map[string]interface{} {
	return map[string]interface{}{
		"cgpa":                 8.2,
		"college_tier":         "Tier 2",
		"backlogs":             0,
		"current_backlogs":     0,
		"internships":          1,
		"projects":             4,
		"certifications":       2,
		"hackathons_won":       1,
		"extracurricular":      3,
		"skills":               []string{"Python", "SQL", "Web Development"},
		"communication_skills": 7,
		"problem_solving":      8,
		"teamwork":             8,
		"leadership":           6,
		"time_management":      7,
		"aptitude_score":       78,
		"coding_score":         82,
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_PredictPlacement(b *testing.B) {
	state := artifacts.NewState(artifacts.NewDirSource(modelsDir), artifacts.LoadOptions{}, logger.NewNoOpLogger())
	if err := state.Load(context.Background()); err != nil {
		b.Fatalf("load artifacts: %v", err)
	}

	svc := predictor.NewService(state, logger.NewNoOpLogger())
	handler, err := predictplacement.NewHandler(predictplacement.DefaultConfig(), svc, logger.NewNoOpLogger())
	if err != nil {
		b.Fatal(err)
	}

	profile, _ := json.Marshal(createTestProfile())
	input := &predictplacement.Input{RequestID: "bench", Profile: profile}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkPredictor_Run(b *testing.B) {
	state := artifacts.NewState(artifacts.NewDirSource(modelsDir), artifacts.LoadOptions{}, logger.NewNoOpLogger())
	if err := state.Load(context.Background()); err != nil {
		b.Fatalf("load artifacts: %v", err)
	}
	bundle, _ := state.Bundle()

	raw, _ := json.Marshal(createTestProfile())
	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		predictor.Run(bundle, &profile)
	}
}
