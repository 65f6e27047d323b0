package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_RecordsPredictions(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("placement-advisor-test", WithRegisterer(reg), WithoutGlobal())
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	obs.RecordPrediction(ctx, "success")
	obs.RecordPrediction(ctx, "success")
	obs.RecordPredictionDuration(ctx, 12*time.Millisecond, "success")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.True(t, hasPrefix(names, "predictions_processed"), "got %v", names)
	assert.True(t, hasPrefix(names, "predictions_duration"), "got %v", names)
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := New("placement-advisor-test",
		WithRegisterer(promclient.NewRegistry()),
		WithTracing(1.0),
		WithSpanProcessor(recorder),
		WithoutGlobal(),
	)
	defer obs.Shutdown(context.Background())

	_, span := obs.StartSpan(context.Background(), "predict.encode", attribute.Int("features", 26))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "predict.encode", ended[0].Name())
}

func TestObservability_TracingDisabledIsNoop(t *testing.T) {
	obs := New("placement-advisor-test", WithRegisterer(promclient.NewRegistry()), WithoutGlobal())

	_, span := obs.StartSpan(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestObservability_ExporterReceivesSpansOnShutdown(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	obs := New("placement-advisor-test",
		WithRegisterer(promclient.NewRegistry()),
		WithTracing(1.0),
		WithExporter(exporter),
		WithoutGlobal(),
	)

	_, span := obs.StartSpan(context.Background(), "predict")
	span.End()

	// batched spans are flushed by Shutdown
	obs.Shutdown(context.Background())
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "predict", spans[0].Name)
}

func TestNewOTLPExporter(t *testing.T) {
	exp, err := NewOTLPExporter(context.Background(), "localhost:4317", true)
	require.NoError(t, err)
	require.NotNil(t, exp)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, exp.Shutdown(ctx))
}
