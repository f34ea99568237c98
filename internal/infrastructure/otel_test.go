package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molidata/internal/config"
)

func TestInitializeTelemetry(t *testing.T) {
	tests := []struct {
		name      string
		exporter  string
		wantErr   bool
		wantSpans bool
	}{
		{name: "stdout exporter", exporter: "stdout", wantSpans: true},
		{name: "no exporter", exporter: "none"},
		{name: "unsupported exporter", exporter: "zipkin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tel, err := InitializeTelemetry(config.TelemetryConfig{
				ServiceName:   "molidata-test",
				TraceExporter: tt.exporter,
			}, &out, NewLogger(&bytes.Buffer{}, "error"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tel.Tracer)
			require.NotNil(t, tel.Metrics)

			ctx := WithRunID(context.Background(), "run-1")
			_, span := StartStage(ctx, tel.Tracer, "transformation")
			EndStage(span, errors.New("boom"))

			require.NoError(t, tel.Shutdown(context.Background()))
			if tt.wantSpans {
				assert.Contains(t, out.String(), "pipeline.transformation")
				assert.Contains(t, out.String(), "run-1")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestWriteMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "molidata.prom")
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName:   "molidata-test",
		TraceExporter: "none",
		MetricsFile:   path,
	}, nil, NewLogger(&bytes.Buffer{}, "error"))
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	ctx := context.Background()
	tel.Metrics.RecordRows(ctx, 3, 1, 2)
	tel.Metrics.RecordGeographic(ctx, 5)
	tel.Metrics.RecordArtifact(ctx, "parquet")
	tel.Metrics.RecordStage(ctx, "transformation", 250*time.Millisecond, nil)
	tel.Metrics.RecordRun(ctx, nil)

	require.NoError(t, tel.WriteMetrics(ctx))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "molidata_rows_read_total")
	assert.Contains(t, text, "molidata_rows_dropped_total")
	assert.Contains(t, text, "molidata_geographic_records_total")
	assert.Contains(t, text, `format="parquet"`)
	assert.Contains(t, text, "molidata_stage_duration_seconds")
	assert.Contains(t, text, `status="success"`)
}

func TestWriteMetricsDisabled(t *testing.T) {
	var tel *Telemetry
	assert.NoError(t, tel.WriteMetrics(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))

	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordRows(context.Background(), 1, 1, 1)
		m.RecordRun(context.Background(), errors.New("x"))
	})
}

func TestStartStageNilTracer(t *testing.T) {
	ctx, span := StartStage(context.Background(), nil, "discovery")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { EndStage(span, nil) })
}
