package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molidata/internal/config"
	"molidata/internal/dataprocessing"
	apperrors "molidata/internal/errors"
	"molidata/internal/infrastructure"
	"molidata/internal/shared/testutil"
)

func runFixturePipeline(t *testing.T) *dataprocessing.Result {
	t.Helper()
	billing, geo := testutil.WriteInputWorkbooks(t, t.TempDir())
	result, err := dataprocessing.NewProcessor(dataprocessing.DefaultOptions(), nil, nil, nil).
		Run(context.Background(), dataprocessing.Inputs{BillingPath: billing, GeographicPath: geo})
	require.NoError(t, err)
	return result
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	root := t.TempDir()
	paths, err := config.GetPaths(config.PathsConfig{
		RawDir:       filepath.Join(root, "raw"),
		ProcessedDir: filepath.Join(root, "processed"),
		LogsDir:      filepath.Join(root, "logs"),
	})
	require.NoError(t, err)
	return paths
}

func TestArtifactWriter_WriteAll(t *testing.T) {
	result := runFixturePipeline(t)
	paths := testPaths(t)

	logger, handler := testutil.NewTestLogger(t)
	artifacts, err := NewArtifactWriter(paths, 2, logger, nil, nil).WriteAll(context.Background(), result)
	require.NoError(t, err)

	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Name)
		assert.FileExists(t, a.Path)
	}
	assert.Equal(t, []string{
		"billing_data_clean.parquet",
		"geographic_data.parquet",
		"customer_features.parquet", "customer_features.csv",
		"product_features.parquet", "product_features.csv",
		"zone_features.parquet", "zone_features.csv",
		"mill_features.parquet", "mill_features.csv",
		"customer_product_matrix.csv",
		"customer_zone_matrix.csv",
		"business_insights.json",
	}, names)

	entries, err := os.ReadDir(paths.ProcessedDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
	assert.Len(t, entries, len(artifacts))

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Artifacts written")
	testutil.AssertLogAttr(t, handler, "component", "exporter")
}

func TestArtifactWriter_RoundsAggregationTables(t *testing.T) {
	result := runFixturePipeline(t)
	paths := testPaths(t)

	_, err := NewArtifactWriter(paths, 2, nil, nil, nil).WriteAll(context.Background(), result)
	require.NoError(t, err)

	records := readCSV(t, paths.FeaturesPath(config.CustomerFeaturesFile, ".csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Cliente A", "1250.50", "625.25", "2", "125.00", "62.50", "10.01", "0.50"}, records[1])
	assert.Equal(t, []string{"Cliente C", "2000.00", "2000.00", "1", "0.00", "0.00", "", "0.00"}, records[2])

	matrix := readCSV(t, paths.CustomerZoneMatrix)
	assert.Equal(t, [][]string{
		{"customer_name", "Norte", "Sur"},
		{"Cliente A", "1000.00", "250.50"},
		{"Cliente C", "0.00", "2000.00"},
	}, matrix)
}

func TestArtifactWriter_InsightsDocument(t *testing.T) {
	result := runFixturePipeline(t)
	paths := testPaths(t)

	_, err := NewArtifactWriter(paths, 2, nil, nil, nil).WriteAll(context.Background(), result)
	require.NoError(t, err)

	data, err := os.ReadFile(paths.InsightsJSON)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.ElementsMatch(t,
		[]string{"overview", "top_customers", "top_products", "top_zones", "monthly_trends", "freight_analysis"},
		keys(doc))

	assert.JSONEq(t, `{"2023-01":1000,"2023-02":2250.5}`, string(doc["monthly_trends"]))
	assert.JSONEq(t, `{"start":"2023-01-15","end":"2023-02-20"}`, string(mustField(t, doc["overview"], "date_range")))

	// rank order is preserved in the encoded object
	top := string(doc["top_customers"])
	assert.Less(t, strings.Index(top, "Cliente C"), strings.Index(top, "Cliente A"))
}

func TestArtifactWriter_Idempotent(t *testing.T) {
	result := runFixturePipeline(t)
	paths := testPaths(t)
	w := NewArtifactWriter(paths, 2, nil, nil, nil)

	read := func() map[string][]byte {
		out := make(map[string][]byte)
		for _, p := range []string{
			paths.InsightsJSON,
			paths.CustomerProductMatrix,
			paths.FeaturesPath(config.MillFeaturesFile, ".csv"),
			paths.FeaturesPath(config.ZoneFeaturesFile, ".parquet"),
		} {
			data, err := os.ReadFile(p)
			require.NoError(t, err)
			out[p] = data
		}
		return out
	}

	_, err := w.WriteAll(context.Background(), result)
	require.NoError(t, err)
	first := read()

	_, err = w.WriteAll(context.Background(), runFixturePipeline(t))
	require.NoError(t, err)
	second := read()

	for p := range first {
		assert.True(t, bytes.Equal(first[p], second[p]), "%s changed between runs", filepath.Base(p))
	}
}

func TestArtifactWriter_Failures(t *testing.T) {
	result := runFixturePipeline(t)

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		paths := testPaths(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewArtifactWriter(paths, 2, nil, nil, nil).WriteAll(ctx, result)
		require.Error(t, err)
		assert.Equal(t, 4, apperrors.ExitCode(err))
		assert.NoDirExists(t, paths.ProcessedDir)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		paths := testPaths(t)
		// a regular file where the processed directory should be
		require.NoError(t, os.MkdirAll(filepath.Dir(paths.ProcessedDir), 0755))
		require.NoError(t, os.WriteFile(paths.ProcessedDir, []byte("x"), 0644))

		_, err := NewArtifactWriter(paths, 2, nil, nil, nil).WriteAll(context.Background(), result)
		require.Error(t, err)

		stage, ok := apperrors.StageOf(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.StagePersistence, stage)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
	})
}

func TestArtifactWriter_RecordsMetrics(t *testing.T) {
	tel, err := infrastructure.InitializeTelemetry(config.TelemetryConfig{
		ServiceName:   "molidata-test",
		TraceExporter: "none",
	}, nil, infrastructure.NewLogger(&bytes.Buffer{}, "error"))
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	_, err = NewArtifactWriter(testPaths(t), 2, nil, tel.Tracer, tel.Metrics).WriteAll(context.Background(), runFixturePipeline(t))
	require.NoError(t, err)

	count, err := promtestutil.GatherAndCount(tel.Registry, "molidata_artifacts_written_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per format")
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func mustField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &obj))
	v, ok := obj[field]
	require.True(t, ok, "missing field %s", field)
	return v
}
