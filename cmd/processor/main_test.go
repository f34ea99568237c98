package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molidata/internal/dataprocessing"
	apperrors "molidata/internal/errors"
	"molidata/internal/shared/testutil"
	"molidata/pkg/contracts/domain"
)

// workspace lays out a raw dir holding both fixture workbooks and points
// logs and metrics into a temp dir
func workspace(t *testing.T) (rawDir, outDir, metricsFile string) {
	t.Helper()
	root := t.TempDir()
	rawDir = filepath.Join(root, "raw")
	outDir = filepath.Join(root, "processed")
	metricsFile = filepath.Join(root, "molidata.prom")
	require.NoError(t, os.MkdirAll(rawDir, 0755))
	testutil.WriteInputWorkbooks(t, rawDir)

	t.Setenv("MOLI_PATHS_LOGS_DIR", filepath.Join(root, "logs"))
	t.Setenv("MOLI_TELEMETRY_METRICS_FILE", metricsFile)
	return rawDir, outDir, metricsFile
}

func TestRun_Success(t *testing.T) {
	rawDir, outDir, metricsFile := workspace(t)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-in", rawDir, "-out", outDir}, &stdout)
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 13)
	assert.FileExists(t, filepath.Join(outDir, "business_insights.json"))
	assert.FileExists(t, filepath.Join(outDir, "mill_features.csv"))

	report := stdout.String()
	assert.Contains(t, report, "Period:             2023-01-15 to 2023-02-20")
	assert.Contains(t, report, "Total revenue:      3250.50")
	assert.Contains(t, report, "Transactions:       3 (2 rows dropped)")
	assert.Contains(t, report, "Customers:          2")
	assert.Contains(t, report, "Mills:              2")
	assert.Contains(t, report, "Geographic: 4 records, 2 provinces, 4 cities")
	assert.Contains(t, report, "Artifacts written: 13")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "molidata_runs_total")
	assert.Contains(t, string(metrics), "molidata_artifacts_written_total")
}

func TestRun_ExplicitInputs(t *testing.T) {
	rawDir, outDir, _ := workspace(t)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-in", t.TempDir(),
		"-out", outDir,
		"-billing", filepath.Join(rawDir, testutil.BillingWorkbookName),
		"-geo", filepath.Join(rawDir, testutil.GeographicWorkbookName),
	}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Total revenue:      3250.50")
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T, rawDir, outDir string) []string
		env      map[string]string
		stage    apperrors.Stage
		exitCode int
	}{
		{
			name: "unknown flag",
			args: func(t *testing.T, rawDir, outDir string) []string {
				return []string{"-nope"}
			},
			stage:    apperrors.StageConfig,
			exitCode: 1,
		},
		{
			name: "missing config file",
			args: func(t *testing.T, rawDir, outDir string) []string {
				return []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "-in", rawDir, "-out", outDir}
			},
			stage:    apperrors.StageConfig,
			exitCode: 1,
		},
		{
			name: "no workbooks",
			args: func(t *testing.T, rawDir, outDir string) []string {
				return []string{"-in", t.TempDir(), "-out", outDir}
			},
			stage:    apperrors.StageDiscovery,
			exitCode: 2,
		},
		{
			name: "explicit input is not a workbook",
			args: func(t *testing.T, rawDir, outDir string) []string {
				notes := filepath.Join(t.TempDir(), "notes.txt")
				require.NoError(t, os.WriteFile(notes, []byte("x"), 0644))
				return []string{"-in", rawDir, "-out", outDir, "-billing", notes}
			},
			stage:    apperrors.StageDiscovery,
			exitCode: 2,
		},
		{
			name: "billing sheet not found",
			args: func(t *testing.T, rawDir, outDir string) []string {
				return []string{"-in", rawDir, "-out", outDir}
			},
			env:      map[string]string{"MOLI_PIPELINE_BILLING_SHEET": "Missing"},
			stage:    apperrors.StageTransformation,
			exitCode: 3,
		},
		{
			name: "output under a regular file",
			args: func(t *testing.T, rawDir, outDir string) []string {
				blocker := filepath.Join(t.TempDir(), "blocker")
				require.NoError(t, os.WriteFile(blocker, nil, 0644))
				return []string{"-in", rawDir, "-out", filepath.Join(blocker, "processed")}
			},
			stage:    apperrors.StagePersistence,
			exitCode: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rawDir, outDir, _ := workspace(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var stdout bytes.Buffer
			err := run(context.Background(), tt.args(t, rawDir, outDir), &stdout)
			require.Error(t, err)

			stage, ok := apperrors.StageOf(err)
			require.True(t, ok, "error should carry a stage: %v", err)
			assert.Equal(t, tt.stage, stage)
			assert.Equal(t, tt.exitCode, apperrors.ExitCode(err))
			assert.NotContains(t, stdout.String(), "MILL BILLING SUMMARY")
		})
	}
}

func TestRun_DiscoveryFailureWritesNothing(t *testing.T) {
	_, outDir, _ := workspace(t)

	err := run(context.Background(), []string{"-in", t.TempDir(), "-out", outDir}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing")
	assert.NoDirExists(t, outDir)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("MOLI_PATHS_RAW_DIR", "from-env")

	cfg, err := loadConfig(options{outDir: "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Paths.RawDir)
	assert.Equal(t, "from-flag", cfg.Paths.ProcessedDir)
}

func TestPrintReport_Empty(t *testing.T) {
	result := &dataprocessing.Result{
		Insights: &domain.Insights{},
	}

	var buf bytes.Buffer
	printReport(&buf, result, nil)

	out := buf.String()
	assert.Contains(t, out, "Period:              to \n")
	assert.Contains(t, out, "Top customers\n  (none)")
	assert.Contains(t, out, "Artifacts written: 0")
}

func TestPrintReport_LimitsRankings(t *testing.T) {
	var customers domain.RankedValues
	for _, k := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		customers = append(customers, domain.RankedValue{Key: k, Value: 1})
	}
	result := &dataprocessing.Result{
		Insights: &domain.Insights{TopCustomers: customers},
	}

	var buf bytes.Buffer
	printReport(&buf, result, nil)

	assert.Contains(t, buf.String(), "  5. E")
	assert.NotContains(t, buf.String(), "  6. F")
}
