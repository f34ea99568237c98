package exporter

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"molidata/internal/config"
	"molidata/internal/dataprocessing"
	apperrors "molidata/internal/errors"
	"molidata/internal/infrastructure"
	"molidata/pkg/contracts/domain"
)

// Artifact formats
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatJSON    = "json"
)

// maxConcurrentWrites bounds how many artifacts are written at once
const maxConcurrentWrites = 4

// featureFiles maps each dimension to the base name of its aggregation table
var featureFiles = map[domain.Dimension]string{
	domain.DimensionCustomer: config.CustomerFeaturesFile,
	domain.DimensionProduct:  config.ProductFeaturesFile,
	domain.DimensionZone:     config.ZoneFeaturesFile,
	domain.DimensionMill:     config.MillFeaturesFile,
}

// Artifact describes one file produced by a run
type Artifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

// ArtifactWriter persists every output of a pipeline run under the processed directory
type ArtifactWriter struct {
	paths    *config.Paths
	decimals int
	csv      *CSVWriter
	parquet  *ParquetWriter
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// NewArtifactWriter creates a writer. Aggregation tables and matrices are
// rounded to decimals places; tracer and metrics may be nil.
func NewArtifactWriter(paths *config.Paths, decimals int, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *ArtifactWriter {
	logger = infrastructure.WithComponent(logger, "exporter")
	return &ArtifactWriter{
		paths:    paths,
		decimals: decimals,
		csv:      NewCSVWriter(decimals, true, logger),
		parquet:  NewParquetWriter(logger),
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
	}
}

type artifactJob struct {
	artifact Artifact
	write    func() error
}

// WriteAll writes the canonical tables, aggregation tables, matrices and
// insights document. Each file is replaced atomically; the first failure
// aborts the run with a persistence stage error.
func (w *ArtifactWriter) WriteAll(ctx context.Context, result *dataprocessing.Result) (artifacts []Artifact, err error) {
	ctx, span := infrastructure.StartStage(ctx, w.tracer, "persistence")
	start := time.Now()
	defer func() {
		w.metrics.RecordStage(ctx, "persistence", time.Since(start), err)
		infrastructure.EndStage(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, apperrors.AtStage(apperrors.StagePersistence, err)
	}
	if err := w.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.AtStage(apperrors.StagePersistence,
			apperrors.NewStorageError("failed to prepare output directories", err))
	}

	jobs := w.plan(result)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := job.write(); err != nil {
				return apperrors.NewStorageError("failed to write "+job.artifact.Name, err).
					WithContext("path", job.artifact.Path)
			}
			w.metrics.RecordArtifact(gctx, job.artifact.Format)
			w.logger.DebugContext(gctx, "Artifact written",
				slog.String("name", job.artifact.Name),
				slog.String("path", job.artifact.Path),
				slog.Int("rows", job.artifact.Rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.AtStage(apperrors.StagePersistence, err)
	}

	artifacts = make([]Artifact, len(jobs))
	for i, job := range jobs {
		artifacts[i] = job.artifact
	}

	w.logger.InfoContext(ctx, "Artifacts written",
		slog.String("processed_dir", w.paths.ProcessedDir),
		slog.Int("artifacts", len(artifacts)))
	return artifacts, nil
}

// plan lists every artifact of result in a fixed order
func (w *ArtifactWriter) plan(result *dataprocessing.Result) []artifactJob {
	jobs := []artifactJob{
		{
			artifact: Artifact{Name: config.BillingParquetFile, Path: w.paths.BillingParquet, Format: FormatParquet, Rows: len(result.Billing)},
			write:    func() error { return w.parquet.WriteBilling(w.paths.BillingParquet, result.Billing) },
		},
		{
			artifact: Artifact{Name: config.GeographicParquetFile, Path: w.paths.GeographicParquet, Format: FormatParquet, Rows: len(result.Geographic)},
			write:    func() error { return w.parquet.WriteGeographic(w.paths.GeographicParquet, result.Geographic) },
		},
	}

	for _, table := range result.Features {
		base, ok := featureFiles[table.Dimension]
		if !ok {
			continue
		}
		rounded := roundTable(table, w.decimals)

		parquetPath := w.paths.FeaturesPath(base, ".parquet")
		csvPath := w.paths.FeaturesPath(base, ".csv")
		jobs = append(jobs,
			artifactJob{
				artifact: Artifact{Name: base + ".parquet", Path: parquetPath, Format: FormatParquet, Rows: len(rounded.Rows)},
				write:    func() error { return w.parquet.WriteFeatures(parquetPath, rounded) },
			},
			artifactJob{
				artifact: Artifact{Name: base + ".csv", Path: csvPath, Format: FormatCSV, Rows: len(rounded.Rows)},
				write:    func() error { return w.csv.WriteFeatures(csvPath, rounded) },
			},
		)
	}

	for _, m := range []struct {
		name, path string
		matrix     *domain.Matrix
	}{
		{config.CustomerProductMatrixFile, w.paths.CustomerProductMatrix, result.CustomerProductMatrix},
		{config.CustomerZoneMatrixFile, w.paths.CustomerZoneMatrix, result.CustomerZoneMatrix},
	} {
		if m.matrix == nil {
			continue
		}
		rounded := roundMatrix(m.matrix, w.decimals)
		path := m.path
		jobs = append(jobs, artifactJob{
			artifact: Artifact{Name: m.name, Path: path, Format: FormatCSV, Rows: len(rounded.Rows)},
			write:    func() error { return w.csv.WriteMatrix(path, rounded) },
		})
	}

	if result.Insights != nil {
		insights := result.Insights
		jobs = append(jobs, artifactJob{
			artifact: Artifact{Name: config.InsightsFile, Path: w.paths.InsightsJSON, Format: FormatJSON, Rows: 1},
			write:    func() error { return WriteJSON(w.paths.InsightsJSON, insights) },
		})
	}

	return jobs
}

// roundTable returns a copy of table with every numeric field rounded
func roundTable(table domain.AggregationTable, decimals int) domain.AggregationTable {
	rows := make([]domain.GroupSummary, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = domain.GroupSummary{
			Key:              r.Key,
			AmountSum:        dataprocessing.RoundTo(r.AmountSum, decimals),
			AmountMean:       roundNull(r.AmountMean, decimals),
			TransactionCount: r.TransactionCount,
			WeightSumKg:      dataprocessing.RoundTo(r.WeightSumKg, decimals),
			WeightMeanKg:     roundNull(r.WeightMeanKg, decimals),
			PricePerKgMean:   roundNull(r.PricePerKgMean, decimals),
			FreightRate:      roundNull(r.FreightRate, decimals),
		}
	}
	return domain.AggregationTable{Dimension: table.Dimension, Rows: rows}
}

// roundMatrix returns a copy of m with every cell rounded
func roundMatrix(m *domain.Matrix, decimals int) *domain.Matrix {
	values := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			values[i][j] = dataprocessing.RoundTo(v, decimals)
		}
	}
	return &domain.Matrix{
		RowDimension:    m.RowDimension,
		ColumnDimension: m.ColumnDimension,
		Rows:            m.Rows,
		Columns:         m.Columns,
		Values:          values,
	}
}

func roundNull(n domain.NullFloat, decimals int) domain.NullFloat {
	if !n.Valid {
		return n
	}
	return domain.Float(dataprocessing.RoundTo(n.Float64, decimals))
}
