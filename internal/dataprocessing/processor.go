package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "molidata/internal/errors"
	"molidata/internal/infrastructure"
	"molidata/pkg/contracts/domain"
)

// Processor runs the billing and geographic transformations end to end
type Processor struct {
	opts    ProcessingOptions
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewProcessor creates a processor. tracer and metrics may be nil.
func NewProcessor(opts ProcessingOptions, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		opts:    opts,
		logger:  infrastructure.WithComponent(logger, "processor"),
		tracer:  tracer,
		metrics: metrics,
	}
}

// Run reads both workbooks and transforms them
func (p *Processor) Run(ctx context.Context, in Inputs) (*Result, error) {
	billing, geo, err := p.read(ctx, in)
	if err != nil {
		return nil, apperrors.AtStage(apperrors.StageTransformation, err)
	}
	return p.Transform(ctx, billing, geo.Rows)
}

func (p *Processor) read(ctx context.Context, in Inputs) (billing, geo *Sheet, err error) {
	ctx, span := infrastructure.StartStage(ctx, p.tracer, "read")
	start := time.Now()
	defer func() {
		p.metrics.RecordStage(ctx, "read", time.Since(start), err)
		infrastructure.EndStage(span, err)
	}()

	if billing, err = ReadSheet(in.BillingPath, p.opts.BillingSheet); err != nil {
		return nil, nil, err
	}
	if geo, err = ReadSheet(in.GeographicPath, p.opts.GeographicSheet); err != nil {
		return nil, nil, err
	}
	return billing, geo, nil
}

// Transform normalizes and enriches the billing sheet, reshapes the
// geographic grid, then computes aggregates, matrices and insights
// concurrently.
func (p *Processor) Transform(ctx context.Context, billing *Sheet, geoGrid [][]string) (*Result, error) {
	ctx, span := infrastructure.StartStage(ctx, p.tracer, "transformation")
	start := time.Now()

	result, err := p.transform(ctx, billing, geoGrid)

	p.metrics.RecordStage(ctx, "transformation", time.Since(start), err)
	infrastructure.EndStage(span, err)
	if err != nil {
		return nil, apperrors.AtStage(apperrors.StageTransformation, err)
	}
	result.Stats.Duration = time.Since(start)
	return result, nil
}

func (p *Processor) transform(ctx context.Context, billing *Sheet, geoGrid [][]string) (*Result, error) {
	if billing == nil {
		return nil, apperrors.NewTransformationError("billing sheet is required", nil)
	}

	normalizer := NewSchemaNormalizer(NewTypeCoercer(billing.Date1904), p.opts.HeaderRows, p.logger)
	normalized := normalizer.Normalize(ctx, billing.Rows)
	p.metrics.RecordRows(ctx, normalized.RowsRead, normalized.RowsDropped, len(normalized.Records))

	enriched, err := NewFeatureDeriver(p.opts.AffirmativeMarker, p.opts.Workers).DeriveAll(ctx, normalized.Records)
	if err != nil {
		return nil, apperrors.NewTransformationError("feature derivation failed", err)
	}

	result := &Result{
		Billing: enriched,
		Stats: domain.RunStats{
			RunID:       infrastructure.GetRunID(ctx),
			RowsRead:    normalized.RowsRead,
			RowsDropped: normalized.RowsDropped,
			Records:     len(enriched),
		},
	}

	aggregator := NewAggregator(p.logger)
	matrices := NewMatrixBuilder(p.logger)
	summarizer := NewInsightsSummarizer(p.logger, SummarizerConfig{
		TopN:              p.opts.TopN,
		AffirmativeMarker: p.opts.AffirmativeMarker,
		NegativeMarker:    p.opts.NegativeMarker,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Features = aggregator.AggregateAll(gctx, enriched)
		return gctx.Err()
	})
	g.Go(func() error {
		result.CustomerProductMatrix = matrices.Build(gctx, enriched, domain.DimensionCustomer, domain.DimensionProduct)
		result.CustomerZoneMatrix = matrices.Build(gctx, enriched, domain.DimensionCustomer, domain.DimensionZone)
		return gctx.Err()
	})
	g.Go(func() error {
		result.Insights = summarizer.Summarize(gctx, enriched)
		return gctx.Err()
	})
	g.Go(func() error {
		result.Geographic = NewGeographicReshaper(p.logger).Reshape(gctx, geoGrid)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("transformation interrupted: %w", err)
	}

	result.Stats.GeographicRecords = len(result.Geographic)
	result.Stats.Provinces, result.Stats.Cities = GeographicStats(result.Geographic)
	p.metrics.RecordGeographic(ctx, len(result.Geographic))

	p.logRunSummary(ctx, result)
	return result, nil
}

// logRunSummary logs the headline numbers of a run
func (p *Processor) logRunSummary(ctx context.Context, r *Result) {
	ov := r.Insights.Overview
	p.logger.InfoContext(ctx, "Billing data processed",
		slog.Int("records", r.Stats.Records),
		slog.Int("rows_dropped", r.Stats.RowsDropped),
		slog.String("date_start", ov.DateRange.Start.String()),
		slog.String("date_end", ov.DateRange.End.String()),
		slog.Int("unique_mills", ov.UniqueMills),
		slog.Int("unique_products", ov.UniqueProducts),
		slog.Int("unique_zones", ov.UniqueZones))
	p.logger.InfoContext(ctx, "Geographic data processed",
		slog.Int("records", r.Stats.GeographicRecords),
		slog.Int("provinces", r.Stats.Provinces),
		slog.Int("cities", r.Stats.Cities))
}
