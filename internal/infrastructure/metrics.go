package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during a run. All
// methods are safe on a nil receiver.
type PipelineMetrics struct {
	RowsRead          metric.Int64Counter
	RowsDropped       metric.Int64Counter
	RecordsProduced   metric.Int64Counter
	GeographicRecords metric.Int64Counter
	ArtifactsWritten  metric.Int64Counter
	StageDuration     metric.Float64Histogram
	Runs              metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var (
		m   PipelineMetrics
		err error
	)

	if m.RowsRead, err = meter.Int64Counter(
		"molidata_rows_read",
		metric.WithDescription("Raw billing data rows read after header skip"),
	); err != nil {
		return nil, err
	}
	if m.RowsDropped, err = meter.Int64Counter(
		"molidata_rows_dropped",
		metric.WithDescription("Billing rows dropped for an unparsable date"),
	); err != nil {
		return nil, err
	}
	if m.RecordsProduced, err = meter.Int64Counter(
		"molidata_records_produced",
		metric.WithDescription("Normalized billing records produced"),
	); err != nil {
		return nil, err
	}
	if m.GeographicRecords, err = meter.Int64Counter(
		"molidata_geographic_records",
		metric.WithDescription("Deduplicated geographic records produced"),
	); err != nil {
		return nil, err
	}
	if m.ArtifactsWritten, err = meter.Int64Counter(
		"molidata_artifacts_written",
		metric.WithDescription("Output artifacts written"),
	); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram(
		"molidata_stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.Runs, err = meter.Int64Counter(
		"molidata_runs",
		metric.WithDescription("Pipeline runs by outcome"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordRows records the row accounting of the normalization stage
func (m *PipelineMetrics) RecordRows(ctx context.Context, read, dropped, produced int) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(read))
	m.RowsDropped.Add(ctx, int64(dropped))
	m.RecordsProduced.Add(ctx, int64(produced))
}

// RecordGeographic records the size of the reshaped geographic table
func (m *PipelineMetrics) RecordGeographic(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.GeographicRecords.Add(ctx, int64(n))
}

// RecordArtifact counts one written artifact of the given format
func (m *PipelineMetrics) RecordArtifact(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ArtifactsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordStage records how long a stage took and whether it failed
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("success", err == nil),
	))
}

// RecordRun counts a finished run
func (m *PipelineMetrics) RecordRun(ctx context.Context, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
