// Package exporter persists the outputs of a pipeline run.
//
// This package contains three writers and one coordinator:
//
// CSVWriter: CSV output with a UTF-8 BOM for Excel, used for aggregation
// tables and the wide interaction matrices.
//
// ParquetWriter: SNAPPY-compressed Parquet for the canonical billing and
// geographic tables and the aggregation tables. Absent values are nulls.
//
// WriteJSON: the business insights document.
//
// ArtifactWriter: writes every artifact of a dataprocessing.Result under the
// processed directory. Each file goes to a temporary name first and is
// renamed into place.
//
// Example usage:
//
//	w := exporter.NewArtifactWriter(paths, cfg.Pipeline.RoundDecimals, logger, nil, nil)
//	artifacts, err := w.WriteAll(ctx, result)
package exporter
