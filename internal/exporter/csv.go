package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"molidata/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	decimals  int
	bomPrefix bool
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer that formats numbers with decimals places.
// bomPrefix adds a UTF-8 BOM so Excel detects the encoding of accented names.
func NewCSVWriter(decimals int, bomPrefix bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{decimals: decimals, bomPrefix: bomPrefix, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCSV atomically writes headers and records to filePath
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	return writeAtomic(filePath, func(out io.Writer) error {
		if w.bomPrefix {
			if _, err := out.Write(utf8BOM); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(out)
		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}
		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
}

// featureHeaders are the columns of an aggregation table after its key column
var featureHeaders = []string{
	"amount_sum",
	"amount_mean",
	"transaction_count",
	"weight_sum_kg",
	"weight_mean_kg",
	"price_per_kg_mean",
	"freight_rate",
}

// WriteFeatures writes an aggregation table; the key column is named after the dimension
func (w *CSVWriter) WriteFeatures(filePath string, table domain.AggregationTable) error {
	headers := append([]string{string(table.Dimension)}, featureHeaders...)

	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, []string{
			row.Key,
			formatFloat(row.AmountSum, w.decimals),
			formatNullFloat(row.AmountMean, w.decimals),
			formatInt(row.TransactionCount),
			formatFloat(row.WeightSumKg, w.decimals),
			formatNullFloat(row.WeightMeanKg, w.decimals),
			formatNullFloat(row.PricePerKgMean, w.decimals),
			formatNullFloat(row.FreightRate, w.decimals),
		})
	}

	return w.WriteCSV(filePath, WriteOptions{Headers: headers, Records: records})
}

// WriteMatrix writes a matrix in wide form: one row per row label, one
// column per column label, zeros written explicitly
func (w *CSVWriter) WriteMatrix(filePath string, m *domain.Matrix) error {
	headers := append([]string{string(m.RowDimension)}, m.Columns...)

	records := make([][]string, 0, len(m.Rows))
	for i, label := range m.Rows {
		record := make([]string, 0, len(m.Columns)+1)
		record = append(record, label)
		for _, v := range m.Values[i] {
			record = append(record, formatFloat(v, w.decimals))
		}
		records = append(records, record)
	}

	return w.WriteCSV(filePath, WriteOptions{Headers: headers, Records: records})
}
