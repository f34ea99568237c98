package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"molidata/pkg/contracts/domain"
)

// billingParquetRow is the columnar layout of an enriched billing record.
// Absent numeric values are stored as nulls.
type billingParquetRow struct {
	TransactionType     string   `parquet:"name=transaction_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	VoucherID           string   `parquet:"name=voucher_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date                int32    `parquet:"name=date, type=INT32, convertedtype=DATE"`
	MillID              *float64 `parquet:"name=mill_id, type=DOUBLE, repetitiontype=OPTIONAL"`
	CustomerName        string   `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Zone                string   `parquet:"name=zone, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductRaw          string   `parquet:"name=product_raw, type=BYTE_ARRAY, convertedtype=UTF8"`
	FreightFlag         string   `parquet:"name=freight_flag, type=BYTE_ARRAY, convertedtype=UTF8"`
	Units               *float64 `parquet:"name=units, type=DOUBLE, repetitiontype=OPTIONAL"`
	PackagingWeightKg   *float64 `parquet:"name=packaging_weight_kg, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalWeightKg       *float64 `parquet:"name=total_weight_kg, type=DOUBLE, repetitiontype=OPTIONAL"`
	AmountLocalCurrency *float64 `parquet:"name=amount_local_currency, type=DOUBLE, repetitiontype=OPTIONAL"`
	Year                int32    `parquet:"name=year, type=INT32"`
	Month               int32    `parquet:"name=month, type=INT32"`
	Quarter             int32    `parquet:"name=quarter, type=INT32"`
	Weekday             int32    `parquet:"name=weekday, type=INT32"`
	PricePerKg          *float64 `parquet:"name=price_per_kg, type=DOUBLE, repetitiontype=OPTIONAL"`
	FreightBinary       int32    `parquet:"name=freight_binary, type=INT32"`
	ProductClean        string   `parquet:"name=product_clean, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type geographicParquetRow struct {
	Province   string `parquet:"name=province, type=BYTE_ARRAY, convertedtype=UTF8"`
	PostalCode string `parquet:"name=postal_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	City       string `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// featureParquetRow is one aggregation table row. The dimension column
// names what key holds, since the schema is shared by every table.
type featureParquetRow struct {
	Dimension        string   `parquet:"name=dimension, type=BYTE_ARRAY, convertedtype=UTF8"`
	Key              string   `parquet:"name=key, type=BYTE_ARRAY, convertedtype=UTF8"`
	AmountSum        float64  `parquet:"name=amount_sum, type=DOUBLE"`
	AmountMean       *float64 `parquet:"name=amount_mean, type=DOUBLE, repetitiontype=OPTIONAL"`
	TransactionCount int64    `parquet:"name=transaction_count, type=INT64"`
	WeightSumKg      float64  `parquet:"name=weight_sum_kg, type=DOUBLE"`
	WeightMeanKg     *float64 `parquet:"name=weight_mean_kg, type=DOUBLE, repetitiontype=OPTIONAL"`
	PricePerKgMean   *float64 `parquet:"name=price_per_kg_mean, type=DOUBLE, repetitiontype=OPTIONAL"`
	FreightRate      *float64 `parquet:"name=freight_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// ParquetWriter writes the fixed-schema tables as SNAPPY-compressed Parquet
type ParquetWriter struct {
	logger *slog.Logger
}

// NewParquetWriter creates a Parquet writer
func NewParquetWriter(logger *slog.Logger) *ParquetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParquetWriter{logger: logger}
}

// WriteBilling writes the enriched billing table
func (p *ParquetWriter) WriteBilling(path string, records []domain.EnrichedRecord) error {
	rows := make([]billingParquetRow, len(records))
	for i, r := range records {
		rows[i] = billingParquetRow{
			TransactionType:     r.TransactionType,
			VoucherID:           r.VoucherID,
			Date:                daysSinceEpoch(r.Date),
			MillID:              r.MillID.Ptr(),
			CustomerName:        r.CustomerName,
			Zone:                r.Zone,
			ProductRaw:          r.ProductRaw,
			FreightFlag:         r.FreightFlag,
			Units:               r.Units.Ptr(),
			PackagingWeightKg:   r.PackagingWeightKg.Ptr(),
			TotalWeightKg:       r.TotalWeightKg.Ptr(),
			AmountLocalCurrency: r.AmountLocalCurrency.Ptr(),
			Year:                int32(r.Year),
			Month:               int32(r.Month),
			Quarter:             int32(r.Quarter),
			Weekday:             int32(r.Weekday),
			PricePerKg:          r.PricePerKg.Ptr(),
			FreightBinary:       int32(r.FreightBinary),
			ProductClean:        r.ProductClean,
		}
	}
	return writeParquet(p.logger, path, rows)
}

// WriteGeographic writes the long geographic table
func (p *ParquetWriter) WriteGeographic(path string, records []domain.GeographicRecord) error {
	rows := make([]geographicParquetRow, len(records))
	for i, r := range records {
		rows[i] = geographicParquetRow{Province: r.Province, PostalCode: r.PostalCode, City: r.City}
	}
	return writeParquet(p.logger, path, rows)
}

// WriteFeatures writes one aggregation table
func (p *ParquetWriter) WriteFeatures(path string, table domain.AggregationTable) error {
	rows := make([]featureParquetRow, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = featureParquetRow{
			Dimension:        string(table.Dimension),
			Key:              r.Key,
			AmountSum:        r.AmountSum,
			AmountMean:       r.AmountMean.Ptr(),
			TransactionCount: int64(r.TransactionCount),
			WeightSumKg:      r.WeightSumKg,
			WeightMeanKg:     r.WeightMeanKg.Ptr(),
			PricePerKgMean:   r.PricePerKgMean.Ptr(),
			FreightRate:      r.FreightRate.Ptr(),
		}
	}
	return writeParquet(p.logger, path, rows)
}

func writeParquet[T any](logger *slog.Logger, path string, rows []T) error {
	logger.Debug("Writing Parquet file",
		slog.String("file_path", path),
		slog.Int("record_count", len(rows)))

	return writeAtomic(path, func(out io.Writer) error {
		pw, err := writer.NewParquetWriter(writerfile.NewWriterFile(out), new(T), 1)
		if err != nil {
			return fmt.Errorf("parquet schema: %w", err)
		}
		pw.CompressionType = parquet.CompressionCodec_SNAPPY

		for i := range rows {
			if err := pw.Write(&rows[i]); err != nil {
				pw.WriteStop()
				return fmt.Errorf("parquet write: %w", err)
			}
		}
		if err := pw.WriteStop(); err != nil {
			return fmt.Errorf("parquet flush: %w", err)
		}
		return nil
	})
}

// daysSinceEpoch encodes a date as the Parquet DATE logical type
func daysSinceEpoch(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
