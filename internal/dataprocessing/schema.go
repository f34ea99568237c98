package dataprocessing

import (
	"context"
	"log/slog"

	"molidata/pkg/contracts/domain"
)

// Positions of the canonical fields in a raw billing row
const (
	colTransactionType = iota
	colVoucherID
	colDate
	colMillID
	colCustomerName
	colZone
	colProduct
	colFreightFlag
	colUnits
	colPackagingWeight
	colTotalWeight
	colAmount
	canonicalWidth
)

// NormalizeResult holds the records that survived normalization and the row accounting
type NormalizeResult struct {
	Records     []domain.BillingRecord
	RowsRead    int
	RowsDropped int
}

// SchemaNormalizer maps fixed-position raw rows onto the canonical billing fields
type SchemaNormalizer struct {
	coercer    *TypeCoercer
	headerRows int
	logger     *slog.Logger
}

// NewSchemaNormalizer creates a normalizer that skips the first headerRows rows
func NewSchemaNormalizer(coercer *TypeCoercer, headerRows int, logger *slog.Logger) *SchemaNormalizer {
	if coercer == nil {
		coercer = NewTypeCoercer(false)
	}
	if headerRows < 0 {
		headerRows = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaNormalizer{coercer: coercer, headerRows: headerRows, logger: logger}
}

// Normalize converts raw rows into billing records. Short rows are padded
// with empty cells and extra cells are ignored. A row whose date does not
// parse is dropped; every other coercion failure leaves the field absent.
func (n *SchemaNormalizer) Normalize(ctx context.Context, rows [][]string) NormalizeResult {
	var result NormalizeResult
	if len(rows) <= n.headerRows {
		return result
	}

	data := rows[n.headerRows:]
	result.RowsRead = len(data)
	result.Records = make([]domain.BillingRecord, 0, len(data))

	for _, row := range data {
		record, ok := n.NormalizeRow(row)
		if !ok {
			result.RowsDropped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	n.logger.InfoContext(ctx, "Billing rows normalized",
		slog.Int("rows_read", result.RowsRead),
		slog.Int("rows_dropped", result.RowsDropped),
		slog.Int("records", len(result.Records)))

	return result
}

// NormalizeRow maps one raw row. The second result is false when the date is unparsable.
func (n *SchemaNormalizer) NormalizeRow(row []string) (domain.BillingRecord, bool) {
	date := n.coercer.Date(cell(row, colDate))
	if !date.Valid {
		return domain.BillingRecord{}, false
	}

	return domain.BillingRecord{
		TransactionType:     cell(row, colTransactionType),
		VoucherID:           cell(row, colVoucherID),
		Date:                date.Time,
		MillID:              n.coercer.Float(cell(row, colMillID)),
		CustomerName:        cell(row, colCustomerName),
		Zone:                cell(row, colZone),
		ProductRaw:          cell(row, colProduct),
		FreightFlag:         cell(row, colFreightFlag),
		Units:               n.coercer.Float(cell(row, colUnits)),
		PackagingWeightKg:   n.coercer.Float(cell(row, colPackagingWeight)),
		TotalWeightKg:       n.coercer.Float(cell(row, colTotalWeight)),
		AmountLocalCurrency: n.coercer.Float(cell(row, colAmount)),
	}, true
}

// cell returns row[i], or "" when the row is shorter
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
