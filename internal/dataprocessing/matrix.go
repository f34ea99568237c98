package dataprocessing

import (
	"context"
	"log/slog"

	"molidata/pkg/contracts/domain"
)

// MatrixBuilder pivots summed revenue over two dimensions
type MatrixBuilder struct {
	logger *slog.Logger
}

// NewMatrixBuilder creates a matrix builder
func NewMatrixBuilder(logger *slog.Logger) *MatrixBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatrixBuilder{logger: logger}
}

// Build returns a dense matrix over every observed (row, column) label
// pair. Cells sum the amounts of matching records and hold exactly zero
// where nothing matches. Records missing either key are excluded;
// records missing only the amount still contribute their labels.
func (b *MatrixBuilder) Build(ctx context.Context, records []domain.EnrichedRecord, rowDim, colDim domain.Dimension) *domain.Matrix {
	cells := make(map[string]map[string]*decimalSum)
	colSet := make(map[string]struct{})

	for _, r := range records {
		rowKey, ok := KeyOf(r, rowDim)
		if !ok {
			continue
		}
		colKey, ok := KeyOf(r, colDim)
		if !ok {
			continue
		}

		row, exists := cells[rowKey]
		if !exists {
			row = make(map[string]*decimalSum)
			cells[rowKey] = row
		}
		acc, exists := row[colKey]
		if !exists {
			acc = &decimalSum{}
			row[colKey] = acc
		}
		acc.add(r.AmountLocalCurrency)
		colSet[colKey] = struct{}{}
	}

	rows := make([]string, 0, len(cells))
	for k := range cells {
		rows = append(rows, k)
	}
	sortKeys(rows, rowDim)

	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sortKeys(cols, colDim)

	values := make([][]float64, len(rows))
	for i, rk := range rows {
		values[i] = make([]float64, len(cols))
		for j, ck := range cols {
			if acc, ok := cells[rk][ck]; ok {
				values[i][j] = acc.total()
			}
		}
	}

	b.logger.DebugContext(ctx, "Interaction matrix built",
		slog.String("rows", string(rowDim)),
		slog.String("columns", string(colDim)),
		slog.Int("row_count", len(rows)),
		slog.Int("column_count", len(cols)))

	return &domain.Matrix{
		RowDimension:    rowDim,
		ColumnDimension: colDim,
		Rows:            rows,
		Columns:         cols,
		Values:          values,
	}
}
