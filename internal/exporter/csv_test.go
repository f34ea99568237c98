package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molidata/pkg/contracts/domain"
)

// readCSV reads path, checks and strips the BOM, and parses the records
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		bom     bool
		want    string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "2"}, {"x,y", `q"uote`}},
			},
			want: "a,b\n1,2\n\"x,y\",\"q\"\"uote\"\n",
		},
		{
			name:    "headers only",
			options: WriteOptions{Headers: []string{"a"}},
			want:    "a\n",
		},
		{
			name:    "with BOM",
			options: WriteOptions{Headers: []string{"zona"}, Records: [][]string{{"Río Cuarto"}}},
			bom:     true,
			want:    "\xEF\xBB\xBFzona\nRío Cuarto\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "out.csv")
			require.NoError(t, NewCSVWriter(2, tt.bom, nil).WriteCSV(path, tt.options))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestCSVWriter_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer\n"), 0644))

	require.NoError(t, NewCSVWriter(2, false, nil).WriteCSV(path, WriteOptions{Headers: []string{"new"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestCSVWriter_WriteFeatures(t *testing.T) {
	table := domain.AggregationTable{
		Dimension: domain.DimensionCustomer,
		Rows: []domain.GroupSummary{
			{
				Key: "Cliente A", AmountSum: 1500, AmountMean: domain.Float(750), TransactionCount: 2,
				WeightSumKg: 100, WeightMeanKg: domain.Float(100), PricePerKgMean: domain.Float(10), FreightRate: domain.Float(0.5),
			},
			{Key: "Cliente B", TransactionCount: 1, WeightMeanKg: domain.Float(0), FreightRate: domain.Float(1)},
		},
	}

	path := filepath.Join(t.TempDir(), "customer_features.csv")
	require.NoError(t, NewCSVWriter(2, true, nil).WriteFeatures(path, table))

	assert.Equal(t, [][]string{
		{"customer_name", "amount_sum", "amount_mean", "transaction_count", "weight_sum_kg", "weight_mean_kg", "price_per_kg_mean", "freight_rate"},
		{"Cliente A", "1500.00", "750.00", "2", "100.00", "100.00", "10.00", "0.50"},
		{"Cliente B", "0.00", "", "1", "0.00", "0.00", "", "1.00"},
	}, readCSV(t, path))
}

func TestCSVWriter_WriteMatrix(t *testing.T) {
	m := &domain.Matrix{
		RowDimension:    domain.DimensionCustomer,
		ColumnDimension: domain.DimensionProduct,
		Rows:            []string{"A", "B"},
		Columns:         []string{"P1", "P2"},
		Values:          [][]float64{{1000, 500}, {0, 0}},
	}

	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, NewCSVWriter(2, true, nil).WriteMatrix(path, m))

	assert.Equal(t, [][]string{
		{"customer_name", "P1", "P2"},
		{"A", "1000.00", "500.00"},
		{"B", "0.00", "0.00"},
	}, readCSV(t, path))
}

func TestWriteAtomic_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := writeAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
