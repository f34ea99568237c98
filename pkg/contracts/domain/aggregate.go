package domain

// Dimension names a categorical field records can be grouped or pivoted by
type Dimension string

const (
	DimensionCustomer Dimension = "customer_name"
	DimensionProduct  Dimension = "product_clean"
	DimensionZone     Dimension = "zone"
	DimensionMill     Dimension = "mill_id"
)

// Dimensions lists every supported grouping dimension
var Dimensions = []Dimension{DimensionCustomer, DimensionProduct, DimensionZone, DimensionMill}

// GroupSummary is one row of an aggregation table. Sums over no present
// values are zero; means over no present values are absent.
type GroupSummary struct {
	Key              string    `json:"key"`
	AmountSum        float64   `json:"amount_sum"`
	AmountMean       NullFloat `json:"amount_mean"`
	TransactionCount int       `json:"transaction_count"`
	WeightSumKg      float64   `json:"weight_sum_kg"`
	WeightMeanKg     NullFloat `json:"weight_mean_kg"`
	PricePerKgMean   NullFloat `json:"price_per_kg_mean"`
	FreightRate      NullFloat `json:"freight_rate"`
}

// AggregationTable is the per-key summary for one dimension, sorted by key
type AggregationTable struct {
	Dimension Dimension      `json:"dimension"`
	Rows      []GroupSummary `json:"rows"`
}

// Matrix is a dense pivot of summed revenue. Values[i][j] belongs to
// Rows[i] and Columns[j]; absent pairs hold exactly zero.
type Matrix struct {
	RowDimension    Dimension   `json:"row_dimension"`
	ColumnDimension Dimension   `json:"column_dimension"`
	Rows            []string    `json:"rows"`
	Columns         []string    `json:"columns"`
	Values          [][]float64 `json:"values"`
}

// Cell returns the value at (row, col) and whether both labels exist
func (m *Matrix) Cell(row, col string) (float64, bool) {
	i := indexOf(m.Rows, row)
	j := indexOf(m.Columns, col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func indexOf(labels []string, v string) int {
	for i, l := range labels {
		if l == v {
			return i
		}
	}
	return -1
}
