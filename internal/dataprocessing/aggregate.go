package dataprocessing

import (
	"context"
	"log/slog"

	"molidata/pkg/contracts/domain"
)

// groupAccumulator collects the per-field sums of one group
type groupAccumulator struct {
	count   int
	amount  decimalSum
	weight  decimalSum
	price   decimalSum
	freight decimalSum
}

func (a *groupAccumulator) add(r domain.EnrichedRecord) {
	a.count++
	a.amount.add(r.AmountLocalCurrency)
	a.weight.add(r.TotalWeightKg)
	a.price.add(r.PricePerKg)
	a.freight.addInt(r.FreightBinary)
}

func (a *groupAccumulator) summary(key string) domain.GroupSummary {
	return domain.GroupSummary{
		Key:              key,
		AmountSum:        a.amount.total(),
		AmountMean:       a.amount.mean(),
		TransactionCount: a.count,
		WeightSumKg:      a.weight.total(),
		WeightMeanKg:     a.weight.mean(),
		PricePerKgMean:   a.price.mean(),
		FreightRate:      a.freight.mean(),
	}
}

// Aggregator groups records by a dimension and summarizes each group
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate returns one summary per distinct key along dim, sorted by key.
// Records with an absent key are left out. Each field ignores its own
// absent values, so a missing amount never hides a present weight.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.EnrichedRecord, dim domain.Dimension) domain.AggregationTable {
	groups := make(map[string]*groupAccumulator)
	skipped := 0

	for _, r := range records {
		key, ok := KeyOf(r, dim)
		if !ok {
			skipped++
			continue
		}
		acc, exists := groups[key]
		if !exists {
			acc = &groupAccumulator{}
			groups[key] = acc
		}
		acc.add(r)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sortKeys(keys, dim)

	table := domain.AggregationTable{
		Dimension: dim,
		Rows:      make([]domain.GroupSummary, 0, len(keys)),
	}
	for _, k := range keys {
		table.Rows = append(table.Rows, groups[k].summary(k))
	}

	a.logger.DebugContext(ctx, "Aggregation complete",
		slog.String("dimension", string(dim)),
		slog.Int("groups", len(table.Rows)),
		slog.Int("records_without_key", skipped))

	return table
}

// AggregateAll builds one table per supported dimension
func (a *Aggregator) AggregateAll(ctx context.Context, records []domain.EnrichedRecord) []domain.AggregationTable {
	tables := make([]domain.AggregationTable, 0, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		tables = append(tables, a.Aggregate(ctx, records, dim))
	}
	return tables
}
