package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"molidata/pkg/contracts/domain"
)

// InsightsSummarizer produces the business insights document from enriched records
type InsightsSummarizer struct {
	logger      *slog.Logger
	topN        int
	affirmative string
	negative    string
}

// SummarizerConfig holds configuration options for the InsightsSummarizer.
type SummarizerConfig struct {
	TopN              int    // Entries kept in each ranking
	AffirmativeMarker string // Freight flag value for shipments with freight
	NegativeMarker    string // Freight flag value for shipments without freight
}

// NewInsightsSummarizer creates a summarizer with the given configuration.
func NewInsightsSummarizer(logger *slog.Logger, config SummarizerConfig) *InsightsSummarizer {
	if logger == nil {
		logger = slog.Default()
	}

	// Set default configuration values
	if config.TopN <= 0 {
		config.TopN = 10
	}
	if config.AffirmativeMarker == "" {
		config.AffirmativeMarker = "Si"
	}
	if config.NegativeMarker == "" {
		config.NegativeMarker = "No"
	}

	return &InsightsSummarizer{
		logger:      logger,
		topN:        config.TopN,
		affirmative: config.AffirmativeMarker,
		negative:    config.NegativeMarker,
	}
}

// Summarize computes the overview, rankings, monthly trend and freight split
func (s *InsightsSummarizer) Summarize(ctx context.Context, records []domain.EnrichedRecord) *domain.Insights {
	insights := &domain.Insights{
		Overview:        s.overview(records),
		TopCustomers:    s.topBy(records, domain.DimensionCustomer),
		TopProducts:     s.topBy(records, domain.DimensionProduct),
		TopZones:        s.topBy(records, domain.DimensionZone),
		MonthlyTrends:   monthlyTrend(records),
		FreightAnalysis: s.freight(records),
	}

	s.logger.InfoContext(ctx, "Business insights computed",
		slog.Float64("total_revenue", insights.Overview.TotalRevenue),
		slog.Int("transactions", insights.Overview.TotalTransactions),
		slog.Int("months", len(insights.MonthlyTrends)),
		slog.Float64("freight_percentage", insights.FreightAnalysis.FreightPercentage))

	return insights
}

func (s *InsightsSummarizer) overview(records []domain.EnrichedRecord) domain.Overview {
	var revenue, volume decimalSum
	distinct := make(map[domain.Dimension]map[string]struct{}, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		distinct[dim] = make(map[string]struct{})
	}

	var dates domain.DateRange
	for _, r := range records {
		revenue.add(r.AmountLocalCurrency)
		volume.add(r.TotalWeightKg)

		for _, dim := range domain.Dimensions {
			if key, ok := KeyOf(r, dim); ok {
				distinct[dim][key] = struct{}{}
			}
		}

		if !dates.Start.Valid || r.Date.Before(dates.Start.Time) {
			dates.Start = domain.Date(r.Date)
		}
		if !dates.End.Valid || r.Date.After(dates.End.Time) {
			dates.End = domain.Date(r.Date)
		}
	}

	return domain.Overview{
		TotalRevenue:      revenue.total(),
		TotalVolumeKg:     volume.total(),
		TotalTransactions: len(records),
		UniqueCustomers:   len(distinct[domain.DimensionCustomer]),
		UniqueProducts:    len(distinct[domain.DimensionProduct]),
		UniqueMills:       len(distinct[domain.DimensionMill]),
		UniqueZones:       len(distinct[domain.DimensionZone]),
		DateRange:         dates,
	}
}

// topBy ranks keys along dim by summed revenue, highest first; ties go to
// the lexically smaller key
func (s *InsightsSummarizer) topBy(records []domain.EnrichedRecord, dim domain.Dimension) domain.RankedValues {
	sums := make(map[string]*decimalSum)
	for _, r := range records {
		key, ok := KeyOf(r, dim)
		if !ok {
			continue
		}
		acc, exists := sums[key]
		if !exists {
			acc = &decimalSum{}
			sums[key] = acc
		}
		acc.add(r.AmountLocalCurrency)
	}

	ranked := make(domain.RankedValues, 0, len(sums))
	for k, acc := range sums {
		ranked = append(ranked, domain.RankedValue{Key: k, Value: acc.total()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Key < ranked[j].Key
	})

	if len(ranked) > s.topN {
		ranked = ranked[:s.topN]
	}
	return ranked
}

// monthlyTrend sums revenue per YYYY-MM in chronological order. A month in
// which no record carries an amount is reported as absent.
func monthlyTrend(records []domain.EnrichedRecord) domain.MonthlyTrend {
	periods := make(map[string]*decimalSum)
	for _, r := range records {
		period := r.Date.Format("2006-01")
		acc, exists := periods[period]
		if !exists {
			acc = &decimalSum{}
			periods[period] = acc
		}
		acc.add(r.AmountLocalCurrency)
	}

	keys := make([]string, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trend := make(domain.MonthlyTrend, 0, len(keys))
	for _, k := range keys {
		trend = append(trend, domain.PeriodValue{Period: k, Revenue: periods[k].totalOrAbsent()})
	}
	return trend
}

// freight splits revenue by freight flag. The percentage counts records,
// not revenue, flagged with the affirmative marker.
func (s *InsightsSummarizer) freight(records []domain.EnrichedRecord) domain.FreightAnalysis {
	var with, without decimalSum
	flagged := 0

	for _, r := range records {
		switch r.FreightFlag {
		case s.affirmative:
			with.add(r.AmountLocalCurrency)
			flagged++
		case s.negative:
			without.add(r.AmountLocalCurrency)
		}
	}

	analysis := domain.FreightAnalysis{
		WithFreight:    with.total(),
		WithoutFreight: without.total(),
	}
	if len(records) > 0 {
		analysis.FreightPercentage = float64(flagged) / float64(len(records)) * 100
	}
	return analysis
}
