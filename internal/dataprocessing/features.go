package dataprocessing

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"molidata/pkg/contracts/domain"
)

// FeatureDeriver computes calendar, pricing and freight features for billing records
type FeatureDeriver struct {
	affirmative string
	workers     int
}

// NewFeatureDeriver creates a deriver. affirmative is the freight flag value
// that marks a shipment with freight; workers bounds DeriveAll's parallelism.
func NewFeatureDeriver(affirmative string, workers int) *FeatureDeriver {
	if workers < 1 {
		workers = 1
	}
	return &FeatureDeriver{affirmative: affirmative, workers: workers}
}

// Derive returns the record with its features. It has no side effects.
func (d *FeatureDeriver) Derive(r domain.BillingRecord) domain.EnrichedRecord {
	month := int(r.Date.Month())

	features := domain.RecordFeatures{
		Year:         r.Date.Year(),
		Month:        month,
		Quarter:      (month-1)/3 + 1,
		Weekday:      mondayFirst(r.Date.Weekday()),
		PricePerKg:   pricePerKg(r.AmountLocalCurrency, r.TotalWeightKg),
		ProductClean: strings.TrimSpace(r.ProductRaw),
	}
	if r.FreightFlag == d.affirmative {
		features.FreightBinary = 1
	}

	return domain.EnrichedRecord{BillingRecord: r, RecordFeatures: features}
}

// DeriveAll derives every record, splitting the input into contiguous
// shards processed concurrently. Output order matches input order.
func (d *FeatureDeriver) DeriveAll(ctx context.Context, records []domain.BillingRecord) ([]domain.EnrichedRecord, error) {
	out := make([]domain.EnrichedRecord, len(records))
	if len(records) == 0 {
		return out, nil
	}

	shardSize := (len(records) + d.workers - 1) / d.workers
	g, ctx := errgroup.WithContext(ctx)

	for start := 0; start < len(records); start += shardSize {
		start, end := start, min(start+shardSize, len(records))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = d.Derive(records[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// pricePerKg divides amount by weight; it is absent when either operand is
// absent or the weight is zero
func pricePerKg(amount, weight domain.NullFloat) domain.NullFloat {
	if !amount.Valid || !weight.Valid || weight.Float64 == 0 {
		return domain.NullFloat{}
	}
	return domain.Float(amount.Float64 / weight.Float64)
}

// mondayFirst maps time.Weekday (Sunday=0) to Monday=0 ... Sunday=6
func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
