package dataprocessing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molidata/pkg/contracts/domain"
)

func TestFeatureDeriver_Derive(t *testing.T) {
	d := NewFeatureDeriver("Si", 1)

	tests := []struct {
		name        string
		record      domain.BillingRecord
		wantWeekday int
		wantQuarter int
		wantPrice   domain.NullFloat
		wantFreight int
		wantProduct string
	}{
		{
			name: "sunday with freight",
			record: domain.BillingRecord{
				Date: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), ProductRaw: "  Harina 000 ",
				FreightFlag: "Si", AmountLocalCurrency: domain.Float(1000), TotalWeightKg: domain.Float(100),
			},
			wantWeekday: 6, wantQuarter: 1, wantPrice: domain.Float(10), wantFreight: 1, wantProduct: "Harina 000",
		},
		{
			name: "zero weight gives absent price",
			record: domain.BillingRecord{
				Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), ProductRaw: "Harina",
				FreightFlag: "No", AmountLocalCurrency: domain.Float(2000), TotalWeightKg: domain.Float(0),
			},
			wantWeekday: 2, wantQuarter: 1, wantPrice: domain.NullFloat{}, wantFreight: 0, wantProduct: "Harina",
		},
		{
			name: "absent weight gives absent price",
			record: domain.BillingRecord{
				Date: time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC), AmountLocalCurrency: domain.Float(10),
			},
			wantWeekday: 0, wantQuarter: 2, wantPrice: domain.NullFloat{},
		},
		{
			name: "absent amount gives absent price",
			record: domain.BillingRecord{
				Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), TotalWeightKg: domain.Float(5),
			},
			wantWeekday: 6, wantQuarter: 4, wantPrice: domain.NullFloat{},
		},
		{
			name: "freight marker is case and space sensitive",
			record: domain.BillingRecord{
				Date: time.Date(2023, 7, 7, 0, 0, 0, 0, time.UTC), FreightFlag: " Si",
			},
			wantWeekday: 4, wantQuarter: 3, wantFreight: 0,
		},
		{
			name: "lowercase marker is not affirmative",
			record: domain.BillingRecord{
				Date: time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC), FreightFlag: "si",
			},
			wantWeekday: 5, wantQuarter: 3, wantFreight: 0,
		},
		{
			name: "inner whitespace and case preserved",
			record: domain.BillingRecord{
				Date: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), ProductRaw: "\tHarina  Leudante\n",
			},
			wantWeekday: 3, wantQuarter: 1, wantProduct: "Harina  Leudante",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Derive(tt.record)

			assert.Equal(t, tt.record, got.BillingRecord)
			assert.Equal(t, tt.record.Date.Year(), got.Year)
			assert.Equal(t, int(tt.record.Date.Month()), got.Month)
			assert.Equal(t, tt.wantQuarter, got.Quarter)
			assert.Equal(t, tt.wantWeekday, got.Weekday)
			assert.Equal(t, tt.wantPrice.Valid, got.PricePerKg.Valid)
			if tt.wantPrice.Valid {
				assert.InDelta(t, tt.wantPrice.Float64, got.PricePerKg.Float64, 1e-9)
			}
			assert.Equal(t, tt.wantFreight, got.FreightBinary)
			assert.Equal(t, tt.wantProduct, got.ProductClean)
		})
	}
}

func TestFeatureDeriver_DeriveAllKeepsOrder(t *testing.T) {
	records := make([]domain.BillingRecord, 37)
	for i := range records {
		records[i] = domain.BillingRecord{
			Date:                time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			VoucherID:           fmt.Sprintf("V-%02d", i),
			AmountLocalCurrency: domain.Float(float64(i)),
			TotalWeightKg:       domain.Float(2),
		}
	}

	for _, workers := range []int{1, 3, 8, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := NewFeatureDeriver("Si", workers).DeriveAll(context.Background(), records)
			require.NoError(t, err)
			require.Len(t, got, len(records))
			for i, r := range got {
				assert.Equal(t, records[i].VoucherID, r.VoucherID)
				assert.InDelta(t, float64(i)/2, r.PricePerKg.Float64, 1e-9)
			}
		})
	}
}

func TestFeatureDeriver_DeriveAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFeatureDeriver("Si", 2).DeriveAll(ctx, []domain.BillingRecord{{}, {}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeatureDeriver_DeriveAllEmpty(t *testing.T) {
	got, err := NewFeatureDeriver("Si", 4).DeriveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
