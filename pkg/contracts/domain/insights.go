package domain

import (
	"bytes"
	"encoding/json"
)

// Insights is the business summary document written as business_insights.json
type Insights struct {
	Overview        Overview        `json:"overview"`
	TopCustomers    RankedValues    `json:"top_customers"`
	TopProducts     RankedValues    `json:"top_products"`
	TopZones        RankedValues    `json:"top_zones"`
	MonthlyTrends   MonthlyTrend    `json:"monthly_trends"`
	FreightAnalysis FreightAnalysis `json:"freight_analysis"`
}

// Overview holds run-wide totals and distinct counts
type Overview struct {
	TotalRevenue      float64   `json:"total_revenue"`
	TotalVolumeKg     float64   `json:"total_volume_kg"`
	TotalTransactions int       `json:"total_transactions"`
	UniqueCustomers   int       `json:"unique_customers"`
	UniqueProducts    int       `json:"unique_products"`
	UniqueMills       int       `json:"unique_mills"`
	UniqueZones       int       `json:"unique_zones"`
	DateRange         DateRange `json:"date_range"`
}

// DateRange is the min and max record date
type DateRange struct {
	Start NullDate `json:"start"`
	End   NullDate `json:"end"`
}

// FreightAnalysis splits revenue by freight flag
type FreightAnalysis struct {
	WithFreight       float64 `json:"with_freight"`
	WithoutFreight    float64 `json:"without_freight"`
	FreightPercentage float64 `json:"freight_percentage"`
}

// RankedValue is one entry of a top-N ranking
type RankedValue struct {
	Key   string
	Value float64
}

// RankedValues is a ranking encoded as a JSON object that keeps rank order
type RankedValues []RankedValue

// MarshalJSON writes the entries as an object in slice order
func (r RankedValues) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(r), func(i int) (string, any) {
		return r[i].Key, r[i].Value
	})
}

// Get returns the value stored for key
func (r RankedValues) Get(key string) (float64, bool) {
	for _, v := range r {
		if v.Key == key {
			return v.Value, true
		}
	}
	return 0, false
}

// PeriodValue is the revenue of one YYYY-MM period
type PeriodValue struct {
	Period  string
	Revenue NullFloat
}

// MonthlyTrend is a chronological revenue series encoded as a JSON object
type MonthlyTrend []PeriodValue

// MarshalJSON writes the periods as an object in chronological order
func (m MonthlyTrend) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(m), func(i int) (string, any) {
		return m[i].Period, m[i].Revenue
	})
}

// Get returns the revenue of period
func (m MonthlyTrend) Get(period string) (NullFloat, bool) {
	for _, v := range m {
		if v.Period == period {
			return v.Revenue, true
		}
	}
	return NullFloat{}, false
}

func marshalOrdered(n int, entry func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := entry(i)
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
