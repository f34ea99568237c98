package dataprocessing

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"molidata/pkg/contracts/domain"
)

// decimalSum accumulates present values exactly, so the total does not
// depend on the order values arrive in
type decimalSum struct {
	sum decimal.Decimal
	n   int
}

func (s *decimalSum) add(v domain.NullFloat) {
	if !v.Valid {
		return
	}
	s.sum = s.sum.Add(decimal.NewFromFloat(v.Float64))
	s.n++
}

func (s *decimalSum) addInt(v int) {
	s.sum = s.sum.Add(decimal.NewFromInt(int64(v)))
	s.n++
}

// total returns the sum, zero when nothing was added
func (s *decimalSum) total() float64 {
	f, _ := s.sum.Float64()
	return f
}

// totalOrAbsent returns the sum, absent when nothing was added
func (s *decimalSum) totalOrAbsent() domain.NullFloat {
	if s.n == 0 {
		return domain.NullFloat{}
	}
	return domain.Float(s.total())
}

// mean returns the arithmetic mean of the present values, absent when there are none
func (s *decimalSum) mean() domain.NullFloat {
	if s.n == 0 {
		return domain.NullFloat{}
	}
	f, _ := s.sum.Div(decimal.NewFromInt(int64(s.n))).Float64()
	return domain.Float(f)
}

// KeyOf returns the grouping key of r along dim. The second result is false
// when the key is absent (empty text or unparsable mill id).
func KeyOf(r domain.EnrichedRecord, dim domain.Dimension) (string, bool) {
	var key string
	switch dim {
	case domain.DimensionCustomer:
		key = r.CustomerName
	case domain.DimensionProduct:
		key = r.ProductClean
	case domain.DimensionZone:
		key = r.Zone
	case domain.DimensionMill:
		key = r.MillKey()
	}
	return key, key != ""
}

// sortKeys orders keys ascending; mill ids compare numerically
func sortKeys(keys []string, dim domain.Dimension) {
	if dim != domain.DimensionMill {
		sort.Strings(keys)
		return
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		if errA != nil || errB != nil || a == b {
			return keys[i] < keys[j]
		}
		return a < b
	})
}

// RoundTo rounds v half away from zero to places decimals
func RoundTo(v float64, places int) float64 {
	f, _ := decimal.NewFromFloat(v).Round(int32(places)).Float64()
	return f
}
