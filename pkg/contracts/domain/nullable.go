package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// DateLayout is the calendar date format used in every output artifact
const DateLayout = "2006-01-02"

var nullLiteral = []byte("null")

// NullFloat is a float64 that may be absent. The zero value is absent.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a present value. Non-finite inputs are treated as absent.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Ptr returns a pointer to the value, or nil when absent
func (n NullFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// ValueOr returns the value or def when absent
func (n NullFloat) ValueOr(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// String renders the value without trailing zeros, or "" when absent
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON accepts a JSON number or null
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// NullDate is a UTC calendar date that may be absent
type NullDate struct {
	Time  time.Time
	Valid bool
}

// Date returns a present date truncated to midnight UTC
func Date(t time.Time) NullDate {
	y, m, d := t.Date()
	return NullDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// String formats the date as YYYY-MM-DD, or "" when absent
func (n NullDate) String() string {
	if !n.Valid {
		return ""
	}
	return n.Time.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null
func (n NullDate) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(n.Time.Format(DateLayout))
}
