package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name      string
		input     float64
		wantValid bool
	}{
		{name: "finite value", input: 12.5, wantValid: true},
		{name: "zero is present", input: 0, wantValid: true},
		{name: "NaN is absent", input: math.NaN(), wantValid: false},
		{name: "positive infinity is absent", input: math.Inf(1), wantValid: false},
		{name: "negative infinity is absent", input: math.Inf(-1), wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Float(tt.input)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.input, got.Float64)
			}
		})
	}
}

func TestNullFloatJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A NullFloat `json:"a"`
		B NullFloat `json:"b"`
	}{A: Float(10), B: NullFloat{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":10,"b":null}`, string(data))

	var decoded struct {
		A NullFloat `json:"a"`
		B NullFloat `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Float(10), decoded.A)
	assert.False(t, decoded.B.Valid)
}

func TestNullFloatHelpers(t *testing.T) {
	assert.Equal(t, "1000", Float(1000).String())
	assert.Equal(t, "2.25", Float(2.25).String())
	assert.Equal(t, "", NullFloat{}.String())
	assert.Nil(t, NullFloat{}.Ptr())
	require.NotNil(t, Float(3).Ptr())
	assert.Equal(t, 3.0, *Float(3).Ptr())
	assert.Equal(t, 7.0, NullFloat{}.ValueOr(7))
}

func TestNullDate(t *testing.T) {
	d := Date(time.Date(2023, 1, 15, 13, 45, 0, 0, time.FixedZone("ART", -3*3600)))
	assert.True(t, d.Valid)
	assert.Equal(t, "2023-01-15", d.String())
	assert.Equal(t, time.UTC, d.Time.Location())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-01-15"`, string(data))

	data, err = json.Marshal(NullDate{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
