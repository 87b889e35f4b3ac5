package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`3`, 3},
		{`2.5`, 2.5},
		{`"4"`, 4},
		{`" 1.5 "`, 1.5},
		{`"abc"`, 0},
		{`""`, 0},
		{`"NaN"`, 0},
		{`true`, 1},
		{`false`, 0},
		{`{"a":1}`, 0},
		{`[1,2]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Numeric
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.want, n.Float())
		})
	}
}

func TestNumericConversions(t *testing.T) {
	assert.Equal(t, 2, Numeric(2.9).Int())
	assert.Equal(t, -1, Numeric(-1.5).Int())
	assert.Equal(t, uint(7), Numeric(7).ID())
	assert.Equal(t, uint(0), Numeric(7.5).ID())
	assert.Equal(t, uint(0), Numeric(-3).ID())
}

func TestNumericOutOfRange(t *testing.T) {
	assert.Equal(t, 0, Numeric(1e300).Int())
	assert.Equal(t, 0, Numeric(-1e300).Int())
	assert.Equal(t, 0, Numeric(3e9).Int())
	assert.Equal(t, 2147483647, Numeric(2147483647).Int())

	assert.Equal(t, uint(0), Numeric(1e300).ID())
	assert.Equal(t, uint(0), Numeric(float64(1<<63)).ID())
	assert.Equal(t, uint(1<<52), Numeric(float64(1<<52)).ID())
}

func TestSaleTotalFinite(t *testing.T) {
	sale := Sale{QuantityItems: 3, ValueItem: 1e308}
	sale.Recalculate()
	assert.False(t, sale.TotalFinite())

	sale.ValueItem = 2.5
	sale.Recalculate()
	assert.True(t, sale.TotalFinite())
}

func TestSaleInputNullIsMissing(t *testing.T) {
	var in SaleInput
	require.NoError(t, json.Unmarshal([]byte(`{"nameProduct":"P","quantityItems":null,"valueItem":"2"}`), &in))
	assert.Nil(t, in.QuantityItems)
	require.NotNil(t, in.ValueItem)
	assert.Equal(t, 2.0, in.ValueItem.Float())
}

func TestSaleRecalculate(t *testing.T) {
	s := Sale{QuantityItems: 5, ValueItem: 2.5, TotalValue: 1000}
	s.Recalculate()
	assert.Equal(t, 12.5, s.TotalValue)
	assert.True(t, SalePatch{ValueItem: new(Numeric)}.TouchesTotal())
	assert.False(t, SalePatch{NameProduct: new(string)}.TouchesTotal())
}
