package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func TestStockCheckEvent_EncodeDecode(t *testing.T) {
	ev := NewStockCheckEvent(Product{ID: 9, CompanyID: 7, Name: "Widget", Qty: 2, QtyMin: 5})

	payload, err := ev.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Widget","quantity":2,"minimum_quantity":5,"company_id":7}`, string(payload))

	decoded, err := DecodeStockCheckEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)

	again, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, payload, again)
}

func TestDecodeStockCheckEvent_Malformed(t *testing.T) {
	for _, payload := range []string{``, `not json`, `{"name":`, `{"quantity":"many"}`, `[1,2]`} {
		_, err := DecodeStockCheckEvent([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedEvent, "payload %q", payload)
	}
}

func TestDecodeStockCheckEvent_MissingFields(t *testing.T) {
	ev, err := DecodeStockCheckEvent([]byte(`{"name":"Widget","quantity":1}`))
	require.NoError(t, err)
	assert.False(t, ev.Complete())
	assert.False(t, ev.IsLowStock())
}

func TestStockCheckEvent_IsLowStock(t *testing.T) {
	tests := []struct {
		name   string
		qty    int64
		minQty int64
		want   bool
	}{
		{"below minimum", 2, 5, true},
		{"equal to minimum", 5, 5, true},
		{"above minimum", 6, 5, false},
		{"zero minimum with zero qty", 0, 0, true},
		{"negative qty", -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := StockCheckEvent{Name: "Widget", Quantity: i64(tt.qty), MinimumQuantity: i64(tt.minQty), CompanyID: i64(1)}
			assert.Equal(t, tt.want, ev.IsLowStock())
		})
	}
}
