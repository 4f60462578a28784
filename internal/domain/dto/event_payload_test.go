package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

func TestMarshalEvent(t *testing.T) {
	ranked := []models.StockAccumulation{{
		Symbol:           "TCS",
		TotalBuyQuantity: decimal.NewFromInt(150),
		TotalBuyValue:    decimal.NewFromInt(2000),
		TransactionCount: 2,
		AveragePrice:     decimal.NewFromInt(2000).Div(decimal.NewFromInt(150)),
	}}

	cases := []struct {
		name string
		ev   models.ProgressEvent
		want string
	}{
		{
			name: "progress",
			ev:   models.NewProgressEvent("Fetching data for 16-10-2026..."),
			want: `{"type":"progress","message":"Fetching data for 16-10-2026..."}`,
		},
		{
			name: "error",
			ev:   models.NewErrorEvent("boom"),
			want: `{"type":"error","message":"boom"}`,
		},
		{
			name: "empty result encodes empty array",
			ev:   models.NewResultEvent(nil),
			want: `{"type":"result","data":[]}`,
		},
		{
			name: "result",
			ev:   models.NewResultEvent(ranked),
			want: `{"type":"result","data":[{"symbol":"TCS","totalBuyQuantity":150,"totalBuyValue":2000,"transactions":2,"avgPrice":13.333333333333334}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := MarshalEvent(tc.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))
		})
	}
}

func TestMarshalEvent_UnknownType(t *testing.T) {
	_, err := MarshalEvent(models.ProgressEvent{Type: "bogus"})
	assert.Error(t, err)
}
