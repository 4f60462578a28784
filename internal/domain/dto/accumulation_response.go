package dto

import "github.com/guttosm/dealpulse/internal/domain/models"

// AccumulationResponse is one entry of the ranked list carried by a result event.
//
// Field names follow the event wire contract and intentionally differ from the
// domain model (transactions, avgPrice).
type AccumulationResponse struct {
	Symbol           string  `json:"symbol" example:"TCS"`
	TotalBuyQuantity float64 `json:"totalBuyQuantity" example:"150"`
	TotalBuyValue    float64 `json:"totalBuyValue" example:"2000"`
	Transactions     int     `json:"transactions" example:"2"`
	AvgPrice         float64 `json:"avgPrice" example:"13.33"`
}

// NewAccumulationResponses maps ranked accumulations to wire entries, preserving order.
// The result is never nil so that an empty ranking encodes as [].
func NewAccumulationResponses(ranked []models.StockAccumulation) []AccumulationResponse {
	out := make([]AccumulationResponse, 0, len(ranked))
	for _, a := range ranked {
		out = append(out, AccumulationResponse{
			Symbol:           a.Symbol,
			TotalBuyQuantity: a.TotalBuyQuantity.InexactFloat64(),
			TotalBuyValue:    a.TotalBuyValue.InexactFloat64(),
			Transactions:     a.TransactionCount,
			AvgPrice:         a.AveragePrice.InexactFloat64(),
		})
	}
	return out
}
