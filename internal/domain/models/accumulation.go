package models

import "github.com/shopspring/decimal"

// StockAccumulation is the institutional buy activity in one symbol over the
// analysis window. It is derived on every run and never stored.
//
// Fields:
//   - Symbol: exchange symbol (e.g., "TCS").
//   - TotalBuyQuantity: sum of quantities of every qualifying deal.
//   - TotalBuyValue: sum of quantity × price of every qualifying deal.
//   - TransactionCount: number of qualifying deals.
//   - AveragePrice: TotalBuyValue / TotalBuyQuantity.
type StockAccumulation struct {
	Symbol           string
	TotalBuyQuantity decimal.Decimal
	TotalBuyValue    decimal.Decimal
	TransactionCount int
	AveragePrice     decimal.Decimal
}
