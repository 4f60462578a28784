package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DealType is the side of a disclosed bulk/block deal.
type DealType string

const (
	DealTypeBuy   DealType = "BUY"
	DealTypeOther DealType = "OTHER"
)

// ParseDealType maps the upstream Buy/Sell column to a DealType.
// Anything that is not BUY (case-insensitive, surrounding spaces ignored) is DealTypeOther.
func ParseDealType(s string) DealType {
	if strings.EqualFold(strings.TrimSpace(s), string(DealTypeBuy)) {
		return DealTypeBuy
	}
	return DealTypeOther
}

// Deal represents a single accepted row of the exchange's daily bulk deal file.
//
// Column order (0-indexed) in the upstream file:
//
//	0 Date
//	1 Symbol
//	2 Client (counterparty) Name
//	3 Buy/Sell
//	4 Quantity Traded
//	5 Trade Price / Weighted Average Price
//	6 Remarks
//	7 (trailing column)
//
// A Deal is passed by value and never mutated after construction.
type Deal struct {
	Date             time.Time
	Symbol           string
	CounterpartyName string
	Type             DealType
	Quantity         decimal.Decimal
	Price            decimal.Decimal
}

// Value is quantity × price.
func (d Deal) Value() decimal.Decimal {
	return d.Quantity.Mul(d.Price)
}

// IsBuy reports whether the deal is on the buy side.
func (d Deal) IsBuy() bool {
	return d.Type == DealTypeBuy
}
