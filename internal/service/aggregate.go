package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/guttosm/dealpulse/internal/domain/models"
)

// MaxRanked is the length cap of the ranked accumulation list.
const MaxRanked = 10

// Aggregate folds deals into per-symbol institutional buy totals and ranks them.
//
// Behavior:
//   - Keeps only BUY deals whose counterparty is institutional.
//   - Groups by symbol, summing quantity and value and counting deals.
//   - AveragePrice = TotalBuyValue / TotalBuyQuantity (quantity is always > 0
//     because every accepted deal has a positive quantity).
//   - Sorts by TotalBuyValue descending; equal totals keep the order in which
//     their symbol was first seen.
//   - Returns at most MaxRanked entries.
func Aggregate(deals []models.Deal) []models.StockAccumulation {
	groups := make([]models.StockAccumulation, 0)
	index := make(map[string]int)

	for _, d := range deals {
		if !d.IsBuy() || !IsInstitutional(d.CounterpartyName) {
			continue
		}

		i, ok := index[d.Symbol]
		if !ok {
			i = len(groups)
			index[d.Symbol] = i
			groups = append(groups, models.StockAccumulation{
				Symbol:           d.Symbol,
				TotalBuyQuantity: decimal.Zero,
				TotalBuyValue:    decimal.Zero,
			})
		}

		g := &groups[i]
		g.TotalBuyQuantity = g.TotalBuyQuantity.Add(d.Quantity)
		g.TotalBuyValue = g.TotalBuyValue.Add(d.Value())
		g.TransactionCount++
	}

	for i := range groups {
		groups[i].AveragePrice = groups[i].TotalBuyValue.Div(groups[i].TotalBuyQuantity)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalBuyValue.GreaterThan(groups[b].TotalBuyValue)
	})

	if len(groups) > MaxRanked {
		groups = groups[:MaxRanked]
	}
	return groups
}
