// Package analytics computes spending breakdowns over stored expense
// records. Every function here is pure: inputs are read, results are
// freshly allocated, and nothing else is touched, so callers may run
// them concurrently over the same data.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// CategoryBreakdown is one category's share of an owner's spending.
type CategoryBreakdown struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage int64           `json:"percentage"`
}

// AggregateCategories groups every line item across the given receipts
// by category and returns one entry per category with its total and its
// rounded share of the grand total. Categories appear in first-seen
// order. When the grand total is zero every share is zero.
func AggregateCategories(receipts []domain.Receipt) []CategoryBreakdown {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	grand := decimal.Zero

	for _, r := range receipts {
		for _, item := range r.Items {
			name := categoryName(item)
			if _, seen := totals[name]; !seen {
				order = append(order, name)
			}
			totals[name] = totals[name].Add(item.Price)
			grand = grand.Add(item.Price)
		}
	}

	breakdown := make([]CategoryBreakdown, 0, len(order))
	for _, name := range order {
		breakdown = append(breakdown, CategoryBreakdown{
			Name:       name,
			Amount:     totals[name],
			Percentage: percentageOf(totals[name], grand),
		})
	}
	return breakdown
}

// TotalsByCategory sums line-item prices per category across the given
// receipts.
func TotalsByCategory(receipts []domain.Receipt) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		for _, item := range r.Items {
			name := categoryName(item)
			totals[name] = totals[name].Add(item.Price)
		}
	}
	return totals
}

// PopulationTotals sums spending per category across all owners and
// counts, per category, how many distinct owners contributed line items
// to it. The counts are the divisors for peer averages.
func PopulationTotals(receipts []domain.Receipt) (map[string]decimal.Decimal, map[string]int) {
	totals := make(map[string]decimal.Decimal)
	owners := make(map[string]map[string]struct{})

	for _, r := range receipts {
		for _, item := range r.Items {
			name := categoryName(item)
			totals[name] = totals[name].Add(item.Price)
			if owners[name] == nil {
				owners[name] = make(map[string]struct{})
			}
			owners[name][r.OwnerID] = struct{}{}
		}
	}

	contributors := make(map[string]int, len(owners))
	for name, set := range owners {
		contributors[name] = len(set)
	}
	return totals, contributors
}

// categoryName buckets items without a category under the default.
// Stored records are normalized already; this guards ad-hoc inputs.
func categoryName(item domain.LineItem) string {
	if item.Category == "" {
		return domain.DefaultCategory
	}
	return item.Category
}

// percentageOf returns amount/total as a whole percentage, rounded half
// away from zero. A zero total yields zero for every share.
func percentageOf(amount, total decimal.Decimal) int64 {
	if total.IsZero() {
		return 0
	}
	return amount.Div(total).Mul(oneHundred).Round(0).IntPart()
}
