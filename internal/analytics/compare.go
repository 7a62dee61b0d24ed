package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryComparison is one category's gap between an owner's spending
// and the peer average.
type CategoryComparison struct {
	Category   string `json:"category"`
	Difference int64  `json:"difference"`
	IsHigher   bool   `json:"isHigher"`
}

// ComparePeerSpending lines an owner's category totals up against the
// population's. For every category either side spent in, the peer
// average is the population total divided by the number of distinct
// owners who contributed to that category; the entry reports the
// rounded absolute gap and whether the owner sits above the average.
// An owner exactly on the average reports IsHigher false. Categories
// come back alphabetically so responses are stable.
func ComparePeerSpending(owner, population map[string]decimal.Decimal, contributors map[string]int) []CategoryComparison {
	seen := make(map[string]struct{}, len(owner)+len(population))
	names := make([]string, 0, len(owner)+len(population))
	for name := range owner {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	for name := range population {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	comparisons := make([]CategoryComparison, 0, len(names))
	for _, name := range names {
		avg := decimal.Zero
		if n := contributors[name]; n > 0 {
			avg = population[name].Div(decimal.NewFromInt(int64(n)))
		}
		gap := owner[name].Sub(avg).Round(0)
		comparisons = append(comparisons, CategoryComparison{
			Category:   name,
			Difference: gap.Abs().IntPart(),
			IsHigher:   gap.IsPositive(),
		})
	}
	return comparisons
}
