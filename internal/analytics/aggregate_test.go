package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

func item(category string, price string) domain.LineItem {
	return domain.LineItem{
		Description: "test item",
		Category:    category,
		Price:       decimal.RequireFromString(price),
	}
}

func TestAggregateCategories(t *testing.T) {
	tests := []struct {
		name     string
		receipts []domain.Receipt
		want     []CategoryBreakdown
	}{
		{
			name: "two categories with rounded shares",
			receipts: []domain.Receipt{
				{Items: []domain.LineItem{item("Food", "30"), item("Food", "10"), item("Transport", "20")}},
			},
			want: []CategoryBreakdown{
				{Name: "Food", Amount: decimal.NewFromInt(40), Percentage: 67},
				{Name: "Transport", Amount: decimal.NewFromInt(20), Percentage: 33},
			},
		},
		{
			name: "categories keep first-seen order across receipts",
			receipts: []domain.Receipt{
				{Items: []domain.LineItem{item("Transport", "5")}},
				{Items: []domain.LineItem{item("Food", "5"), item("Transport", "10")}},
			},
			want: []CategoryBreakdown{
				{Name: "Transport", Amount: decimal.NewFromInt(15), Percentage: 75},
				{Name: "Food", Amount: decimal.NewFromInt(5), Percentage: 25},
			},
		},
		{
			name: "zero grand total yields zero shares",
			receipts: []domain.Receipt{
				{Items: []domain.LineItem{item("Food", "0"), item("Transport", "0")}},
			},
			want: []CategoryBreakdown{
				{Name: "Food", Amount: decimal.Zero, Percentage: 0},
				{Name: "Transport", Amount: decimal.Zero, Percentage: 0},
			},
		},
		{
			name: "uncategorized items fall into the default bucket",
			receipts: []domain.Receipt{
				{Items: []domain.LineItem{item("", "10"), item("Food", "10")}},
			},
			want: []CategoryBreakdown{
				{Name: domain.DefaultCategory, Amount: decimal.NewFromInt(10), Percentage: 50},
				{Name: "Food", Amount: decimal.NewFromInt(10), Percentage: 50},
			},
		},
		{
			name:     "no receipts",
			receipts: nil,
			want:     []CategoryBreakdown{},
		},
		{
			name: "receipts without items",
			receipts: []domain.Receipt{
				{Vendor: "Empty Receipt Inc"},
			},
			want: []CategoryBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateCategories(tt.receipts)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Name != tt.want[i].Name {
					t.Errorf("entry %d: Name = %q, want %q", i, got[i].Name, tt.want[i].Name)
				}
				if !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("entry %d (%s): Amount = %s, want %s", i, got[i].Name, got[i].Amount, tt.want[i].Amount)
				}
				if got[i].Percentage != tt.want[i].Percentage {
					t.Errorf("entry %d (%s): Percentage = %d, want %d", i, got[i].Name, got[i].Percentage, tt.want[i].Percentage)
				}
			}
		})
	}
}

// The breakdown must conserve money: category amounts sum to exactly the
// sum of all line-item prices.
func TestAggregateCategoriesConservation(t *testing.T) {
	receipts := []domain.Receipt{
		{Items: []domain.LineItem{item("Food", "12.37"), item("Food", "0.01"), item("Transport", "99.99")}},
		{Items: []domain.LineItem{item("Entertainment", "45.50"), item("", "3.33")}},
		{Items: []domain.LineItem{item("Food", "0")}},
	}

	var inputTotal decimal.Decimal
	for _, r := range receipts {
		inputTotal = inputTotal.Add(r.Total())
	}

	var breakdownTotal decimal.Decimal
	for _, entry := range AggregateCategories(receipts) {
		breakdownTotal = breakdownTotal.Add(entry.Amount)
	}

	if !breakdownTotal.Equal(inputTotal) {
		t.Errorf("breakdown total = %s, want %s", breakdownTotal, inputTotal)
	}
}

// Rounded shares can each be off by at most half a point, so their sum
// stays within len(entries)/2 of 100 whenever anything was spent.
func TestAggregateCategoriesSharesSumNearHundred(t *testing.T) {
	receipts := []domain.Receipt{
		{Items: []domain.LineItem{item("Food", "33.33"), item("Transport", "33.33"), item("Entertainment", "33.34")}},
		{Items: []domain.LineItem{item("Utilities", "0.01"), item("Health", "7.77")}},
	}

	breakdown := AggregateCategories(receipts)
	var sum int64
	for _, entry := range breakdown {
		sum += entry.Percentage
	}

	slack := int64(len(breakdown))
	if sum < 100-slack || sum > 100+slack {
		t.Errorf("percentages sum to %d, want within %d of 100", sum, slack)
	}
}

func TestAggregateCategoriesDoesNotMutateInput(t *testing.T) {
	receipts := []domain.Receipt{
		{Items: []domain.LineItem{item("Food", "30"), item("Transport", "20")}},
	}
	before := make([]string, 0)
	for _, it := range receipts[0].Items {
		before = append(before, it.Category+"="+it.Price.String())
	}

	AggregateCategories(receipts)

	for i, it := range receipts[0].Items {
		if got := it.Category + "=" + it.Price.String(); got != before[i] {
			t.Errorf("input item %d changed: %s, was %s", i, got, before[i])
		}
	}
}

func TestTotalsByCategory(t *testing.T) {
	receipts := []domain.Receipt{
		{Items: []domain.LineItem{item("Food", "10"), item("Food", "5.50")}},
		{Items: []domain.LineItem{item("Transport", "8"), item("", "2")}},
	}

	totals := TotalsByCategory(receipts)

	if len(totals) != 3 {
		t.Fatalf("got %d categories, want 3: %v", len(totals), totals)
	}
	if !totals["Food"].Equal(decimal.RequireFromString("15.50")) {
		t.Errorf("Food = %s, want 15.50", totals["Food"])
	}
	if !totals["Transport"].Equal(decimal.NewFromInt(8)) {
		t.Errorf("Transport = %s, want 8", totals["Transport"])
	}
	if !totals[domain.DefaultCategory].Equal(decimal.NewFromInt(2)) {
		t.Errorf("%s = %s, want 2", domain.DefaultCategory, totals[domain.DefaultCategory])
	}
}

func TestPopulationTotalsCountsDistinctOwners(t *testing.T) {
	receipts := []domain.Receipt{
		{OwnerID: "alice", Items: []domain.LineItem{item("Food", "100")}},
		{OwnerID: "alice", Items: []domain.LineItem{item("Food", "50")}},
		{OwnerID: "bob", Items: []domain.LineItem{item("Food", "150")}},
		{OwnerID: "bob", Items: []domain.LineItem{item("Transport", "30")}},
	}

	totals, contributors := PopulationTotals(receipts)

	if !totals["Food"].Equal(decimal.NewFromInt(300)) {
		t.Errorf("Food total = %s, want 300", totals["Food"])
	}
	if contributors["Food"] != 2 {
		t.Errorf("Food contributors = %d, want 2 (alice counted once)", contributors["Food"])
	}
	if contributors["Transport"] != 1 {
		t.Errorf("Transport contributors = %d, want 1", contributors["Transport"])
	}
}
