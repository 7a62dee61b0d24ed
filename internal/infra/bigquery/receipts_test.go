package bigquery

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

func TestRowFromReceiptAssignsLineIndexes(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	receipt := &domain.Receipt{
		ReceiptID:    "rcpt-1",
		OwnerID:      "owner-1",
		Vendor:       "Corner Shop",
		PurchaseDate: &date,
		Items: []domain.LineItem{
			{ItemID: "a", Description: "Milk", Category: "Food", Price: decimal.RequireFromString("1.20")},
			{ItemID: "b", Description: "Bus ticket", Category: "Transport", Price: decimal.RequireFromString("2.50")},
			{ItemID: "c", Description: "Bread", Category: "Food", Price: decimal.RequireFromString("0.99")},
		},
	}

	row := rowFromReceipt(receipt)

	if len(row.Items) != 3 {
		t.Fatalf("got %d item rows, want 3", len(row.Items))
	}
	for i, item := range row.Items {
		if item.LineIndex != int64(i) {
			t.Errorf("item %d: LineIndex = %d, want %d", i, item.LineIndex, i)
		}
	}
	if !row.PurchaseDate.Valid {
		t.Error("PurchaseDate should be valid")
	}
	if got := row.PurchaseDate.Date.String(); got != "2025-03-14" {
		t.Errorf("PurchaseDate = %s, want 2025-03-14", got)
	}
	if row.Items[1].Price != 2.5 {
		t.Errorf("Price = %v, want 2.5", row.Items[1].Price)
	}
}

func TestRowFromReceiptNilDate(t *testing.T) {
	row := rowFromReceipt(&domain.Receipt{ReceiptID: "rcpt-1", OwnerID: "owner-1"})
	if row.PurchaseDate.Valid {
		t.Error("PurchaseDate should be NULL for an undated receipt")
	}
}

func TestReceiptFromRowRestoresItemOrder(t *testing.T) {
	row := &ReceiptRow{
		ReceiptID: "rcpt-1",
		GoogleID:  "owner-1",
		Items: []LineItemRow{
			{ItemID: "c", LineIndex: 2, Description: "Bread", Category: "Food", Price: 0.99},
			{ItemID: "a", LineIndex: 0, Description: "Milk", Category: "Food", Price: 1.20},
			{ItemID: "b", LineIndex: 1, Description: "Bus ticket", Category: "Transport", Price: 2.50},
		},
	}

	receipt := receiptFromRow(row)

	wantOrder := []string{"a", "b", "c"}
	for i, item := range receipt.Items {
		if item.ItemID != wantOrder[i] {
			t.Errorf("item %d: ItemID = %q, want %q", i, item.ItemID, wantOrder[i])
		}
	}
	if receipt.PurchaseDate != nil {
		t.Error("PurchaseDate should be nil for a NULL date")
	}
	if !receipt.Items[1].Price.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Price = %s, want 2.5", receipt.Items[1].Price)
	}
}

func TestProfileRowNullMapping(t *testing.T) {
	p := &domain.Profile{
		GoogleID: "g-123",
		Email:    "user@example.com",
		Age:      34,
		Income:   decimal.RequireFromString("52000"),
	}

	row := rowFromProfile(p)

	if !row.Age.Valid || row.Age.Int64 != 34 {
		t.Errorf("Age = %+v, want valid 34", row.Age)
	}
	if !row.Income.Valid || row.Income.Float64 != 52000 {
		t.Errorf("Income = %+v, want valid 52000", row.Income)
	}
	if row.FirstName.Valid {
		t.Error("empty FirstName should map to NULL")
	}
	if row.Dependents.Valid {
		t.Error("zero Dependents should map to NULL")
	}

	back := profileFromRow(row)
	if back.GoogleID != p.GoogleID || back.Email != p.Email {
		t.Errorf("round trip lost identity: %+v", back)
	}
	if back.Age != 34 {
		t.Errorf("Age = %d, want 34", back.Age)
	}
	if !back.Income.Equal(p.Income) {
		t.Errorf("Income = %s, want %s", back.Income, p.Income)
	}
	if back.FirstName != "" {
		t.Errorf("FirstName = %q, want empty", back.FirstName)
	}
}
