package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel values applied when the parser or a client omits a field.
// Categories are free-form strings; "Other" is the fallback bucket so
// every line item aggregates somewhere.
const (
	DefaultCategory    = "Other"
	DefaultDescription = "Unknown"
)

// LineItem is one purchased item on a receipt.
type LineItem struct {
	ItemID      string          `json:"itemId"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// Receipt is one stored expense record: a single vendor visit with its
// line items in receipt order. Records are immutable once saved;
// corrections are new records.
type Receipt struct {
	ReceiptID    string     `json:"receiptId"`
	OwnerID      string     `json:"googleId"`
	Vendor       string     `json:"vendor,omitempty"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"` // nil when the receipt carries no readable date
	Items        []LineItem `json:"items"`
	ImageURI     string     `json:"imageUri,omitempty"` // archive location of the source image, if archived
	CreatedAt    time.Time  `json:"createdAt"`
}

// NormalizeLineItem fills sentinel defaults and clamps the price so a
// stored item always has a description, a category and a non-negative
// amount, whatever the parser or client sent.
func NormalizeLineItem(item LineItem) LineItem {
	if strings.TrimSpace(item.Description) == "" {
		item.Description = DefaultDescription
	}
	if strings.TrimSpace(item.Category) == "" {
		item.Category = DefaultCategory
	}
	if item.Price.IsNegative() {
		item.Price = decimal.Zero
	}
	return item
}

// AssignIdentifiers generates ids for the receipt and any items that do
// not carry one yet. Existing ids are preserved so re-running an ingest
// does not re-key records.
func AssignIdentifiers(r *Receipt) {
	if r.ReceiptID == "" {
		r.ReceiptID = uuid.NewString()
	}
	for i := range r.Items {
		if r.Items[i].ItemID == "" {
			r.Items[i].ItemID = uuid.NewString()
		}
	}
}

// Total sums the receipt's line-item prices.
func (r *Receipt) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Price)
	}
	return total
}
