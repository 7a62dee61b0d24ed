package gemini

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

// receiptFromModelOutput converts the model's JSON object into a
// receipt. Structural problems (no items array) fail with
// ErrReceiptUnparsable; field-level junk is coerced instead: blank
// descriptions and categories get their sentinels, unreadable dates
// stay nil and bad prices become zero.
func receiptFromModelOutput(obj map[string]interface{}) (*domain.Receipt, error) {
	itemsAny, ok := obj["items"]
	if !ok {
		return nil, fmt.Errorf("missing 'items' key in model output: %w", ErrReceiptUnparsable)
	}
	itemsSlice, ok := itemsAny.([]interface{})
	if !ok {
		return nil, fmt.Errorf("'items' is %T, want array: %w", itemsAny, ErrReceiptUnparsable)
	}

	receipt := &domain.Receipt{}

	if vendor := getStringField(obj, "vendor"); vendor != nil {
		receipt.Vendor = *vendor
	}
	if dateStr := getStringField(obj, "date"); dateStr != nil {
		if date, err := time.Parse("2006-01-02", *dateStr); err == nil {
			date = date.UTC()
			receipt.PurchaseDate = &date
		}
	}

	receipt.Items = make([]domain.LineItem, 0, len(itemsSlice))
	for _, itemAny := range itemsSlice {
		item := domain.LineItem{}
		if itemObj, ok := itemAny.(map[string]interface{}); ok {
			if desc := getStringField(itemObj, "description"); desc != nil {
				item.Description = *desc
			}
			if category := getStringField(itemObj, "category"); category != nil {
				item.Category = *category
			}
			item.Price = getPriceField(itemObj, "price")
		}
		receipt.Items = append(receipt.Items, domain.NormalizeLineItem(item))
	}

	return receipt, nil
}

// Model output fields are best-effort: absent, null or mistyped values
// read as absent and the record rules fill the gaps.
func getStringField(m map[string]interface{}, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// getPriceField reads a price as a decimal. Numbers are taken as-is,
// numeric strings are parsed, anything else is zero.
func getPriceField(m map[string]interface{}, key string) decimal.Decimal {
	v, ok := m[key]
	if !ok || v == nil {
		return decimal.Zero
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(val)); err == nil {
			return d
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
