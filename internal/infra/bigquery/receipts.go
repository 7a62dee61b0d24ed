package bigquery

import (
	"sort"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain"
)

// ReceiptRow is the receipts table schema. Line items ride along as a
// repeated record so a single streaming insert lands the whole receipt.
type ReceiptRow struct {
	ReceiptID    string            `bigquery:"receipt_id"`    // REQUIRED
	GoogleID     string            `bigquery:"google_id"`     // REQUIRED - owner of the record
	Vendor       string            `bigquery:"vendor"`        // NULLABLE - empty when unreadable
	PurchaseDate bigquery.NullDate `bigquery:"purchase_date"` // DATE, NULLABLE - NULL keeps the row out of windowed reads
	ImageURI     string            `bigquery:"image_uri"`     // NULLABLE - gs:// location of the archived image
	Items        []LineItemRow     `bigquery:"items"`         // REPEATED RECORD
	CreatedTS    time.Time         `bigquery:"created_ts"`    // REQUIRED
}

// LineItemRow is one nested line item. BigQuery arrays preserve order;
// LineIndex makes receipt order explicit anyway.
type LineItemRow struct {
	ItemID      string  `bigquery:"item_id"`     // REQUIRED
	LineIndex   int64   `bigquery:"line_index"`  // REQUIRED - 0-based position on the receipt
	Description string  `bigquery:"description"` // REQUIRED
	Category    string  `bigquery:"category"`    // REQUIRED
	Price       float64 `bigquery:"price"`       // FLOAT64, REQUIRED
}

func rowFromReceipt(r *domain.Receipt) *ReceiptRow {
	row := &ReceiptRow{
		ReceiptID: r.ReceiptID,
		GoogleID:  r.OwnerID,
		Vendor:    r.Vendor,
		ImageURI:  r.ImageURI,
		CreatedTS: r.CreatedAt,
	}
	if r.PurchaseDate != nil {
		row.PurchaseDate = bigquery.NullDate{Date: civil.DateOf(*r.PurchaseDate), Valid: true}
	}
	row.Items = make([]LineItemRow, 0, len(r.Items))
	for i, item := range r.Items {
		row.Items = append(row.Items, LineItemRow{
			ItemID:      item.ItemID,
			LineIndex:   int64(i),
			Description: item.Description,
			Category:    item.Category,
			Price:       item.Price.InexactFloat64(),
		})
	}
	return row
}

func receiptFromRow(row *ReceiptRow) domain.Receipt {
	r := domain.Receipt{
		ReceiptID: row.ReceiptID,
		OwnerID:   row.GoogleID,
		Vendor:    row.Vendor,
		ImageURI:  row.ImageURI,
		CreatedAt: row.CreatedTS,
	}
	if row.PurchaseDate.Valid {
		t := row.PurchaseDate.Date.In(time.UTC)
		r.PurchaseDate = &t
	}

	items := make([]LineItemRow, len(row.Items))
	copy(items, row.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].LineIndex < items[j].LineIndex })

	r.Items = make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		r.Items = append(r.Items, domain.LineItem{
			ItemID:      item.ItemID,
			Description: item.Description,
			Category:    item.Category,
			Price:       decimal.NewFromFloat(item.Price),
		})
	}
	return r
}
