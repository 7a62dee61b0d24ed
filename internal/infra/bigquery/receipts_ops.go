package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/spendlens/spendlens/internal/domain"
)

const receiptColumns = `
		receipt_id,
		google_id,
		vendor,
		purchase_date,
		image_uri,
		items,
		created_ts`

// InsertReceipt streams one expense record with its line items into the
// receipts table. Records are write-once, so the streaming API's
// no-update restriction costs nothing here.
func (r *Repository) InsertReceipt(ctx context.Context, receipt *domain.Receipt) error {
	if receipt.ReceiptID == "" {
		return fmt.Errorf("InsertReceipt: receipt id cannot be empty")
	}
	if receipt.OwnerID == "" {
		return fmt.Errorf("InsertReceipt: owner id cannot be empty")
	}

	row := rowFromReceipt(receipt)
	inserter := r.client.DatasetInProject(r.projectID, r.datasetID).Table(receiptsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertReceipt: streaming insert: %w", err)
	}
	return nil
}

// ListReceiptsByOwner retrieves every record owned by ownerID, newest
// first.
func (r *Repository) ListReceiptsByOwner(ctx context.Context, ownerID string) ([]domain.Receipt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE google_id = @google_id
		ORDER BY created_ts DESC
	`, receiptColumns, r.table(receiptsTable))

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "google_id", Value: ownerID},
	}

	return r.readReceipts(ctx, q, "ListReceiptsByOwner")
}

// QueryReceiptsByOwnerAndDateRange retrieves the owner's records with a
// purchase date inside [start, end]. Rows with a NULL purchase date
// never match, so undated receipts stay out of windowed reads.
func (r *Repository) QueryReceiptsByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Receipt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE google_id = @google_id
		  AND purchase_date IS NOT NULL
		  AND purchase_date >= @start_date
		  AND purchase_date <= @end_date
		ORDER BY purchase_date DESC, created_ts DESC
	`, receiptColumns, r.table(receiptsTable))

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "google_id", Value: ownerID},
		{Name: "start_date", Value: civil.DateOf(start.UTC())},
		{Name: "end_date", Value: civil.DateOf(end.UTC())},
	}

	return r.readReceipts(ctx, q, "QueryReceiptsByOwnerAndDateRange")
}

// QueryReceiptsByDateRange retrieves all owners' records with a
// purchase date inside [start, end]. This is the population read behind
// peer comparisons.
func (r *Repository) QueryReceiptsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Receipt, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE purchase_date IS NOT NULL
		  AND purchase_date >= @start_date
		  AND purchase_date <= @end_date
		ORDER BY purchase_date DESC, created_ts DESC
	`, receiptColumns, r.table(receiptsTable))

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: civil.DateOf(start.UTC())},
		{Name: "end_date", Value: civil.DateOf(end.UTC())},
	}

	return r.readReceipts(ctx, q, "QueryReceiptsByDateRange")
}

func (r *Repository) readReceipts(ctx context.Context, q *bigquery.Query, op string) ([]domain.Receipt, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: reading query: %w", op, err)
	}

	receipts := make([]domain.Receipt, 0)
	for {
		var row ReceiptRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iterating: %w", op, err)
		}
		receipts = append(receipts, receiptFromRow(&row))
	}

	return receipts, nil
}
