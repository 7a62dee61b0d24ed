// Package bigquery implements the store contracts on BigQuery. Expense
// records stream into a receipts table with line items nested as a
// repeated record; profiles live in their own table and are written
// with DML so they stay updatable.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/spendlens/spendlens/internal/store"
)

const (
	receiptsTable = "receipts"
	profilesTable = "profiles"
)

// Ensure Repository implements both store contracts.
var (
	_ store.ReceiptStore = (*Repository)(nil)
	_ store.ProfileStore = (*Repository)(nil)
)

// Repository stores expense records and user profiles in BigQuery. It
// holds a shared BigQuery client to avoid creating a new connection for
// each operation.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a new Repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection. This should be called
// when the repository is no longer needed to release resources.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Repository) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", r.projectID, r.datasetID, name)
}
