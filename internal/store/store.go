// Package store defines the persistence contracts for expense records
// and user profiles. Implementations live under internal/infra.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/spendlens/spendlens/internal/domain"
)

// ErrProfileNotFound is returned when a lookup matches no stored profile.
var ErrProfileNotFound = errors.New("profile not found")

// ReceiptStore persists expense records and serves the reads behind the
// receipt and insight endpoints. Records are write-once: there is no
// update or delete.
type ReceiptStore interface {
	// InsertReceipt stores a new expense record with its line items.
	InsertReceipt(ctx context.Context, receipt *domain.Receipt) error

	// ListReceiptsByOwner returns every record owned by ownerID, newest
	// first. An owner with no records yields an empty slice, not an error.
	ListReceiptsByOwner(ctx context.Context, ownerID string) ([]domain.Receipt, error)

	// QueryReceiptsByOwnerAndDateRange returns the owner's records whose
	// purchase date falls within [start, end]. Records without a purchase
	// date are excluded.
	QueryReceiptsByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Receipt, error)

	// QueryReceiptsByDateRange returns all owners' records whose purchase
	// date falls within [start, end].
	QueryReceiptsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Receipt, error)
}

// ProfileStore persists user profiles keyed by Google id.
type ProfileStore interface {
	// FindProfileByGoogleID returns the stored profile or ErrProfileNotFound.
	FindProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error)

	// GetOrCreateProfile returns the existing profile for p.GoogleID or
	// stores p as a new one. Calling it repeatedly with the same id keeps
	// returning the first stored profile.
	GetOrCreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error)

	// UpdateProfile applies the set fields of upd to the stored profile
	// and returns the result, or ErrProfileNotFound.
	UpdateProfile(ctx context.Context, googleID string, upd domain.ProfileUpdate) (*domain.Profile, error)
}
