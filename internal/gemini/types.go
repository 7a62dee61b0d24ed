// Package gemini adapts Google's Gemini models to the two AI jobs the
// app has: reading a receipt photo into a structured expense record and
// narrating a spending breakdown in plain language.
package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/domain"
)

// Sentinel errors for the failure modes callers branch on.
var (
	// ErrUnsupportedImage means the declared MIME type is not on the
	// receipt image allow-list. Nothing was sent to the model.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrReceiptUnparsable means the model's reply could not be turned
	// into a structured receipt.
	ErrReceiptUnparsable = errors.New("could not extract a structured receipt")

	// ErrSummaryUnavailable means the model produced no usable summary.
	ErrSummaryUnavailable = errors.New("spending summary unavailable")
)

// allowedImageMIMETypes is the receipt upload allow-list. Anything else
// is rejected before any model call.
var allowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// IsAllowedImageType reports whether the declared MIME type may be
// submitted as a receipt image. Parameters ("image/jpeg; q=1") are
// ignored.
func IsAllowedImageType(mimeType string) bool {
	s := mimeType
	if i := strings.Index(s, ";"); i != -1 {
		s = s[:i]
	}
	return allowedImageMIMETypes[strings.ToLower(strings.TrimSpace(s))]
}

// ReceiptParser provides an interface for AI-powered receipt reading.
// This interface enables mocking and testing of the parsing flow.
type ReceiptParser interface {
	// ParseReceipt sends an image to the model and returns the receipt
	// it describes. The caller owns identity: the result carries no
	// receipt id, owner id or item ids.
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (*domain.Receipt, error)
}

// SpendingSummarizer provides an interface for AI-generated summaries
// of a category breakdown.
type SpendingSummarizer interface {
	SummarizeSpending(ctx context.Context, breakdown []analytics.CategoryBreakdown) (string, error)
}

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// Client is the concrete ReceiptParser and SpendingSummarizer backed by
// the Gemini API. Credentials come from the environment.
type Client struct {
	model string
}

// NewClient creates a Client for the given model, falling back to
// DefaultModelName when model is empty.
func NewClient(model string) *Client {
	if model == "" {
		model = DefaultModelName
	}
	return &Client{model: model}
}
