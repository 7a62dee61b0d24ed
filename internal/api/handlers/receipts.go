package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/archive"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/gemini"
	"github.com/spendlens/spendlens/internal/jobs"
	"github.com/spendlens/spendlens/internal/store"
)

// ReceiptsHandler handles receipt upload, listing and manual expense entry.
type ReceiptsHandler struct {
	receipts       store.ReceiptStore
	parser         gemini.ReceiptParser
	publisher      jobs.Publisher
	archive        *archive.Store
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(receipts store.ReceiptStore, parser gemini.ReceiptParser, publisher jobs.Publisher, archiveStore *archive.Store, maxUploadBytes int64, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{
		receipts:       receipts,
		parser:         parser,
		publisher:      publisher,
		archive:        archiveStore,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Upload handles POST /upload.
// It accepts a multipart form with a googleId field and an image file,
// parses the image into a receipt and saves it before responding.
func (h *ReceiptsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	googleID := r.FormValue("googleId")
	if googleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !gemini.IsAllowedImageType(contentType) {
		middleware.WriteError(w, http.StatusUnsupportedMediaType, "Unsupported image type")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to read uploaded image")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded image")
		return
	}

	receipt, err := h.parser.ParseReceipt(ctx, image, contentType)
	if err != nil {
		if errors.Is(err, gemini.ErrUnsupportedImage) {
			middleware.WriteError(w, http.StatusUnsupportedMediaType, "Unsupported image type")
			return
		}
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to parse receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to parse receipt")
		return
	}

	receipt.OwnerID = googleID
	receipt.CreatedAt = time.Now().UTC()
	domain.AssignIdentifiers(receipt)

	// The image URI is recorded up front so the saved row never needs a
	// second write once the archive upload finishes.
	var objectName string
	if h.archive.Enabled() {
		objectName = h.archive.ObjectName(googleID, receipt.ReceiptID, header.Filename)
		receipt.ImageURI = h.archive.URI(objectName)
	}

	if err := h.receipts.InsertReceipt(ctx, receipt); err != nil {
		h.log.Error().Err(err).Str("receipt_id", receipt.ReceiptID).Msg("Failed to save receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save receipt")
		return
	}

	if h.archive.Enabled() {
		job := &jobs.ArchiveReceiptJob{
			ReceiptID:   receipt.ReceiptID,
			OwnerID:     googleID,
			ObjectName:  objectName,
			ContentType: contentType,
			Image:       image,
		}
		if err := h.publisher.PublishArchiveReceipt(ctx, job); err != nil {
			// The receipt is already saved; a missed archive upload is log-only.
			h.log.Error().Err(err).Str("receipt_id", receipt.ReceiptID).Msg("Failed to enqueue archive job")
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"parsed": receipt,
		"saved":  true,
	})
}

// ListReceipts handles GET /api/receipts?googleId=...
func (h *ReceiptsHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	googleID := r.URL.Query().Get("googleId")
	if googleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}

	receipts, err := h.receipts.ListReceiptsByOwner(ctx, googleID)
	if err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to list receipts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list receipts")
		return
	}

	if receipts == nil {
		receipts = []domain.Receipt{}
	}

	middleware.WriteJSON(w, http.StatusOK, receipts)
}

type createExpenseRequest struct {
	GoogleID string        `json:"googleId"`
	Vendor   string        `json:"vendor"`
	Date     string        `json:"date"`
	Items    []expenseItem `json:"items"`
}

type expenseItem struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// CreateExpense handles POST /api/expenses.
// It saves a manually entered expense as a receipt with no image.
func (h *ReceiptsHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GoogleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}
	if strings.TrimSpace(req.Vendor) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "vendor is required")
		return
	}
	if len(req.Items) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	receipt := &domain.Receipt{
		OwnerID:   req.GoogleID,
		Vendor:    strings.TrimSpace(req.Vendor),
		CreatedAt: time.Now().UTC(),
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		receipt.PurchaseDate = &date
	}

	receipt.Items = make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		receipt.Items = append(receipt.Items, domain.NormalizeLineItem(domain.LineItem{
			Description: item.Description,
			Category:    item.Category,
			Price:       item.Price,
		}))
	}
	domain.AssignIdentifiers(receipt)

	if err := h.receipts.InsertReceipt(ctx, receipt); err != nil {
		h.log.Error().Err(err).Str("receipt_id", receipt.ReceiptID).Msg("Failed to save expense")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save expense")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Expense saved",
		"receipt": receipt,
	})
}
