package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/gemini"
	"github.com/spendlens/spendlens/internal/store"
)

// insightWindowDays is how far back the summary endpoints look.
const insightWindowDays = 30

// InsightsHandler handles spending analytics requests.
type InsightsHandler struct {
	receipts   store.ReceiptStore
	summarizer gemini.SpendingSummarizer
	log        zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(receipts store.ReceiptStore, summarizer gemini.SpendingSummarizer, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{receipts: receipts, summarizer: summarizer, log: log}
}

func insightWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -insightWindowDays), now
}

// SpendingSummary handles GET /spending-summary?googleId=...
// It returns the caller's per-category totals and percentage shares for
// the last 30 days.
func (h *InsightsHandler) SpendingSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	googleID := r.URL.Query().Get("googleId")
	if googleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}

	start, end := insightWindow(time.Now().UTC())
	receipts, err := h.receipts.QueryReceiptsByOwnerAndDateRange(ctx, googleID, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to query receipts for spending summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build spending summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analytics.AggregateCategories(receipts))
}

// ComparisonSummary handles GET /comparison-summary?googleId=...
// It compares the caller's per-category spend over the last 30 days
// against the average across all users.
func (h *InsightsHandler) ComparisonSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	googleID := r.URL.Query().Get("googleId")
	if googleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}

	start, end := insightWindow(time.Now().UTC())

	var ownerReceipts, allReceipts []domain.Receipt
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ownerReceipts, err = h.receipts.QueryReceiptsByOwnerAndDateRange(gctx, googleID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		allReceipts, err = h.receipts.QueryReceiptsByDateRange(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to query receipts for comparison summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build comparison summary")
		return
	}

	ownerTotals := analytics.TotalsByCategory(ownerReceipts)
	populationTotals, contributors := analytics.PopulationTotals(allReceipts)

	middleware.WriteJSON(w, http.StatusOK, analytics.ComparePeerSpending(ownerTotals, populationTotals, contributors))
}

// AISummary handles GET /api/ai-summary?googleId=...
// It asks the model for a short narrative of the caller's last 30 days
// of spending.
func (h *InsightsHandler) AISummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	googleID := r.URL.Query().Get("googleId")
	if googleID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "googleId is required")
		return
	}

	start, end := insightWindow(time.Now().UTC())
	receipts, err := h.receipts.QueryReceiptsByOwnerAndDateRange(ctx, googleID, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to query receipts for AI summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build AI summary")
		return
	}

	breakdown := analytics.AggregateCategories(receipts)
	if len(breakdown) == 0 {
		// Nothing to narrate, skip the model call.
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"summary": "No expenses recorded in the last 30 days.",
		})
		return
	}

	summary, err := h.summarizer.SummarizeSpending(ctx, breakdown)
	if err != nil {
		h.log.Error().Err(err).Str("google_id", googleID).Msg("Failed to generate AI summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate AI summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
