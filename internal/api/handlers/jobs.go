package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/spendlens/spendlens/internal/api/middleware"
	"github.com/spendlens/spendlens/internal/jobs"
)

// JobsHandler exposes the status of background archive jobs.
type JobsHandler struct {
	jobStore jobs.JobStore
	log      zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobStore jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{jobStore: jobStore, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.jobStore.GetJob(ctx, jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs?receipt_id=...&status=...&limit=...&offset=...
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := jobs.JobFilter{}
	if receiptID := r.URL.Query().Get("receipt_id"); receiptID != "" {
		filter.ReceiptID = receiptID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = jobs.JobStatus(status)
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	jobList, err := h.jobStore.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	if jobList == nil {
		jobList = []*jobs.ArchiveReceiptJob{}
	}

	middleware.WriteJSON(w, http.StatusOK, jobList)
}
