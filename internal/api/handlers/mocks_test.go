package handlers_test

import (
	"context"
	"fmt"
	"time"

	"github.com/spendlens/spendlens/internal/analytics"
	"github.com/spendlens/spendlens/internal/domain"
	"github.com/spendlens/spendlens/internal/gemini"
	"github.com/spendlens/spendlens/internal/jobs"
	"github.com/spendlens/spendlens/internal/store"
)

// MockReceiptStore is a mock implementation of store.ReceiptStore for testing.
type MockReceiptStore struct {
	InsertReceiptFunc                    func(ctx context.Context, receipt *domain.Receipt) error
	ListReceiptsByOwnerFunc              func(ctx context.Context, ownerID string) ([]domain.Receipt, error)
	QueryReceiptsByOwnerAndDateRangeFunc func(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Receipt, error)
	QueryReceiptsByDateRangeFunc         func(ctx context.Context, start, end time.Time) ([]domain.Receipt, error)
}

func (m *MockReceiptStore) InsertReceipt(ctx context.Context, receipt *domain.Receipt) error {
	if m.InsertReceiptFunc != nil {
		return m.InsertReceiptFunc(ctx, receipt)
	}
	return nil
}

func (m *MockReceiptStore) ListReceiptsByOwner(ctx context.Context, ownerID string) ([]domain.Receipt, error) {
	if m.ListReceiptsByOwnerFunc != nil {
		return m.ListReceiptsByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockReceiptStore) QueryReceiptsByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]domain.Receipt, error) {
	if m.QueryReceiptsByOwnerAndDateRangeFunc != nil {
		return m.QueryReceiptsByOwnerAndDateRangeFunc(ctx, ownerID, start, end)
	}
	return nil, nil
}

func (m *MockReceiptStore) QueryReceiptsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Receipt, error) {
	if m.QueryReceiptsByDateRangeFunc != nil {
		return m.QueryReceiptsByDateRangeFunc(ctx, start, end)
	}
	return nil, nil
}

var _ store.ReceiptStore = (*MockReceiptStore)(nil)

// MockProfileStore is a mock implementation of store.ProfileStore for testing.
type MockProfileStore struct {
	FindProfileByGoogleIDFunc func(ctx context.Context, googleID string) (*domain.Profile, error)
	GetOrCreateProfileFunc    func(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	UpdateProfileFunc         func(ctx context.Context, googleID string, upd domain.ProfileUpdate) (*domain.Profile, error)
}

func (m *MockProfileStore) FindProfileByGoogleID(ctx context.Context, googleID string) (*domain.Profile, error) {
	if m.FindProfileByGoogleIDFunc != nil {
		return m.FindProfileByGoogleIDFunc(ctx, googleID)
	}
	return nil, store.ErrProfileNotFound
}

func (m *MockProfileStore) GetOrCreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if m.GetOrCreateProfileFunc != nil {
		return m.GetOrCreateProfileFunc(ctx, p)
	}
	return p, nil
}

func (m *MockProfileStore) UpdateProfile(ctx context.Context, googleID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, googleID, upd)
	}
	return nil, store.ErrProfileNotFound
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

// MockReceiptParser is a mock implementation of gemini.ReceiptParser for testing.
type MockReceiptParser struct {
	ParseReceiptFunc func(ctx context.Context, image []byte, mimeType string) (*domain.Receipt, error)
}

func (m *MockReceiptParser) ParseReceipt(ctx context.Context, image []byte, mimeType string) (*domain.Receipt, error) {
	if m.ParseReceiptFunc != nil {
		return m.ParseReceiptFunc(ctx, image, mimeType)
	}
	return &domain.Receipt{}, nil
}

var _ gemini.ReceiptParser = (*MockReceiptParser)(nil)

// MockSummarizer is a mock implementation of gemini.SpendingSummarizer for testing.
type MockSummarizer struct {
	SummarizeSpendingFunc func(ctx context.Context, breakdown []analytics.CategoryBreakdown) (string, error)
}

func (m *MockSummarizer) SummarizeSpending(ctx context.Context, breakdown []analytics.CategoryBreakdown) (string, error) {
	if m.SummarizeSpendingFunc != nil {
		return m.SummarizeSpendingFunc(ctx, breakdown)
	}
	return "mock summary", nil
}

var _ gemini.SpendingSummarizer = (*MockSummarizer)(nil)

// MockPublisher is a mock implementation of jobs.Publisher for testing.
type MockPublisher struct {
	PublishArchiveReceiptFunc func(ctx context.Context, job *jobs.ArchiveReceiptJob) error
}

func (m *MockPublisher) PublishArchiveReceipt(ctx context.Context, job *jobs.ArchiveReceiptJob) error {
	if m.PublishArchiveReceiptFunc != nil {
		return m.PublishArchiveReceiptFunc(ctx, job)
	}
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

var _ jobs.Publisher = (*MockPublisher)(nil)

// MockJobStore is a mock implementation of jobs.JobStore for testing.
type MockJobStore struct {
	SaveJobFunc         func(ctx context.Context, job *jobs.ArchiveReceiptJob) error
	GetJobFunc          func(ctx context.Context, jobID string) (*jobs.ArchiveReceiptJob, error)
	ListJobsFunc        func(ctx context.Context, filter jobs.JobFilter) ([]*jobs.ArchiveReceiptJob, error)
	UpdateJobStatusFunc func(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error
}

func (m *MockJobStore) SaveJob(ctx context.Context, job *jobs.ArchiveReceiptJob) error {
	if m.SaveJobFunc != nil {
		return m.SaveJobFunc(ctx, job)
	}
	return nil
}

func (m *MockJobStore) GetJob(ctx context.Context, jobID string) (*jobs.ArchiveReceiptJob, error) {
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, jobID)
	}
	return nil, fmt.Errorf("job not found: %s", jobID)
}

func (m *MockJobStore) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.ArchiveReceiptJob, error) {
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockJobStore) UpdateJobStatus(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error {
	if m.UpdateJobStatusFunc != nil {
		return m.UpdateJobStatusFunc(ctx, jobID, status, errorMsg)
	}
	return nil
}

var _ jobs.JobStore = (*MockJobStore)(nil)
