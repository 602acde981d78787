package repository

import (
	"context"
	"errors"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
)

// ErrNotFound is returned by mutations that target a missing summary.
var ErrNotFound = errors.New("summary not found")

// Page selects a window of an ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// SummaryRepository defines the interface for summary data access
type SummaryRepository interface {
	// Create assigns an ID when empty, stamps timestamps and persists the summary
	Create(ctx context.Context, summary *domain.Summary) error

	// FindByID returns the full summary with its email logs, or nil if missing
	FindByID(ctx context.Context, id string) (*domain.Summary, error)

	// Update persists the mutable fields (prompt, editedSummary, style, language).
	// The generated summary and email logs are never written here.
	Update(ctx context.Context, summary *domain.Summary) error

	// Delete removes the summary and its email logs
	Delete(ctx context.Context, id string) error

	// AppendEmailLog adds one entry to the end of the summary's email log
	AppendEmailLog(ctx context.Context, summaryID string, entry *domain.EmailLog) error

	// Find returns summaries matching filter, newest first, without transcripts,
	// plus the total match count
	Find(ctx context.Context, filter *Filter, page Page) ([]*domain.Summary, int64, error)

	// Stats aggregates all summaries matching filter
	Stats(ctx context.Context, filter *Filter) (*domain.UserStats, error)

	// DailyStats buckets matching summaries by UTC day, ascending
	DailyStats(ctx context.Context, filter *Filter) ([]domain.DailyStat, error)

	// StyleDistribution counts matching summaries per style
	StyleDistribution(ctx context.Context, filter *Filter) ([]domain.StyleCount, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
