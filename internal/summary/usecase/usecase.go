package usecase

import (
	"context"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/ai"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/mailer"
)

// SummaryUsecase defines the summary lifecycle: generation, editing and delivery
type SummaryUsecase interface {
	// Create generates a summary with the AI client and persists it.
	// Nothing is stored when generation fails.
	Create(ctx context.Context, in CreateSummaryInput) (*domain.Summary, error)

	// Edit replaces the edited summary of an existing record
	Edit(ctx context.Context, id string, editedSummary *string) (*domain.Summary, error)

	Get(ctx context.Context, id string) (*domain.Summary, error)
	Delete(ctx context.Context, id string) error

	// Providers lists the configured AI providers and the default one
	Providers() dto.ProvidersResponse
	Styles() []ai.StyleInfo

	// SendEmail sends one message to all recipients and records it on the summary
	SendEmail(ctx context.Context, in SendEmailInput) (*mailer.SendResult, error)

	// SendBulkEmail sends one message per recipient; failures are reported per recipient
	SendBulkEmail(ctx context.Context, in SendEmailInput) (*dto.BulkEmailResponse, error)

	ListEmailLogs(ctx context.Context, summaryID string) (*dto.EmailLogsResponse, error)
	ValidateEmails(emails []string) (*mailer.Validation, error)
	TestEmail(ctx context.Context) mailer.ConnectionResult
	EmailStatus() mailer.Status
}

// HistoryUsecase defines the read side: paginated history, search and aggregates
type HistoryUsecase interface {
	ListByUser(ctx context.Context, userID, search string, page, limit int) (*dto.HistoryResponse, error)
	Search(ctx context.Context, userID string, params SearchInput, page, limit int) (*dto.SearchResponse, error)
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)

	// Analytics reports daily activity over the trailing period (7d, 30d or 90d)
	Analytics(ctx context.Context, userID, period string) (*dto.AnalyticsResponse, error)

	GetByID(ctx context.Context, id string) (*domain.Summary, error)
	Update(ctx context.Context, id string, in UpdateSummaryInput) (*domain.Summary, error)
	Delete(ctx context.Context, id string) error
}

// CreateSummaryInput carries the fields of a new summary request
type CreateSummaryInput struct {
	Transcript string
	Prompt     string
	Style      string
	Language   string
	Provider   string
	UserID     string
}

// SendEmailInput identifies the content by SummaryID or passes it inline in Summary
type SendEmailInput struct {
	SummaryID  string
	Recipients []string
	Subject    string
	Summary    string
}

// SearchInput holds raw search criteria; dates are RFC 3339 or YYYY-MM-DD
type SearchInput struct {
	Query    string
	Style    string
	Language string
	DateFrom string
	DateTo   string
}

// UpdateSummaryInput represents the fields that can be updated
type UpdateSummaryInput struct {
	EditedSummary *string
	Prompt        *string
	SummaryStyle  *string
	Language      *string
}

// Summarizer generates summaries; implemented by *ai.Client
type Summarizer interface {
	Generate(ctx context.Context, transcript, prompt string, provider ai.ProviderType) (*ai.Result, error)
	GenerateWithStyle(ctx context.Context, transcript string, style ai.Style, customPrompt string) (*ai.Result, error)
	Providers() []ai.ProviderInfo
	DefaultProvider() ai.ProviderType
	Styles() []ai.StyleInfo
}

// Mailer delivers summaries by email; implemented by *mailer.Client
type Mailer interface {
	Configured() bool
	SendOne(ctx context.Context, recipients []string, body, subject string) (*mailer.SendResult, error)
	SendBulk(ctx context.Context, recipients []string, body, subject string) ([]mailer.BulkResult, error)
	TestConnection(ctx context.Context) mailer.ConnectionResult
	Stats() mailer.Status
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var analyticsPeriods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

const defaultAnalyticsPeriod = "30d"

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
