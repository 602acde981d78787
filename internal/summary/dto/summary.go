package dto

import (
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/ai"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/mailer"
)

type CreateSummaryRequest struct {
	Transcript string `json:"transcript"`
	Prompt     string `json:"prompt"`
	Style      string `json:"style"`
	Language   string `json:"language"`
	Provider   string `json:"provider"`
	UserID     string `json:"userId"`
}

type CreateSummaryResponse struct {
	ID             string          `json:"id"`
	Summary        string          `json:"summary"`
	ProcessingTime int64           `json:"processingTime"`
	Provider       ai.ProviderType `json:"provider"`
	UserID         string          `json:"userId"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type EditSummaryRequest struct {
	EditedSummary *string `json:"editedSummary"`
}

type EditSummaryResponse struct {
	ID            string    `json:"id"`
	EditedSummary *string   `json:"editedSummary"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateSummaryRequest is a partial update; nil fields are left unchanged.
type UpdateSummaryRequest struct {
	EditedSummary *string `json:"editedSummary,omitempty"`
	Prompt        *string `json:"prompt,omitempty"`
	SummaryStyle  *string `json:"summaryStyle,omitempty"`
	Language      *string `json:"language,omitempty"`
}

type UpdateSummaryResponse struct {
	ID            string       `json:"id"`
	EditedSummary *string      `json:"editedSummary"`
	Prompt        string       `json:"prompt"`
	SummaryStyle  domain.Style `json:"summaryStyle"`
	Language      string       `json:"language"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type ProvidersResponse struct {
	Providers []ai.ProviderInfo `json:"providers"`
	Default   ai.ProviderType   `json:"default"`
}

type SendEmailRequest struct {
	SummaryID  string   `json:"summaryId"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Summary    string   `json:"summary"`
}

type ValidateEmailsRequest struct {
	Emails []string `json:"emails"`
}

// BulkEmailResponse summarizes a bulk send; Results keep recipient order.
type BulkEmailResponse struct {
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Results    []mailer.BulkResult `json:"results"`
	SentAt     time.Time           `json:"sentAt"`
}

type EmailLogsResponse struct {
	SummaryID   string            `json:"summaryId"`
	EmailLogs   []domain.EmailLog `json:"emailLogs"`
	TotalEmails int               `json:"totalEmails"`
}

func NewCreateSummaryResponse(s *domain.Summary) CreateSummaryResponse {
	return CreateSummaryResponse{
		ID:             s.ID,
		Summary:        s.GeneratedSummary,
		ProcessingTime: s.Metadata.ProcessingTime,
		Provider:       ai.ProviderType(s.Metadata.AIProvider),
		UserID:         s.UserID,
		CreatedAt:      s.CreatedAt,
	}
}

func NewEditSummaryResponse(s *domain.Summary) EditSummaryResponse {
	return EditSummaryResponse{ID: s.ID, EditedSummary: s.EditedSummary, UpdatedAt: s.UpdatedAt}
}

func NewUpdateSummaryResponse(s *domain.Summary) UpdateSummaryResponse {
	return UpdateSummaryResponse{
		ID:            s.ID,
		EditedSummary: s.EditedSummary,
		Prompt:        s.Prompt,
		SummaryStyle:  s.SummaryStyle,
		Language:      s.Language,
		UpdatedAt:     s.UpdatedAt,
	}
}
