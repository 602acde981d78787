package usecase

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/repository"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/ai"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/apperror"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/mailer"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// summaryUsecase implements SummaryUsecase interface
type summaryUsecase struct {
	repo    repository.SummaryRepository
	ai      Summarizer
	mail    Mailer
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewSummaryUsecase creates a new instance of summaryUsecase
func NewSummaryUsecase(repo repository.SummaryRepository, summarizer Summarizer, mail Mailer, m *metrics.Metrics) SummaryUsecase {
	return &summaryUsecase{
		repo:    repo,
		ai:      summarizer,
		mail:    mail,
		metrics: m,
		logger:  logging.Component("summary"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (u *summaryUsecase) Create(ctx context.Context, in CreateSummaryInput) (*domain.Summary, error) {
	if strings.TrimSpace(in.Transcript) == "" || strings.TrimSpace(in.Prompt) == "" {
		return nil, apperror.Validation(titleMissingFields, "Transcript and prompt are required")
	}
	if utf8.RuneCountInString(in.Prompt) > domain.MaxPromptLength {
		return nil, apperror.Validation(titleValidation, "Prompt too long. Maximum 1,000 characters allowed.")
	}

	style := domain.Style(strings.ToLower(strings.TrimSpace(in.Style)))
	if style == "" {
		style = domain.StyleCustom
	}
	if !style.Valid() {
		return nil, apperror.Validation("Invalid summary style", "Style must be one of executive, action-items, technical, custom")
	}

	if _, _, err := ai.ValidateTranscript(in.Transcript); err != nil {
		return nil, mapAIError(err)
	}

	var (
		result *ai.Result
		err    error
	)
	if style == domain.StyleCustom {
		result, err = u.ai.Generate(ctx, in.Transcript, in.Prompt, ai.ProviderType(strings.ToLower(strings.TrimSpace(in.Provider))))
	} else {
		result, err = u.ai.GenerateWithStyle(ctx, in.Transcript, ai.Style(style), in.Prompt)
	}
	if err != nil {
		return nil, mapAIError(err)
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = uuid.New().String()
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = "en"
	}

	summary := &domain.Summary{
		UserID:           userID,
		Transcript:       in.Transcript,
		Prompt:           in.Prompt,
		GeneratedSummary: result.Summary,
		SummaryStyle:     style,
		Language:         language,
		Metadata: domain.Metadata{
			ProcessingTime: result.ProcessingTimeMs,
			AIProvider:     string(result.Provider),
		},
	}
	if err := u.repo.Create(ctx, summary); err != nil {
		return nil, mapStoreError(err, "Failed to save summary")
	}

	u.metrics.SummaryCreated()
	u.logger.Info().
		Str("summary_id", summary.ID).
		Str("user_id", summary.UserID).
		Str("style", string(style)).
		Str("provider", summary.Metadata.AIProvider).
		Int("word_count", summary.Metadata.WordCount).
		Msg("summary created")
	return summary, nil
}

func (u *summaryUsecase) Edit(ctx context.Context, id string, editedSummary *string) (*domain.Summary, error) {
	if editedSummary == nil || strings.TrimSpace(*editedSummary) == "" {
		return nil, apperror.Validation(titleMissingFields, "Edited summary is required")
	}
	if utf8.RuneCountInString(*editedSummary) > domain.MaxSummaryLength {
		return nil, apperror.Validation(titleValidation, "Edited summary too long. Maximum 10,000 characters allowed.")
	}

	summary, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	edited := *editedSummary
	summary.EditedSummary = &edited
	if err := u.repo.Update(ctx, summary); err != nil {
		return nil, mapStoreError(err, "Failed to update summary")
	}
	return summary, nil
}

func (u *summaryUsecase) Get(ctx context.Context, id string) (*domain.Summary, error) {
	return u.find(ctx, id)
}

func (u *summaryUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapStoreError(err, "Failed to delete summary")
	}
	u.logger.Info().Str("summary_id", id).Msg("summary deleted")
	return nil
}

func (u *summaryUsecase) Providers() dto.ProvidersResponse {
	return dto.ProvidersResponse{
		Providers: u.ai.Providers(),
		Default:   u.ai.DefaultProvider(),
	}
}

func (u *summaryUsecase) Styles() []ai.StyleInfo {
	return u.ai.Styles()
}

func (u *summaryUsecase) SendEmail(ctx context.Context, in SendEmailInput) (*mailer.SendResult, error) {
	if err := checkEmailInput(in); err != nil {
		return nil, err
	}
	if v := mailer.ValidateAddresses(in.Recipients); v.Invalid > 0 {
		return nil, apperror.Validation(titleInvalidEmails, "Invalid email addresses: "+strings.Join(v.InvalidEmails, ", "))
	}

	summary, body, err := u.resolveBody(ctx, in)
	if err != nil {
		return nil, err
	}
	if !u.mail.Configured() {
		return nil, mapMailError(mailer.ErrNotConfigured)
	}

	res, err := u.mail.SendOne(ctx, in.Recipients, body, in.Subject)
	if err != nil {
		return nil, mapMailError(err)
	}

	if summary != nil {
		entry := &domain.EmailLog{
			Recipients: res.Recipients,
			Subject:    res.Subject,
			SentAt:     res.SentAt,
			Status:     domain.EmailStatusSent,
		}
		if err := u.repo.AppendEmailLog(ctx, summary.ID, entry); err != nil {
			// The mail is out; report success and keep the failure in the logs.
			u.logger.Error().Err(err).Str("summary_id", summary.ID).Msg("failed to record email log")
		}
	}
	return res, nil
}

func (u *summaryUsecase) SendBulkEmail(ctx context.Context, in SendEmailInput) (*dto.BulkEmailResponse, error) {
	if err := checkEmailInput(in); err != nil {
		return nil, err
	}
	summary, body, err := u.resolveBody(ctx, in)
	if err != nil {
		return nil, err
	}
	if !u.mail.Configured() {
		return nil, mapMailError(mailer.ErrNotConfigured)
	}

	results, err := u.mail.SendBulk(ctx, in.Recipients, body, in.Subject)
	if err != nil {
		return nil, mapMailError(err)
	}

	resp := &dto.BulkEmailResponse{
		Total:   len(results),
		Results: results,
		SentAt:  u.now(),
	}
	for _, r := range results {
		if r.Success {
			resp.Successful++
		} else {
			resp.Failed++
		}
	}

	if summary != nil && resp.Successful > 0 {
		u.appendBulkLogs(ctx, summary.ID, results, in.Subject)
	}
	return resp, nil
}

// appendBulkLogs records one entry per delivered recipient in completion order.
func (u *summaryUsecase) appendBulkLogs(ctx context.Context, summaryID string, results []mailer.BulkResult, subject string) {
	if strings.TrimSpace(subject) == "" {
		subject = mailer.DefaultSubject
	}
	delivered := make([]mailer.BulkResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			delivered = append(delivered, r)
		}
	}
	sort.Slice(delivered, func(i, j int) bool { return delivered[i].Seq < delivered[j].Seq })

	for _, r := range delivered {
		entry := &domain.EmailLog{
			Recipients: []string{r.Email},
			Subject:    subject,
			SentAt:     r.SentAt,
			Status:     domain.EmailStatusSent,
		}
		if err := u.repo.AppendEmailLog(ctx, summaryID, entry); err != nil {
			u.logger.Error().Err(err).Str("summary_id", summaryID).Str("recipient", r.Email).Msg("failed to record email log")
		}
	}
}

func (u *summaryUsecase) ListEmailLogs(ctx context.Context, summaryID string) (*dto.EmailLogsResponse, error) {
	summary, err := u.find(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	return &dto.EmailLogsResponse{
		SummaryID:   summary.ID,
		EmailLogs:   summary.EmailLogs,
		TotalEmails: len(summary.EmailLogs),
	}, nil
}

// ValidateEmails rejects a missing list; an empty one yields zero counts.
func (u *summaryUsecase) ValidateEmails(emails []string) (*mailer.Validation, error) {
	if emails == nil {
		return nil, apperror.Validation(titleMissingFields, "Emails array is required")
	}
	v := mailer.ValidateAddresses(emails)
	return &v, nil
}

func (u *summaryUsecase) TestEmail(ctx context.Context) mailer.ConnectionResult {
	return u.mail.TestConnection(ctx)
}

func (u *summaryUsecase) EmailStatus() mailer.Status {
	return u.mail.Stats()
}

func (u *summaryUsecase) find(ctx context.Context, id string) (*domain.Summary, error) {
	summary, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch summary", err)
	}
	if summary == nil {
		return nil, errSummaryNotFound()
	}
	if summary.EmailLogs == nil {
		summary.EmailLogs = []domain.EmailLog{}
	}
	return summary, nil
}

// resolveBody returns the text to send. A summary ID takes precedence over
// inline content and sends the record's effective text.
func (u *summaryUsecase) resolveBody(ctx context.Context, in SendEmailInput) (*domain.Summary, string, error) {
	if strings.TrimSpace(in.SummaryID) == "" {
		return nil, in.Summary, nil
	}
	summary, err := u.find(ctx, in.SummaryID)
	if err != nil {
		return nil, "", err
	}
	return summary, summary.EffectiveText(), nil
}

func checkEmailInput(in SendEmailInput) error {
	if len(in.Recipients) == 0 {
		return apperror.Validation(titleMissingFields, "Recipients are required")
	}
	if strings.TrimSpace(in.Summary) == "" && strings.TrimSpace(in.SummaryID) == "" {
		return apperror.Validation(titleMissingFields, "Summary content or summaryId is required")
	}
	return nil
}
