package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/dto"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/repository"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/apperror"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"

	"github.com/rs/zerolog"
)

const dateOnly = "2006-01-02"

// historyUsecase implements HistoryUsecase interface
type historyUsecase struct {
	repo   repository.SummaryRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewHistoryUsecase creates a new instance of historyUsecase
func NewHistoryUsecase(repo repository.SummaryRepository) HistoryUsecase {
	return &historyUsecase{
		repo:   repo,
		logger: logging.Component("history"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (u *historyUsecase) ListByUser(ctx context.Context, userID, search string, page, limit int) (*dto.HistoryResponse, error) {
	page, limit = normalizePage(page, limit)
	filter := repository.Where(repository.ForUser(userID), repository.TextContains(search))

	summaries, total, err := u.repo.Find(ctx, filter, repository.Page{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch summary history", err)
	}
	return &dto.HistoryResponse{
		Summaries:  nonNil(summaries),
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (u *historyUsecase) Search(ctx context.Context, userID string, params SearchInput, page, limit int) (*dto.SearchResponse, error) {
	page, limit = normalizePage(page, limit)

	filter := repository.Where(
		repository.ForUser(userID),
		repository.TextContains(params.Query),
		repository.WithLanguage(strings.TrimSpace(params.Language)),
	)
	if s := strings.TrimSpace(params.Style); s != "" {
		style := domain.Style(strings.ToLower(s))
		if !style.Valid() {
			return nil, apperror.Validation("Invalid summary style", "Style must be one of executive, action-items, technical, custom")
		}
		filter.And(repository.WithStyle(style))
	}
	if params.DateFrom != "" {
		from, err := parseDate(params.DateFrom, false)
		if err != nil {
			return nil, apperror.Validation("Invalid date", "dateFrom must be YYYY-MM-DD or RFC 3339")
		}
		filter.And(repository.CreatedFrom(from))
	}
	if params.DateTo != "" {
		to, err := parseDate(params.DateTo, true)
		if err != nil {
			return nil, apperror.Validation("Invalid date", "dateTo must be YYYY-MM-DD or RFC 3339")
		}
		filter.And(repository.CreatedTo(to))
	}

	summaries, total, err := u.repo.Find(ctx, filter, repository.Page{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return nil, apperror.Internal("Failed to search summaries", err)
	}
	return &dto.SearchResponse{
		Summaries:  nonNil(summaries),
		Pagination: dto.NewPagination(page, limit, total),
		SearchParams: dto.SearchParams{
			Query:    params.Query,
			Style:    params.Style,
			Language: params.Language,
			DateFrom: params.DateFrom,
			DateTo:   params.DateTo,
		},
	}, nil
}

func (u *historyUsecase) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats, err := u.repo.Stats(ctx, repository.Where(repository.ForUser(userID)))
	if err != nil {
		return nil, apperror.Internal("Failed to fetch statistics", err)
	}
	if stats == nil {
		stats = &domain.UserStats{}
	}
	return stats, nil
}

func (u *historyUsecase) Analytics(ctx context.Context, userID, period string) (*dto.AnalyticsResponse, error) {
	window, ok := analyticsPeriods[period]
	if !ok {
		period = defaultAnalyticsPeriod
		window = analyticsPeriods[period]
	}
	end := u.now()
	start := end.Add(-window)

	filter := repository.Where(
		repository.ForUser(userID),
		repository.CreatedFrom(start),
		repository.CreatedTo(end),
	)
	daily, err := u.repo.DailyStats(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch analytics", err)
	}
	styles, err := u.repo.StyleDistribution(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch analytics", err)
	}

	var total int64
	for _, d := range daily {
		total += d.Count
	}
	if daily == nil {
		daily = []domain.DailyStat{}
	}
	if styles == nil {
		styles = []domain.StyleCount{}
	}
	return &dto.AnalyticsResponse{
		Period:            period,
		StartDate:         start,
		EndDate:           end,
		DailyStats:        daily,
		StyleDistribution: styles,
		TotalSummaries:    total,
	}, nil
}

func (u *historyUsecase) GetByID(ctx context.Context, id string) (*domain.Summary, error) {
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

func (u *historyUsecase) Update(ctx context.Context, id string, in UpdateSummaryInput) (*domain.Summary, error) {
	if err := checkUpdateInput(in); err != nil {
		return nil, err
	}

	summary, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.EditedSummary != nil {
		edited := *in.EditedSummary
		summary.EditedSummary = &edited
	}
	if in.Prompt != nil {
		summary.Prompt = *in.Prompt
	}
	if in.SummaryStyle != nil {
		summary.SummaryStyle = domain.Style(strings.ToLower(strings.TrimSpace(*in.SummaryStyle)))
	}
	if in.Language != nil {
		summary.Language = strings.TrimSpace(*in.Language)
	}

	if err := u.repo.Update(ctx, summary); err != nil {
		return nil, mapStoreError(err, "Failed to update summary")
	}
	u.logger.Info().Str("summary_id", id).Msg("summary updated")
	return summary, nil
}

func (u *historyUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapStoreError(err, "Failed to delete summary")
	}
	return nil
}

func checkUpdateInput(in UpdateSummaryInput) error {
	if in.EditedSummary != nil && utf8.RuneCountInString(*in.EditedSummary) > domain.MaxSummaryLength {
		return apperror.Validation(titleValidation, "Edited summary too long. Maximum 10,000 characters allowed.")
	}
	if in.Prompt != nil {
		if strings.TrimSpace(*in.Prompt) == "" {
			return apperror.Validation(titleValidation, "Prompt cannot be empty")
		}
		if utf8.RuneCountInString(*in.Prompt) > domain.MaxPromptLength {
			return apperror.Validation(titleValidation, "Prompt too long. Maximum 1,000 characters allowed.")
		}
	}
	if in.SummaryStyle != nil && !domain.Style(strings.ToLower(strings.TrimSpace(*in.SummaryStyle))).Valid() {
		return apperror.Validation("Invalid summary style", "Style must be one of executive, action-items, technical, custom")
	}
	if in.Language != nil && strings.TrimSpace(*in.Language) == "" {
		return apperror.Validation(titleValidation, "Language cannot be empty")
	}
	return nil
}

// parseDate accepts RFC 3339 or a bare date. A bare upper bound covers the
// whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func nonNil(s []*domain.Summary) []*domain.Summary {
	if s == nil {
		return []*domain.Summary{}
	}
	return s
}
