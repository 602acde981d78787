package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"

	"github.com/google/uuid"
)

// memorySummaryRepository keeps summaries in process memory. Used for local
// development and tests; evaluates filters with Predicate.Match.
type memorySummaryRepository struct {
	mu        sync.RWMutex
	summaries map[string]*domain.Summary
	nextLogID uint
	now       func() time.Time
}

// NewMemorySummaryRepository creates an empty in-memory SummaryRepository
func NewMemorySummaryRepository() SummaryRepository {
	return &memorySummaryRepository{
		summaries: make(map[string]*domain.Summary),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *memorySummaryRepository) Create(ctx context.Context, summary *domain.Summary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	now := r.now()
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = now
	}
	summary.UpdatedAt = now
	summary.Refresh()
	if err := summary.Validate(); err != nil {
		return err
	}
	if summary.EmailLogs == nil {
		summary.EmailLogs = []domain.EmailLog{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[summary.ID] = clone(summary)
	return nil
}

func (r *memorySummaryRepository) FindByID(ctx context.Context, id string) (*domain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.summaries[id]
	if !ok {
		return nil, nil
	}
	return clone(s), nil
}

func (r *memorySummaryRepository) Update(ctx context.Context, summary *domain.Summary) error {
	summary.UpdatedAt = r.now()
	summary.Refresh()
	if err := summary.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.summaries[summary.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Prompt = summary.Prompt
	stored.EditedSummary = copyString(summary.EditedSummary)
	stored.SummaryStyle = summary.SummaryStyle
	stored.Language = summary.Language
	stored.Metadata.WordCount = summary.Metadata.WordCount
	stored.UpdatedAt = summary.UpdatedAt
	return nil
}

func (r *memorySummaryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.summaries[id]; !ok {
		return ErrNotFound
	}
	delete(r.summaries, id)
	return nil
}

func (r *memorySummaryRepository) AppendEmailLog(ctx context.Context, summaryID string, entry *domain.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.summaries[summaryID]
	if !ok {
		return ErrNotFound
	}
	r.nextLogID++
	entry.ID = r.nextLogID
	entry.SummaryID = summaryID
	if entry.Status == "" {
		entry.Status = domain.EmailStatusSent
	}
	logEntry := *entry
	logEntry.Recipients = append([]string(nil), entry.Recipients...)
	stored.EmailLogs = append(stored.EmailLogs, logEntry)
	stored.UpdatedAt = r.now()
	return nil
}

func (r *memorySummaryRepository) Find(ctx context.Context, filter *Filter, page Page) ([]*domain.Summary, int64, error) {
	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}

	result := make([]*domain.Summary, 0, end-start)
	for _, s := range matched[start:end] {
		s.Transcript = ""
		result = append(result, s)
	}
	return result, total, nil
}

func (r *memorySummaryRepository) Stats(ctx context.Context, filter *Filter) (*domain.UserStats, error) {
	stats := &domain.UserStats{}
	var words int64
	for _, s := range r.match(filter) {
		stats.TotalSummaries++
		stats.TotalEmailsSent += int64(len(s.EmailLogs))
		stats.TotalProcessingTime += s.Metadata.ProcessingTime
		words += int64(s.Metadata.WordCount)
	}
	if stats.TotalSummaries > 0 {
		stats.AverageWordCount = float64(words) / float64(stats.TotalSummaries)
	}
	return stats, nil
}

func (r *memorySummaryRepository) DailyStats(ctx context.Context, filter *Filter) ([]domain.DailyStat, error) {
	type bucket struct {
		count, words, processing int64
	}
	buckets := make(map[string]*bucket)
	for _, s := range r.match(filter) {
		day := s.CreatedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.count++
		b.words += int64(s.Metadata.WordCount)
		b.processing += s.Metadata.ProcessingTime
	}

	stats := make([]domain.DailyStat, 0, len(buckets))
	for day, b := range buckets {
		stats = append(stats, domain.DailyStat{
			Date:              day,
			Count:             b.count,
			AvgWordCount:      float64(b.words) / float64(b.count),
			AvgProcessingTime: float64(b.processing) / float64(b.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (r *memorySummaryRepository) StyleDistribution(ctx context.Context, filter *Filter) ([]domain.StyleCount, error) {
	counts := make(map[domain.Style]int64)
	for _, s := range r.match(filter) {
		counts[s.SummaryStyle]++
	}

	dist := make([]domain.StyleCount, 0, len(counts))
	for style, n := range counts {
		dist = append(dist, domain.StyleCount{Style: style, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count == dist[j].Count {
			return dist[i].Style < dist[j].Style
		}
		return dist[i].Count > dist[j].Count
	})
	return dist, nil
}

func (r *memorySummaryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// match returns copies of every stored summary satisfying filter.
func (r *memorySummaryRepository) match(filter *Filter) []*domain.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Summary
	for _, s := range r.summaries {
		if filter.Match(s) {
			out = append(out, clone(s))
		}
	}
	return out
}

func clone(s *domain.Summary) *domain.Summary {
	c := *s
	c.EditedSummary = copyString(s.EditedSummary)
	c.EmailLogs = make([]domain.EmailLog, len(s.EmailLogs))
	for i, l := range s.EmailLogs {
		l.Recipients = append([]string(nil), l.Recipients...)
		c.EmailLogs[i] = l
	}
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
