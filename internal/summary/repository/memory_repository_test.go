package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newSummary(user string, created time.Time, style domain.Style, prompt, generated string) *domain.Summary {
	return &domain.Summary{
		UserID:           user,
		Transcript:       "alice bob carol discussed the quarterly roadmap and hiring plan today",
		Prompt:           prompt,
		GeneratedSummary: generated,
		SummaryStyle:     style,
		Language:         "en",
		Metadata:         domain.Metadata{ProcessingTime: 100, AIProvider: "groq"},
		CreatedAt:        created,
	}
}

func seed(t *testing.T, repo SummaryRepository) {
	t.Helper()
	ctx := context.Background()
	items := []*domain.Summary{
		newSummary("u1", base, domain.StyleExecutive, "Executive view", "Budget approved"),
		newSummary("u1", base.Add(time.Hour), domain.StyleTechnical, "Tech notes", "Migrate to Postgres 16"),
		newSummary("u1", base.Add(24*time.Hour), domain.StyleCustom, "anything", "Q3 BUDGET review"),
		newSummary("u2", base.Add(2*time.Hour), domain.StyleExecutive, "Other user", "Budget cuts"),
	}
	for _, s := range items {
		require.NoError(t, repo.Create(ctx, s))
	}
}

func TestMemoryCreateAndFind(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()

	s := newSummary("u1", time.Time{}, domain.StyleCustom, "p", "g")
	require.NoError(t, repo.Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, 11, s.Metadata.WordCount)

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s.Transcript, found.Transcript)
	assert.Empty(t, found.EmailLogs)

	missing, err := repo.FindByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryCreateRejectsOutOfBounds(t *testing.T) {
	repo := NewMemorySummaryRepository()
	s := newSummary("u1", base, domain.Style("poetry"), "p", "g")

	err := repo.Create(context.Background(), s)
	var fieldErr *domain.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestMemoryFindFiltersAndOrders(t *testing.T) {
	repo := NewMemorySummaryRepository()
	seed(t, repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  *Filter
		prompts []string
	}{
		{"user only, newest first", Where(ForUser("u1")), []string{"anything", "Tech notes", "Executive view"}},
		{"case-insensitive text", Where(ForUser("u1"), TextContains("budget")), []string{"anything", "Executive view"}},
		{"text matches prompt", Where(ForUser("u1"), TextContains("TECH")), []string{"Tech notes"}},
		{"style", Where(ForUser("u1"), WithStyle(domain.StyleExecutive)), []string{"Executive view"}},
		{"date window inclusive", Where(ForUser("u1"), CreatedFrom(base), CreatedTo(base.Add(time.Hour))), []string{"Tech notes", "Executive view"}},
		{"blank text ignored", Where(ForUser("u1"), TextContains("   "), WithStyle(""), WithLanguage("")), []string{"anything", "Tech notes", "Executive view"}},
		{"language mismatch", Where(ForUser("u1"), WithLanguage("fr")), nil},
		{"literal wildcard", Where(ForUser("u1"), TextContains("%")), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.Find(ctx, tt.filter, Page{Limit: 20})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.prompts)), total)
			var prompts []string
			for _, s := range got {
				prompts = append(prompts, s.Prompt)
				assert.Empty(t, s.Transcript)
			}
			assert.Equal(t, tt.prompts, prompts)
		})
	}
}

func TestMemoryFindEditedSummaryText(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()
	s := newSummary("u1", base, domain.StyleCustom, "p", "g")
	require.NoError(t, repo.Create(ctx, s))

	edited := "Follow-up with Legal"
	s.EditedSummary = &edited
	require.NoError(t, repo.Update(ctx, s))

	got, total, err := repo.Find(ctx, Where(TextContains("legal")), Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, s.ID, got[0].ID)
}

func TestMemoryPagination(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, newSummary("u1", base.Add(time.Duration(i)*time.Minute), domain.StyleCustom, fmt.Sprintf("p%02d", i), "g")))
	}

	page, total, err := repo.Find(ctx, Where(ForUser("u1")), Page{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page, 5)
	assert.Equal(t, "p04", page[0].Prompt)
	assert.Equal(t, "p00", page[4].Prompt)

	beyond, total, err := repo.Find(ctx, Where(ForUser("u1")), Page{Limit: 10, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, beyond)
}

func TestMemoryUpdateKeepsGeneratedSummary(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()
	s := newSummary("u1", base, domain.StyleCustom, "p", "original")
	require.NoError(t, repo.Create(ctx, s))

	s.GeneratedSummary = "tampered"
	s.Language = "de"
	require.NoError(t, repo.Update(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", found.GeneratedSummary)
	assert.Equal(t, "de", found.Language)

	assert.ErrorIs(t, repo.Update(ctx, &domain.Summary{ID: "missing", Transcript: "t", Prompt: "p", GeneratedSummary: "g", SummaryStyle: domain.StyleCustom}), ErrNotFound)
}

func TestMemoryDelete(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()
	s := newSummary("u1", base, domain.StyleCustom, "p", "g")
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), ErrNotFound)

	found, err := repo.FindByID(ctx, s.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemoryAppendEmailLogConcurrent(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()
	s := newSummary("u1", base, domain.StyleCustom, "p", "g")
	require.NoError(t, repo.Create(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := &domain.EmailLog{Recipients: []string{fmt.Sprintf("r%d@example.com", i)}, Subject: "s", SentAt: base}
			assert.NoError(t, repo.AppendEmailLog(ctx, s.ID, entry))
		}(i)
	}
	wg.Wait()

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, found.EmailLogs, 20)
	for i := 1; i < len(found.EmailLogs); i++ {
		assert.Less(t, found.EmailLogs[i-1].ID, found.EmailLogs[i].ID)
		assert.Equal(t, domain.EmailStatusSent, found.EmailLogs[i].Status)
	}

	err = repo.AppendEmailLog(ctx, "missing", &domain.EmailLog{Recipients: []string{"a@b.co"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStats(t *testing.T) {
	repo := NewMemorySummaryRepository()
	ctx := context.Background()

	empty, err := repo.Stats(ctx, Where(ForUser("nobody")))
	require.NoError(t, err)
	assert.Equal(t, &domain.UserStats{}, empty)

	seed(t, repo)
	list, _, err := repo.Find(ctx, Where(ForUser("u1")), Page{Limit: 1})
	require.NoError(t, err)
	require.NoError(t, repo.AppendEmailLog(ctx, list[0].ID, &domain.EmailLog{Recipients: []string{"a@b.co"}, SentAt: base}))
	require.NoError(t, repo.AppendEmailLog(ctx, list[0].ID, &domain.EmailLog{Recipients: []string{"c@d.co"}, SentAt: base}))

	stats, err := repo.Stats(ctx, Where(ForUser("u1")))
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSummaries)
	assert.Equal(t, int64(2), stats.TotalEmailsSent)
	assert.Equal(t, int64(300), stats.TotalProcessingTime)
	assert.InDelta(t, 11.0, stats.AverageWordCount, 0.001)
}

func TestMemoryDailyStatsAndStyles(t *testing.T) {
	repo := NewMemorySummaryRepository()
	seed(t, repo)
	ctx := context.Background()

	daily, err := repo.DailyStats(ctx, Where(ForUser("u1")))
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-03-10", daily[0].Date)
	assert.Equal(t, int64(2), daily[0].Count)
	assert.Equal(t, "2024-03-11", daily[1].Date)
	assert.InDelta(t, 100.0, daily[1].AvgProcessingTime, 0.001)

	styles, err := repo.StyleDistribution(ctx, Where(ForUser("u1")))
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.StyleCount{
		{Style: domain.StyleExecutive, Count: 1},
		{Style: domain.StyleTechnical, Count: 1},
		{Style: domain.StyleCustom, Count: 1},
	}, styles)
}
