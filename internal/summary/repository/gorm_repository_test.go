package repository

import (
	"context"
	"testing"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockRepository returns a gorm repository on a sqlmock connection. Every
// statement the repository sends is recorded in the returned slice.
func newMockRepository(t *testing.T) (SummaryRepository, sqlmock.Sqlmock, *[]string) {
	t.Helper()
	var seen []string
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		seen = append(seen, actualSQL)
		return sqlmock.QueryMatcherRegexp.Match(expectedSQL, actualSQL)
	})

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewGormSummaryRepository(db), mock, &seen
}

func TestGormFindAppliesFilterAndSkipsTranscript(t *testing.T) {
	repo, mock, seen := newMockRepository(t)
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	pattern := `%50\%\_off%`

	mock.ExpectQuery(`SELECT count\(\*\) FROM "summaries" WHERE user_id = \$1 AND \(+prompt ILIKE \$2 OR generated_summary ILIKE \$3 OR edited_summary ILIKE \$4\)+`).
		WithArgs("user-1", pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM "summaries" WHERE user_id = \$1 AND \(+prompt ILIKE .+\)+ ORDER BY created_at DESC, id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "prompt", "generated_summary", "summary_style", "language", "meta_word_count", "created_at", "updated_at"}).
			AddRow("s1", "user-1", "Pricing: 50%_off?", "Agreed on the discount.", "custom", "en", 42, created, created))
	mock.ExpectQuery(`SELECT \* FROM "summary_email_logs" WHERE .*summary_id.* = \$1 ORDER BY id ASC`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "summary_id", "recipients", "subject", "sent_at", "status"}).
			AddRow(7, "s1", []byte(`["a@b.co","c@d.org"]`), "Meeting Summary", created, "sent"))

	got, total, err := repo.Find(context.Background(), Where(ForUser("user-1"), TextContains("50%_off")), Page{Limit: 20})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(3), total)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
	assert.Empty(t, got[0].Transcript)
	assert.Equal(t, 42, got[0].Metadata.WordCount)
	require.Len(t, got[0].EmailLogs, 1)
	assert.Equal(t, []string{"a@b.co", "c@d.org"}, []string(got[0].EmailLogs[0].Recipients))
	assert.Equal(t, domain.EmailStatusSent, got[0].EmailLogs[0].Status)

	require.GreaterOrEqual(t, len(*seen), 2)
	list := (*seen)[1]
	assert.NotContains(t, list, "SELECT *")
	assert.NotContains(t, list, "transcript")
	assert.Contains(t, list, `"prompt"`)
}

func TestGormFindEmpty(t *testing.T) {
	repo, mock, _ := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "summaries" WHERE user_id = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM "summaries" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, total, err := repo.Find(context.Background(), Where(ForUser("nobody")), Page{Limit: 20})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func TestGormStatsCountsEmailLogsThroughSubquery(t *testing.T) {
	repo, mock, _ := newMockRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_summaries, COALESCE\(AVG\(meta_word_count\), 0\) AS average_word_count, COALESCE\(SUM\(meta_processing_time\), 0\) AS total_processing_time FROM "summaries" WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"total_summaries", "average_word_count", "total_processing_time"}).AddRow(2, 20.5, 3000))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "summary_email_logs" WHERE summary_id IN \(SELECT ("summaries"\.)?"?id"? FROM "summaries" WHERE user_id = \$1\)`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	stats, err := repo.Stats(context.Background(), Where(ForUser("user-1")))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, &domain.UserStats{
		TotalSummaries:      2,
		TotalEmailsSent:     5,
		AverageWordCount:    20.5,
		TotalProcessingTime: 3000,
	}, stats)
}

func TestGormDailyStatsGroupsByUTCDay(t *testing.T) {
	repo, mock, _ := newMockRepository(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	day := `to_char\(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'\)`

	mock.ExpectQuery(`SELECT ` + day + ` AS "date", COUNT\(\*\) AS "count", COALESCE\(AVG\(meta_word_count\), 0\) AS avg_word_count, COALESCE\(AVG\(meta_processing_time\), 0\) AS avg_processing_time FROM "summaries" WHERE user_id = \$1 AND created_at >= \$2 GROUP BY ` + day + ` ORDER BY ` + day + ` ASC`).
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"date", "count", "avg_word_count", "avg_processing_time"}).
			AddRow("2024-06-01", 2, 20.0, 1500.0).
			AddRow("2024-06-03", 1, 12.0, 900.0))

	stats, err := repo.DailyStats(context.Background(), Where(ForUser("user-1"), CreatedFrom(from)))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []domain.DailyStat{
		{Date: "2024-06-01", Count: 2, AvgWordCount: 20, AvgProcessingTime: 1500},
		{Date: "2024-06-03", Count: 1, AvgWordCount: 12, AvgProcessingTime: 900},
	}, stats)
}

func TestGormDailyStatsEmptyIsNonNil(t *testing.T) {
	repo, mock, _ := newMockRepository(t)

	mock.ExpectQuery(`FROM "summaries" WHERE user_id = \$1 GROUP BY`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "count", "avg_word_count", "avg_processing_time"}))

	stats, err := repo.DailyStats(context.Background(), Where(ForUser("user-1")))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
