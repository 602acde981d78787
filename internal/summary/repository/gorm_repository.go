package repository

import (
	"context"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gormSummaryRepository implements SummaryRepository using GORM
type gormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GORM-based SummaryRepository
func NewGormSummaryRepository(db *gorm.DB) SummaryRepository {
	return &gormSummaryRepository{db: db}
}

// Migrate creates or updates the summaries and summary_email_logs tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Summary{}, &domain.EmailLog{})
}

func (r *gormSummaryRepository) Create(ctx context.Context, summary *domain.Summary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	now := time.Now().UTC()
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
	return errors.Wrap(r.db.WithContext(ctx).Create(summary).Error, "insert summary")
}

func (r *gormSummaryRepository) FindByID(ctx context.Context, id string) (*domain.Summary, error) {
	var summary domain.Summary
	err := r.db.WithContext(ctx).
		Preload("EmailLogs", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find summary")
	}
	if summary.EmailLogs == nil {
		summary.EmailLogs = []domain.EmailLog{}
	}
	return &summary, nil
}

func (r *gormSummaryRepository) Update(ctx context.Context, summary *domain.Summary) error {
	summary.UpdatedAt = time.Now().UTC()
	summary.Refresh()
	if err := summary.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&domain.Summary{}).Where("id = ?", summary.ID).
		Updates(map[string]interface{}{
			"prompt":          summary.Prompt,
			"edited_summary":  summary.EditedSummary,
			"summary_style":   summary.SummaryStyle,
			"language":        summary.Language,
			"meta_word_count": summary.Metadata.WordCount,
			"updated_at":      summary.UpdatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update summary")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormSummaryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("summary_id = ?", id).Delete(&domain.EmailLog{}).Error; err != nil {
			return errors.Wrap(err, "delete email logs")
		}
		result := tx.Delete(&domain.Summary{}, "id = ?", id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "delete summary")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *gormSummaryRepository) AppendEmailLog(ctx context.Context, summaryID string, entry *domain.EmailLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Summary{}).Where("id = ?", summaryID).
			Update("updated_at", time.Now().UTC())
		if result.Error != nil {
			return errors.Wrap(result.Error, "touch summary")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		entry.ID = 0
		entry.SummaryID = summaryID
		if entry.Status == "" {
			entry.Status = domain.EmailStatusSent
		}
		return errors.Wrap(tx.Create(entry).Error, "insert email log")
	})
}

func (r *gormSummaryRepository) Find(ctx context.Context, filter *Filter, page Page) ([]*domain.Summary, int64, error) {
	var summaries []*domain.Summary
	var total int64

	// Count total
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count summaries")
	}

	err := r.filtered(ctx, filter).Omit("transcript").
		Preload("EmailLogs", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&summaries).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list summaries")
	}
	for _, s := range summaries {
		if s.EmailLogs == nil {
			s.EmailLogs = []domain.EmailLog{}
		}
	}
	return summaries, total, nil
}

func (r *gormSummaryRepository) Stats(ctx context.Context, filter *Filter) (*domain.UserStats, error) {
	var row struct {
		TotalSummaries      int64
		AverageWordCount    float64
		TotalProcessingTime int64
	}
	err := r.filtered(ctx, filter).
		Select("COUNT(*) AS total_summaries, " +
			"COALESCE(AVG(meta_word_count), 0) AS average_word_count, " +
			"COALESCE(SUM(meta_processing_time), 0) AS total_processing_time").
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate summaries")
	}

	var emails int64
	ids := r.filtered(ctx, filter).Select("id")
	err = r.db.WithContext(ctx).Model(&domain.EmailLog{}).
		Where("summary_id IN (?)", ids).
		Count(&emails).Error
	if err != nil {
		return nil, errors.Wrap(err, "count email logs")
	}

	return &domain.UserStats{
		TotalSummaries:      row.TotalSummaries,
		TotalEmailsSent:     emails,
		AverageWordCount:    row.AverageWordCount,
		TotalProcessingTime: row.TotalProcessingTime,
	}, nil
}

func (r *gormSummaryRepository) DailyStats(ctx context.Context, filter *Filter) ([]domain.DailyStat, error) {
	var stats []domain.DailyStat
	day := "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	err := r.filtered(ctx, filter).
		Select(day + ` AS "date", COUNT(*) AS "count", ` +
			"COALESCE(AVG(meta_word_count), 0) AS avg_word_count, " +
			"COALESCE(AVG(meta_processing_time), 0) AS avg_processing_time").
		Group(day).
		Order(day + " ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, errors.Wrap(err, "daily stats")
	}
	if stats == nil {
		stats = []domain.DailyStat{}
	}
	return stats, nil
}

func (r *gormSummaryRepository) StyleDistribution(ctx context.Context, filter *Filter) ([]domain.StyleCount, error) {
	var counts []domain.StyleCount
	err := r.filtered(ctx, filter).
		Select(`summary_style AS "style", COUNT(*) AS "count"`).
		Group("summary_style").
		Order("COUNT(*) DESC, summary_style ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "style distribution")
	}
	if counts == nil {
		counts = []domain.StyleCount{}
	}
	return counts, nil
}

func (r *gormSummaryRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// filtered starts a summaries query with every predicate of filter applied.
func (r *gormSummaryRepository) filtered(ctx context.Context, filter *Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Summary{})
	for _, p := range filter.Predicates() {
		clause, args := p.SQL()
		query = query.Where(clause, args...)
	}
	return query
}
