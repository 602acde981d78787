package dto

import (
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
)

// Pagination describes one page of a result set.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes page metadata; totalPages is ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

type HistoryResponse struct {
	Summaries  []*domain.Summary `json:"summaries"`
	Pagination Pagination        `json:"pagination"`
}

// SearchParams echoes the criteria of a search.
type SearchParams struct {
	Query    string `json:"query"`
	Style    string `json:"style"`
	Language string `json:"language"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

type SearchResponse struct {
	Summaries    []*domain.Summary `json:"summaries"`
	Pagination   Pagination        `json:"pagination"`
	SearchParams SearchParams      `json:"searchParams"`
}

type AnalyticsResponse struct {
	Period            string              `json:"period"`
	StartDate         time.Time           `json:"startDate"`
	EndDate           time.Time           `json:"endDate"`
	DailyStats        []domain.DailyStat  `json:"dailyStats"`
	StyleDistribution []domain.StyleCount `json:"styleDistribution"`
	TotalSummaries    int64               `json:"totalSummaries"`
}
