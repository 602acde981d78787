package domain

// UserStats aggregates a user's summaries.
type UserStats struct {
	TotalSummaries      int64   `json:"totalSummaries"`
	TotalEmailsSent     int64   `json:"totalEmailsSent"`
	AverageWordCount    float64 `json:"averageWordCount"`
	TotalProcessingTime int64   `json:"totalProcessingTime"`
}

// DailyStat buckets summaries by UTC calendar day (YYYY-MM-DD).
type DailyStat struct {
	Date              string  `json:"date"`
	Count             int64   `json:"count"`
	AvgWordCount      float64 `json:"avgWordCount"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
}

// StyleCount is one bucket of the style distribution.
type StyleCount struct {
	Style Style `json:"style"`
	Count int64 `json:"count"`
}
