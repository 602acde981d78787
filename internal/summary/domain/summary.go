package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
)

// Field bounds enforced on every persist.
const (
	MaxTranscriptLength = 50000
	MaxPromptLength     = 1000
	MaxSummaryLength    = 10000
	MinTranscriptWords  = 10
)

// Style identifies a preset prompt template.
type Style string

const (
	StyleExecutive   Style = "executive"
	StyleActionItems Style = "action-items"
	StyleTechnical   Style = "technical"
	StyleCustom      Style = "custom"
)

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleExecutive, StyleActionItems, StyleTechnical, StyleCustom:
		return true
	}
	return false
}

// EmailStatus is the outcome of one delivery.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// Summary is a generated meeting summary together with its source transcript.
type Summary struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	UserID           string     `json:"userId" gorm:"size:128;not null;index:idx_summaries_user_created,priority:1"`
	Transcript       string     `json:"transcript,omitempty" gorm:"type:text;not null"`
	Prompt           string     `json:"prompt" gorm:"type:text;not null"`
	GeneratedSummary string     `json:"generatedSummary" gorm:"type:text;not null"`
	EditedSummary    *string    `json:"editedSummary,omitempty" gorm:"type:text"`
	SummaryStyle     Style      `json:"summaryStyle" gorm:"size:32;not null;default:custom;index"`
	Language         string     `json:"language" gorm:"size:16;not null;default:en"`
	EmailLogs        []EmailLog `json:"emailLogs" gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE"`
	Metadata         Metadata   `json:"metadata" gorm:"embedded;embeddedPrefix:meta_"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"index:idx_summaries_user_created,priority:2,sort:desc"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Metadata is derived or recorded at generation time.
type Metadata struct {
	WordCount      int    `json:"wordCount"`
	ProcessingTime int64  `json:"processingTime"`
	AIProvider     string `json:"aiProvider" gorm:"size:32"`
}

// EmailLog is one entry of a summary's append-only delivery history.
// ID is assigned by the store and orders entries by append time.
type EmailLog struct {
	ID         uint                        `json:"-" gorm:"primaryKey;autoIncrement"`
	SummaryID  string                      `json:"-" gorm:"size:36;not null;index"`
	Recipients datatypes.JSONSlice[string] `json:"recipients"`
	Subject    string                      `json:"subject"`
	SentAt     time.Time                   `json:"sentAt"`
	Status     EmailStatus                 `json:"status" gorm:"size:16;not null;default:sent"`
}

func (Summary) TableName() string {
	return "summaries"
}

func (EmailLog) TableName() string {
	return "summary_email_logs"
}

// EffectiveText is the text shown and sent: the edited summary when present,
// otherwise the generated one.
func (s *Summary) EffectiveText() string {
	if s.EditedSummary != nil && *s.EditedSummary != "" {
		return *s.EditedSummary
	}
	return s.GeneratedSummary
}

// Refresh recomputes derived fields. Stores call it before every persist.
func (s *Summary) Refresh() {
	s.Metadata.WordCount = CountWords(s.Transcript)
}

// Validate checks the field bounds of a summary about to be persisted.
func (s *Summary) Validate() error {
	switch {
	case strings.TrimSpace(s.Transcript) == "":
		return &FieldError{Field: "transcript", Reason: "is required"}
	case utf8.RuneCountInString(s.Transcript) > MaxTranscriptLength:
		return &FieldError{Field: "transcript", Reason: "exceeds 50,000 characters"}
	case strings.TrimSpace(s.Prompt) == "":
		return &FieldError{Field: "prompt", Reason: "is required"}
	case utf8.RuneCountInString(s.Prompt) > MaxPromptLength:
		return &FieldError{Field: "prompt", Reason: "exceeds 1,000 characters"}
	case s.GeneratedSummary == "":
		return &FieldError{Field: "generatedSummary", Reason: "is required"}
	case utf8.RuneCountInString(s.GeneratedSummary) > MaxSummaryLength:
		return &FieldError{Field: "generatedSummary", Reason: "exceeds 10,000 characters"}
	case s.EditedSummary != nil && utf8.RuneCountInString(*s.EditedSummary) > MaxSummaryLength:
		return &FieldError{Field: "editedSummary", Reason: "exceeds 10,000 characters"}
	case !s.SummaryStyle.Valid():
		return &FieldError{Field: "summaryStyle", Reason: "must be one of executive, action-items, technical, custom"}
	}
	return nil
}

// CountWords counts maximal runs of non-whitespace characters.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// FieldError reports a field that violates its bounds.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}
