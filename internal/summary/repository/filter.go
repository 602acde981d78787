package repository

import (
	"strings"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
)

// Predicate is one condition of a Filter. It can be evaluated in memory or
// rendered as a SQL fragment with positional arguments.
type Predicate interface {
	Match(s *domain.Summary) bool
	SQL() (string, []interface{})
}

// Filter is a conjunction of predicates. The zero value matches everything.
type Filter struct {
	predicates []Predicate
}

// Where builds a filter from predicates. Nil predicates are skipped.
func Where(preds ...Predicate) *Filter {
	f := &Filter{}
	return f.And(preds...)
}

// And appends predicates to f and returns it.
func (f *Filter) And(preds ...Predicate) *Filter {
	for _, p := range preds {
		if p != nil {
			f.predicates = append(f.predicates, p)
		}
	}
	return f
}

// Match reports whether s satisfies every predicate.
func (f *Filter) Match(s *domain.Summary) bool {
	if f == nil {
		return true
	}
	for _, p := range f.predicates {
		if !p.Match(s) {
			return false
		}
	}
	return true
}

// Predicates returns the filter's predicates in insertion order.
func (f *Filter) Predicates() []Predicate {
	if f == nil {
		return nil
	}
	return f.predicates
}

type userPredicate string

// ForUser restricts to one user's summaries.
func ForUser(userID string) Predicate {
	return userPredicate(userID)
}

func (p userPredicate) Match(s *domain.Summary) bool { return s.UserID == string(p) }

func (p userPredicate) SQL() (string, []interface{}) {
	return "user_id = ?", []interface{}{string(p)}
}

type textPredicate string

// TextContains matches a case-insensitive literal substring of the prompt,
// the generated summary or the edited summary. A blank query yields nil.
func TextContains(query string) Predicate {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return textPredicate(query)
}

func (p textPredicate) Match(s *domain.Summary) bool {
	needle := strings.ToLower(string(p))
	if strings.Contains(strings.ToLower(s.Prompt), needle) ||
		strings.Contains(strings.ToLower(s.GeneratedSummary), needle) {
		return true
	}
	return s.EditedSummary != nil && strings.Contains(strings.ToLower(*s.EditedSummary), needle)
}

func (p textPredicate) SQL() (string, []interface{}) {
	pattern := "%" + escapeLike(string(p)) + "%"
	return "(prompt ILIKE ? OR generated_summary ILIKE ? OR edited_summary ILIKE ?)",
		[]interface{}{pattern, pattern, pattern}
}

type stylePredicate domain.Style

// WithStyle matches one summary style. An empty style yields nil.
func WithStyle(style domain.Style) Predicate {
	if style == "" {
		return nil
	}
	return stylePredicate(style)
}

func (p stylePredicate) Match(s *domain.Summary) bool { return s.SummaryStyle == domain.Style(p) }

func (p stylePredicate) SQL() (string, []interface{}) {
	return "summary_style = ?", []interface{}{string(p)}
}

type languagePredicate string

// WithLanguage matches a language code exactly. An empty code yields nil.
func WithLanguage(language string) Predicate {
	if language == "" {
		return nil
	}
	return languagePredicate(language)
}

func (p languagePredicate) Match(s *domain.Summary) bool { return s.Language == string(p) }

func (p languagePredicate) SQL() (string, []interface{}) {
	return "language = ?", []interface{}{string(p)}
}

type createdFrom time.Time

// CreatedFrom matches summaries created at or after t.
func CreatedFrom(t time.Time) Predicate {
	return createdFrom(t)
}

func (p createdFrom) Match(s *domain.Summary) bool { return !s.CreatedAt.Before(time.Time(p)) }

func (p createdFrom) SQL() (string, []interface{}) {
	return "created_at >= ?", []interface{}{time.Time(p)}
}

type createdTo time.Time

// CreatedTo matches summaries created at or before t.
func CreatedTo(t time.Time) Predicate {
	return createdTo(t)
}

func (p createdTo) Match(s *domain.Summary) bool { return !s.CreatedAt.After(time.Time(p)) }

func (p createdTo) SQL() (string, []interface{}) {
	return "created_at <= ?", []interface{}{time.Time(p)}
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
