package ai

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTranscriptChars = 50000
	MinTranscriptWords = 10
)

// ValidateTranscript checks transcript bounds before any network call and
// returns its word and character counts.
func ValidateTranscript(transcript string) (words, chars int, err error) {
	chars = utf8.RuneCountInString(transcript)
	words = len(strings.Fields(transcript))

	if strings.TrimSpace(transcript) == "" {
		return words, chars, ErrEmptyTranscript
	}
	if chars > MaxTranscriptChars {
		return words, chars, ErrTranscriptTooLong
	}
	if words < MinTranscriptWords {
		return words, chars, ErrTranscriptTooShort
	}
	return words, chars, nil
}
