package usecase

import (
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/domain"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/repository"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/ai"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/apperror"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/mailer"

	"github.com/pkg/errors"
)

const (
	titleMissingFields   = "Missing required fields"
	titleValidation      = "Validation Error"
	titleNotFound        = "Summary not found"
	titleAIUnavailable   = "AI Service Unavailable"
	titleMailUnavailable = "Email Service Unavailable"
	titleInvalidEmails   = "Invalid Email Addresses"
)

func errSummaryNotFound() error {
	return apperror.NotFound(titleNotFound, "Summary with the provided ID does not exist")
}

func mapAIError(err error) error {
	var perr *ai.ProviderError
	switch {
	case errors.Is(err, ai.ErrEmptyTranscript), errors.Is(err, ai.ErrEmptyPrompt):
		return apperror.Validation(titleMissingFields, "Transcript and prompt are required")
	case errors.Is(err, ai.ErrTranscriptTooLong), errors.Is(err, ai.ErrTranscriptTooShort):
		return apperror.Validation("Invalid transcript", err.Error())
	case errors.Is(err, ai.ErrNoProviderConfigured):
		return apperror.Unavailable(titleAIUnavailable, "No AI provider is configured. Set an API key for Groq, OpenAI or Gemini, or an Ollama URL.", err)
	case errors.Is(err, ai.ErrUnknownProvider):
		return apperror.Unavailable(titleAIUnavailable, "The requested AI provider is not configured", err)
	case errors.As(err, &perr):
		return apperror.Unavailable(titleAIUnavailable, perr.Error(), err)
	}
	return apperror.Internal("Failed to generate summary", err)
}

func mapMailError(err error) error {
	switch {
	case errors.Is(err, mailer.ErrInvalidRecipient):
		return apperror.Validation(titleInvalidEmails, err.Error())
	case errors.Is(err, mailer.ErrNotConfigured):
		return apperror.Unavailable(titleMailUnavailable, "Email service is not configured", err)
	case errors.Is(err, mailer.ErrUnavailable):
		return apperror.Unavailable(titleMailUnavailable, "Email service could not be reached", err)
	}
	return apperror.Internal("Failed to send email", err)
}

// mapStoreError classifies repository failures. msg is used for unexpected ones.
func mapStoreError(err error, msg string) error {
	var fe *domain.FieldError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errSummaryNotFound()
	case errors.As(err, &fe) && fe.Field == "generatedSummary":
		// The model's output is out of bounds; not the caller's fault.
		return apperror.Internal("Generated summary exceeds the maximum length", err)
	case errors.As(err, &fe):
		return apperror.Validation(titleValidation, fe.Error())
	}
	return apperror.Internal(msg, err)
}
