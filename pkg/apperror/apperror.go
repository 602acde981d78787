// Package apperror defines the error taxonomy shared by usecases and HTTP
// handlers. Every error that crosses the usecase boundary is either an *Error
// with a Kind or is treated as internal.
//
// Usage:
//
//	return nil, apperror.NotFound("Summary not found", "Summary with the provided ID does not exist")
//
//	if apperror.IsNotFound(err) {
//	    // handle not found case
//	}
package apperror

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindServiceUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindServiceUnavailable:
		return "service_unavailable"
	default:
		return "internal"
	}
}

// Error is a classified application error. Title is a short label suitable
// for the "error" field of a response, Message the human readable detail.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a KindValidation error.
func Validation(title, message string) *Error {
	return &Error{Kind: KindValidation, Title: title, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(title, message string) *Error {
	return &Error{Kind: KindNotFound, Title: title, Message: message}
}

// Unavailable builds a KindServiceUnavailable error wrapping the upstream cause.
func Unavailable(title, message string, cause error) *Error {
	return &Error{Kind: KindServiceUnavailable, Title: title, Message: message, Err: cause}
}

// Internal wraps an unexpected failure. The message is safe to show to clients;
// the cause is only for logs.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Title: "Internal Server Error", Message: message, Err: errors.WithStack(cause)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// IsValidation reports whether err is classified as a validation failure.
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsNotFound reports whether err is classified as not found.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsUnavailable reports whether err is classified as an unavailable dependency.
func IsUnavailable(err error) bool {
	return err != nil && KindOf(err) == KindServiceUnavailable
}

// HTTPStatus maps err to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
