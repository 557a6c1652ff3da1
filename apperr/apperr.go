// Package apperr defines the error taxonomy shared across the service.
// Components wrap these sentinels with fmt.Errorf("...: %w", ...) so the
// HTTP layer can map any error chain to a transport status with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers missing or malformed caller input. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned for unknown ids.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps persistence failures.
	ErrStorage = errors.New("storage error")

	// ErrUnauthorized covers failed admin logins and bad session tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCoordinate is returned by the geo utility for non-finite or
	// out-of-range latitude/longitude input.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrIdentityProviderUnavailable means the external identity provider
	// could not be reached. Callers fall back to a local anonymous identity.
	ErrIdentityProviderUnavailable = errors.New("identity provider unavailable")

	// ErrIdentityProviderProtocol means the provider answered with a
	// malformed or error response.
	ErrIdentityProviderProtocol = errors.New("identity provider protocol error")

	// ErrDisplayIDExhausted means display id generation hit the retry bound.
	ErrDisplayIDExhausted = errors.New("display id generation exhausted")

	// ErrUploadTransient marks upload failures that are retryable
	// (timeouts, 5xx). Non-transient upload errors are plain errors.
	ErrUploadTransient = errors.New("transient upload error")

	// ErrTextAnalysisUnavailable means the text-analysis collaborator failed.
	// Report creation proceeds without the annotation.
	ErrTextAnalysisUnavailable = errors.New("text analysis unavailable")
)

// MissingField returns a validation error naming the missing field.
func MissingField(field string) error {
	return fmt.Errorf("missing required field %q: %w", field, ErrValidation)
}

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
