package facebook

import (
	"errors"
	"fmt"
)

// Stable error categories surfaced by the Facebook adapter.
const (
	// ErrorValidation: a reply violates a Messenger structural limit, caught
	// before any network call.
	ErrorValidation = "validation_failed"
	// ErrorUnsupportedFeature: a reply or button construct Messenger has no
	// rendering for.
	ErrorUnsupportedFeature = "unsupported_feature"
	// ErrorConfiguration: required setup configuration is missing or names
	// an unknown profile option.
	ErrorConfiguration = "configuration_missing"
	// ErrorUserOptOut: the recipient opted out of messages from this page.
	// Terminal for that recipient.
	ErrorUserOptOut = "user_opted_out"
	// ErrorInvalidSession: messaging this recipient is not permitted under
	// the app's current review status. Terminal.
	ErrorInvalidSession = "session_invalid"
	// ErrorService: any other non-2xx platform response.
	ErrorService = "service_error"
)

// Error is a stable, categorized adapter failure. Status and Body are set
// only for errors raised from a platform response.
type Error struct {
	Category string
	Detail   string
	Status   int
	Body     string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return e.Category
	}

	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

// NewError creates a categorized adapter error.
func NewError(category string, detail string) error {
	return &Error{Category: category, Detail: detail}
}

// CategoryFromError returns the stable category for an error when available.
func CategoryFromError(err error) string {
	if err == nil {
		return ""
	}

	var categorized *Error
	if errors.As(err, &categorized) {
		return categorized.Category
	}

	return ErrorService
}
