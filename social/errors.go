package social

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound = "social_provider_not_found"
	TextCodeWidgetLoad       = "social_widget_load_failed"
	TextCodePromptFailed     = "social_prompt_failed"
	TextCodeInvalidAssertion = "social_invalid_assertion"
	TextCodeInvalidPhone     = "social_invalid_phone"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("social provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrWidgetLoad is returned when a provider's identity widget failed to
// load or initialize. It never affects session state.
var ErrWidgetLoad = errors.New("identity widget failed to load", errors.CategoryOperation).
	WithTextCode(TextCodeWidgetLoad)

// ErrPromptFailed is returned when the interactive consent flow did not
// produce a usable callback (cancelled, timed out, malformed).
var ErrPromptFailed = errors.New("identity prompt failed", errors.CategoryAuth).
	WithTextCode(TextCodePromptFailed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidAssertion is returned when a provider callback is missing the
// fields the exchange contract requires.
var ErrInvalidAssertion = errors.New("invalid identity assertion", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidAssertion).
	WithCode(errors.CodeBadRequest)

// ErrInvalidPhone is returned when the phone number collected for a
// registration fallback does not parse as a valid number.
var ErrInvalidPhone = errors.New("invalid phone number", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidPhone).
	WithCode(errors.CodeBadRequest)
