package authclient

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenDecode     = "auth_token_decode_failed"
	TextCodeTransport       = "auth_transport_failed"
	TextCodeApplication     = "auth_request_rejected"
	TextCodeAccountNotFound = "auth_account_not_found"
	TextCodeWidgetLoad      = "auth_widget_load_failed"
	TextCodeThrottled       = "auth_request_throttled"
)

// ErrTokenDecode is returned when a stored or received credential cannot be
// parsed. Callers must treat it as "no valid session", never as fatal.
var ErrTokenDecode = errors.New("unable to decode credential", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenDecode).
	WithCode(errors.CodeBadRequest)

// ErrTransport is returned on network failures and non-2xx responses from
// the remote auth API.
var ErrTransport = errors.New("auth request transport failure", errors.CategoryOperation).
	WithTextCode(TextCodeTransport).
	WithCode(errors.CodeInternal)

// ErrApplication is returned when the API answered but reported
// succeeded=false, or returned a success without a usable token.
var ErrApplication = errors.New("auth request rejected by server", errors.CategoryAuth).
	WithTextCode(TextCodeApplication).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is returned when a login found no matching account.
// It is the only failure that triggers the social registration fallback.
var ErrAccountNotFound = errors.New("no matching account", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrWidgetLoad is returned when a third-party identity widget failed to
// load or initialize. It has no session impact.
var ErrWidgetLoad = errors.New("identity widget failed to load", errors.CategoryOperation).
	WithTextCode(TextCodeWidgetLoad).
	WithCode(errors.CodeInternal)

// ErrThrottled is returned by the gateway's local limiter on resend-style
// operations before any request is issued.
var ErrThrottled = errors.New("too many requests, slow down", errors.CategoryRateLimit).
	WithTextCode(TextCodeThrottled)

// IsAccountNotFound reports whether err is the "no matching account"
// condition that allows a one-shot registration fallback.
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeAccountNotFound
	}
	return false
}

// IsDecodeError reports whether err came from credential decoding.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenDecode
	}
	return false
}

// ServerErrors extracts the server-provided error list from an application
// error, verbatim, for display. Returns nil when none were attached.
func ServerErrors(err error) []string {
	var richErr *errors.Error
	if !errors.As(err, &richErr) || richErr.Metadata == nil {
		return nil
	}
	if list, ok := richErr.Metadata["errors"].([]string); ok {
		return list
	}
	return nil
}
