package authclient

import (
	"fmt"
	"strings"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds client auth options
type Config interface {
	GetBaseURL() string
	GetHTTPTimeout() int
	GetKeyringService() string
	GetKeyringKey() string
	GetLogoutSafetyMargin() int
	GetLoginRoute() string
	GetHomeRoute() string
	GetUnauthorizedRoute() string
	GetDefaultRedirect() string
}

// CredentialStore persists the single active bearer token. Implementations
// must degrade to empty results instead of erroring when the backing store
// is unavailable in the current execution context.
type CredentialStore interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// SessionState is the read side of the session manager, consumed by guards
// and page components.
type SessionState interface {
	CurrentUser() User
	IsAuthenticated() bool
	HasRole(role string) bool
	HasAnyRole(roles ...string) bool
}

// SessionWriter is the write side, consumed by the gateway and the bridge.
type SessionWriter interface {
	Apply(rawToken string) error
	Clear()
}

type defLogger struct{}

func (d defLogger) logf(level, format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Printf("["+level+"] AUTHCLIENT "+format, args...)
}

func (d defLogger) Error(format string, args ...any) { d.logf("ERR", format, args...) }
func (d defLogger) Warn(format string, args ...any)  { d.logf("WRN", format, args...) }
func (d defLogger) Info(format string, args ...any)  { d.logf("INF", format, args...) }
func (d defLogger) Debug(format string, args ...any) { d.logf("DBG", format, args...) }
