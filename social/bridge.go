package social

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-authclient"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/sync/singleflight"
)

// AuthGateway is the slice of the gateway the bridge needs.
type AuthGateway interface {
	OAuthLogin(ctx context.Context, payload authclient.OAuthRequest) (string, error)
	OAuthRegister(ctx context.Context, payload authclient.OAuthRequest) (string, error)
}

// Redirector performs the single post-login navigation.
type Redirector func(destination string)

// PhonePrompter collects a phone number when the registration fallback
// needs one. Returning an empty string registers without a phone.
type PhonePrompter func(ctx context.Context) (string, error)

// Bridge orchestrates external identity exchanges: it loads each
// provider's widget exactly once per process, normalizes callbacks, and
// runs the login-then-register policy against the gateway.
type Bridge struct {
	gateway       AuthGateway
	cfg           authclient.Config
	logger        authclient.Logger
	redirect      Redirector
	phonePrompter PhonePrompter
	phoneRegion   string

	providers map[string]Provider

	// collapses concurrent loads of one widget into a single underlying call
	loadGroup singleflight.Group
	loadedMu  sync.Mutex
	loaded    map[string]bool
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithProvider registers an identity provider.
func WithProvider(provider Provider) BridgeOption {
	return func(b *Bridge) {
		if provider != nil {
			b.providers[provider.Name()] = provider
		}
	}
}

// WithRedirector sets the post-login navigation hook.
func WithRedirector(redirect Redirector) BridgeOption {
	return func(b *Bridge) {
		if redirect != nil {
			b.redirect = redirect
		}
	}
}

// WithPhonePrompter sets the hook used to collect a phone number during
// the registration fallback.
func WithPhonePrompter(prompter PhonePrompter) BridgeOption {
	return func(b *Bridge) {
		b.phonePrompter = prompter
	}
}

// WithPhoneRegion sets the default region for phone validation.
func WithPhoneRegion(region string) BridgeOption {
	return func(b *Bridge) {
		if region != "" {
			b.phoneRegion = region
		}
	}
}

// WithBridgeLogger overrides the default logger.
func WithBridgeLogger(logger authclient.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge returns a Bridge over the given gateway.
func NewBridge(gateway AuthGateway, cfg authclient.Config, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		gateway:     gateway,
		cfg:         cfg,
		redirect:    func(string) {},
		phoneRegion: "US",
		providers:   map[string]Provider{},
		loaded:      map[string]bool{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	if b.logger == nil {
		b.logger = bridgeLogger{}
	}

	return b
}

// BeginExchange runs the full exchange for the named provider: ensure the
// widget is loaded, prompt for consent, then log in — falling back to a
// single registration attempt only when the login found no matching
// account. Success ends in one redirect to returnTo, or the configured
// default destination when returnTo is empty.
func (b *Bridge) BeginExchange(ctx context.Context, providerName, returnTo string) error {
	provider, ok := b.providers[providerName]
	if !ok {
		return ErrProviderNotFound
	}

	if err := b.ensureLoaded(ctx, provider); err != nil {
		return err
	}

	assertion, err := provider.Prompt(ctx)
	if err != nil {
		b.logger.Error("identity prompt for %s failed: %v", providerName, err)
		return errors.Wrap(err, ErrPromptFailed.Category, ErrPromptFailed.Message).
			WithTextCode(ErrPromptFailed.TextCode)
	}

	if err := assertion.Validate(); err != nil {
		return errors.Wrap(err, ErrInvalidAssertion.Category, ErrInvalidAssertion.Message).
			WithTextCode(ErrInvalidAssertion.TextCode)
	}

	return b.exchange(ctx, *assertion, returnTo)
}

// ensureLoaded initializes the provider's widget exactly once. Concurrent
// callers share one in-flight load; once a load succeeds later calls are
// no-ops. A failed load is retriable.
func (b *Bridge) ensureLoaded(ctx context.Context, provider Provider) error {
	name := provider.Name()

	b.loadedMu.Lock()
	done := b.loaded[name]
	b.loadedMu.Unlock()
	if done {
		return nil
	}

	_, err, _ := b.loadGroup.Do(name, func() (any, error) {
		b.loadedMu.Lock()
		done := b.loaded[name]
		b.loadedMu.Unlock()
		if done {
			return nil, nil
		}

		if err := provider.Load(ctx); err != nil {
			return nil, err
		}

		b.loadedMu.Lock()
		b.loaded[name] = true
		b.loadedMu.Unlock()
		return nil, nil
	})

	if err != nil {
		b.logger.Error("identity widget for %s failed to load: %v", name, err)
		return errors.Wrap(err, ErrWidgetLoad.Category, ErrWidgetLoad.Message).
			WithTextCode(ErrWidgetLoad.TextCode)
	}

	return nil
}

// exchange applies the login-then-register policy. Only a "no matching
// account" login failure triggers the one-shot registration; any other
// failure surfaces as-is so transient errors never create duplicate
// accounts.
func (b *Bridge) exchange(ctx context.Context, assertion Assertion, returnTo string) error {
	payload := assertion.toOAuthRequest()

	_, err := b.gateway.OAuthLogin(ctx, payload)
	if err == nil {
		b.redirect(b.destination(returnTo))
		return nil
	}

	if !authclient.IsAccountNotFound(err) {
		return err
	}

	b.logger.Info("no account for %s identity, attempting registration", assertion.Provider)

	if b.phonePrompter != nil {
		phone, promptErr := b.phonePrompter(ctx)
		if promptErr != nil {
			return promptErr
		}
		if phone != "" {
			if !b.ValidPhone(phone) {
				return ErrInvalidPhone
			}
			payload.PhoneNumber = phone
		}
	}

	if _, err := b.gateway.OAuthRegister(ctx, payload); err != nil {
		return err
	}

	b.redirect(b.destination(returnTo))
	return nil
}

// ValidPhone reports whether phone parses as a plausible number in the
// bridge's region.
func (b *Bridge) ValidPhone(phone string) bool {
	parsed, err := phonenumbers.Parse(phone, b.phoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

func (b *Bridge) destination(returnTo string) string {
	if returnTo != "" {
		return returnTo
	}
	return b.cfg.GetDefaultRedirect()
}

type bridgeLogger struct{}

func (bridgeLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SOCIAL "+format+"\n", args...)
}

func (bridgeLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SOCIAL "+format+"\n", args...)
}

func (bridgeLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SOCIAL "+format+"\n", args...)
}

func (bridgeLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SOCIAL "+format+"\n", args...)
}
