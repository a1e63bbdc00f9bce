package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-authclient"
	"github.com/goliatone/go-authclient/social"
)

const defaultDiscoveryURL = "https://accounts.google.com/.well-known/openid-configuration"

// ProviderName is the identifier the remote API expects for Google
// identities.
const ProviderName = "Google"

// CredentialSource produces the ID-token credential emitted by the Google
// identity widget's callback. The host UI owns the interactive part; the
// raw widget surface stays behind this function.
type CredentialSource func(ctx context.Context) (string, error)

// Config holds Google identity configuration.
type Config struct {
	ClientID   string
	Credential CredentialSource

	DiscoveryURL string
	HTTPClient   *http.Client
}

// Provider implements social.Provider for Google Identity Services.
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ social.Provider = (*Provider)(nil)

// New creates a new Google provider.
func New(cfg Config) *Provider {
	if cfg.DiscoveryURL == "" {
		cfg.DiscoveryURL = defaultDiscoveryURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Provider{
		config:     cfg,
		httpClient: client,
	}
}

// Name implements social.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Load implements social.Provider. It validates configuration and resolves
// the discovery document, the Go-side equivalent of waiting for the widget
// script to come up.
func (p *Provider) Load(ctx context.Context) error {
	if p.config.ClientID == "" {
		return fmt.Errorf("google: missing client id")
	}
	if p.config.Credential == nil {
		return fmt.Errorf("google: missing credential source")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.DiscoveryURL, nil)
	if err != nil {
		return fmt.Errorf("google: building discovery request: %w", err)
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google: discovery fetch failed: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("google: discovery returned %d", res.StatusCode)
	}

	return nil
}

// Prompt implements social.Provider. The widget callback hands back an ID
// token; its claims are decoded (not verified — the remote API does that
// against Google's keys) and normalized into the exchange contract.
func (p *Provider) Prompt(ctx context.Context) (*social.Assertion, error) {
	credential, err := p.config.Credential(ctx)
	if err != nil {
		return nil, err
	}
	if credential == "" {
		return nil, fmt.Errorf("google: empty credential from widget callback")
	}

	claims, err := authclient.DecodeToken(credential)
	if err != nil {
		return nil, fmt.Errorf("google: undecodable credential: %w", err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("google: credential missing subject or email")
	}

	return &social.Assertion{
		Provider:    ProviderName,
		ProviderKey: claims.Subject,
		Email:       claims.Email,
		FirstName:   claims.FirstName,
		LastName:    claims.LastName,
		PhoneNumber: "",
		Proof:       credential,
	}, nil
}
