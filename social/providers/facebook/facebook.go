package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-authclient/social"
)

const defaultGraphURL = "https://graph.facebook.com/v18.0"

// ProviderName is the identifier the remote API expects for Facebook
// identities.
const ProviderName = "Facebook"

// AuthResponse is what the Facebook login widget hands back on success.
type AuthResponse struct {
	AccessToken string
	UserID      string
}

// AuthSource runs the widget's interactive login and returns its auth
// response. The raw FB global stays behind this function.
type AuthSource func(ctx context.Context) (*AuthResponse, error)

// Config holds Facebook identity configuration.
type Config struct {
	AppID string
	Auth  AuthSource

	GraphURL   string
	HTTPClient *http.Client
}

// Provider implements social.Provider for Facebook Login.
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ social.Provider = (*Provider)(nil)

// New creates a new Facebook provider.
func New(cfg Config) *Provider {
	if cfg.GraphURL == "" {
		cfg.GraphURL = defaultGraphURL
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

// Load implements social.Provider. Mirrors FB.init: configuration must be
// complete before any prompt.
func (p *Provider) Load(ctx context.Context) error {
	if p.config.AppID == "" {
		return fmt.Errorf("facebook: missing app id")
	}
	if p.config.Auth == nil {
		return fmt.Errorf("facebook: missing auth source")
	}
	return nil
}

// Prompt implements social.Provider. It runs the interactive login, then
// resolves the profile fields from the Graph API with the access token.
func (p *Provider) Prompt(ctx context.Context) (*social.Assertion, error) {
	auth, err := p.config.Auth(ctx)
	if err != nil {
		return nil, err
	}
	if auth == nil || auth.AccessToken == "" || auth.UserID == "" {
		return nil, fmt.Errorf("facebook: incomplete auth response from widget")
	}

	profile, err := p.fetchProfile(ctx, auth.AccessToken)
	if err != nil {
		return nil, err
	}

	return &social.Assertion{
		Provider:    ProviderName,
		ProviderKey: auth.UserID,
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhoneNumber: "",
		Proof:       auth.AccessToken,
	}, nil
}

type graphProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (*graphProfile, error) {
	params := url.Values{
		"fields":       {"id,email,first_name,last_name"},
		"access_token": {accessToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.GraphURL+"/me?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook: building profile request: %w", err)
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook: profile fetch failed: %w", err)
	}
	defer res.Body.Close()

	profile := &graphProfile{}
	if err := json.NewDecoder(res.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("facebook: unparseable profile response: %w", err)
	}

	if profile.Error != nil {
		return nil, fmt.Errorf("facebook: graph error: %s", profile.Error.Message)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook: profile fetch returned %d", res.StatusCode)
	}

	return profile, nil
}
