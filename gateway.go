package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Envelope is the response wrapper every remote auth endpoint returns.
// Session reconciliation only depends on Succeeded and Data; Message and
// Errors are passed through verbatim for display.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Succeeded  bool            `json:"succeeded"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Data       json.RawMessage `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// OAuthRequest is the normalized external-identity payload used by both the
// oauth login and oauth register endpoints.
type OAuthRequest struct {
	Provider    string `json:"provider"`
	ProviderKey string `json:"providerKey"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	AccessToken string `json:"accessToken"`
}

type ConfirmEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type ResendConfirmationRequest struct {
	Email string `json:"email"`
}

// Gateway issues auth requests to the remote API and reconciles every
// response into the session: a token-bearing operation either applies a
// fresh credential or clears the session, never neither. It does not
// re-validate field formats; structural validation is the caller's job.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    SessionWriter
	logger     Logger
	debug      bool

	// throttles resend-style operations before they hit the wire
	resendLimiter *rate.Limiter
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithGatewayLogger overrides the default logger.
func WithGatewayLogger(logger Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDebug dumps request/response envelopes through the logger.
func WithDebug(debug bool) GatewayOption {
	return func(g *Gateway) {
		g.debug = debug
	}
}

// WithResendLimit throttles forgot-password and resend-confirmation calls.
func WithResendLimit(limit rate.Limit, burst int) GatewayOption {
	return func(g *Gateway) {
		g.resendLimiter = rate.NewLimiter(limit, burst)
	}
}

// NewGateway returns a Gateway bound to the remote API at cfg.GetBaseURL()
// that reconciles auth outcomes into session.
func NewGateway(cfg Config, session SessionWriter, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL: cfg.GetBaseURL(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.GetHTTPTimeout()) * time.Second,
		},
		session:       session,
		logger:        defLogger{},
		resendLimiter: rate.NewLimiter(rate.Every(30*time.Second), 3),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Login exchanges credentials for a bearer token and applies it.
func (g *Gateway) Login(ctx context.Context, payload LoginRequest) (string, error) {
	return g.tokenOperation(ctx, "/auth/login", payload)
}

// Register creates an account. A successful registration answers with a
// token, which is applied like a login.
func (g *Gateway) Register(ctx context.Context, payload RegisterRequest) (string, error) {
	return g.tokenOperation(ctx, "/auth/register", payload)
}

// Refresh trades the current credential for a fresh one. Safe to call
// proactively; it follows the same reconciliation contract as Login.
func (g *Gateway) Refresh(ctx context.Context) (string, error) {
	return g.tokenOperation(ctx, "/auth/refresh", struct{}{})
}

// OAuthLogin signs in with a normalized external-identity payload. A 404
// surfaces as ErrAccountNotFound so the bridge can fall back to
// registration.
func (g *Gateway) OAuthLogin(ctx context.Context, payload OAuthRequest) (string, error) {
	return g.tokenOperation(ctx, "/auth/oauth/login", payload)
}

// OAuthRegister creates an account from a normalized external-identity
// payload and applies the returned credential.
func (g *Gateway) OAuthRegister(ctx context.Context, payload OAuthRequest) (string, error) {
	return g.tokenOperation(ctx, "/auth/oauth/register", payload)
}

// ForgotPassword requests a reset link. No session impact either way.
func (g *Gateway) ForgotPassword(ctx context.Context, payload ForgotPasswordRequest) (bool, error) {
	if !g.resendAllowed() {
		return false, ErrThrottled
	}
	return g.boolOperation(ctx, "/auth/forgot-password", payload)
}

// ResetPassword completes a password reset. No session impact either way.
func (g *Gateway) ResetPassword(ctx context.Context, payload ResetPasswordRequest) (bool, error) {
	return g.boolOperation(ctx, "/auth/reset-password", payload)
}

// ConfirmEmail confirms an address using an emailed token.
func (g *Gateway) ConfirmEmail(ctx context.Context, payload ConfirmEmailRequest) (bool, error) {
	return g.boolOperation(ctx, "/auth/confirm-email", payload)
}

// ResendConfirmation re-sends the confirmation email, locally throttled.
func (g *Gateway) ResendConfirmation(ctx context.Context, payload ResendConfirmationRequest) (bool, error) {
	if !g.resendAllowed() {
		return false, ErrThrottled
	}
	return g.boolOperation(ctx, "/auth/resend-confirmation", payload)
}

// tokenOperation runs a token-bearing request. Success requires both the
// envelope's succeeded flag and a non-empty token; every other outcome,
// including transport failure, clears the session so an ambiguous response
// never leaves a stale credential active.
func (g *Gateway) tokenOperation(ctx context.Context, path string, body any) (string, error) {
	env, err := g.post(ctx, path, body)
	if err != nil {
		g.session.Clear()
		return "", err
	}

	if !env.Succeeded {
		g.session.Clear()
		return "", applicationError(env)
	}

	token := tokenFromData(env.Data)
	if token == "" {
		g.logger.Error("auth %s succeeded without a token", path)
		g.session.Clear()
		return "", applicationError(env)
	}

	if err := g.session.Apply(token); err != nil {
		return "", err
	}

	return token, nil
}

// boolOperation runs a non-credential request (password and confirmation
// flows). Failures surface as errors but never touch session state.
func (g *Gateway) boolOperation(ctx context.Context, path string, body any) (bool, error) {
	env, err := g.post(ctx, path, body)
	if err != nil {
		return false, err
	}

	if !env.Succeeded {
		return false, applicationError(env)
	}

	var ok bool
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &ok); err != nil {
			ok = true
		}
	} else {
		ok = true
	}

	return ok, nil
}

func (g *Gateway) post(ctx context.Context, path string, body any) (*Envelope, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode auth request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build auth request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("auth %s transport error: %v", path, err)
		return nil, errors.Wrap(err, ErrTransport.Category, ErrTransport.Message).
			WithTextCode(ErrTransport.TextCode)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, ErrTransport.Category, ErrTransport.Message).
			WithTextCode(ErrTransport.TextCode)
	}

	if g.debug {
		g.logger.Debug("auth %s -> %d %s", path, res.StatusCode, print.MaybePrettyJSON(json.RawMessage(raw)))
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrAccountNotFound
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, transportError(path, res.StatusCode, raw)
	}

	env := &Envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, errors.Wrap(err, ErrTransport.Category, "unparseable auth response").
			WithTextCode(ErrTransport.TextCode)
	}

	return env, nil
}

func (g *Gateway) resendAllowed() bool {
	return g.resendLimiter == nil || g.resendLimiter.Allow()
}

// tokenFromData accepts both wire shapes the API has used: a bare token
// string and a {"token": "..."} object.
func tokenFromData(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}

	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		return token
	}

	wrapped := struct {
		Token string `json:"token"`
	}{}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Token
	}

	return ""
}

func applicationError(env *Envelope) error {
	clone := ErrApplication.Clone()
	if clone == nil {
		clone = ErrApplication
	}

	meta := map[string]any{}
	if env.Message != "" {
		meta["message"] = env.Message
	}
	if len(env.Errors) > 0 {
		meta["errors"] = env.Errors
	}
	if env.StatusCode != 0 {
		meta["statusCode"] = env.StatusCode
	}
	if len(meta) > 0 {
		clone.WithMetadata(meta)
	}

	return clone
}

func transportError(path string, status int, body []byte) error {
	clone := ErrTransport.Clone()
	if clone == nil {
		clone = ErrTransport
	}

	meta := map[string]any{
		"path":   path,
		"status": status,
	}

	env := &Envelope{}
	if err := json.Unmarshal(body, env); err == nil {
		if env.Message != "" {
			meta["message"] = env.Message
		}
		if len(env.Errors) > 0 {
			meta["errors"] = env.Errors
		}
	}

	clone.WithMetadata(meta)
	return clone
}
