package social_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	authclient "github.com/goliatone/go-authclient"
	"github.com/goliatone/go-authclient/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	loadCalls int32
	loadErr   error
	loadGate  chan struct{}
	assertion *social.Assertion
	promptErr error
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) Load(ctx context.Context) error {
	atomic.AddInt32(&p.loadCalls, 1)
	if p.loadGate != nil {
		<-p.loadGate
	}
	return p.loadErr
}

func (p *stubProvider) Prompt(ctx context.Context) (*social.Assertion, error) {
	if p.promptErr != nil {
		return nil, p.promptErr
	}
	return p.assertion, nil
}

type stubGateway struct {
	mu            sync.Mutex
	loginErr      error
	registerErr   error
	loginCalls    []authclient.OAuthRequest
	registerCalls []authclient.OAuthRequest
}

func (g *stubGateway) OAuthLogin(ctx context.Context, payload authclient.OAuthRequest) (string, error) {
	g.mu.Lock()
	g.loginCalls = append(g.loginCalls, payload)
	g.mu.Unlock()
	if g.loginErr != nil {
		return "", g.loginErr
	}
	return "token", nil
}

func (g *stubGateway) OAuthRegister(ctx context.Context, payload authclient.OAuthRequest) (string, error) {
	g.mu.Lock()
	g.registerCalls = append(g.registerCalls, payload)
	g.mu.Unlock()
	if g.registerErr != nil {
		return "", g.registerErr
	}
	return "token", nil
}

func validAssertion() *social.Assertion {
	return &social.Assertion{
		Provider:    "Google",
		ProviderKey: "google-sub-1",
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Proof:       "id-token",
	}
}

func testConfig() *authclient.SimpleConfig {
	return &authclient.SimpleConfig{DefaultRedirect: "/dashboard"}
}

func TestBeginExchangeLoginSuccess(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{}

	var redirects []string
	bridge := social.NewBridge(gateway, testConfig(),
		social.WithProvider(provider),
		social.WithRedirector(func(to string) { redirects = append(redirects, to) }),
	)

	err := bridge.BeginExchange(context.Background(), "Google", "/checkout")
	require.NoError(t, err)

	require.Len(t, gateway.loginCalls, 1)
	assert.Equal(t, "google-sub-1", gateway.loginCalls[0].ProviderKey)
	assert.Empty(t, gateway.registerCalls)
	assert.Equal(t, []string{"/checkout"}, redirects)
}

func TestBeginExchangeDefaultRedirect(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{}

	var redirects []string
	bridge := social.NewBridge(gateway, testConfig(),
		social.WithProvider(provider),
		social.WithRedirector(func(to string) { redirects = append(redirects, to) }),
	)

	require.NoError(t, bridge.BeginExchange(context.Background(), "Google", ""))
	assert.Equal(t, []string{"/dashboard"}, redirects)
}

func TestBeginExchangeNotFoundFallsBackToRegistration(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{loginErr: authclient.ErrAccountNotFound}

	var redirects []string
	bridge := social.NewBridge(gateway, testConfig(),
		social.WithProvider(provider),
		social.WithRedirector(func(to string) { redirects = append(redirects, to) }),
	)

	err := bridge.BeginExchange(context.Background(), "Google", "")
	require.NoError(t, err)

	// exactly one registration attempt with the same normalized payload
	require.Len(t, gateway.registerCalls, 1)
	assert.Equal(t, gateway.loginCalls[0].ProviderKey, gateway.registerCalls[0].ProviderKey)
	assert.Equal(t, gateway.loginCalls[0].Email, gateway.registerCalls[0].Email)
	assert.Len(t, redirects, 1)
}

func TestBeginExchangeOtherFailureNeverRegisters(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{loginErr: authclient.ErrTransport}

	bridge := social.NewBridge(gateway, testConfig(), social.WithProvider(provider))

	err := bridge.BeginExchange(context.Background(), "Google", "")
	require.Error(t, err)
	assert.Empty(t, gateway.registerCalls)
}

func TestBeginExchangeUnknownProvider(t *testing.T) {
	bridge := social.NewBridge(&stubGateway{}, testConfig())

	err := bridge.BeginExchange(context.Background(), "Myspace", "")
	assert.ErrorIs(t, err, social.ErrProviderNotFound)
}

func TestBeginExchangeInvalidAssertion(t *testing.T) {
	provider := &stubProvider{
		name:      "Google",
		assertion: &social.Assertion{Provider: "Google"},
	}
	gateway := &stubGateway{}

	bridge := social.NewBridge(gateway, testConfig(), social.WithProvider(provider))

	err := bridge.BeginExchange(context.Background(), "Google", "")
	require.Error(t, err)
	assert.Empty(t, gateway.loginCalls)
}

func TestConcurrentExchangesLoadWidgetOnce(t *testing.T) {
	gate := make(chan struct{})
	provider := &stubProvider{name: "Google", assertion: validAssertion(), loadGate: gate}
	gateway := &stubGateway{}

	bridge := social.NewBridge(gateway, testConfig(), social.WithProvider(provider))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bridge.BeginExchange(context.Background(), "Google", "")
		}()
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.loadCalls))
}

func TestLoadFailureIsRetriable(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	provider.loadErr = assert.AnError

	gateway := &stubGateway{}
	bridge := social.NewBridge(gateway, testConfig(), social.WithProvider(provider))

	err := bridge.BeginExchange(context.Background(), "Google", "")
	require.Error(t, err)
	assert.Empty(t, gateway.loginCalls)

	provider.loadErr = nil
	require.NoError(t, bridge.BeginExchange(context.Background(), "Google", ""))
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.loadCalls))
}

func TestRegistrationCollectsPhoneNumber(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{loginErr: authclient.ErrAccountNotFound}

	bridge := social.NewBridge(gateway, testConfig(),
		social.WithProvider(provider),
		social.WithPhonePrompter(func(ctx context.Context) (string, error) {
			return "+12125550123", nil
		}),
	)

	require.NoError(t, bridge.BeginExchange(context.Background(), "Google", ""))
	require.Len(t, gateway.registerCalls, 1)
	assert.Equal(t, "+12125550123", gateway.registerCalls[0].PhoneNumber)
}

func TestRegistrationRejectsInvalidPhone(t *testing.T) {
	provider := &stubProvider{name: "Google", assertion: validAssertion()}
	gateway := &stubGateway{loginErr: authclient.ErrAccountNotFound}

	bridge := social.NewBridge(gateway, testConfig(),
		social.WithProvider(provider),
		social.WithPhonePrompter(func(ctx context.Context) (string, error) {
			return "12", nil
		}),
	)

	err := bridge.BeginExchange(context.Background(), "Google", "")
	assert.ErrorIs(t, err, social.ErrInvalidPhone)
	assert.Empty(t, gateway.registerCalls)
}
