package google_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-authclient/social/providers/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signCredential(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("google-key"))
	require.NoError(t, err)
	return signed
}

func staticCredential(credential string) google.CredentialSource {
	return func(ctx context.Context) (string, error) {
		return credential, nil
	}
}

func TestLoadResolvesDiscovery(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"issuer":"https://accounts.google.com"}`))
	}))
	defer server.Close()

	provider := google.New(google.Config{
		ClientID:     "client-1",
		Credential:   staticCredential("x"),
		DiscoveryURL: server.URL,
	})

	require.NoError(t, provider.Load(context.Background()))
	assert.Equal(t, 1, hits)
}

func TestLoadRequiresConfiguration(t *testing.T) {
	provider := google.New(google.Config{})
	assert.Error(t, provider.Load(context.Background()))
}

func TestLoadFailsOnDiscoveryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := google.New(google.Config{
		ClientID:     "client-1",
		Credential:   staticCredential("x"),
		DiscoveryURL: server.URL,
	})

	assert.Error(t, provider.Load(context.Background()))
}

func TestPromptNormalizesCredential(t *testing.T) {
	credential := signCredential(t, jwt.MapClaims{
		"sub":         "google-sub-1",
		"email":       "ada@example.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	provider := google.New(google.Config{
		ClientID:   "client-1",
		Credential: staticCredential(credential),
	})

	assertion, err := provider.Prompt(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Google", assertion.Provider)
	assert.Equal(t, "google-sub-1", assertion.ProviderKey)
	assert.Equal(t, "ada@example.com", assertion.Email)
	assert.Equal(t, "Ada", assertion.FirstName)
	assert.Equal(t, "Lovelace", assertion.LastName)
	assert.Equal(t, "", assertion.PhoneNumber)
	assert.Equal(t, credential, assertion.Proof)
}

func TestPromptRejectsIncompleteCredential(t *testing.T) {
	credential := signCredential(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	provider := google.New(google.Config{
		ClientID:   "client-1",
		Credential: staticCredential(credential),
	})

	_, err := provider.Prompt(context.Background())
	assert.Error(t, err)
}

func TestPromptRejectsGarbageCredential(t *testing.T) {
	provider := google.New(google.Config{
		ClientID:   "client-1",
		Credential: staticCredential("not-a-token"),
	})

	_, err := provider.Prompt(context.Background())
	assert.Error(t, err)
}
