package social

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-authclient"
)

// Provider adapts one third-party identity widget. The raw SDK surface
// never leaks past implementations of this interface; the rest of the
// system only sees normalized assertions.
type Provider interface {
	// Name returns the provider identifier (e.g. "Google", "Facebook").
	Name() string

	// Load initializes the provider's widget. The bridge guarantees it is
	// invoked at most once per process regardless of concurrent callers.
	Load(ctx context.Context) error

	// Prompt runs the interactive consent flow and normalizes the
	// provider callback into an Assertion.
	Prompt(ctx context.Context) (*Assertion, error)
}

// Assertion is a provider callback normalized into the exchange contract.
// Proof is the opaque credential the remote API verifies with the provider.
type Assertion struct {
	Provider    string
	ProviderKey string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Proof       string
}

// Validate checks the structural requirements of the exchange contract.
func (a Assertion) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Provider, validation.Required),
		validation.Field(&a.ProviderKey, validation.Required),
		validation.Field(&a.Email, validation.Required, is.Email),
		validation.Field(&a.Proof, validation.Required),
	)
}

func (a Assertion) toOAuthRequest() authclient.OAuthRequest {
	return authclient.OAuthRequest{
		Provider:    a.Provider,
		ProviderKey: a.ProviderKey,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		AccessToken: a.Proof,
	}
}
