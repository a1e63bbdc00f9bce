package authclient

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Claim URIs emitted by older identity stacks. Tokens in the wild carry
// either the plain OIDC names or these namespaced variants.
const (
	claimURINameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	claimURIEmailAddress   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	claimURIRole           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// TokenClaims is the decoded, normalized view of a credential's payload.
// Optional claims resolve to empty strings and empty slices, never nil
// values handed to the UI layer.
type TokenClaims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// DecodeToken splits the raw credential, base64-decodes its payload segment
// and normalizes the embedded claims. The signature is NOT verified; the
// remote API is the verifier, this client only needs the claims and the
// expiry instant. Malformed input yields ErrTokenDecode.
func DecodeToken(raw string) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrTokenDecode
	}

	payload := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, payload); err != nil {
		return nil, errors.Wrap(err, ErrTokenDecode.Category, ErrTokenDecode.Message).
			WithTextCode(ErrTokenDecode.TextCode)
	}

	claims := &TokenClaims{
		Subject: coalesceString(payload, "sub", claimURINameIdentifier),
		Email:   coalesceString(payload, "email", claimURIEmailAddress),
		Roles:   coalesceRoles(payload),
	}

	claims.FirstName, claims.LastName = coalesceNames(payload)

	if exp, err := payload.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := payload.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

// ExpiredAt reports whether the credential is expired at the given instant.
// A credential without an expiry claim is always expired.
func (c *TokenClaims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// ExpiresIn returns the remaining lifetime at the given instant. Negative
// when already expired.
func (c *TokenClaims) ExpiresIn(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

func coalesceString(payload jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func coalesceRoles(payload jwt.MapClaims) []string {
	roles := []string{}
	for _, key := range []string{"role", claimURIRole} {
		value, exists := payload[key]
		if !exists {
			continue
		}

		switch typed := value.(type) {
		case string:
			if typed != "" {
				roles = append(roles, typed)
			}
		case []any:
			for _, entry := range typed {
				if role, ok := entry.(string); ok && role != "" {
					roles = append(roles, role)
				}
			}
		case []string:
			for _, role := range typed {
				if role != "" {
					roles = append(roles, role)
				}
			}
		}

		if len(roles) > 0 {
			break
		}
	}
	return roles
}

// coalesceNames prefers discrete name claims and falls back to splitting a
// single full-name claim into first/rest.
func coalesceNames(payload jwt.MapClaims) (first, last string) {
	first = coalesceString(payload, "given_name", "firstName")
	last = coalesceString(payload, "family_name", "lastName")

	if first != "" || last != "" {
		return first, last
	}

	fullName := coalesceString(payload, "name", "fullName")
	if fullName == "" {
		return "", ""
	}

	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}

	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}
