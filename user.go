package authclient

// User is the derived, read-only projection of the active credential's
// claims. It is recomputed whenever the credential changes, never patched.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// NoUser is the explicit "nobody is logged in" value. A partially filled
// User is never presented as valid.
func NoUser() User {
	return User{Roles: []string{}}
}

// IsZero reports whether u is the no-user value.
func (u User) IsZero() bool {
	return u.ID == "" && u.Email == ""
}

// HasAnyRole reports whether the user's role list intersects roles.
func (u User) HasAnyRole(roles ...string) bool {
	for _, wanted := range roles {
		for _, held := range u.Roles {
			if held == wanted {
				return true
			}
		}
	}
	return false
}

func userFromClaims(claims *TokenClaims) User {
	if claims == nil {
		return NoUser()
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}

	return User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     roles,
	}
}
