package authclient_test

import (
	"testing"

	authclient "github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/assert"
)

func TestNoUser(t *testing.T) {
	user := authclient.NoUser()

	assert.True(t, user.IsZero())
	assert.NotNil(t, user.Roles)
	assert.Empty(t, user.Roles)
}

func TestHasAnyRole(t *testing.T) {
	user := authclient.User{
		ID:    "user-1",
		Email: "ada@example.com",
		Roles: []string{"editor", "viewer"},
	}

	assert.True(t, user.HasAnyRole("viewer"))
	assert.True(t, user.HasAnyRole("admin", "editor"))
	assert.False(t, user.HasAnyRole("admin"))
	assert.False(t, user.HasAnyRole())
	assert.False(t, authclient.NoUser().HasAnyRole("admin"))
}
