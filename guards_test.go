package authclient_test

import (
	"testing"

	authclient "github.com/goliatone/go-authclient"
	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	authenticated bool
	roles         []string
}

func (f *fakeSession) CurrentUser() authclient.User {
	if !f.authenticated {
		return authclient.NoUser()
	}
	return authclient.User{ID: "user-1", Roles: f.roles}
}

func (f *fakeSession) IsAuthenticated() bool {
	return f.authenticated
}

func (f *fakeSession) HasRole(role string) bool {
	return f.HasAnyRole(role)
}

func (f *fakeSession) HasAnyRole(roles ...string) bool {
	return f.CurrentUser().HasAnyRole(roles...)
}

func testGuards(session authclient.SessionState) *authclient.Guards {
	return authclient.NewGuards(session, &authclient.SimpleConfig{})
}

func TestRequireAuth(t *testing.T) {
	guards := testGuards(&fakeSession{authenticated: true})
	assert.Equal(t, authclient.Allow(), guards.RequireAuth())

	guards = testGuards(&fakeSession{})
	assert.Equal(t, authclient.Redirect("/login"), guards.RequireAuth())
}

func TestRequireAnonymous(t *testing.T) {
	guards := testGuards(&fakeSession{})
	assert.Equal(t, authclient.Allow(), guards.RequireAnonymous())

	guards = testGuards(&fakeSession{authenticated: true})
	assert.Equal(t, authclient.Redirect("/home"), guards.RequireAnonymous())
}

func TestRequireRole(t *testing.T) {
	guards := testGuards(&fakeSession{})
	assert.Equal(t, authclient.Redirect("/login"), guards.RequireRole("admin"))

	guards = testGuards(&fakeSession{authenticated: true, roles: []string{"viewer"}})
	assert.Equal(t, authclient.Redirect("/unauthorized"), guards.RequireRole("admin"))

	guards = testGuards(&fakeSession{authenticated: true, roles: []string{"viewer", "admin"}})
	assert.Equal(t, authclient.Allow(), guards.RequireRole("admin", "editor"))
}
