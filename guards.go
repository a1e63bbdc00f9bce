package authclient

// Decision is a guard verdict: either the navigation is allowed or the
// router should send the visitor to RedirectTo instead.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the pass-through verdict.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Redirect denies the navigation and names the destination.
func Redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Guards are pure, synchronous predicates over session state, consumed by
// the host router on each navigation. They never mutate the session.
type Guards struct {
	session SessionState
	cfg     Config
}

// NewGuards wires guards to a session and the configured redirect routes.
func NewGuards(session SessionState, cfg Config) *Guards {
	return &Guards{session: session, cfg: cfg}
}

// RequireAuth allows authenticated visitors and redirects everyone else to
// the login route.
func (g *Guards) RequireAuth() Decision {
	if g.session.IsAuthenticated() {
		return Allow()
	}
	return Redirect(g.cfg.GetLoginRoute())
}

// RequireAnonymous is the inverse: it keeps logged-in users out of login
// and signup pages by sending them home.
func (g *Guards) RequireAnonymous() Decision {
	if g.session.IsAuthenticated() {
		return Redirect(g.cfg.GetHomeRoute())
	}
	return Allow()
}

// RequireRole allows authenticated visitors holding any of the given roles.
// Unauthenticated visitors go to login, authenticated ones without a
// matching role go to the unauthorized route.
func (g *Guards) RequireRole(roles ...string) Decision {
	if !g.session.IsAuthenticated() {
		return Redirect(g.cfg.GetLoginRoute())
	}
	if g.session.HasAnyRole(roles...) {
		return Allow()
	}
	return Redirect(g.cfg.GetUnauthorizedRoute())
}
