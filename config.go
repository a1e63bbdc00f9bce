package authclient

// SimpleConfig is a plain-struct Config implementation. Zero values fall
// back to sane defaults through the getters.
type SimpleConfig struct {
	BaseURL            string
	HTTPTimeout        int // seconds
	KeyringService     string
	KeyringKey         string
	LogoutSafetyMargin int // seconds
	LoginRoute         string
	HomeRoute          string
	UnauthorizedRoute  string
	DefaultRedirect    string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c *SimpleConfig) GetHTTPTimeout() int {
	if c.HTTPTimeout <= 0 {
		return 10
	}
	return c.HTTPTimeout
}

func (c *SimpleConfig) GetKeyringService() string {
	if c.KeyringService == "" {
		return "go-authclient"
	}
	return c.KeyringService
}

func (c *SimpleConfig) GetKeyringKey() string {
	if c.KeyringKey == "" {
		return "token"
	}
	return c.KeyringKey
}

func (c *SimpleConfig) GetLogoutSafetyMargin() int {
	if c.LogoutSafetyMargin <= 0 {
		return int(DefaultLogoutSafetyMargin.Seconds())
	}
	return c.LogoutSafetyMargin
}

func (c *SimpleConfig) GetLoginRoute() string {
	if c.LoginRoute == "" {
		return "/login"
	}
	return c.LoginRoute
}

func (c *SimpleConfig) GetHomeRoute() string {
	if c.HomeRoute == "" {
		return "/home"
	}
	return c.HomeRoute
}

func (c *SimpleConfig) GetUnauthorizedRoute() string {
	if c.UnauthorizedRoute == "" {
		return "/unauthorized"
	}
	return c.UnauthorizedRoute
}

func (c *SimpleConfig) GetDefaultRedirect() string {
	if c.DefaultRedirect == "" {
		return c.GetHomeRoute()
	}
	return c.DefaultRedirect
}
