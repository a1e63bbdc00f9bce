package authclient

import (
	"sync"
	"time"
)

// Manager is the single source of truth for the current session. It derives
// the observable User from the stored credential, and it alone owns the
// auto-logout timer handle.
type Manager struct {
	store     CredentialStore
	scheduler *expiryScheduler
	logger    Logger
	now       func() time.Time

	mu          sync.RWMutex
	current     User
	subscribers map[int]func(User)
	nextSubID   int
}

var (
	_ SessionState  = (*Manager)(nil)
	_ SessionWriter = (*Manager)(nil)
)

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
			m.scheduler.logger = logger
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
			m.scheduler.now = clock
		}
	}
}

// WithLogoutSafetyMargin overrides how far ahead of expiry logout fires.
func WithLogoutSafetyMargin(margin time.Duration) ManagerOption {
	return func(m *Manager) {
		if margin > 0 {
			m.scheduler.margin = margin
		}
	}
}

// withTimerFactory swaps the timer implementation in tests.
func withTimerFactory(factory timerFactory) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.scheduler.newTimer = factory
		}
	}
}

// NewManager returns a Manager over the given store. Call Initialize to
// restore a previously persisted session.
func NewManager(store CredentialStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:       store,
		logger:      defLogger{},
		now:         time.Now,
		current:     NoUser(),
		subscribers: map[int]func(User){},
	}
	m.scheduler = newExpiryScheduler(DefaultLogoutSafetyMargin, m.logger)

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// NewManagerFromConfig builds a Manager over a keyring store scoped by the
// configured service and key, with the configured logout safety margin.
func NewManagerFromConfig(cfg Config, opts ...ManagerOption) *Manager {
	store := NewKeyringStore(cfg.GetKeyringService(), cfg.GetKeyringKey())
	margin := time.Duration(cfg.GetLogoutSafetyMargin()) * time.Second
	opts = append([]ManagerOption{WithLogoutSafetyMargin(margin)}, opts...)
	return NewManager(store, opts...)
}

// Initialize restores session state from the store. A present, unexpired
// credential publishes the derived user and arms the expiry timer. Anything
// else (absent, expired, undecodable) degrades silently to "no user" and
// scrubs the stale token from storage.
func (m *Manager) Initialize() {
	token, err := m.store.Get()
	if err != nil {
		m.logger.Warn("session initialize: credential store read failed: %v", err)
		m.publish(NoUser())
		return
	}

	if token == "" {
		m.publish(NoUser())
		return
	}

	claims, err := DecodeToken(token)
	if err != nil || claims.ExpiredAt(m.now()) {
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("session initialize: failed to scrub stale credential: %v", clearErr)
		}
		m.publish(NoUser())
		return
	}

	m.publish(userFromClaims(claims))
	m.scheduler.Arm(claims, m.expire)
}

// Apply persists the token, publishes the derived user and re-arms the
// expiry timer. Every successful auth flow funnels through here. An
// undecodable token clears the session and reports a decode error.
func (m *Manager) Apply(rawToken string) error {
	claims, err := DecodeToken(rawToken)
	if err != nil {
		m.Clear()
		return err
	}

	if err := m.store.Set(rawToken); err != nil {
		m.logger.Warn("session apply: credential store write failed: %v", err)
	}

	m.publish(userFromClaims(claims))
	m.scheduler.Arm(claims, m.expire)
	return nil
}

// Clear removes the stored token, cancels the pending timer and publishes
// "no user". Idempotent: clearing an already clear session changes nothing
// observable.
func (m *Manager) Clear() {
	m.scheduler.Cancel()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("session clear: credential store clear failed: %v", err)
	}

	m.mu.Lock()
	hadUser := !m.current.IsZero()
	m.current = NoUser()
	subs := m.snapshotSubscribersLocked()
	m.mu.Unlock()

	if hadUser {
		notify(subs, NoUser())
	}
}

// CurrentUser returns a synchronous snapshot of the session user.
func (m *Manager) CurrentUser() User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe registers fn to receive every session user change, starting
// with the current value. The returned cancel removes the subscription.
func (m *Manager) Subscribe(fn func(User)) func() {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	current := m.current
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// IsAuthenticated re-reads the stored credential and re-checks expiry
// against the clock on every call. It is never a cached flag.
func (m *Manager) IsAuthenticated() bool {
	token, err := m.store.Get()
	if err != nil || token == "" {
		return false
	}

	claims, err := DecodeToken(token)
	if err != nil {
		return false
	}

	return !claims.ExpiredAt(m.now())
}

// HasRole reports whether the current user holds the given role.
func (m *Manager) HasRole(role string) bool {
	return m.HasAnyRole(role)
}

// HasAnyRole reports whether the current user holds any of the given roles.
// Always false, never an error, when nobody is logged in.
func (m *Manager) HasAnyRole(roles ...string) bool {
	return m.CurrentUser().HasAnyRole(roles...)
}

// expire is the scheduler callback: a fired timer is a logout.
func (m *Manager) expire() {
	m.logger.Info("session expired, logging out")
	m.Clear()
}

func (m *Manager) publish(user User) {
	m.mu.Lock()
	m.current = user
	subs := m.snapshotSubscribersLocked()
	m.mu.Unlock()

	notify(subs, user)
}

func (m *Manager) snapshotSubscribersLocked() []func(User) {
	subs := make([]func(User), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(User), user User) {
	for _, fn := range subs {
		fn(user)
	}
}
