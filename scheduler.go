package authclient

import (
	"sync"
	"time"
)

// DefaultLogoutSafetyMargin is how far ahead of token expiry the automatic
// logout fires.
const DefaultLogoutSafetyMargin = time.Minute

// timerHandle is the cancellable half of a scheduled callback.
type timerHandle interface {
	Stop() bool
}

// timerFactory creates a timer firing fn after d. Swapped out in tests.
type timerFactory func(d time.Duration, fn func()) timerHandle

func stdTimerFactory(d time.Duration, fn func()) timerHandle {
	return time.AfterFunc(d, fn)
}

// expiryScheduler owns the single pending auto-logout timer. Only the
// session Manager touches it; every Arm or Cancel first stops whatever
// timer was outstanding so at most one exists per process.
type expiryScheduler struct {
	mu       sync.Mutex
	now      func() time.Time
	newTimer timerFactory
	margin   time.Duration
	logger   Logger

	pending timerHandle
}

func newExpiryScheduler(margin time.Duration, logger Logger) *expiryScheduler {
	if margin <= 0 {
		margin = DefaultLogoutSafetyMargin
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &expiryScheduler{
		now:      time.Now,
		newTimer: stdTimerFactory,
		margin:   margin,
		logger:   logger,
	}
}

// Arm schedules onExpire at max(0, expiresIn - margin). A zero delay still
// goes through the timer so the callback runs on the next tick instead of
// reentering the caller mid-apply. A credential without a usable expiry
// logs and leaves no timer armed; IsAuthenticated re-checks expiry anyway.
func (s *expiryScheduler) Arm(claims *TokenClaims, onExpire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	if claims == nil || claims.ExpiresAt.IsZero() {
		s.logger.Warn("expiry scheduler: credential has no usable expiry, skipping timer")
		return
	}

	delay := claims.ExpiresIn(s.now()) - s.margin
	if delay < 0 {
		delay = 0
	}

	// The callback re-checks identity under the lock: a stale timer whose
	// callback was already queued when a re-arm stopped it must not fire
	// against the fresh credential.
	var handle timerHandle
	handle = s.newTimer(delay, func() {
		s.mu.Lock()
		if s.pending != handle {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.mu.Unlock()
		onExpire()
	})
	s.pending = handle
}

// Cancel stops the pending timer, if any. Idempotent.
func (s *expiryScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *expiryScheduler) cancelLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *expiryScheduler) hasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}
