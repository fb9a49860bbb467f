package auth

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

var ErrLockedOut = errors.New("too many failed attempts")

// LockedOutError reports how long the gate stays closed. It matches
// ErrLockedOut with errors.Is.
type LockedOutError struct {
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", e.Seconds())
}

func (e *LockedOutError) Is(target error) bool { return target == ErrLockedOut }

// Seconds rounds the remaining lock up, never below one.
func (e *LockedOutError) Seconds() int {
	s := int(math.Ceil(e.Remaining.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

// Throttle counts consecutive failed logins. Reaching the limit locks the
// gate for a fixed duration and starts a fresh count.
type Throttle struct {
	mu          sync.Mutex
	limit       int
	lock        time.Duration
	failures    int
	lockedUntil time.Time
	now         func() time.Time
}

func NewThrottle(limit int, lock time.Duration) *Throttle {
	return &Throttle{limit: limit, lock: lock, now: time.Now}
}

// Check returns a *LockedOutError while the gate is locked.
func (t *Throttle) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if now := t.now(); now.Before(t.lockedUntil) {
		return &LockedOutError{Remaining: t.lockedUntil.Sub(now)}
	}
	return nil
}

// Fail records a failed attempt and returns a *LockedOutError when it trips
// the lock.
func (t *Throttle) Fail() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures++
	if t.failures < t.limit {
		return nil
	}
	t.failures = 0
	t.lockedUntil = t.now().Add(t.lock)
	return &LockedOutError{Remaining: t.lock}
}

func (t *Throttle) Succeed() {
	t.mu.Lock()
	t.failures = 0
	t.mu.Unlock()
}
