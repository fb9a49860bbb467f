package auth

import (
	"errors"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestThrottle_LockExpiresAndCountRestarts(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	th := NewThrottle(2, 30*time.Second)
	th.now = c.now

	if err := th.Fail(); err != nil {
		t.Fatalf("first failure locked: %v", err)
	}
	if err := th.Fail(); !errors.Is(err, ErrLockedOut) {
		t.Fatalf("second failure: want lockout, got %v", err)
	}

	c.t = c.t.Add(29*time.Second + 100*time.Millisecond)
	var lo *LockedOutError
	if err := th.Check(); !errors.As(err, &lo) || lo.Seconds() != 1 {
		t.Fatalf("near expiry: want 1s remaining, got %v", err)
	}

	c.t = c.t.Add(time.Second)
	if err := th.Check(); err != nil {
		t.Fatalf("lock did not expire: %v", err)
	}
	if err := th.Fail(); err != nil {
		t.Errorf("count was not reset by the lock: %v", err)
	}
}

func TestSessions_Expired(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	s := NewSessions([]byte("k"), time.Hour)
	s.now = c.now
	token, _, err := s.Issue("Kiri")
	if err != nil {
		t.Fatal(err)
	}
	c.t = c.t.Add(59 * time.Minute)
	if _, err := s.Parse(token); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	c.t = c.t.Add(2 * time.Minute)
	if _, err := s.Parse(token); !errors.Is(err, ErrNoSession) {
		t.Errorf("expired token: want ErrNoSession, got %v", err)
	}
}

func TestLockedOutError_Message(t *testing.T) {
	e := &LockedOutError{Remaining: 30 * time.Second}
	if e.Error() != "Too many failed attempts. Try again in 30 seconds." {
		t.Errorf("got %q", e.Error())
	}
}
