package auth

// Gate combines the operator credentials with the lockout throttle.
type Gate struct {
	creds    Credentials
	throttle *Throttle
}

func NewGate(creds Credentials, throttle *Throttle) *Gate {
	return &Gate{creds: creds, throttle: throttle}
}

// Login returns nil on success, a *LockedOutError while locked or when this
// failure trips the lock, and ErrInvalidCredentials otherwise. Attempts made
// while locked are not counted.
func (g *Gate) Login(username, password string) error {
	if err := g.throttle.Check(); err != nil {
		return err
	}
	if g.creds.Verify(username, password) {
		g.throttle.Succeed()
		return nil
	}
	if err := g.throttle.Fail(); err != nil {
		return err
	}
	return ErrInvalidCredentials
}
