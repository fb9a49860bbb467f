package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/csg33k/wages-generator/internal/domain"
)

const (
	CookieName = "wages_session"
	issuer     = "wages-generator"
)

var ErrNoSession = errors.New("no valid session")

type Claims struct {
	jwt.RegisteredClaims
}

// Sessions issues and checks HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for username with a fresh session id.
func (s *Sessions) Issue(username string) (string, *domain.Operator, error) {
	now := s.now()
	op := &domain.Operator{
		Username:  username,
		SessionID: uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   op.Username,
		ID:        op.SessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(op.ExpiresAt),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, op, nil
}

// Parse validates a token and returns its operator.
func (s *Sessions) Parse(token string) (*domain.Operator, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrNoSession
	}
	return &domain.Operator{
		Username:  claims.Subject,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// FromRequest reads the session cookie.
func (s *Sessions) FromRequest(r *http.Request) (*domain.Operator, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return s.Parse(c.Value)
}

// Cookie wraps a token in the HTTP-only session cookie.
func (s *Sessions) Cookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
