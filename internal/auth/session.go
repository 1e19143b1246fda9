// Package auth resolves the signed-in user from the backend's access token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no access token is configured.
var ErrNoSession = errors.New("no active session")

// Session holds the access token issued by the backend for the current user.
type Session struct {
	token  string
	secret []byte
	now    func() time.Time
}

// NewSession creates a Session validating token with the shared HS256 secret.
func NewSession(token, secret string) *Session {
	return &Session{
		token:  token,
		secret: []byte(secret),
		now:    time.Now,
	}
}

// CurrentUserID returns the subject of the session's access token.
func (s *Session) CurrentUserID(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(s.token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("invalid access token: %w", err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("invalid access token: missing subject")
	}
	return claims.Subject, nil
}

// IssueToken signs an access token for userID valid for ttl.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
