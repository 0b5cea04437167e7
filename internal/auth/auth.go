// Package auth mints and verifies the session tokens that identify a player.
// The engine itself never looks at identity; this exists so saved game state
// can be keyed to a user.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated identity attached to a request.
type User struct {
	ID   string
	Name string
}

// ErrBadToken is returned for any token that fails verification: wrong
// signature, wrong algorithm, expired, or malformed.
var ErrBadToken = errors.New("auth: invalid token")

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager. ttl bounds how long an issued session
// stays valid.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed session token for the given user.
func (m *Manager) Issue(userID, name string) (string, error) {
	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the user it names.
func (m *Manager) Verify(tokenString string) (User, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !tok.Valid {
		return User{}, ErrBadToken
	}
	if c.Subject == "" {
		return User{}, ErrBadToken
	}
	return User{ID: c.Subject, Name: c.Name}, nil
}
