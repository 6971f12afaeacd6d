// Package session issues and validates the portal's session credential: a
// signed HS256 token carrying identity and role, delivered as a cookie or a
// bearer header. Logout revokes the token by hash until it expires.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/errors"
)

// CookieName is the cookie carrying the session token.
const CookieName = "portal_session"

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

// Principal is the caller's resolved identity for the duration of a request.
type Principal struct {
	UserID   string
	Username string
	Role     adminuser.Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == adminuser.RoleAdmin
}

// Claims are the JWT claims embedded in a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs, verifies, and revokes session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string

	mu      sync.Mutex
	revoked map[string]time.Time // token hash -> expiry
}

// NewManager creates a session manager with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTTL.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret:  secret,
		ttl:     ttl,
		issuer:  "doc-portal",
		revoked: make(map[string]time.Time),
	}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given user.
func (m *Manager) Issue(user adminuser.Public) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Internal("Failed to sign session token", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the caller's principal.
// Revoked tokens fail validation even before their expiry.
func (m *Manager) Verify(tokenString string) (Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Principal{}, errors.Unauthorized("Missing session token")
	}
	if m.isRevoked(tokenString) {
		return Principal{}, errors.Unauthorized("Session has been logged out")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.InvalidToken(nil).WithDetails("method", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Principal{}, errors.InvalidToken(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errors.InvalidToken(nil)
	}

	role := adminuser.Role(claims.Role)
	if !role.Valid() {
		return Principal{}, errors.InvalidToken(nil).WithDetails("reason", "unknown role")
	}

	return Principal{UserID: claims.UserID, Username: claims.Username, Role: role}, nil
}

// Revoke invalidates a token for the remainder of its lifetime.
func (m *Manager) Revoke(tokenString string) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[hashToken(tokenString)] = time.Now().Add(m.ttl)

	// Drop entries that expired on their own.
	now := time.Now()
	for hash, expiry := range m.revoked {
		if expiry.Before(now) {
			delete(m.revoked, hash)
		}
	}
}

func (m *Manager) isRevoked(tokenString string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.revoked[hashToken(tokenString)]
	if !ok {
		return false
	}
	if expiry.Before(time.Now()) {
		delete(m.revoked, hashToken(tokenString))
		return false
	}
	return true
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
