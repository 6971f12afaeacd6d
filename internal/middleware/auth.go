// Package middleware provides HTTP middleware for the portal.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/session"
)

// AuthMiddleware resolves the caller's session from a bearer header or the
// session cookie and stores the principal in the request context.
type AuthMiddleware struct {
	sessions  *session.Manager
	logger    *logging.Logger
	skipPaths map[string]bool
}

// NewAuthMiddleware creates an authentication middleware. Requests to the
// listed skip paths pass through anonymously.
func NewAuthMiddleware(sessions *session.Manager, logger *logging.Logger, skipPaths []string) *AuthMiddleware {
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}
	return &AuthMiddleware{sessions: sessions, logger: logger, skipPaths: skip}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token := TokenFromRequest(r)
		if token == "" {
			m.respondError(w, r, errors.Unauthorized("Missing session token"))
			return
		}

		principal, err := m.sessions.Verify(token)
		if err != nil {
			m.logger.WithContext(r.Context()).WithError(err).Warn("session validation failed")
			m.respondError(w, r, err)
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin returns middleware rejecting callers without the admin role.
// It must run after the auth middleware.
func RequireAdmin(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p.UserID == "" {
				httputil.Unauthorized(w, "")
				return
			}
			if !p.IsAdmin() {
				logger.WithContext(r.Context()).WithFields(map[string]interface{}{
					"path": r.URL.Path,
					"role": string(p.Role),
				}).Warn("admin-only path rejected")
				se := errors.Forbidden("Admin role required")
				httputil.WriteErrorResponse(w, se.HTTPStatus, string(se.Code), se.Message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest extracts the session token from the Authorization header
// or the session cookie.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

type principalKey struct{}

// WithPrincipal stores the caller's principal, and its identity fields for
// logging, in the context.
func WithPrincipal(ctx context.Context, p session.Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	ctx = logging.WithUserID(ctx, p.UserID)
	ctx = context.WithValue(ctx, logging.UsernameKey, p.Username)
	ctx = context.WithValue(ctx, logging.RoleKey, string(p.Role))
	return ctx
}

// GetPrincipal returns the principal stored in ctx, or the zero principal.
func GetPrincipal(ctx context.Context) session.Principal {
	if p, ok := ctx.Value(principalKey{}).(session.Principal); ok {
		return p
	}
	return session.Principal{}
}

// GetUserRole returns the caller's role, or "".
func GetUserRole(ctx context.Context) adminuser.Role {
	return GetPrincipal(ctx).Role
}

func (m *AuthMiddleware) respondError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := errors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = errors.Internal("Authentication failed", err)
	}

	httputil.WriteErrorResponse(w, serviceErr.HTTPStatus, string(serviceErr.Code), serviceErr.Message, serviceErr.Details)

	m.logger.WithContext(r.Context()).WithError(err).WithFields(map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
		"status": serviceErr.HTTPStatus,
	}).Warn("authentication failed")
}
