package httpapi

import (
	"net/http"
	"strings"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/metrics"
	"github.com/docuforge/doc_portal/internal/middleware"
	"github.com/docuforge/doc_portal/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  adminuser.Public `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// handleLogin verifies credentials and issues a session token, returned in
// the body and as the session cookie.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	metrics.RecordLogin(err == nil)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, int(h.sessions.TTL().Seconds()))
	h.logger.WithContext(r.Context()).WithField("username", user.Username).Info("user logged in")
	httputil.WriteJSONResponse(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// handleLogout revokes the presented token and clears the cookie.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		h.sessions.Revoke(token)
	}
	h.setSessionCookie(w, "", -1)
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleSession returns the caller's identity, letting clients restore
// state from the cookie alone.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	httputil.WriteJSONResponse(w, http.StatusOK, adminuser.Public{
		ID:       p.UserID,
		Username: p.Username,
		Role:     p.Role,
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	p := middleware.GetPrincipal(r.Context())
	if err := h.accounts.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
