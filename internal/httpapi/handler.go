// Package httpapi exposes the portal's REST surface. Read endpoints are
// public; mutations require a session and run through the auth middleware,
// with admin-only resources additionally gated by role.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docuforge/doc_portal/internal/errors"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/metrics"
	"github.com/docuforge/doc_portal/internal/middleware"
	"github.com/docuforge/doc_portal/internal/service/accounts"
	"github.com/docuforge/doc_portal/internal/service/appconfig"
	"github.com/docuforge/doc_portal/internal/service/catalog"
	"github.com/docuforge/doc_portal/internal/session"
)

// Handler wires the portal services into HTTP routes.
type Handler struct {
	catalog      *catalog.Service
	accounts     *accounts.Service
	appconfig    *appconfig.Service
	sessions     *session.Manager
	logger       *logging.Logger
	loginLimiter *middleware.RateLimiter
}

// New creates a Handler. loginLimiter may be nil to disable login
// throttling, which tests rely on.
func New(
	catalogSvc *catalog.Service,
	accountsSvc *accounts.Service,
	appconfigSvc *appconfig.Service,
	sessions *session.Manager,
	logger *logging.Logger,
	loginLimiter *middleware.RateLimiter,
) *Handler {
	return &Handler{
		catalog:      catalogSvc,
		accounts:     accountsSvc,
		appconfig:    appconfigSvc,
		sessions:     sessions,
		logger:       logger,
		loginLimiter: loginLimiter,
	}
}

// Router builds the route table. Routes registered on the authed subrouter
// require a valid session; the admin subrouter additionally requires the
// admin role. Literal paths are registered before their {var} siblings so
// mux matches them first.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public reads.
	api.HandleFunc("/modules", h.handleListModules).Methods(http.MethodGet)
	api.HandleFunc("/modules/welcome", h.handleWelcomeModule).Methods(http.MethodGet)
	api.HandleFunc("/modules/{id}", h.handleGetModule).Methods(http.MethodGet)
	api.HandleFunc("/modules/{id}/toc", h.handleModuleTOC).Methods(http.MethodGet)
	api.HandleFunc("/modules/{id}/versions", h.handleListVersions).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.handleGetSettings).Methods(http.MethodGet)

	login := http.Handler(http.HandlerFunc(h.handleLogin))
	if h.loginLimiter != nil {
		login = h.loginLimiter.Handler(login)
	}
	api.Handle("/auth/login", login).Methods(http.MethodPost)

	// Session-holder routes.
	auth := middleware.NewAuthMiddleware(h.sessions, h.logger, nil)
	authed := api.PathPrefix("").Subrouter()
	authed.Use(mux.MiddlewareFunc(auth.Handler))

	authed.HandleFunc("/auth/logout", h.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/session", h.handleSession).Methods(http.MethodGet)
	authed.HandleFunc("/auth/password", h.handleChangePassword).Methods(http.MethodPost)

	authed.HandleFunc("/modules", h.handleCreateModule).Methods(http.MethodPost)
	authed.HandleFunc("/modules/{id}", h.handleUpdateModule).Methods(http.MethodPut)
	authed.HandleFunc("/modules/{id}", h.handleDeleteModule).Methods(http.MethodDelete)
	authed.HandleFunc("/modules/{id}/welcome", h.handleSetWelcomeModule).Methods(http.MethodPost)
	authed.HandleFunc("/modules/{id}/versions", h.handleAddVersion).Methods(http.MethodPost)
	authed.HandleFunc("/modules/{id}/versions/{version}", h.handleUpdateVersion).Methods(http.MethodPut)
	authed.HandleFunc("/modules/{id}/versions/{version}", h.handleDeleteVersion).Methods(http.MethodDelete)

	// Admin-only routes.
	admin := api.PathPrefix("").Subrouter()
	admin.Use(mux.MiddlewareFunc(auth.Handler), mux.MiddlewareFunc(middleware.RequireAdmin(h.logger)))

	admin.HandleFunc("/categories/order", h.handleReorderCategories).Methods(http.MethodPut)
	admin.HandleFunc("/categories", h.handleCreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{name}", h.handleUpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{name}", h.handleDeleteCategory).Methods(http.MethodDelete)

	admin.HandleFunc("/users", h.handleListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.handleCreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.handleUpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.handleDeleteUser).Methods(http.MethodDelete)

	admin.HandleFunc("/settings", h.handleUpdateSettings).Methods(http.MethodPut)

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	se := errors.GetServiceError(err)
	if se == nil {
		se = errors.Internal("Unexpected error", err)
	}
	if se.HTTPStatus >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	httputil.WriteErrorResponse(w, se.HTTPStatus, string(se.Code), se.Message, se.Details)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		se := errors.InvalidInput("Invalid JSON body")
		httputil.WriteErrorResponse(w, se.HTTPStatus, string(se.Code), se.Message, nil)
		return false
	}
	return true
}
