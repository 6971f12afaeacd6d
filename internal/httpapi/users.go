package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docuforge/doc_portal/internal/domain/adminuser"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/middleware"
	"github.com/docuforge/doc_portal/internal/service/accounts"
)

type userRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Role     adminuser.Role `json:"role"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, users)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	created, err := h.accounts.CreateUser(r.Context(), middleware.GetPrincipal(r.Context()), accounts.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.accounts.UpdateUser(r.Context(), middleware.GetPrincipal(r.Context()), accounts.UpdateUserInput{
		ID:       mux.Vars(r)["id"],
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteUser(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}
