package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/middleware"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, categories)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	created, err := h.catalog.CreateCategory(r.Context(), middleware.GetPrincipal(r.Context()), req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, created)
}

// handleUpdateCategory renames the category in the path to the name in the
// body, cascading to every module that references it.
func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.catalog.UpdateCategory(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["name"], req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	removed, err := h.catalog.DeleteCategory(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["name"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (h *Handler) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	categories, err := h.catalog.ReorderCategories(r.Context(), middleware.GetPrincipal(r.Context()), req.Order)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, categories)
}
