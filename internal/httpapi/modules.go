package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docuforge/doc_portal/internal/domain/docmodule"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/middleware"
	"github.com/docuforge/doc_portal/internal/toc"
)

// handleListModules lists all modules. A q parameter searches name, tags and
// description; a category parameter filters by category name.
func (h *Handler) handleListModules(w http.ResponseWriter, r *http.Request) {
	var (
		modules []docmodule.Module
		err     error
	)
	switch {
	case r.URL.Query().Get("q") != "":
		modules, err = h.catalog.SearchModules(r.Context(), r.URL.Query().Get("q"))
	case r.URL.Query().Get("category") != "":
		modules, err = h.catalog.ListModulesByCategory(r.Context(), r.URL.Query().Get("category"))
	default:
		modules, err = h.catalog.ListModules(r.Context())
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, modules)
}

func (h *Handler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.GetModule(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, m)
}

func (h *Handler) handleWelcomeModule(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.WelcomeModule(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, m)
}

// handleModuleTOC derives a table of contents from the module's content.
func (h *Handler) handleModuleTOC(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.GetModule(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	entries, err := toc.Generate(m.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, entries)
}

func (h *Handler) handleCreateModule(w http.ResponseWriter, r *http.Request) {
	var m docmodule.Module
	if !h.decodeJSON(w, r, &m) {
		return
	}
	created, err := h.catalog.CreateModule(r.Context(), middleware.GetPrincipal(r.Context()), m)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, created)
}

// handleUpdateModule replaces the stored module wholesale. The path id wins
// over any id in the body.
func (h *Handler) handleUpdateModule(w http.ResponseWriter, r *http.Request) {
	var m docmodule.Module
	if !h.decodeJSON(w, r, &m) {
		return
	}
	m.ID = mux.Vars(r)["id"]
	updated, err := h.catalog.UpdateModule(r.Context(), middleware.GetPrincipal(r.Context()), m)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteModule(w http.ResponseWriter, r *http.Request) {
	removed, err := h.catalog.DeleteModule(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]bool{"deleted": removed})
}

func (h *Handler) handleSetWelcomeModule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.SetWelcomeModule(r.Context(), middleware.GetPrincipal(r.Context()), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	m, err := h.catalog.GetModule(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, m)
}

func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.catalog.ListVersions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, versions)
}

func (h *Handler) handleAddVersion(w http.ResponseWriter, r *http.Request) {
	var v docmodule.Version
	if !h.decodeJSON(w, r, &v) {
		return
	}
	created, err := h.catalog.AddVersion(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"], v)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateVersion(w http.ResponseWriter, r *http.Request) {
	var v docmodule.Version
	if !h.decodeJSON(w, r, &v) {
		return
	}
	vars := mux.Vars(r)
	v.Version = vars["version"]
	updated, err := h.catalog.UpdateVersion(r.Context(), middleware.GetPrincipal(r.Context()), vars["id"], v)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	removed, err := h.catalog.DeleteVersion(r.Context(), middleware.GetPrincipal(r.Context()), vars["id"], vars["version"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]bool{"deleted": removed})
}
