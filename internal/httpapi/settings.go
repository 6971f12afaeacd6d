package httpapi

import (
	"net/http"

	"github.com/docuforge/doc_portal/internal/domain/settings"
	"github.com/docuforge/doc_portal/internal/httputil"
	"github.com/docuforge/doc_portal/internal/middleware"
)

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	app, err := h.appconfig.Get(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, app)
}

// handleUpdateSettings replaces the stored settings wholesale.
func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var app settings.App
	if !h.decodeJSON(w, r, &app) {
		return
	}
	updated, err := h.appconfig.Update(r.Context(), middleware.GetPrincipal(r.Context()), app)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, updated)
}
