// internal/handler/role_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicebridge/voicebridge-backend/internal/auth"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

type RoleHandler struct {
	Service *service.RoleService
}

func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	role, err := h.Service.Create(input, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	globalOnly := r.URL.Query().Get("global") == "true"

	roles, err := h.Service.List(orgID, globalOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": roles})
}

func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	role, err := h.Service.Update(chi.URLParam(r, "id"), input, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
