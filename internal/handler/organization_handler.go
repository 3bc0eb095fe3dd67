// internal/handler/organization_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicebridge/voicebridge-backend/internal/auth"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

type OrganizationHandler struct {
	Service *service.OrganizationService
}

func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.OrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	org, err := h.Service.Create(input, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Service.List(queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": orgs})
}

func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.OrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	org, err := h.Service.Update(chi.URLParam(r, "id"), input, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
