// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicebridge/voicebridge-backend/internal/auth"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers
type CampaignHandler struct {
	Service *service.CampaignService
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input service.CampaignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	result, err := h.Service.Create(input, actor.ID, actor.IsSuperuser)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	campaigns, err := h.Service.List(actor, skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  campaigns,
		"skip":  skip,
		"limit": limit,
	})
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign takes a full-replace style body; the id in the body, when
// present, must match the path.
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}
	if bodyID, ok := fields["id"].(string); ok && bodyID != "" && bodyID != id {
		writeError(w, appErrors.NewValidation("id in body does not match path"))
		return
	}

	result, err := h.Service.Update(id, fields, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
